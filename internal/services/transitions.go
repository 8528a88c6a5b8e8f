package services

import "github.com/example/frychicken/internal/models"

// roleTransitions is the single place that says which role may move an order
// from one status to another. Handlers only supply the authenticated actor;
// no legality decision lives in the UI layer.
var roleTransitions = map[string]map[string][]string{
	models.RoleBranch: {
		models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusPreparing, models.OrderStatusRejected},
		models.OrderStatusConfirmed: {models.OrderStatusPreparing, models.OrderStatusRejected},
		models.OrderStatusPreparing: {models.OrderStatusReady, models.OrderStatusDispatched, models.OrderStatusRejected},
		models.OrderStatusReady:     {models.OrderStatusDispatched, models.OrderStatusRejected},
	},
	models.RoleDelivery: {
		models.OrderStatusPreparing:  {models.OrderStatusDispatched},
		models.OrderStatusDispatched: {models.OrderStatusDelivered, models.OrderStatusRejected},
	},
	models.RoleCustomer: {
		models.OrderStatusPending:    {models.OrderStatusRejected},
		models.OrderStatusConfirmed:  {models.OrderStatusRejected},
		models.OrderStatusPreparing:  {models.OrderStatusRejected},
		models.OrderStatusReady:      {models.OrderStatusRejected},
		models.OrderStatusDispatched: {models.OrderStatusRejected},
	},
}

func init() {
	// Admins may perform any transition some role is allowed to.
	admin := make(map[string][]string)
	for _, table := range roleTransitions {
		for from, tos := range table {
			for _, to := range tos {
				if !containsStatus(admin[from], to) {
					admin[from] = append(admin[from], to)
				}
			}
		}
	}
	roleTransitions[models.RoleAdmin] = admin
}

// CanTransition reports whether role may move an order from one status to
// another. Terminal states have no successors.
func CanTransition(role, from, to string) bool {
	table, ok := roleTransitions[role]
	if !ok {
		return false
	}
	return containsStatus(table[from], to)
}

func containsStatus(list []string, status string) bool {
	for _, s := range list {
		if s == status {
			return true
		}
	}
	return false
}
