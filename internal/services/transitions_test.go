package services

import (
	"testing"

	"github.com/example/frychicken/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		role, from, to string
		want           bool
	}{
		// Branch flow
		{models.RoleBranch, models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{models.RoleBranch, models.OrderStatusPending, models.OrderStatusPreparing, true},
		{models.RoleBranch, models.OrderStatusConfirmed, models.OrderStatusPreparing, true},
		{models.RoleBranch, models.OrderStatusPreparing, models.OrderStatusReady, true},
		{models.RoleBranch, models.OrderStatusReady, models.OrderStatusDispatched, true},
		{models.RoleBranch, models.OrderStatusPending, models.OrderStatusRejected, true},
		{models.RoleBranch, models.OrderStatusPending, models.OrderStatusDispatched, false},
		{models.RoleBranch, models.OrderStatusPending, models.OrderStatusDelivered, false},
		{models.RoleBranch, models.OrderStatusDispatched, models.OrderStatusDelivered, false},

		// Courier flow
		{models.RoleDelivery, models.OrderStatusPreparing, models.OrderStatusDispatched, true},
		{models.RoleDelivery, models.OrderStatusDispatched, models.OrderStatusDelivered, true},
		{models.RoleDelivery, models.OrderStatusDispatched, models.OrderStatusRejected, true},
		{models.RoleDelivery, models.OrderStatusPending, models.OrderStatusPreparing, false},
		{models.RoleDelivery, models.OrderStatusReady, models.OrderStatusDispatched, false},
		{models.RoleDelivery, models.OrderStatusPreparing, models.OrderStatusDelivered, false},

		// Customer flow
		{models.RoleCustomer, models.OrderStatusPending, models.OrderStatusRejected, true},
		{models.RoleCustomer, models.OrderStatusDispatched, models.OrderStatusRejected, true},
		{models.RoleCustomer, models.OrderStatusPending, models.OrderStatusPreparing, false},
		{models.RoleCustomer, models.OrderStatusDispatched, models.OrderStatusDelivered, false},

		// Admin gets the union of role tables
		{models.RoleAdmin, models.OrderStatusPending, models.OrderStatusPreparing, true},
		{models.RoleAdmin, models.OrderStatusDispatched, models.OrderStatusDelivered, true},
		{models.RoleAdmin, models.OrderStatusPending, models.OrderStatusDelivered, false},

		// Terminal states have no successors
		{models.RoleAdmin, models.OrderStatusDelivered, models.OrderStatusRejected, false},
		{models.RoleAdmin, models.OrderStatusRejected, models.OrderStatusPending, false},

		// Unknown role / empty statuses
		{"unknown", models.OrderStatusPending, models.OrderStatusPreparing, false},
		{models.RoleBranch, "", models.OrderStatusPreparing, false},
		{models.RoleBranch, models.OrderStatusPending, "", false},
	}

	for _, tt := range tests {
		got := CanTransition(tt.role, tt.from, tt.to)
		if got != tt.want {
			t.Errorf("CanTransition(%q, %q, %q) = %v, want %v", tt.role, tt.from, tt.to, got, tt.want)
		}
	}
}
