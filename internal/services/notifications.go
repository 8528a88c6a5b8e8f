package services

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/example/frychicken/internal/models"
	"github.com/example/frychicken/internal/store"
)

// NotificationService writes the append-only branch notification feed. It is
// a side channel: a failed append is logged, never allowed to fail the order
// operation that produced it.
type NotificationService struct {
	store store.NotificationStore
}

// NewNotificationService constructs the sink.
func NewNotificationService(st store.NotificationStore) *NotificationService {
	return &NotificationService{store: st}
}

// NotifyClaimRequest tells the branch a busy courier wants another order.
func (s *NotificationService) NotifyClaimRequest(order *models.Order, courier *models.DeliveryUser, activeOrders int64) {
	courierID := courier.ID
	s.append(&models.BranchNotification{
		BranchID:   order.BranchID,
		Type:       models.NotificationClaimRequest,
		OrderID:    order.ID,
		DeliveryID: &courierID,
		Title:      "Delivery claim needs approval",
		Message: fmt.Sprintf("%s requested order %s while carrying %d active order(s)",
			courier.Name, order.OrderNumber, activeOrders),
	})
}

// NotifyOrderCancelled tells the branch a customer cancelled in time.
func (s *NotificationService) NotifyOrderCancelled(order *models.Order, reason string) {
	s.append(&models.BranchNotification{
		BranchID: order.BranchID,
		Type:     models.NotificationOrderCancelled,
		OrderID:  order.ID,
		Title:    "Order cancelled",
		Message:  fmt.Sprintf("Order %s was cancelled by the customer: %s", order.OrderNumber, reason),
	})
}

// NotifyOrderDelayed tells the branch a courier flagged a late delivery.
func (s *NotificationService) NotifyOrderDelayed(order *models.Order, courierID uuid.UUID, minutes int, reason string) {
	courier := courierID
	s.append(&models.BranchNotification{
		BranchID:   order.BranchID,
		Type:       models.NotificationOrderDelayed,
		OrderID:    order.ID,
		DeliveryID: &courier,
		Title:      "Delivery delayed",
		Message:    fmt.Sprintf("Order %s delayed by %d minutes: %s", order.OrderNumber, minutes, reason),
	})
}

// NotifyOrderRejected tells the branch an order was rejected.
func (s *NotificationService) NotifyOrderRejected(order *models.Order, courierID *uuid.UUID, reason string) {
	s.append(&models.BranchNotification{
		BranchID:   order.BranchID,
		Type:       models.NotificationOrderRejected,
		OrderID:    order.ID,
		DeliveryID: courierID,
		Title:      "Order rejected",
		Message:    fmt.Sprintf("Order %s was rejected: %s", order.OrderNumber, reason),
	})
}

func (s *NotificationService) append(n *models.BranchNotification) {
	if err := s.store.AppendNotification(n); err != nil {
		log.Printf("[Notifications] Failed to append %s for order %s: %v", n.Type, n.OrderID, err)
	}
}

// ByBranch lists a branch's notifications, newest first.
func (s *NotificationService) ByBranch(branchID uuid.UUID, limit, offset int) ([]models.BranchNotification, int64, error) {
	return s.store.NotificationsByBranch(branchID, limit, offset)
}

// MarkRead flags a single notification as read.
func (s *NotificationService) MarkRead(id uuid.UUID) error {
	return s.store.MarkNotificationRead(id)
}

// UnreadCount returns the branch's unread badge count.
func (s *NotificationService) UnreadCount(branchID uuid.UUID) (int64, error) {
	return s.store.UnreadNotificationCount(branchID)
}
