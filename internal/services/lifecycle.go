package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/frychicken/internal/models"
	"github.com/example/frychicken/internal/store"
)

// DefaultCancelWindow is how long after creation a customer may cancel.
const DefaultCancelWindow = 5 * time.Minute

// Actor is the authenticated caller of a lifecycle operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// LifecycleService validates and applies order state transitions, records
// the cancellation/delay/rating events, and mints loyalty points when an
// order reaches delivered.
type LifecycleService struct {
	store         store.Store
	points        *PointsService
	notifications *NotificationService
	cancelWindow  time.Duration
}

// NewLifecycleService constructs the engine. A non-positive window falls
// back to DefaultCancelWindow.
func NewLifecycleService(st store.Store, points *PointsService, notifications *NotificationService, cancelWindow time.Duration) *LifecycleService {
	if cancelWindow <= 0 {
		cancelWindow = DefaultCancelWindow
	}
	return &LifecycleService{
		store:         st,
		points:        points,
		notifications: notifications,
		cancelWindow:  cancelWindow,
	}
}

// orderNumber formats a counter value as a human-readable order number.
func orderNumber(seq int64) string {
	return fmt.Sprintf("FRY-%06d", seq)
}

// OrderItemInput is one line of a new order.
type OrderItemInput struct {
	ProductID         string  `json:"productId"`
	ProductName       string  `json:"productName"`
	Quantity          int     `json:"quantity"`
	Price             float64 `json:"price"`
	PointsUsed        int     `json:"pointsUsed"`
	IsPrizeRedemption bool    `json:"isPrizeRedemption"`
}

// CreateOrderInput is everything a customer submits when placing an order.
type CreateOrderInput struct {
	CustomerID    uuid.UUID
	BranchID      uuid.UUID
	DeliveryType  string
	PaymentMethod string
	DeliveryFee   float64
	Discount      float64
	Items         []OrderItemInput
}

// CreateOrder persists a new pending order with a sequential number drawn
// from the store counter, then debits any prize-redemption points. The order
// is persisted first: if the debit fails the order is rejected in place, so
// points are never lost to a phantom order.
func (s *LifecycleService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.DeliveryType != models.DeliveryTypePickup && input.DeliveryType != models.DeliveryTypeDelivery {
		return nil, fmt.Errorf("invalid delivery type %q", input.DeliveryType)
	}
	if input.PaymentMethod != models.PaymentMethodCash && input.PaymentMethod != models.PaymentMethodTransfer {
		return nil, fmt.Errorf("invalid payment method %q", input.PaymentMethod)
	}
	if len(input.Items) == 0 {
		return nil, errors.New("order has no items")
	}

	order := models.Order{
		CustomerID:    input.CustomerID,
		BranchID:      input.BranchID,
		DeliveryType:  input.DeliveryType,
		PaymentMethod: input.PaymentMethod,
		DeliveryFee:   input.DeliveryFee,
		Discount:      input.Discount,
		Status:        models.OrderStatusPending,
	}

	var subtotal float64
	var pointsRedeemed int
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity for %q", item.ProductName)
		}
		subtotal += item.Price * float64(item.Quantity)
		pointsRedeemed += item.PointsUsed
		order.Items = append(order.Items, models.OrderItem{
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			Quantity:          item.Quantity,
			Price:             item.Price,
			PointsUsed:        item.PointsUsed,
			IsPrizeRedemption: item.IsPrizeRedemption,
		})
	}

	order.Subtotal = subtotal
	order.TotalPointsRedeemed = pointsRedeemed
	order.Total = subtotal + input.DeliveryFee - input.Discount
	if order.Total < 0 {
		order.Total = 0
	}

	seq, err := s.store.NextOrderNumber()
	if err != nil {
		return nil, err
	}
	order.OrderNumber = orderNumber(seq)

	if err := s.store.CreateOrder(&order); err != nil {
		return nil, err
	}

	if pointsRedeemed > 0 {
		if _, err := s.points.RedeemPoints(order.CustomerID, pointsRedeemed); err != nil {
			// Compensate: the order exists but its prize items are not
			// covered, so reject it in place instead of leaving it live.
			if _, terr := s.store.TransitionStatus(order.ID, models.OrderStatusPending, models.OrderStatusRejected, nil); terr != nil {
				log.Printf("[Lifecycle] Failed to reject order %s after redeem failure: %v", order.OrderNumber, terr)
			}
			return nil, err
		}
	}

	log.Printf("[Lifecycle] Created order %s for customer %s", order.OrderNumber, order.CustomerID)
	return &order, nil
}

// UpdateOrderStatus applies a single status transition on behalf of actor.
// The transition must be legal for the actor's role from the order's current
// status; the write itself is conditional on that status, so a concurrent
// change surfaces as ErrStatusConflict instead of a silent overwrite.
//
// Transitioning into delivered mints loyalty points exactly once: the flag
// travels in the same conditional write that flips the status, and only the
// attempt that actually flipped it earns.
func (s *LifecycleService) UpdateOrderStatus(actor Actor, orderID uuid.UUID, newStatus string, deliveryID *uuid.UUID, assignedByBranch bool) error {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if order.Terminal() {
		return fmt.Errorf("%w: order %s is %s", ErrIllegalTransition, order.OrderNumber, order.Status)
	}
	if !CanTransition(actor.Role, order.Status, newStatus) {
		return fmt.Errorf("%w: %s may not move %s from %s to %s",
			ErrIllegalTransition, actor.Role, order.OrderNumber, order.Status, newStatus)
	}

	if actor.Role == models.RoleDelivery {
		if order.DeliveryID == nil || *order.DeliveryID != actor.ID {
			return ErrNotOrderCourier
		}
		// A branch-assigned order is locked until the courier confirms
		// receipt; no completing or rejecting it beforehand.
		if order.AssignedByBranch && !order.DeliveryReceived {
			return ErrReceiptRequired
		}
	}

	updates := map[string]interface{}{}
	if deliveryID != nil {
		updates["delivery_id"] = *deliveryID
		updates["assigned_by_branch"] = assignedByBranch
		updates["delivery_requested_by"] = nil
		if assignedByBranch {
			// A branch-initiated assignment is self-approving.
			updates["request_approved"] = true
		}
	}
	if newStatus == models.OrderStatusDelivered {
		updates["points_awarded"] = true
	}

	ok, err := s.store.TransitionStatus(orderID, order.Status, newStatus, updates)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStatusConflict
	}

	if newStatus == models.OrderStatusDelivered && !order.PointsAwarded {
		order.Status = models.OrderStatusDelivered
		if err := s.points.EarnPointsFromOrder(order); err != nil {
			log.Printf("[Lifecycle] Failed to earn points for order %s: %v", order.OrderNumber, err)
			return err
		}
	}

	return nil
}

// AddOrderCancellation lets the owning customer cancel within the window,
// measured from order creation. On success the order is rejected, the
// cancellation event recorded, and the branch notified.
func (s *LifecycleService) AddOrderCancellation(orderID, customerID uuid.UUID, reason string) (*models.OrderCancellation, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.CustomerID != customerID {
		return nil, ErrNotOrderCustomer
	}
	if order.Terminal() {
		return nil, fmt.Errorf("%w: order %s is %s", ErrIllegalTransition, order.OrderNumber, order.Status)
	}

	elapsed := time.Since(order.CreatedAt)
	if elapsed > s.cancelWindow {
		return nil, fmt.Errorf("%w: %s since order creation, window is %s",
			ErrWindowExpired, elapsed.Round(time.Second), s.cancelWindow)
	}

	ok, err := s.store.TransitionStatus(orderID, order.Status, models.OrderStatusRejected, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStatusConflict
	}

	rec := models.OrderCancellation{
		OrderID:    orderID,
		CustomerID: customerID,
		Reason:     reason,
	}
	if err := s.store.CreateCancellation(&rec); err != nil {
		return nil, err
	}

	s.notifications.NotifyOrderCancelled(order, reason)
	return &rec, nil
}

// AddOrderDelay records a courier flagging a late delivery. Order status is
// untouched; the branch gets a notification. Branch-assigned orders need the
// receipt handshake before any delay can be flagged.
func (s *LifecycleService) AddOrderDelay(orderID, deliveryID uuid.UUID, delayMinutes int, reason string) (*models.OrderDelay, error) {
	if delayMinutes <= 0 {
		return nil, errors.New("delay must be positive")
	}

	order, err := s.store.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.DeliveryID == nil || *order.DeliveryID != deliveryID {
		return nil, ErrNotOrderCourier
	}
	if order.AssignedByBranch && !order.DeliveryReceived {
		return nil, ErrReceiptRequired
	}

	rec := models.OrderDelay{
		OrderID:      orderID,
		DeliveryID:   deliveryID,
		DelayMinutes: delayMinutes,
		Reason:       reason,
	}
	if err := s.store.CreateDelay(&rec); err != nil {
		return nil, err
	}

	s.notifications.NotifyOrderDelayed(order, deliveryID, delayMinutes, reason)
	return &rec, nil
}

// RejectOrder forces an order to rejected on behalf of actor and notifies
// the branch with the supplied reason.
func (s *LifecycleService) RejectOrder(actor Actor, orderID uuid.UUID, reason string) error {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if err := s.UpdateOrderStatus(actor, orderID, models.OrderStatusRejected, nil, false); err != nil {
		return err
	}

	var courierID *uuid.UUID
	if actor.Role == models.RoleDelivery {
		id := actor.ID
		courierID = &id
	}
	s.notifications.NotifyOrderRejected(order, courierID, reason)
	return nil
}

// AddDeliveryRating records the customer's rating of a delivered order.
func (s *LifecycleService) AddDeliveryRating(orderID, deliveryID, customerID uuid.UUID, rating int, reason string) (*models.DeliveryRating, error) {
	if rating < 1 || rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	order, err := s.store.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, ErrNotOrderCustomer
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, fmt.Errorf("%w: order %s is %s, not delivered", ErrIllegalTransition, order.OrderNumber, order.Status)
	}
	if order.DeliveryID == nil || *order.DeliveryID != deliveryID {
		return nil, ErrNotOrderCourier
	}

	rec := models.DeliveryRating{
		OrderID:    orderID,
		DeliveryID: deliveryID,
		CustomerID: customerID,
		Rating:     rating,
		Reason:     reason,
	}
	if err := s.store.CreateRating(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
