package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/example/frychicken/internal/models"
	"github.com/example/frychicken/internal/store"
)

// ClaimService arbitrates courier claims on unassigned orders. A courier
// with no active load is assigned directly; a courier already carrying an
// order is parked behind branch approval. Every assignment is a conditional
// write, so two couriers racing on one order produce one winner and one
// ErrOrderClaimed, never a silent overwrite.
type ClaimService struct {
	store         store.Store
	notifications *NotificationService
}

// NewClaimService constructs the arbitration engine.
func NewClaimService(st store.Store, notifications *NotificationService) *ClaimService {
	return &ClaimService{store: st, notifications: notifications}
}

// ClaimResult tells the courier whether the claim went through or waits for
// the branch.
type ClaimResult struct {
	NeedsApproval bool `json:"needsApproval"`
}

// RequestOrderClaim handles a courier asking for an unassigned preparing
// order. Couriers holding at least one active order (preparing or
// dispatched, excluding this one) need branch approval; idle couriers are
// dispatched immediately.
//
// A parked request does not reserve the order: another courier may still
// claim it outright while the first waits.
func (s *ClaimService) RequestOrderClaim(orderID, courierID uuid.UUID) (*ClaimResult, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	courier, err := s.store.GetCourier(courierID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCourierNotFound
		}
		return nil, err
	}
	if courier.Status != models.CourierStatusApproved || !courier.IsActive {
		return nil, ErrCourierNotEligible
	}

	if order.DeliveryID != nil {
		return nil, ErrOrderClaimed
	}
	if order.Status != models.OrderStatusPreparing || order.DeliveryType != models.DeliveryTypeDelivery {
		return nil, fmt.Errorf("%w: order %s is not claimable", ErrIllegalTransition, order.OrderNumber)
	}

	activeOrders, err := s.store.CountActiveByCourier(courierID, orderID)
	if err != nil {
		return nil, err
	}

	if activeOrders >= 1 {
		ok, err := s.store.RequestClaim(orderID, courierID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrOrderClaimed
		}
		s.notifications.NotifyClaimRequest(order, courier, activeOrders)
		log.Printf("[Claims] Courier %s queued for order %s (%d active)", courier.Name, order.OrderNumber, activeOrders)
		return &ClaimResult{NeedsApproval: true}, nil
	}

	ok, err := s.store.ClaimIfUnassigned(orderID, courierID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOrderClaimed
	}
	log.Printf("[Claims] Courier %s claimed order %s", courier.Name, order.OrderNumber)
	return &ClaimResult{NeedsApproval: false}, nil
}

// ApproveOrderClaim is the branch verdict on a parked claim. Approval
// promotes the request into a branch-approved assignment; denial clears it
// and leaves the order reclaimable. Approving a request after the order was
// claimed by someone else fails with ErrOrderClaimed.
func (s *ClaimService) ApproveOrderClaim(orderID uuid.UUID, approved bool) error {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if order.DeliveryRequestedBy == nil {
		if order.DeliveryID != nil {
			// The request was superseded by a direct claim.
			return ErrOrderClaimed
		}
		return ErrNoClaimRequest
	}

	if !approved {
		return s.store.ClearClaim(orderID)
	}

	ok, err := s.store.PromoteClaim(orderID, *order.DeliveryRequestedBy)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOrderClaimed
	}
	log.Printf("[Claims] Branch approved claim on order %s for courier %s", order.OrderNumber, order.DeliveryRequestedBy)
	return nil
}

// ConfirmAssignDelivery is the branch-push path: a specific courier is put
// on a ready order, bypassing arbitration. The assignment is marked
// branch-initiated, so the courier must confirm receipt before completing.
func (s *ClaimService) ConfirmAssignDelivery(orderID, courierID uuid.UUID) error {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	courier, err := s.store.GetCourier(courierID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCourierNotFound
		}
		return err
	}
	if courier.Status != models.CourierStatusApproved {
		return ErrCourierNotEligible
	}

	if order.DeliveryID != nil {
		return ErrOrderClaimed
	}
	if order.Status != models.OrderStatusReady {
		return fmt.Errorf("%w: order %s is %s, not ready", ErrIllegalTransition, order.OrderNumber, order.Status)
	}

	ok, err := s.store.AssignCourier(orderID, courierID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOrderClaimed
	}
	log.Printf("[Claims] Branch assigned order %s to courier %s", order.OrderNumber, courier.Name)
	return nil
}

// ConfirmReceived records the courier handshake on a branch-assigned order.
// Courier-pulled orders never need it.
func (s *ClaimService) ConfirmReceived(orderID, courierID uuid.UUID) error {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if order.DeliveryID == nil || *order.DeliveryID != courierID {
		return ErrNotOrderCourier
	}
	if !order.AssignedByBranch {
		return fmt.Errorf("%w: order %s was courier-pulled, no handshake needed", ErrIllegalTransition, order.OrderNumber)
	}

	ok, err := s.store.ConfirmReceived(orderID, courierID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStatusConflict
	}
	return nil
}
