package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/example/frychicken/internal/models"
)

// ErrNotFound is returned by point reads when the record does not exist.
var ErrNotFound = errors.New("record not found")

// OrderStore is the single source of truth for orders. Conditional methods
// return false instead of writing when their guard no longer holds, so the
// engines never overwrite a concurrent assignment (the store offers no
// compare-and-swap of its own beyond these).
type OrderStore interface {
	CreateOrder(order *models.Order) error
	GetOrder(id uuid.UUID) (*models.Order, error)

	// NextOrderNumber atomically bumps the order number sequence.
	NextOrderNumber() (int64, error)

	OrdersByBranch(branchID uuid.UUID, status string, limit, offset int) ([]models.Order, int64, error)
	OrdersByCustomer(customerID uuid.UUID, status string, limit, offset int) ([]models.Order, int64, error)
	OrdersByCourier(courierID uuid.UUID, statuses ...string) ([]models.Order, error)

	// AvailableForClaim lists unassigned delivery orders in preparation at a branch.
	AvailableForClaim(branchID uuid.UUID) ([]models.Order, error)

	// CountActiveByCourier counts orders held by the courier in preparing or
	// dispatched state, excluding excludeID.
	CountActiveByCourier(courierID, excludeID uuid.UUID) (int64, error)

	// ClaimIfUnassigned assigns the courier and dispatches the order only if
	// it is still an unassigned preparing order.
	ClaimIfUnassigned(orderID, courierID uuid.UUID) (bool, error)

	// RequestClaim parks a courier's claim for branch approval, only if the
	// order is still unassigned.
	RequestClaim(orderID, courierID uuid.UUID) (bool, error)

	// PromoteClaim turns a parked claim into a branch-approved assignment,
	// only if the request is still pending and the order unassigned.
	PromoteClaim(orderID, courierID uuid.UUID) (bool, error)

	// ClearClaim drops a parked claim, leaving the order reclaimable.
	ClearClaim(orderID uuid.UUID) error

	// AssignCourier is the branch-push path: courier onto a ready order,
	// marked assignedByBranch and self-approved.
	AssignCourier(orderID, courierID uuid.UUID) (bool, error)

	// ConfirmReceived records the courier handshake on a branch-assigned order.
	ConfirmReceived(orderID, courierID uuid.UUID) (bool, error)

	// TransitionStatus moves the order from one status to another together
	// with extra column updates, only if the order still has the from status.
	TransitionStatus(orderID uuid.UUID, from, to string, updates map[string]interface{}) (bool, error)
}

// PointsStore persists per-customer loyalty balances.
type PointsStore interface {
	// GetOrCreatePoints lazily creates a zero balance on first access.
	GetOrCreatePoints(userID uuid.UUID) (*models.UserPoints, error)

	// AddPoints increments both available and lifetime totals.
	AddPoints(userID uuid.UUID, points int) error

	// DeductPoints decrements the available balance only if it covers amount.
	// Lifetime total is untouched.
	DeductPoints(userID uuid.UUID, amount int) (bool, error)
}

// NotificationStore is the append-only branch notification sink.
type NotificationStore interface {
	AppendNotification(n *models.BranchNotification) error
	NotificationsByBranch(branchID uuid.UUID, limit, offset int) ([]models.BranchNotification, int64, error)
	MarkNotificationRead(id uuid.UUID) error
	UnreadNotificationCount(branchID uuid.UUID) (int64, error)
}

// EventStore persists the immutable cancellation, delay and rating records.
type EventStore interface {
	CreateCancellation(rec *models.OrderCancellation) error
	CreateDelay(rec *models.OrderDelay) error
	CreateRating(rec *models.DeliveryRating) error
}

// CourierStore exposes the courier reads the claim engine needs.
type CourierStore interface {
	GetCourier(id uuid.UUID) (*models.DeliveryUser, error)
}

// Store is the full persistence surface consumed by the engines.
type Store interface {
	OrderStore
	PointsStore
	NotificationStore
	EventStore
	CourierStore
}
