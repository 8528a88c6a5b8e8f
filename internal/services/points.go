package services

import (
	"log"
	"math"

	"github.com/google/uuid"

	"github.com/example/frychicken/internal/models"
	"github.com/example/frychicken/internal/store"
)

// DefaultConversionRate is how many points redeem for one unit of currency.
const DefaultConversionRate = 10

// PointsService is the per-customer loyalty ledger. One unit of order total
// earns one point on delivery; redemption never touches the lifetime total.
type PointsService struct {
	store          store.PointsStore
	enabled        bool
	conversionRate int
}

// NewPointsService constructs the ledger. A non-positive rate falls back to
// DefaultConversionRate.
func NewPointsService(st store.PointsStore, enabled bool, conversionRate int) *PointsService {
	if conversionRate <= 0 {
		conversionRate = DefaultConversionRate
	}
	return &PointsService{store: st, enabled: enabled, conversionRate: conversionRate}
}

// GetUserPoints returns the customer's balance, creating a zero balance on
// first access.
func (s *PointsService) GetUserPoints(userID uuid.UUID) (*models.UserPoints, error) {
	return s.store.GetOrCreatePoints(userID)
}

// EarnPointsFromOrder mints floor(total) points for a delivered order.
// No-op when the points system is disabled or the order is not delivered.
func (s *PointsService) EarnPointsFromOrder(order *models.Order) error {
	if !s.enabled || order.Status != models.OrderStatusDelivered {
		return nil
	}

	points := int(math.Floor(order.Total))
	if points <= 0 {
		return nil
	}

	if err := s.store.AddPoints(order.CustomerID, points); err != nil {
		return err
	}
	log.Printf("[Points] Earned %d points for user %s from order %s", points, order.CustomerID, order.OrderNumber)
	return nil
}

// RedeemPoints debits amount from the available balance and returns the
// equivalent currency value, floor(amount / conversionRate). The lifetime
// total is unaffected; an uncovered amount fails without mutation.
func (s *PointsService) RedeemPoints(userID uuid.UUID, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInsufficientPoints
	}

	ok, err := s.store.DeductPoints(userID, amount)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrInsufficientPoints
	}

	return amount / s.conversionRate, nil
}

// ConversionRate exposes the configured redeem rate.
func (s *PointsService) ConversionRate() int {
	return s.conversionRate
}

// Enabled reports whether earning is switched on.
func (s *PointsService) Enabled() bool {
	return s.enabled
}
