package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/example/frychicken/internal/models"
)

func TestEarnPointsFromOrder(t *testing.T) {
	env := newTestEnv(t)
	customerID := uuid.New()

	order := &models.Order{
		CustomerID: customerID,
		Status:     models.OrderStatusDelivered,
		Total:      250.75,
	}
	if err := env.points.EarnPointsFromOrder(order); err != nil {
		t.Fatalf("earn: %v", err)
	}

	points, err := env.points.GetUserPoints(customerID)
	if err != nil {
		t.Fatalf("get points: %v", err)
	}
	if points.AvailablePoints != 250 || points.TotalPoints != 250 {
		t.Errorf("got available=%d total=%d, want 250/250", points.AvailablePoints, points.TotalPoints)
	}
}

func TestEarnPointsSkipsNonDelivered(t *testing.T) {
	env := newTestEnv(t)
	customerID := uuid.New()

	order := &models.Order{CustomerID: customerID, Status: models.OrderStatusDispatched, Total: 100}
	if err := env.points.EarnPointsFromOrder(order); err != nil {
		t.Fatalf("earn: %v", err)
	}

	points, _ := env.points.GetUserPoints(customerID)
	if points.TotalPoints != 0 {
		t.Errorf("non-delivered order earned %d points", points.TotalPoints)
	}
}

func TestEarnPointsDisabled(t *testing.T) {
	env := newTestEnv(t)
	disabled := NewPointsService(env.store, false, 10)
	customerID := uuid.New()

	order := &models.Order{CustomerID: customerID, Status: models.OrderStatusDelivered, Total: 100}
	if err := disabled.EarnPointsFromOrder(order); err != nil {
		t.Fatalf("earn: %v", err)
	}

	points, _ := disabled.GetUserPoints(customerID)
	if points.TotalPoints != 0 {
		t.Errorf("disabled ledger earned %d points", points.TotalPoints)
	}
}

func TestPointsMonotonicity(t *testing.T) {
	env := newTestEnv(t)
	customerID := uuid.New()

	totals := []float64{10.5, 99.99, 1}
	var wantTotal int
	for _, total := range totals {
		order := &models.Order{CustomerID: customerID, Status: models.OrderStatusDelivered, Total: total}
		if err := env.points.EarnPointsFromOrder(order); err != nil {
			t.Fatalf("earn: %v", err)
		}
		wantTotal += int(total)
	}

	points, _ := env.points.GetUserPoints(customerID)
	if points.TotalPoints != wantTotal {
		t.Errorf("total = %d, want %d", points.TotalPoints, wantTotal)
	}

	// Redemption touches only the available balance.
	if _, err := env.points.RedeemPoints(customerID, 50); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	points, _ = env.points.GetUserPoints(customerID)
	if points.TotalPoints != wantTotal {
		t.Errorf("redeem changed lifetime total to %d", points.TotalPoints)
	}
	if points.AvailablePoints != wantTotal-50 {
		t.Errorf("available = %d, want %d", points.AvailablePoints, wantTotal-50)
	}
}

func TestRedeemInsufficient(t *testing.T) {
	env := newTestEnv(t)
	customerID := uuid.New()

	order := &models.Order{CustomerID: customerID, Status: models.OrderStatusDelivered, Total: 30}
	if err := env.points.EarnPointsFromOrder(order); err != nil {
		t.Fatalf("earn: %v", err)
	}

	if _, err := env.points.RedeemPoints(customerID, 31); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("redeem over balance: got %v, want ErrInsufficientPoints", err)
	}

	// Failed redemption must not mutate.
	points, _ := env.points.GetUserPoints(customerID)
	if points.AvailablePoints != 30 || points.TotalPoints != 30 {
		t.Errorf("failed redeem mutated balance: available=%d total=%d", points.AvailablePoints, points.TotalPoints)
	}
}

func TestRedeemConversionValue(t *testing.T) {
	env := newTestEnv(t)
	customerID := uuid.New()

	// Delivered order with total 250.00 earns 250 points; redeeming 100 at
	// rate 10 is worth 10 currency units and leaves 150 available.
	order := &models.Order{CustomerID: customerID, Status: models.OrderStatusDelivered, Total: 250.00}
	if err := env.points.EarnPointsFromOrder(order); err != nil {
		t.Fatalf("earn: %v", err)
	}

	value, err := env.points.RedeemPoints(customerID, 100)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if value != 10 {
		t.Errorf("redeemed value = %d, want 10", value)
	}

	points, _ := env.points.GetUserPoints(customerID)
	if points.AvailablePoints != 150 {
		t.Errorf("available = %d, want 150", points.AvailablePoints)
	}
	if points.TotalPoints != 250 {
		t.Errorf("total = %d, want 250", points.TotalPoints)
	}
}

func TestGetUserPointsLazyCreate(t *testing.T) {
	env := newTestEnv(t)
	customerID := uuid.New()

	points, err := env.points.GetUserPoints(customerID)
	if err != nil {
		t.Fatalf("get points: %v", err)
	}
	if points.AvailablePoints != 0 || points.TotalPoints != 0 {
		t.Errorf("fresh account has non-zero balance: %+v", points)
	}
	if points.UserID != customerID {
		t.Errorf("account bound to %s, want %s", points.UserID, customerID)
	}
}
