package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/example/frychicken/internal/models"
	"github.com/example/frychicken/internal/store/memstore"
)

type testEnv struct {
	store         *memstore.Store
	points        *PointsService
	notifications *NotificationService
	lifecycle     *LifecycleService
	claims        *ClaimService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := memstore.New()
	points := NewPointsService(st, true, 10)
	notifications := NewNotificationService(st)
	lifecycle := NewLifecycleService(st, points, notifications, 5*time.Minute)
	claims := NewClaimService(st, notifications)

	return &testEnv{
		store:         st,
		points:        points,
		notifications: notifications,
		lifecycle:     lifecycle,
		claims:        claims,
	}
}

// seedOrder inserts an order directly into the store so tests can start from
// any lifecycle stage.
func (e *testEnv) seedOrder(t *testing.T, order *models.Order) *models.Order {
	t.Helper()

	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if order.DeliveryType == "" {
		order.DeliveryType = models.DeliveryTypeDelivery
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = models.PaymentMethodCash
	}
	if order.OrderNumber == "" {
		seq, err := e.store.NextOrderNumber()
		if err != nil {
			t.Fatalf("next order number: %v", err)
		}
		order.OrderNumber = orderNumber(seq)
	}
	if err := e.store.CreateOrder(order); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func (e *testEnv) seedCourier(t *testing.T, branchID uuid.UUID) *models.DeliveryUser {
	t.Helper()

	courier := &models.DeliveryUser{
		Name:     "Test Courier",
		Phone:    uuid.NewString(),
		BranchID: branchID,
		Status:   models.CourierStatusApproved,
		IsActive: true,
	}
	e.store.PutCourier(courier)
	return courier
}

func (e *testEnv) mustGetOrder(t *testing.T, id uuid.UUID) *models.Order {
	t.Helper()

	order, err := e.store.GetOrder(id)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	return order
}
