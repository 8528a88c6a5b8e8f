package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/example/frychicken/internal/models"
)

func TestIdleCourierClaimsDirectly(t *testing.T) {
	env := newTestEnv(t)
	branchID := uuid.New()
	courier := env.seedCourier(t, branchID)

	order := env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusPreparing,
	})

	result, err := env.claims.RequestOrderClaim(order.ID, courier.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if result.NeedsApproval {
		t.Errorf("idle courier parked for approval")
	}

	got := env.mustGetOrder(t, order.ID)
	if got.Status != models.OrderStatusDispatched {
		t.Errorf("status = %q, want dispatched", got.Status)
	}
	if got.DeliveryID == nil || *got.DeliveryID != courier.ID {
		t.Errorf("deliveryId not set to claiming courier")
	}
	if got.AssignedByBranch {
		t.Errorf("courier-pulled order marked branch-assigned")
	}
}

func TestBusyCourierNeedsApproval(t *testing.T) {
	env := newTestEnv(t)
	branchID := uuid.New()
	courier := env.seedCourier(t, branchID)

	// Courier already carries a dispatched order.
	env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusDispatched,
		DeliveryID: &courier.ID,
	})
	order := env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusPreparing,
	})

	result, err := env.claims.RequestOrderClaim(order.ID, courier.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !result.NeedsApproval {
		t.Fatalf("busy courier assigned without approval")
	}

	got := env.mustGetOrder(t, order.ID)
	if got.DeliveryID != nil {
		t.Errorf("parked claim assigned the order")
	}
	if got.DeliveryRequestedBy == nil || *got.DeliveryRequestedBy != courier.ID {
		t.Errorf("deliveryRequestedBy not recorded")
	}
	if got.Status != models.OrderStatusPreparing {
		t.Errorf("parked claim moved status to %q", got.Status)
	}

	notifications, _, err := env.store.NotificationsByBranch(branchID, 10, 0)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notifications) != 1 || notifications[0].Type != models.NotificationClaimRequest {
		t.Errorf("expected one claim_request notification, got %+v", notifications)
	}
}

func TestApproveClaimPromotes(t *testing.T) {
	env := newTestEnv(t)
	branchID := uuid.New()
	courier := env.seedCourier(t, branchID)

	env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusDispatched,
		DeliveryID: &courier.ID,
	})
	order := env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusPreparing,
	})

	if _, err := env.claims.RequestOrderClaim(order.ID, courier.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := env.claims.ApproveOrderClaim(order.ID, true); err != nil {
		t.Fatalf("approve: %v", err)
	}

	got := env.mustGetOrder(t, order.ID)
	if got.DeliveryID == nil || *got.DeliveryID != courier.ID {
		t.Fatalf("approved claim did not assign the courier")
	}
	if !got.RequestApproved {
		t.Errorf("requestApproved not set")
	}
	if got.DeliveryRequestedBy != nil {
		t.Errorf("promoted claim left deliveryRequestedBy behind")
	}
}

func TestDenyClaimClears(t *testing.T) {
	env := newTestEnv(t)
	branchID := uuid.New()
	busy := env.seedCourier(t, branchID)
	idle := env.seedCourier(t, branchID)

	env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusDispatched,
		DeliveryID: &busy.ID,
	})
	order := env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusPreparing,
	})

	if _, err := env.claims.RequestOrderClaim(order.ID, busy.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := env.claims.ApproveOrderClaim(order.ID, false); err != nil {
		t.Fatalf("deny: %v", err)
	}

	got := env.mustGetOrder(t, order.ID)
	if got.DeliveryRequestedBy != nil || got.DeliveryID != nil {
		t.Fatalf("denied claim left assignment state: %+v", got)
	}

	// The order is reclaimable by anyone else.
	result, err := env.claims.RequestOrderClaim(order.ID, idle.ID)
	if err != nil {
		t.Fatalf("reclaim after denial: %v", err)
	}
	if result.NeedsApproval {
		t.Errorf("idle courier parked after denial")
	}
}

func TestApproveWithoutRequest(t *testing.T) {
	env := newTestEnv(t)

	order := env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		Status:     models.OrderStatusPreparing,
	})

	if err := env.claims.ApproveOrderClaim(order.ID, true); !errors.Is(err, ErrNoClaimRequest) {
		t.Fatalf("got %v, want ErrNoClaimRequest", err)
	}
}

func TestStaleApprovalFails(t *testing.T) {
	env := newTestEnv(t)
	branchID := uuid.New()
	busy := env.seedCourier(t, branchID)
	idle := env.seedCourier(t, branchID)

	env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusDispatched,
		DeliveryID: &busy.ID,
	})
	order := env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusPreparing,
	})

	// Busy courier parks a request, then an idle courier claims outright.
	if _, err := env.claims.RequestOrderClaim(order.ID, busy.ID); err != nil {
		t.Fatalf("park claim: %v", err)
	}
	if _, err := env.claims.RequestOrderClaim(order.ID, idle.ID); err != nil {
		t.Fatalf("direct claim: %v", err)
	}

	// Approving the parked request now must not steal the order.
	if err := env.claims.ApproveOrderClaim(order.ID, true); !errors.Is(err, ErrOrderClaimed) {
		t.Fatalf("stale approval: got %v, want ErrOrderClaimed", err)
	}

	got := env.mustGetOrder(t, order.ID)
	if got.DeliveryID == nil || *got.DeliveryID != idle.ID {
		t.Errorf("stale approval reassigned the order")
	}
}

func TestClaimTakenOrder(t *testing.T) {
	env := newTestEnv(t)
	branchID := uuid.New()
	holder := env.seedCourier(t, branchID)
	latecomer := env.seedCourier(t, branchID)

	order := env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusPreparing,
		DeliveryID: &holder.ID,
	})

	if _, err := env.claims.RequestOrderClaim(order.ID, latecomer.ID); !errors.Is(err, ErrOrderClaimed) {
		t.Fatalf("got %v, want ErrOrderClaimed", err)
	}
}

func TestClaimIneligibleCourier(t *testing.T) {
	env := newTestEnv(t)
	branchID := uuid.New()

	pending := &models.DeliveryUser{
		Name:     "Unapproved",
		Phone:    uuid.NewString(),
		BranchID: branchID,
		Status:   models.CourierStatusPending,
		IsActive: true,
	}
	env.store.PutCourier(pending)

	order := env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusPreparing,
	})

	if _, err := env.claims.RequestOrderClaim(order.ID, pending.ID); !errors.Is(err, ErrCourierNotEligible) {
		t.Fatalf("got %v, want ErrCourierNotEligible", err)
	}
}

func TestClaimNonClaimableOrder(t *testing.T) {
	env := newTestEnv(t)
	branchID := uuid.New()
	courier := env.seedCourier(t, branchID)

	pickup := env.seedOrder(t, &models.Order{
		CustomerID:   uuid.New(),
		BranchID:     branchID,
		Status:       models.OrderStatusPreparing,
		DeliveryType: models.DeliveryTypePickup,
	})
	if _, err := env.claims.RequestOrderClaim(pickup.ID, courier.ID); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("pickup order claim: got %v, want ErrIllegalTransition", err)
	}

	pendingOrder := env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
	})
	if _, err := env.claims.RequestOrderClaim(pendingOrder.ID, courier.ID); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("pending order claim: got %v, want ErrIllegalTransition", err)
	}
}

func TestConcurrentClaimSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	branchID := uuid.New()

	order := env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusPreparing,
	})

	const couriers = 8
	ids := make([]uuid.UUID, couriers)
	for i := range ids {
		ids[i] = env.seedCourier(t, branchID).ID
	}

	var wg sync.WaitGroup
	errs := make([]error, couriers)
	for i := 0; i < couriers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.claims.RequestOrderClaim(order.ID, ids[i])
		}(i)
	}
	wg.Wait()

	var winners int
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrOrderClaimed):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("got %d winners, want exactly 1", winners)
	}

	got := env.mustGetOrder(t, order.ID)
	if got.DeliveryID == nil {
		t.Fatalf("no courier assigned after race")
	}
}

func TestBranchAssignReadyOrder(t *testing.T) {
	env := newTestEnv(t)
	branchID := uuid.New()
	courier := env.seedCourier(t, branchID)

	order := env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusReady,
	})

	if err := env.claims.ConfirmAssignDelivery(order.ID, courier.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	got := env.mustGetOrder(t, order.ID)
	if got.DeliveryID == nil || *got.DeliveryID != courier.ID {
		t.Fatalf("courier not assigned")
	}
	if !got.AssignedByBranch || !got.RequestApproved {
		t.Errorf("branch assignment flags not set: %+v", got)
	}

	// Handshake flips deliveryReceived; repeating it is a conflict.
	if err := env.claims.ConfirmReceived(order.ID, courier.ID); err != nil {
		t.Fatalf("confirm received: %v", err)
	}
	if !env.mustGetOrder(t, order.ID).DeliveryReceived {
		t.Errorf("deliveryReceived not set")
	}
	if err := env.claims.ConfirmReceived(order.ID, courier.ID); !errors.Is(err, ErrStatusConflict) {
		t.Errorf("repeat handshake: got %v, want ErrStatusConflict", err)
	}
}

func TestConfirmReceivedCourierPulled(t *testing.T) {
	env := newTestEnv(t)
	branchID := uuid.New()
	courier := env.seedCourier(t, branchID)

	order := env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusPreparing,
	})

	if _, err := env.claims.RequestOrderClaim(order.ID, courier.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := env.claims.ConfirmReceived(order.ID, courier.ID); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("handshake on courier-pulled order: got %v, want ErrIllegalTransition", err)
	}
}

// Scenario: a courier already out with an order is parked behind branch
// approval, while an idle colleague takes a second order immediately.
func TestClaimArbitrationScenario(t *testing.T) {
	env := newTestEnv(t)
	branchID := uuid.New()
	courierA := env.seedCourier(t, branchID)
	courierB := env.seedCourier(t, branchID)

	// Courier A is out with an active delivery.
	env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusDispatched,
		DeliveryID: &courierA.ID,
	})

	second := env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusPreparing,
	})
	third := env.seedOrder(t, &models.Order{
		CustomerID: uuid.New(),
		BranchID:   branchID,
		Status:     models.OrderStatusPreparing,
	})

	// Idle courier B takes the second order on the spot.
	result, err := env.claims.RequestOrderClaim(second.ID, courierB.ID)
	if err != nil {
		t.Fatalf("courier B claim: %v", err)
	}
	if result.NeedsApproval {
		t.Fatalf("idle courier B parked for approval")
	}
	if env.mustGetOrder(t, second.ID).Status != models.OrderStatusDispatched {
		t.Errorf("second order not dispatched")
	}

	// Courier A, still loaded, is parked on the third order.
	result, err = env.claims.RequestOrderClaim(third.ID, courierA.ID)
	if err != nil {
		t.Fatalf("courier A claim: %v", err)
	}
	if !result.NeedsApproval {
		t.Fatalf("loaded courier A assigned without approval")
	}

	got := env.mustGetOrder(t, third.ID)
	if got.DeliveryID != nil {
		t.Errorf("third order assigned while awaiting approval")
	}

	count, _ := env.store.UnreadNotificationCount(branchID)
	if count != 1 {
		t.Errorf("unread branch notifications = %d, want 1", count)
	}
}
