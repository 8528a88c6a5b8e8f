package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/frychicken/internal/middleware"
	"github.com/example/frychicken/internal/models"
	"github.com/example/frychicken/internal/services"
	"github.com/example/frychicken/internal/store"
	"github.com/example/frychicken/internal/utils"
)

// BranchHandler is the branch console: the order board, status transitions,
// courier assignment and claim approvals.
type BranchHandler struct {
	lifecycle *services.LifecycleService
	claims    *services.ClaimService
	orders    store.OrderStore
}

// NewBranchHandler constructs BranchHandler.
func NewBranchHandler(lifecycle *services.LifecycleService, claims *services.ClaimService, orders store.OrderStore) *BranchHandler {
	return &BranchHandler{lifecycle: lifecycle, claims: claims, orders: orders}
}

func branchActor(c *fiber.Ctx) (*utils.TokenClaims, error) {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if actor.Role == models.RoleBranch && actor.BranchID == nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "branch user has no branch")
	}
	return actor, nil
}

// ListOrders returns the branch's order board, optionally filtered by status.
func (h *BranchHandler) ListOrders(c *fiber.Ctx) error {
	actor, err := branchActor(c)
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.OrdersByBranch(*actor.BranchID, c.Query("status"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"currentPage":  pg.Page,
			"itemsPerPage": pg.Limit,
			"totalItems":   total,
		},
	})
}

type updateStatusRequest struct {
	Status           string `json:"status"`
	DeliveryID       string `json:"deliveryId"`
	AssignedByBranch bool   `json:"assignedByBranch"`
}

// UpdateOrderStatus applies a branch-side transition (confirm, preparing,
// ready, dispatch, reject).
func (h *BranchHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	actor, err := branchActor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	var deliveryID *uuid.UUID
	if req.DeliveryID != "" {
		parsed, err := uuid.Parse(req.DeliveryID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid delivery id")
		}
		deliveryID = &parsed
	}

	caller := services.Actor{ID: actor.UserID, Role: actor.Role}
	if err := h.lifecycle.UpdateOrderStatus(caller, id, req.Status, deliveryID, req.AssignedByBranch); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "order status updated"})
}

type assignDeliveryRequest struct {
	DeliveryID string `json:"deliveryId"`
}

// AssignDelivery pushes a specific courier onto a ready order.
func (h *BranchHandler) AssignDelivery(c *fiber.Ctx) error {
	if _, err := branchActor(c); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req assignDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	courierID, err := uuid.Parse(req.DeliveryID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid delivery id")
	}

	if err := h.claims.ConfirmAssignDelivery(id, courierID); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "courier assigned"})
}

type approveClaimRequest struct {
	Approved bool `json:"approved"`
}

// ApproveClaim settles a pending courier claim request.
func (h *BranchHandler) ApproveClaim(c *fiber.Ctx) error {
	if _, err := branchActor(c); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req approveClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.claims.ApproveOrderClaim(id, req.Approved); err != nil {
		return serviceError(err)
	}

	message := "claim request denied"
	if req.Approved {
		message = "claim request approved"
	}
	return c.JSON(fiber.Map{"success": true, "message": message})
}

// RejectOrder rejects an order from the branch side with a reason.
func (h *BranchHandler) RejectOrder(c *fiber.Ctx) error {
	actor, err := branchActor(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req rejectOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	caller := services.Actor{ID: actor.UserID, Role: actor.Role}
	if err := h.lifecycle.RejectOrder(caller, id, req.Reason); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "order rejected"})
}
