package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/frychicken/internal/middleware"
	"github.com/example/frychicken/internal/models"
	"github.com/example/frychicken/internal/services"
	"github.com/example/frychicken/internal/store"
)

// DeliveryHandler is the courier console: claiming, confirming, completing
// and flagging orders, plus the duty toggle.
type DeliveryHandler struct {
	db        *gorm.DB
	lifecycle *services.LifecycleService
	claims    *services.ClaimService
	orders    store.OrderStore
}

// NewDeliveryHandler constructs DeliveryHandler.
func NewDeliveryHandler(db *gorm.DB, lifecycle *services.LifecycleService, claims *services.ClaimService, orders store.OrderStore) *DeliveryHandler {
	return &DeliveryHandler{db: db, lifecycle: lifecycle, claims: claims, orders: orders}
}

// AvailableOrders lists unassigned preparing delivery orders at the
// courier's branch.
func (h *DeliveryHandler) AvailableOrders(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok || actor.BranchID == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.orders.AvailableForClaim(*actor.BranchID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": orders})
}

// MyOrders lists orders currently or previously held by the courier.
func (h *DeliveryHandler) MyOrders(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var statuses []string
	if status := c.Query("status"); status != "" {
		statuses = append(statuses, status)
	}

	orders, err := h.orders.OrdersByCourier(actor.UserID, statuses...)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": orders})
}

// ClaimOrder asks the arbitration engine for an unassigned order.
func (h *DeliveryHandler) ClaimOrder(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result, err := h.claims.RequestOrderClaim(id, actor.UserID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": result})
}

// ConfirmReceived performs the handshake on a branch-assigned order.
func (h *DeliveryHandler) ConfirmReceived(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.claims.ConfirmReceived(id, actor.UserID); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "order receipt confirmed"})
}

// MarkDelivered completes a dispatched order held by the courier.
func (h *DeliveryHandler) MarkDelivered(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	caller := services.Actor{ID: actor.UserID, Role: models.RoleDelivery}
	if err := h.lifecycle.UpdateOrderStatus(caller, id, models.OrderStatusDelivered, nil, false); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "order delivered"})
}

type rejectOrderRequest struct {
	Reason string `json:"reason"`
}

// RejectOrder lets the holding courier reject a dispatched order.
func (h *DeliveryHandler) RejectOrder(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req rejectOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	caller := services.Actor{ID: actor.UserID, Role: models.RoleDelivery}
	if err := h.lifecycle.RejectOrder(caller, id, req.Reason); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "order rejected"})
}

type delayOrderRequest struct {
	DelayMinutes int    `json:"delayMinutes"`
	Reason       string `json:"reason"`
}

// DelayOrder flags a late delivery to the branch.
func (h *DeliveryHandler) DelayOrder(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req delayOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	rec, err := h.lifecycle.AddOrderDelay(id, actor.UserID, req.DelayMinutes, req.Reason)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": rec})
}

type setDutyRequest struct {
	IsActive bool `json:"isActive"`
}

// SetDuty toggles the courier on or off duty.
func (h *DeliveryHandler) SetDuty(c *fiber.Ctx) error {
	actor, ok := middleware.GetCurrentActor(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req setDutyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res := h.db.Model(&models.DeliveryUser{}).
		Where("id = ?", actor.UserID).
		Update("is_active", req.IsActive)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "courier not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"isActive": req.IsActive}})
}
