package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/frychicken/internal/middleware"
	"github.com/example/frychicken/internal/services"
)

// PointsHandler exposes the loyalty ledger to customers.
type PointsHandler struct {
	points *services.PointsService
}

// NewPointsHandler constructs PointsHandler.
func NewPointsHandler(points *services.PointsService) *PointsHandler {
	return &PointsHandler{points: points}
}

// GetPoints returns the authenticated customer's balance, creating a zero
// balance on first access.
func (h *PointsHandler) GetPoints(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	points, err := h.points.GetUserPoints(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": points})
}

type redeemRequest struct {
	Amount int `json:"amount"`
}

// Redeem debits points and returns the equivalent currency value.
func (h *PointsHandler) Redeem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req redeemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	value, err := h.points.RedeemPoints(userID, req.Amount)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"redeemedPoints": req.Amount,
			"redeemedValue":  value,
		},
	})
}
