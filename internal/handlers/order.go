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

// OrderHandler manages the customer-facing order endpoints.
type OrderHandler struct {
	lifecycle *services.LifecycleService
	orders    store.OrderStore
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(lifecycle *services.LifecycleService, orders store.OrderStore) *OrderHandler {
	return &OrderHandler{lifecycle: lifecycle, orders: orders}
}

type createOrderRequest struct {
	BranchID      string                    `json:"branchId"`
	DeliveryType  string                    `json:"deliveryType"`
	PaymentMethod string                    `json:"paymentMethod"`
	DeliveryFee   float64                   `json:"deliveryFee"`
	Discount      float64                   `json:"discount"`
	Items         []services.OrderItemInput `json:"items"`
}

// CreateOrder allows authenticated customers to place an order.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid branch id")
	}

	order, err := h.lifecycle.CreateOrder(services.CreateOrderInput{
		CustomerID:    userID,
		BranchID:      branchID,
		DeliveryType:  req.DeliveryType,
		PaymentMethod: req.PaymentMethod,
		DeliveryFee:   req.DeliveryFee,
		Discount:      req.Discount,
		Items:         req.Items,
	})
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// ListOrders returns orders for the authenticated customer.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.OrdersByCustomer(userID, c.Query("status"), pg.Limit, pg.Offset)
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

// GetOrder returns a single order for the authenticated customer.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.orders.GetOrder(id)
	if err != nil {
		if err == store.ErrNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	actor, _ := middleware.GetCurrentActor(c)
	if order.CustomerID != userID && actor.Role != models.RoleAdmin {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder lets the customer cancel inside the cancellation window.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req cancelOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	rec, err := h.lifecycle.AddOrderCancellation(id, userID, req.Reason)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": rec})
}

type rateDeliveryRequest struct {
	DeliveryID string `json:"deliveryId"`
	Rating     int    `json:"rating"`
	Reason     string `json:"reason"`
}

// RateDelivery records the customer's rating of a delivered order.
func (h *OrderHandler) RateDelivery(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req rateDeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	deliveryID, err := uuid.Parse(req.DeliveryID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid delivery id")
	}

	rec, err := h.lifecycle.AddDeliveryRating(id, deliveryID, userID, req.Rating, req.Reason)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": rec})
}
