package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/frychicken/internal/services"
	"github.com/example/frychicken/internal/store"
	"github.com/example/frychicken/internal/utils"
)

// NotificationHandler serves the branch notification feed.
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the branch's notifications, newest first.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	actor, err := branchActor(c)
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	notifications, total, err := h.notifications.ByBranch(*actor.BranchID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    notifications,
		"pagination": fiber.Map{
			"currentPage":  pg.Page,
			"itemsPerPage": pg.Limit,
			"totalItems":   total,
		},
	})
}

// MarkRead flags a notification as read.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if _, err := branchActor(c); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.notifications.MarkRead(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "notification not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "notification marked read"})
}

// UnreadCount returns the branch's unread badge count.
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	actor, err := branchActor(c)
	if err != nil {
		return err
	}

	count, err := h.notifications.UnreadCount(*actor.BranchID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"unreadCount": count}})
}
