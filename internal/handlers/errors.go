package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/frychicken/internal/services"
)

// serviceError maps engine sentinel errors onto HTTP statuses. Anything
// unrecognized bubbles up as a 500 through fiber's default error handler.
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrCourierNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, services.ErrOrderClaimed),
		errors.Is(err, services.ErrStatusConflict),
		errors.Is(err, services.ErrNoClaimRequest):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrWindowExpired),
		errors.Is(err, services.ErrInsufficientPoints):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrNotOrderCourier),
		errors.Is(err, services.ErrNotOrderCustomer),
		errors.Is(err, services.ErrCourierNotEligible),
		errors.Is(err, services.ErrReceiptRequired):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}
	return err
}
