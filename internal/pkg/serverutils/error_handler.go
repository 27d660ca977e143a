package serverutils

import (
	"errors"

	"convo-commerce-be/pkg/breaker"
	"convo-commerce-be/pkg/lifecycle"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware lets controllers return service errors as-is;
// this single place maps them to HTTP statuses.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return ErrorHandler(ctx, err)
	}
}

// ErrorHandler maps domain errors to HTTP statuses so controllers can
// return service errors as-is. Anything unrecognized becomes a 500 with
// a generic message; the real cause stays in the logs.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
	}

	switch {
	case errors.Is(err, lifecycle.ErrSessionNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse("Session not found"))
	case errors.Is(err, lifecycle.ErrVersionConflict):
		return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse("Session was modified concurrently, retry the request"))
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse(err.Error()))
	case errors.Is(err, breaker.ErrCircuitOpen):
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse("Upstream model temporarily unavailable"))
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("Internal server error"))
}
