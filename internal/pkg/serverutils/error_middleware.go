package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ai-docchat-be/internal/apperror"
)

// ErrorHandlerMiddleware maps domain errors to HTTP statuses so controllers can
// just return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var reqErr *RequestValidationError
		if errors.As(err, &reqErr) {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(Response[map[string]string]{
				Success: false,
				Code:    fiber.StatusUnprocessableEntity,
				Message: "Request validation failed",
				Data:    reqErr.Fields,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		code := statusOf(err)
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrEmptyInput):
		return fiber.StatusBadRequest
	case errors.Is(err, apperror.ErrUnsupportedFormat):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, apperror.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperror.ErrDuplicateKey):
		return fiber.StatusConflict
	case errors.Is(err, apperror.ErrNotInitialized):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, apperror.ErrBackendUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
