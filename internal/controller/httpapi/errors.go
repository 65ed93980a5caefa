package httpapi

import (
	"errors"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/gofiber/fiber/v2"
)

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// respondError переводит доменные ошибки в HTTP-статусы в одном месте.
// ErrNoTeacherAvailable сюда не попадает — это результат, не ошибка.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *model.ValidationError
	var overlapErr *model.OverlapError
	var inUseErr *model.InUseError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: validationErr.Error()})
	case errors.As(err, &overlapErr):
		return c.Status(fiber.StatusConflict).JSON(errorResponse{Error: overlapErr.Error()})
	case errors.As(err, &inUseErr):
		return c.Status(fiber.StatusConflict).JSON(errorResponse{Error: inUseErr.Error()})
	case errors.Is(err, model.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "not found"})
	case model.IsTransient(err):
		return c.Status(fiber.StatusServiceUnavailable).JSON(errorResponse{Error: "temporary store failure", Retryable: true})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "internal error"})
	}
}
