package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Mayank-Ninawe/krishisat-ai/internal/domain"
	"github.com/Mayank-Ninawe/krishisat-ai/internal/logger"
)

// NewErrorHandler translates the domain error taxonomy into JSON responses.
// Validation problems and predictor failures keep their messages; store and
// other internal failures are masked behind a generic 500.
func NewErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			ve *domain.ValidationError
			pe *domain.PredictorRejectedError
			fe *fiber.Error
		)

		switch {
		case errors.As(err, &ve):
			return respondError(c, fiber.StatusBadRequest, ve.Msg)
		case errors.Is(err, domain.ErrPredictorUnavailable):
			return respondError(c, fiber.StatusServiceUnavailable, domain.ErrPredictorUnavailable.Error())
		case errors.As(err, &pe):
			return respondError(c, fiber.StatusBadGateway, pe.Error())
		case errors.Is(err, domain.ErrNotFound):
			return respondError(c, fiber.StatusNotFound, "Not found")
		case errors.As(err, &fe):
			return respondError(c, fe.Code, fe.Message)
		default:
			log.Error("unhandled request error", "path", c.Path(), "err", err)
			return respondError(c, fiber.StatusInternalServerError, "Internal server error")
		}
	}
}

func respondError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}
