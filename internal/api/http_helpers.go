package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunacycle/internal/advisor"
	"github.com/terraincognita07/lunacycle/internal/services"
	"github.com/terraincognita07/lunacycle/internal/vault"
	"go.uber.org/zap"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// serviceError maps sentinel errors onto status codes; anything unknown is
// logged and reported as an internal error.
func (handler *Handler) serviceError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": validationErr.Fields,
		})
	case errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidRange),
		errors.Is(err, services.ErrInvalidMonth),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrMessageTooLong),
		errors.Is(err, services.ErrWeakPIN),
		errors.Is(err, services.ErrInvalidImportMode),
		errors.Is(err, services.ErrValidation),
		errors.Is(err, vault.ErrInvalidDocument):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrLockNotEnabled):
		return apiError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidPIN),
		errors.Is(err, services.ErrSessionInvalid),
		errors.Is(err, services.ErrSessionExpired),
		errors.Is(err, services.ErrShareTokenInvalid),
		errors.Is(err, services.ErrShareTokenExpired):
		return apiError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, advisor.ErrRateLimited):
		return apiError(c, fiber.StatusTooManyRequests, err.Error())
	}

	handler.log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("request_id", requestID(c)),
		zap.Error(err),
	)
	return apiError(c, fiber.StatusInternalServerError, "internal error")
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return language
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(contextRequestIDKey).(string)
	return id
}
