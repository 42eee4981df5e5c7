package api

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var payloadValidator = validator.New()

type unlockInput struct {
	PIN string `json:"pin" validate:"required,max=8"`
}

type lockInput struct {
	PIN string `json:"pin" validate:"omitempty,numeric,min=4,max=8"`
}

type partnerChatInput struct {
	Token   string `json:"token" validate:"required"`
	Message string `json:"message" validate:"required,max=1000"`
}

// bindPayload decodes the JSON body into dest and validates its tags. When it
// reports false the error response has already been written.
func bindPayload(c *fiber.Ctx, dest any) (bool, error) {
	if err := c.BodyParser(dest); err != nil {
		return false, apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := payloadValidator.Struct(dest); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return false, apiError(c, fiber.StatusBadRequest, "invalid request body")
		}
		fields := make([]string, 0, len(fieldErrors))
		for _, fieldError := range fieldErrors {
			fields = append(fields, fmt.Sprintf("%s failed %s", fieldError.Field(), fieldError.Tag()))
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fields,
		})
	}
	return true, nil
}
