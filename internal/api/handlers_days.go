package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunacycle/internal/services"
)

func (handler *Handler) GetDays(c *fiber.Ctx) error {
	days, err := handler.journal.FetchRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"days": days})
}

func (handler *Handler) GetDay(c *fiber.Ctx) error {
	day, err := handler.journal.FetchDay(c.Params("date"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(day)
}

func (handler *Handler) PutDay(c *fiber.Ctx) error {
	input := services.DayInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	day, err := handler.journal.SaveDay(c.Params("date"), input)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(day)
}

func (handler *Handler) DeleteDay(c *fiber.Ctx) error {
	if err := handler.journal.DeleteDay(c.Params("date")); err != nil {
		return handler.serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
