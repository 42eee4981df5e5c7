package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunacycle/internal/models"
	"github.com/terraincognita07/lunacycle/internal/services"
)

type settingsResponse struct {
	AverageCycleLength   int  `json:"averageCycleLength"`
	AveragePeriodLength  int  `json:"averagePeriodLength"`
	NotificationsEnabled bool `json:"notificationsEnabled"`
	Locked               bool `json:"locked"`
}

func newSettingsResponse(settings models.Settings) settingsResponse {
	return settingsResponse{
		AverageCycleLength:   settings.CycleLength(),
		AveragePeriodLength:  settings.PeriodLength(),
		NotificationsEnabled: settings.NotificationsEnabled,
		Locked:               settings.Locked(),
	}
}

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	settings, err := handler.settings.Load()
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(newSettingsResponse(settings))
}

func (handler *Handler) UpdateSettings(c *fiber.Ctx) error {
	input := services.CycleSettingsUpdate{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	settings, err := handler.settings.SaveCycleSettings(input)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(newSettingsResponse(settings))
}
