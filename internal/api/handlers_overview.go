package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunacycle/internal/i18n"
	"github.com/terraincognita07/lunacycle/internal/services"
)

type overviewResponse struct {
	services.Overview
	PhaseInfo i18n.PhaseCopy `json:"phaseInfo"`
}

type phaseResponse struct {
	services.PhaseView
	PhaseInfo i18n.PhaseCopy `json:"phaseInfo"`
}

func (handler *Handler) GetOverview(c *fiber.Ctx) error {
	overview, err := handler.overview.Overview(c.UserContext())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(overviewResponse{
		Overview:  overview,
		PhaseInfo: handler.i18n.Phase(currentLanguage(c), overview.Phase.String()),
	})
}

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	days, err := handler.overview.Calendar(c.Query("month"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"days": days})
}

func (handler *Handler) GetHistory(c *fiber.Ctx) error {
	history, err := handler.overview.History()
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"cycles": history})
}

func (handler *Handler) GetPhase(c *fiber.Ctx) error {
	view, err := handler.overview.PhaseOn(c.Params("date"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(phaseResponse{
		PhaseView: view,
		PhaseInfo: handler.i18n.Phase(currentLanguage(c), view.Phase.String()),
	})
}
