package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunacycle/internal/cycle"
)

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	payload, err := handler.export.JSON()
	if err != nil {
		return handler.serviceError(c, err)
	}
	return handler.sendAttachment(c, payload, fiber.MIMEApplicationJSONCharsetUTF8, "json")
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	payload, err := handler.export.CSV()
	if err != nil {
		return handler.serviceError(c, err)
	}
	return handler.sendAttachment(c, payload, "text/csv; charset=utf-8", "csv")
}

func (handler *Handler) ExportPDF(c *fiber.Ctx) error {
	payload, err := handler.export.PDF()
	if err != nil {
		return handler.serviceError(c, err)
	}
	return handler.sendAttachment(c, payload, "application/pdf", "pdf")
}

func (handler *Handler) Import(c *fiber.Ctx) error {
	result, err := handler.imports.Import(c.Body(), c.Query("mode"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(result)
}

func (handler *Handler) sendAttachment(c *fiber.Ctx, payload []byte, contentType string, extension string) error {
	filename := fmt.Sprintf("luna-export-%s.%s", cycle.FormatDay(handler.overview.Today()), extension)
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(payload)
}
