package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Use(handler.RequestID, handler.RequestLogger, handler.LanguageMiddleware)

	app.Get("/healthz", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(handler.metrics.Handler()))

	api := app.Group("/api")
	api.Post("/unlock", handler.Unlock)

	partner := api.Group("/partner")
	partner.Get("", handler.PartnerSnapshot)
	partner.Post("/chat", handler.PartnerChat)

	private := api.Group("", handler.LockRequired)
	private.Post("/lock", handler.Lock)
	private.Get("/overview", handler.GetOverview)
	private.Get("/calendar", handler.GetCalendar)
	private.Get("/history", handler.GetHistory)
	private.Get("/phase/:date", handler.GetPhase)

	days := private.Group("/days")
	days.Get("", handler.GetDays)
	days.Get("/:date", handler.GetDay)
	days.Put("/:date", handler.PutDay)
	days.Delete("/:date", handler.DeleteDay)

	settings := private.Group("/settings")
	settings.Get("", handler.GetSettings)
	settings.Put("", handler.UpdateSettings)
	settings.Put("/lock", handler.UpdateLock)

	private.Get("/advice", handler.GetAdvice)
	private.Post("/share", handler.CreateShare)

	export := private.Group("/export")
	export.Get("/json", handler.ExportJSON)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/pdf", handler.ExportPDF)
	private.Post("/import", handler.Import)

	app.Use(handler.NotFound)
}
