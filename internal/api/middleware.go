package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestID reuses an incoming X-Request-ID or assigns a fresh one.
func (handler *Handler) RequestID(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Get(requestIDHeader))
	if id == "" || len(id) > 64 {
		id = uuid.NewString()
	}
	c.Locals(contextRequestIDKey, id)
	c.Set(requestIDHeader, id)
	return c.Next()
}

// RequestLogger writes one log line and one metrics sample per request.
func (handler *Handler) RequestLogger(c *fiber.Ctx) error {
	started := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}
	}
	latency := time.Since(started)

	route := c.Path()
	if matched := c.Route(); matched != nil && matched.Path != "" && matched.Path != "/" {
		route = matched.Path
	}
	handler.metrics.ObserveHTTPRequest(c.Method(), route, status, latency)

	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.String("request_id", requestID(c)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if status >= fiber.StatusInternalServerError {
		handler.log.Warn("http_request", fields...)
	} else {
		handler.log.Info("http_request", fields...)
	}
	return err
}

func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	cookieLanguage := c.Cookies(languageCookieName)
	language := handler.i18n.DetectFromAcceptLanguage(c.Get("Accept-Language"))
	if cookieLanguage != "" {
		language = handler.i18n.NormalizeLanguage(cookieLanguage)
	}
	if queryLanguage := c.Query("lang"); queryLanguage != "" {
		language = handler.i18n.NormalizeLanguage(queryLanguage)
		handler.setLanguageCookie(c, language)
	}

	c.Locals(contextLanguageKey, language)
	c.Set(fiber.HeaderContentLanguage, language)
	return c.Next()
}

func (handler *Handler) setLanguageCookie(c *fiber.Ctx, language string) {
	c.Cookie(&fiber.Cookie{
		Name:     languageCookieName,
		Value:    language,
		Path:     "/",
		HTTPOnly: false,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().AddDate(1, 0, 0),
	})
}

// LockRequired lets requests through when no PIN is set, otherwise it needs a
// valid session cookie or bearer token.
func (handler *Handler) LockRequired(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Cookies(sessionCookieName))
	if token == "" {
		authorization := c.Get(fiber.HeaderAuthorization)
		if strings.HasPrefix(authorization, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
		}
	}

	if err := handler.lock.ValidateSession(token); err != nil {
		return handler.serviceError(c, err)
	}
	return c.Next()
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not found")
}
