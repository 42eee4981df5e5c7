package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunacycle/internal/services"
)

func (handler *Handler) Unlock(c *fiber.Ctx) error {
	key := clientKey(c)
	if handler.unlockLimiter.blocked(key, time.Now()) {
		return apiError(c, fiber.StatusTooManyRequests, "too many attempts")
	}

	input := unlockInput{}
	if ok, err := bindPayload(c, &input); !ok {
		return err
	}

	token, expiresAt, err := handler.lock.Unlock(input.PIN)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPIN) {
			handler.unlockLimiter.fail(key, time.Now())
		}
		return handler.serviceError(c, err)
	}

	handler.unlockLimiter.reset(key)
	handler.setSessionCookie(c, token, expiresAt)
	return c.JSON(fiber.Map{"ok": true, "token": token, "expiresAt": expiresAt})
}

func (handler *Handler) Lock(c *fiber.Ctx) error {
	handler.clearSessionCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

// UpdateLock sets a new PIN, or removes the lock when the PIN is empty. A new
// PIN comes with a fresh session so the caller stays unlocked.
func (handler *Handler) UpdateLock(c *fiber.Ctx) error {
	input := lockInput{}
	if ok, err := bindPayload(c, &input); !ok {
		return err
	}

	if input.PIN == "" {
		if err := handler.lock.ClearPIN(); err != nil {
			return handler.serviceError(c, err)
		}
		handler.clearSessionCookie(c)
		return c.JSON(fiber.Map{"locked": false})
	}

	if err := handler.lock.SetPIN(input.PIN); err != nil {
		return handler.serviceError(c, err)
	}
	token, expiresAt, err := handler.lock.Unlock(input.PIN)
	if err != nil {
		return handler.serviceError(c, err)
	}
	handler.setSessionCookie(c, token, expiresAt)
	return c.JSON(fiber.Map{"locked": true, "token": token, "expiresAt": expiresAt})
}

func (handler *Handler) setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  expiresAt,
	})
}

func (handler *Handler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
