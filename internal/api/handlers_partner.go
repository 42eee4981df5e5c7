package api

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunacycle/internal/i18n"
	"github.com/terraincognita07/lunacycle/internal/services"
)

type partnerResponse struct {
	services.PartnerSnapshot
	PhaseInfo i18n.PhaseCopy `json:"phaseInfo"`
}

func (handler *Handler) GetAdvice(c *fiber.Ctx) error {
	advice, err := handler.advice.Tips(c.UserContext(), c.Query("role"), currentLanguage(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(advice)
}

func (handler *Handler) CreateShare(c *fiber.Ctx) error {
	link, err := handler.share.Create(c.UserContext())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":     link.Token,
		"expiresAt": link.ExpiresAt,
		"snapshot":  link.Snapshot,
		"path":      "/api/partner?token=" + url.QueryEscape(link.Token),
	})
}

func (handler *Handler) PartnerSnapshot(c *fiber.Ctx) error {
	snapshot, err := handler.share.Resolve(c.Query("token"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(partnerResponse{
		PartnerSnapshot: snapshot,
		PhaseInfo:       handler.i18n.Phase(currentLanguage(c), snapshot.Phase.String()),
	})
}

func (handler *Handler) PartnerChat(c *fiber.Ctx) error {
	input := partnerChatInput{}
	if ok, err := bindPayload(c, &input); !ok {
		return err
	}

	snapshot, err := handler.share.Resolve(input.Token)
	if err != nil {
		return handler.serviceError(c, err)
	}
	reply, err := handler.advice.PartnerChat(c.UserContext(), snapshot, input.Message, currentLanguage(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(reply)
}
