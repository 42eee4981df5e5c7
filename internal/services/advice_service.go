package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/lunacycle/internal/advisor"
	"github.com/terraincognita07/lunacycle/internal/i18n"
	"github.com/terraincognita07/lunacycle/internal/metrics"
	"go.uber.org/zap"
)

const (
	AdviceReasonDisabled    = "disabled"
	AdviceReasonRateLimited = "rate_limited"
	AdviceReasonUnavailable = "unavailable"

	maxChatMessageLength = 1000
	advisorCallTimeout   = 20 * time.Second
)

var (
	ErrInvalidRole     = errors.New("invalid role")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrMessageTooLong  = errors.New("message is too long")
	errAdviceNoContent = errors.New("advisor returned no tips")
)

type Advice struct {
	Role     string   `json:"role"`
	Tips     []string `json:"tips"`
	Fallback bool     `json:"fallback"`
	Reason   string   `json:"reason,omitempty"`
	Provider string   `json:"provider"`
}

type ChatReply struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

// AdviceService never fails a request because the model did; it answers with
// localized canned text instead.
type AdviceService struct {
	advisor      *advisor.Advisor
	translations *i18n.Manager
	overview     OverviewProvider
	metrics      *metrics.Metrics
	log          *zap.Logger
}

func NewAdviceService(adv *advisor.Advisor, translations *i18n.Manager, overview OverviewProvider, recorder *metrics.Metrics, log *zap.Logger) *AdviceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdviceService{
		advisor:      adv,
		translations: translations,
		overview:     overview,
		metrics:      recorder,
		log:          log,
	}
}

func (service *AdviceService) Tips(ctx context.Context, role string, language string) (Advice, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = advisor.RoleUser
	}
	if role != advisor.RoleUser && role != advisor.RolePartner {
		return Advice{}, ErrInvalidRole
	}

	overview, err := service.overview.Overview(ctx)
	if err != nil {
		return Advice{}, err
	}

	advice := Advice{Role: role, Provider: service.advisor.Provider()}
	if !service.advisor.Enabled() {
		return service.fallbackTips(advice, language, AdviceReasonDisabled), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, advisorCallTimeout)
	defer cancel()

	tips, err := service.advisor.Tips(callCtx, advisor.TipsRequest{
		Role:          role,
		Phase:         overview.Phase,
		DaysRemaining: overview.DaysUntilNext,
		Symptoms:      overview.TodaySymptoms,
	})
	if err == nil && len(tips) == 0 {
		err = errAdviceNoContent
	}
	if err != nil {
		reason := service.failureReason(err)
		service.log.Warn("advice generation failed", zap.String("role", role), zap.String("reason", reason), zap.Error(err))
		return service.fallbackTips(advice, language, reason), nil
	}

	service.metrics.RecordAdvisorCall(advice.Provider, "ok")
	advice.Tips = tips
	return advice, nil
}

// PartnerChat answers a partner's question using the shared snapshot as context.
func (service *AdviceService) PartnerChat(ctx context.Context, snapshot PartnerSnapshot, message string, language string) (ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return ChatReply{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > maxChatMessageLength {
		return ChatReply{}, ErrMessageTooLong
	}

	offline := ChatReply{
		Reply:    service.translations.Translate(language, "partner.chat.offline"),
		Fallback: true,
	}
	if !service.advisor.Enabled() {
		offline.Reason = AdviceReasonDisabled
		return offline, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, advisorCallTimeout)
	defer cancel()

	reply, err := service.advisor.Chat(callCtx, advisor.ChatContext{
		Phase:         snapshot.Phase,
		DaysUntilNext: snapshot.DaysUntilNext,
		Symptoms:      snapshot.Symptoms,
	}, message)
	if err != nil {
		offline.Reason = service.failureReason(err)
		service.log.Warn("partner chat failed", zap.String("reason", offline.Reason), zap.Error(err))
		return offline, nil
	}

	service.metrics.RecordAdvisorCall(service.advisor.Provider(), "ok")
	return ChatReply{Reply: reply}, nil
}

func (service *AdviceService) failureReason(err error) string {
	reason := AdviceReasonUnavailable
	if errors.Is(err, advisor.ErrRateLimited) {
		reason = AdviceReasonRateLimited
	}
	service.metrics.RecordAdvisorCall(service.advisor.Provider(), reason)
	return reason
}

func (service *AdviceService) fallbackTips(advice Advice, language string, reason string) Advice {
	advice.Tips = service.translations.List(language, "advice.fallback."+advice.Role)
	advice.Fallback = true
	advice.Reason = reason
	return advice
}
