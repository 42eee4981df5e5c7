package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/terraincognita07/lunacycle/internal/cycle"
	"github.com/terraincognita07/lunacycle/internal/i18n"
	"github.com/terraincognita07/lunacycle/internal/metrics"
	"go.uber.org/zap"
)

const (
	ReminderKindPeriod  = "period"
	ReminderKindFertile = "fertile"

	reminderDateLayout      = "Jan 2"
	maxRememberedReminders  = 500
	defaultReminderInterval = time.Hour
)

var errReminderSenderMissing = errors.New("reminder sender is not configured")

// MessageSender delivers a plain text reminder.
type MessageSender interface {
	Send(ctx context.Context, text string) error
}

// ForecastSource evaluates the journal for today.
type ForecastSource interface {
	Forecast() (cycle.Forecast, error)
}

type TelegramSender struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramSender{api: api, chatID: chatID}, nil
}

func (sender *TelegramSender) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := sender.api.Send(tgbotapi.NewMessage(sender.chatID, text)); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

type ReminderOptions struct {
	PeriodDays int
	Interval   time.Duration
	Language   string
	Clock      Clock
	Location   *time.Location
}

// ReminderService periodically checks the forecast and sends at most one
// reminder per kind per day.
type ReminderService struct {
	forecasts    ForecastSource
	settings     SettingsRepository
	sender       MessageSender
	translations *i18n.Manager
	metrics      *metrics.Metrics
	log          *zap.Logger

	periodDays int
	interval   time.Duration
	language   string
	clock      Clock
	location   *time.Location

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewReminderService(forecasts ForecastSource, settings SettingsRepository, sender MessageSender, translations *i18n.Manager, recorder *metrics.Metrics, log *zap.Logger, opts ReminderOptions) *ReminderService {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultReminderInterval
	}
	if opts.PeriodDays < 0 {
		opts.PeriodDays = 0
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &ReminderService{
		forecasts:    forecasts,
		settings:     settings,
		sender:       sender,
		translations: translations,
		metrics:      recorder,
		log:          log.Named("reminders"),
		periodDays:   opts.PeriodDays,
		interval:     opts.Interval,
		language:     opts.Language,
		clock:        opts.Clock,
		location:     opts.Location,
		sent:         make(map[string]time.Time),
	}
}

func (service *ReminderService) Start(ctx context.Context) {
	if service.sender == nil {
		service.log.Info("reminders disabled", zap.Error(errReminderSenderMissing))
		return
	}

	ticker := time.NewTicker(service.interval)
	go func() {
		defer ticker.Stop()

		service.run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				service.run(ctx)
			}
		}
	}()
}

// run returns the kinds of reminders sent during this pass.
func (service *ReminderService) run(ctx context.Context) []string {
	settings, err := service.settings.Load()
	if err != nil {
		service.log.Warn("load settings failed", zap.Error(err))
		return nil
	}
	if !settings.NotificationsEnabled {
		return nil
	}

	forecast, err := service.forecasts.Forecast()
	if err != nil {
		service.log.Warn("forecast failed", zap.Error(err))
		return nil
	}
	if !forecast.HasPrediction {
		return nil
	}

	today := service.clock.today(service.location)
	sentKinds := make([]string, 0, 2)

	if forecast.DaysUntilNext == service.periodDays {
		message := service.translations.Translatef(service.language, "reminder.period",
			service.periodDays, forecast.NextPeriodStart.Format(reminderDateLayout))
		if service.periodDays == 0 {
			message = service.translations.Translatef(service.language, "reminder.period.today",
				forecast.NextPeriodStart.Format(reminderDateLayout))
		}
		if service.deliver(ctx, ReminderKindPeriod, today, message) {
			sentKinds = append(sentKinds, ReminderKindPeriod)
		}
	}

	fertileStart := cycle.OvulationDay(forecast.AverageCycleLength) - cycle.FertileLeadDays
	if fertileStart >= 1 && forecast.DayInCycle == fertileStart {
		message := service.translations.Translatef(service.language, "reminder.fertile",
			forecast.OvulationDate.Format(reminderDateLayout))
		if service.deliver(ctx, ReminderKindFertile, today, message) {
			sentKinds = append(sentKinds, ReminderKindFertile)
		}
	}
	return sentKinds
}

func (service *ReminderService) deliver(ctx context.Context, kind string, today time.Time, message string) bool {
	key := kind + ":" + cycle.FormatDay(today)
	if !service.shouldSend(key, today) {
		return false
	}
	if err := service.sender.Send(ctx, message); err != nil {
		service.forget(key)
		service.log.Warn("send reminder failed", zap.String("kind", kind), zap.Error(err))
		return false
	}
	service.metrics.RecordReminder(kind)
	service.log.Info("reminder sent", zap.String("kind", kind))
	return true
}

func (service *ReminderService) shouldSend(key string, today time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if sentOn, ok := service.sent[key]; ok && sentOn.Equal(today) {
		return false
	}

	if len(service.sent) >= maxRememberedReminders {
		service.sent = make(map[string]time.Time)
	}
	service.sent[key] = today
	return true
}

func (service *ReminderService) forget(key string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.sent, key)
}
