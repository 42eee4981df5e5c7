package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/terraincognita07/lunacycle/internal/advisor"
	"github.com/terraincognita07/lunacycle/internal/api"
	"github.com/terraincognita07/lunacycle/internal/cache"
	"github.com/terraincognita07/lunacycle/internal/cli"
	"github.com/terraincognita07/lunacycle/internal/config"
	"github.com/terraincognita07/lunacycle/internal/cycle"
	"github.com/terraincognita07/lunacycle/internal/db"
	"github.com/terraincognita07/lunacycle/internal/i18n"
	"github.com/terraincognita07/lunacycle/internal/logger"
	"github.com/terraincognita07/lunacycle/internal/metrics"
	"github.com/terraincognita07/lunacycle/internal/services"
	"github.com/terraincognita07/lunacycle/internal/vault"
)

const (
	forecastCachePrefix = "lunacycle:forecast:"
	requestBodyLimit    = 4 * 1024 * 1024
	shutdownTimeout     = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if handled, err := runCommand(cfg, os.Args[1:]); handled {
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := serve(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server exited", zap.Error(err))
	}
}

// runCommand dispatches maintenance subcommands. It reports false when the
// arguments do not name one and the server should start.
func runCommand(cfg *config.Config, args []string) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}

	switch args[0] {
	case "reset-pin":
		return true, cli.RunResetPINCommand(cfg, os.Stdout)
	case "set-pin":
		return true, cli.RunSetPINCommand(cfg, os.Stdin, os.Stdout)
	case "clear-pin":
		return true, cli.RunClearPINCommand(cfg, os.Stdout)
	case "serve":
		return false, nil
	default:
		return true, fmt.Errorf("unknown command %q (expected serve, reset-pin, set-pin or clear-pin)", args[0])
	}
}

func serve(cfg *config.Config, zapLogger *zap.Logger) error {
	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	application, err := buildApplication(lifecycleCtx, cfg, zapLogger)
	if err != nil {
		return err
	}
	defer application.Close()

	application.reminders.Start(lifecycleCtx)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := application.app.ShutdownWithContext(shutdownCtx); err != nil {
			zapLogger.Warn("server shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("lunacycle listening",
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBPath),
		zap.String("tz", application.location.String()),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.Bool("vault", application.autosaver != nil),
	)
	return application.app.Listen(listenAddress(cfg.Port))
}

type application struct {
	app       *fiber.App
	location  *time.Location
	reminders *services.ReminderService
	autosaver *vault.Autosaver
	closers   []func() error
	log       *zap.Logger
}

func buildApplication(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (*application, error) {
	location := loadLocation(cfg.Timezone, zapLogger)
	result := &application{location: location, log: zapLogger}

	database, err := db.OpenSQLite(cfg.DBPath, zapLogger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		result.closers = append(result.closers, sqlDB.Close)
	}
	repos := db.NewRepositories(database)

	translations, err := i18n.NewManager(cfg.DefaultLanguage)
	if err != nil {
		result.Close()
		return nil, fmt.Errorf("i18n init failed: %w", err)
	}

	recorder := metrics.New()
	engine := cycle.NewEngine(cfg.Cycle.EpisodeGapDays)

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		zapLogger.Warn("redis unavailable, forecast cache disabled", zap.Error(err))
		redisClient = nil
	}
	forecastCache := cache.NewStore(redisClient, forecastCachePrefix, zapLogger)
	result.closers = append(result.closers, forecastCache.Close)

	generator, err := advisor.NewGenerator(ctx, cfg.AI)
	if err != nil {
		zapLogger.Warn("ai advisor unavailable, using static tips", zap.Error(err))
		generator = nil
	}
	if closer, ok := generator.(advisor.Closer); ok {
		result.closers = append(result.closers, closer.Close)
	}

	overviewOptions := []services.OverviewOption{
		services.WithOverviewMetrics(recorder),
		services.WithOverviewClock(nil, location),
		services.WithOverviewLogger(zapLogger),
	}
	if forecastCache.Enabled() {
		overviewOptions = append(overviewOptions, services.WithForecastCache(forecastCache, cfg.Redis.CacheTTL))
	}
	overview := services.NewOverviewService(engine, repos.Periods, repos.Symptoms, repos.Settings, overviewOptions...)
	journal := services.NewJournalService(repos.Periods, repos.Symptoms)
	settings := services.NewSettingsService(repos.Settings)
	exporter := services.NewExportService(engine, repos.Periods, repos.Symptoms, repos.Settings, nil, location)
	importer := services.NewImportService(exporter, repos, repos.Settings)

	secretKey := []byte(cfg.SecretKey)
	lock, err := services.NewLockService(repos.Settings, secretKey, cfg.Tokens.SessionTTL, nil)
	if err != nil {
		result.Close()
		return nil, fmt.Errorf("lock service init failed: %w", err)
	}
	share, err := services.NewShareService(overview, secretKey, cfg.Tokens.ShareTTL, nil)
	if err != nil {
		result.Close()
		return nil, fmt.Errorf("share service init failed: %w", err)
	}
	advice := services.NewAdviceService(advisor.New(generator), translations, overview, recorder, zapLogger)

	if cfg.Vault.FilePath != "" {
		result.autosaver = vault.NewAutosaver(vault.NewFileStore(cfg.Vault.FilePath), exporter.Snapshot, cfg.Vault.AutosaveDelay, zapLogger)
		result.autosaver.OnSaved(recorder.RecordVaultSave)
	}

	onChange := func() {
		overview.InvalidateCache(context.Background())
		result.autosaver.Schedule()
	}
	journal.OnChange(onChange)
	settings.OnChange(onChange)
	importer.OnChange(onChange)
	lock.OnChange(result.autosaver.Schedule)

	var sender services.MessageSender
	if cfg.Reminder.Enabled() {
		telegram, err := services.NewTelegramSender(cfg.Reminder.BotToken, cfg.Reminder.ChatID)
		if err != nil {
			zapLogger.Warn("telegram reminders disabled", zap.Error(err))
		} else {
			sender = telegram
		}
	}
	result.reminders = services.NewReminderService(overview, repos.Settings, sender, translations, recorder, zapLogger, services.ReminderOptions{
		PeriodDays: cfg.Reminder.PeriodDays,
		Interval:   cfg.Reminder.Interval,
		Language:   cfg.DefaultLanguage,
		Location:   location,
	})

	handler, err := api.NewHandler(api.Dependencies{
		Journal:      journal,
		Settings:     settings,
		Overview:     overview,
		Lock:         lock,
		Share:        share,
		Advice:       advice,
		Export:       exporter,
		Import:       importer,
		I18n:         translations,
		Metrics:      recorder,
		Logger:       zapLogger,
		CookieSecure: cfg.CookieSecure,
	})
	if err != nil {
		result.Close()
		return nil, fmt.Errorf("handler init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Lunacycle",
		DisableStartupMessage: true,
		BodyLimit:             requestBodyLimit,
	})
	app.Use(recover.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)
	result.app = app

	return result, nil
}

// Close flushes a pending vault write and releases external clients.
func (a *application) Close() {
	if a.autosaver != nil {
		if err := a.autosaver.Stop(); err != nil {
			a.log.Warn("final vault save failed", zap.Error(err))
		}
	}

	var errs []error
	for index := len(a.closers) - 1; index >= 0; index-- {
		if err := a.closers[index](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		a.log.Warn("shutdown cleanup failed", zap.Error(err))
	}
	a.closers = nil
}

func loadLocation(name string, zapLogger *zap.Logger) *time.Location {
	if name == "" {
		return time.UTC
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		zapLogger.Warn("invalid TZ, falling back to UTC", zap.String("tz", name))
		return time.UTC
	}
	return location
}

func listenAddress(port int) string {
	if port <= 0 || port > 65535 {
		port = 8080
	}
	return ":" + strconv.Itoa(port)
}
