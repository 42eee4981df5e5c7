package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/lunacycle/internal/i18n"
	"github.com/terraincognita07/lunacycle/internal/metrics"
	"github.com/terraincognita07/lunacycle/internal/services"
	"go.uber.org/zap"
)

const (
	sessionCookieName  = "luna_session"
	languageCookieName = "luna_lang"
	requestIDHeader    = "X-Request-ID"

	contextLanguageKey  = "current_language"
	contextRequestIDKey = "request_id"

	unlockAttemptLimit  = 5
	unlockAttemptWindow = 15 * time.Minute
)

// Dependencies are the services the HTTP layer fronts.
type Dependencies struct {
	Journal  *services.JournalService
	Settings *services.SettingsService
	Overview *services.OverviewService
	Lock     *services.LockService
	Share    *services.ShareService
	Advice   *services.AdviceService
	Export   *services.ExportService
	Import   *services.ImportService

	I18n         *i18n.Manager
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
	CookieSecure bool
}

type Handler struct {
	journal  *services.JournalService
	settings *services.SettingsService
	overview *services.OverviewService
	lock     *services.LockService
	share    *services.ShareService
	advice   *services.AdviceService
	export   *services.ExportService
	imports  *services.ImportService

	i18n          *i18n.Manager
	metrics       *metrics.Metrics
	log           *zap.Logger
	cookieSecure  bool
	unlockLimiter *attemptLimiter
}

func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Journal == nil || deps.Settings == nil || deps.Overview == nil || deps.Lock == nil {
		return nil, errors.New("journal, settings, overview and lock services are required")
	}
	if deps.Share == nil || deps.Advice == nil || deps.Export == nil || deps.Import == nil {
		return nil, errors.New("share, advice, export and import services are required")
	}
	if deps.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Handler{
		journal:       deps.Journal,
		settings:      deps.Settings,
		overview:      deps.Overview,
		lock:          deps.Lock,
		share:         deps.Share,
		advice:        deps.Advice,
		export:        deps.Export,
		imports:       deps.Import,
		i18n:          deps.I18n,
		metrics:       deps.Metrics,
		log:           deps.Logger.Named("api"),
		cookieSecure:  deps.CookieSecure,
		unlockLimiter: newAttemptLimiter(unlockAttemptLimit, unlockAttemptWindow),
	}, nil
}
