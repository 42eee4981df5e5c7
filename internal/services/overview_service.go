package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/lunacycle/internal/cache"
	"github.com/terraincognita07/lunacycle/internal/cycle"
	"github.com/terraincognita07/lunacycle/internal/metrics"
	"github.com/terraincognita07/lunacycle/internal/models"
	"go.uber.org/zap"
)

var (
	ErrInvalidMonth       = errors.New("invalid month")
	ErrOverviewLoadFailed = errors.New("load overview failed")
)

const (
	overviewCacheKeyPrefix  = "overview:"
	calendarMonthLayout     = "2006-01"
	defaultOverviewCacheTTL = 10 * time.Minute
)

// ForecastCache is the subset of the redis store the overview relies on.
type ForecastCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type Overview struct {
	Today               string      `json:"today"`
	HasHistory          bool        `json:"hasHistory"`
	CycleDay            int         `json:"cycleDay"`
	DayInCycle          int         `json:"dayInCycle"`
	Phase               cycle.Phase `json:"phase"`
	AverageCycleLength  int         `json:"averageCycleLength"`
	AveragePeriodLength int         `json:"averagePeriodLength"`
	LastPeriodStart     string      `json:"lastPeriodStart,omitempty"`
	NextPeriodStart     string      `json:"nextPeriodStart,omitempty"`
	HasPrediction       bool        `json:"hasPrediction"`
	DaysUntilNext       int         `json:"daysUntilNext"`
	FertileToday        bool        `json:"fertileToday"`
	OvulationDate       string      `json:"ovulationDate,omitempty"`
	TodaySymptoms       []string    `json:"todaySymptoms"`
}

type CalendarDayView struct {
	Date        string      `json:"date"`
	Day         int         `json:"day"`
	InMonth     bool        `json:"inMonth"`
	IsToday     bool        `json:"isToday"`
	IsPeriod    bool        `json:"isPeriod"`
	Intensity   string      `json:"intensity,omitempty"`
	IsPredicted bool        `json:"isPredicted"`
	IsFertile   bool        `json:"isFertile"`
	IsOvulation bool        `json:"isOvulation"`
	Phase       cycle.Phase `json:"phase"`
}

type HistoryView struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	PeriodDays  int    `json:"periodDays"`
	CycleLength int    `json:"cycleLength,omitempty"`
	Ongoing     bool   `json:"ongoing"`
}

type PhaseView struct {
	Date        string      `json:"date"`
	HasHistory  bool        `json:"hasHistory"`
	DayInCycle  int         `json:"dayInCycle"`
	Phase       cycle.Phase `json:"phase"`
	Fertile     bool        `json:"fertile"`
	IsOvulation bool        `json:"isOvulation"`
}

type OverviewOption func(*OverviewService)

func WithForecastCache(store ForecastCache, ttl time.Duration) OverviewOption {
	return func(service *OverviewService) {
		service.cache = store
		if ttl > 0 {
			service.cacheTTL = ttl
		}
	}
}

func WithOverviewMetrics(recorder *metrics.Metrics) OverviewOption {
	return func(service *OverviewService) {
		service.metrics = recorder
	}
}

func WithOverviewClock(clock Clock, location *time.Location) OverviewOption {
	return func(service *OverviewService) {
		service.clock = clock
		if location != nil {
			service.location = location
		}
	}
}

func WithOverviewLogger(log *zap.Logger) OverviewOption {
	return func(service *OverviewService) {
		if log != nil {
			service.log = log
		}
	}
}

// OverviewService answers every read-only prediction question about the journal.
type OverviewService struct {
	engine   cycle.Engine
	periods  PeriodRepository
	symptoms SymptomRepository
	settings SettingsRepository

	cache    ForecastCache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	clock    Clock
	location *time.Location
	log      *zap.Logger
}

func NewOverviewService(engine cycle.Engine, periods PeriodRepository, symptoms SymptomRepository, settings SettingsRepository, opts ...OverviewOption) *OverviewService {
	service := &OverviewService{
		engine:   engine,
		periods:  periods,
		symptoms: symptoms,
		settings: settings,
		cacheTTL: defaultOverviewCacheTTL,
		location: time.UTC,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (service *OverviewService) Today() time.Time {
	return service.clock.today(service.location)
}

func (service *OverviewService) Overview(ctx context.Context) (Overview, error) {
	today := service.Today()
	key := overviewCacheKeyPrefix + cycle.FormatDay(today)

	if service.cache != nil {
		var cached Overview
		err := service.cache.Get(ctx, key, &cached)
		switch {
		case err == nil:
			service.metrics.RecordCacheLookup(true)
			return cached, nil
		case !errors.Is(err, cache.ErrCacheMiss):
			service.log.Warn("forecast cache read failed", zap.Error(err))
		}
		service.metrics.RecordCacheLookup(false)
	}

	overview, err := service.buildOverview(today)
	if err != nil {
		return Overview{}, err
	}

	if service.cache != nil {
		if err := service.cache.Set(ctx, key, overview, service.cacheTTL); err != nil {
			service.log.Warn("forecast cache write failed", zap.Error(err))
		}
	}
	return overview, nil
}

// Forecast evaluates the journal for today without touching the cache.
func (service *OverviewService) Forecast() (cycle.Forecast, error) {
	records, settings, err := service.load()
	if err != nil {
		return cycle.Forecast{}, err
	}
	return service.engine.Forecast(records, settings, service.Today()), nil
}

func (service *OverviewService) buildOverview(today time.Time) (Overview, error) {
	records, settings, err := service.load()
	if err != nil {
		return Overview{}, err
	}
	forecast := service.engine.Forecast(records, settings, today)

	overview := Overview{
		Today:               cycle.FormatDay(today),
		HasHistory:          forecast.HasHistory,
		CycleDay:            forecast.CycleDay,
		DayInCycle:          forecast.DayInCycle,
		Phase:               forecast.Phase,
		AverageCycleLength:  forecast.AverageCycleLength,
		AveragePeriodLength: forecast.AveragePeriodLength,
		HasPrediction:       forecast.HasPrediction,
		DaysUntilNext:       forecast.DaysUntilNext,
		FertileToday:        forecast.FertileToday,
		LastPeriodStart:     formatOptionalDay(forecast.LastPeriodStart),
		NextPeriodStart:     formatOptionalDay(forecast.NextPeriodStart),
		OvulationDate:       formatOptionalDay(forecast.OvulationDate),
		TodaySymptoms:       []string{},
	}

	symptom, found, err := service.symptoms.Find(overview.Today)
	if err != nil {
		return Overview{}, fmt.Errorf("%w: %v", ErrOverviewLoadFailed, err)
	}
	if found {
		overview.TodaySymptoms = append(overview.TodaySymptoms, symptom.PhysicalSymptoms...)
	}
	return overview, nil
}

// Calendar renders the month given as YYYY-MM; an empty month means the current one.
func (service *OverviewService) Calendar(rawMonth string) ([]CalendarDayView, error) {
	today := service.Today()
	month := today
	if trimmed := strings.TrimSpace(rawMonth); trimmed != "" {
		parsed, err := time.Parse(calendarMonthLayout, trimmed)
		if err != nil {
			return nil, ErrInvalidMonth
		}
		month = parsed
	}

	records, settings, err := service.load()
	if err != nil {
		return nil, err
	}

	days := service.engine.BuildMonth(month, records, settings, today)
	views := make([]CalendarDayView, 0, len(days))
	for _, day := range days {
		views = append(views, CalendarDayView{
			Date:        day.DateString,
			Day:         day.Day,
			InMonth:     day.InMonth,
			IsToday:     day.IsToday,
			IsPeriod:    day.IsPeriod,
			Intensity:   day.Intensity,
			IsPredicted: day.IsPredicted,
			IsFertile:   day.IsFertile,
			IsOvulation: day.IsOvulation,
			Phase:       day.Phase,
		})
	}
	return views, nil
}

func (service *OverviewService) History() ([]HistoryView, error) {
	records, err := service.periods.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOverviewLoadFailed, err)
	}

	entries := service.engine.History(records)
	views := make([]HistoryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, HistoryView{
			Start:       cycle.FormatDay(entry.Start),
			End:         cycle.FormatDay(entry.End),
			PeriodDays:  entry.PeriodDays,
			CycleLength: entry.CycleLength,
			Ongoing:     entry.Ongoing,
		})
	}
	return views, nil
}

func (service *OverviewService) PhaseOn(rawDate string) (PhaseView, error) {
	date, ok := cycle.ParseDay(rawDate)
	if !ok {
		return PhaseView{}, ErrInvalidDate
	}

	records, settings, err := service.load()
	if err != nil {
		return PhaseView{}, err
	}

	info := service.engine.DayInfo(date, records, settings)
	return PhaseView{
		Date:        cycle.FormatDay(info.Date),
		HasHistory:  info.HasHistory,
		DayInCycle:  info.DayInCycle,
		Phase:       info.Phase,
		Fertile:     info.Fertile,
		IsOvulation: info.IsOvulation,
	}, nil
}

// InvalidateCache drops cached forecasts after the journal or settings changed.
func (service *OverviewService) InvalidateCache(ctx context.Context) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Invalidate(ctx); err != nil {
		service.log.Warn("forecast cache invalidation failed", zap.Error(err))
	}
}

func (service *OverviewService) load() ([]models.PeriodRecord, models.Settings, error) {
	records, err := service.periods.List()
	if err != nil {
		return nil, models.Settings{}, fmt.Errorf("%w: %v", ErrOverviewLoadFailed, err)
	}
	settings, err := service.settings.Load()
	if err != nil {
		return nil, models.Settings{}, fmt.Errorf("%w: %v", ErrOverviewLoadFailed, err)
	}
	return records, settings, nil
}

func formatOptionalDay(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return cycle.FormatDay(value)
}
