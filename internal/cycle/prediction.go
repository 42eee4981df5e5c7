package cycle

import (
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

// NextPeriodDate adds cycleLength days to the latest episode start. The boolean
// is false when the log has no usable record.
func (engine Engine) NextPeriodDate(records []models.PeriodRecord, cycleLength int) (time.Time, bool) {
	starts := engine.EpisodeStarts(records)
	if len(starts) == 0 {
		return time.Time{}, false
	}
	return addDays(starts[len(starts)-1], cycleLength), true
}

// CurrentCycleDay counts today as day N since the latest episode start, without
// wrapping. Zero means nothing is tracked yet.
func (engine Engine) CurrentCycleDay(records []models.PeriodRecord, today time.Time) int {
	starts := engine.EpisodeStarts(records)
	if len(starts) == 0 {
		return 0
	}
	return DaysBetween(starts[len(starts)-1], today) + 1
}

func NextPeriodDate(records []models.PeriodRecord, cycleLength int) (time.Time, bool) {
	return DefaultEngine.NextPeriodDate(records, cycleLength)
}

func CurrentCycleDay(records []models.PeriodRecord, today time.Time) int {
	return DefaultEngine.CurrentCycleDay(records, today)
}

// InFertileWindow reports whether date falls into the six days ending on the
// projected ovulation day of the cycle that cycleStart anchors.
func InFertileWindow(date time.Time, cycleStart time.Time, cycleLength int) bool {
	if cycleLength <= 0 {
		return false
	}
	dayInCycle := DayInCycle(date, cycleStart, cycleLength)
	ovulationDay := OvulationDay(cycleLength)
	return dayInCycle >= ovulationDay-FertileLeadDays && dayInCycle <= ovulationDay
}

// Forecast bundles the predictions shown for a single day.
type Forecast struct {
	HasHistory          bool
	CycleDay            int
	DayInCycle          int
	Phase               Phase
	AverageCycleLength  int
	AveragePeriodLength int // observed from completed episodes
	LastPeriodStart     time.Time
	NextPeriodStart     time.Time
	HasPrediction       bool
	DaysUntilNext       int
	FertileToday        bool
	OvulationDate       time.Time
}

// Forecast evaluates the log for today. Without history it reports the
// configured averages and the Follicular default.
func (engine Engine) Forecast(records []models.PeriodRecord, settings models.Settings, today time.Time) Forecast {
	today = DateOnly(today)
	periodLength := settings.PeriodLength()
	cycleLength := engine.AverageCycleLength(records, settings.CycleLength())
	starts := engine.EpisodeStarts(records)

	forecast := Forecast{
		Phase:               PhaseFollicular,
		AverageCycleLength:  cycleLength,
		AveragePeriodLength: engine.AveragePeriodLength(records, periodLength),
		DaysUntilNext:       cycleLength,
	}
	if len(starts) == 0 {
		return forecast
	}

	lastStart := starts[len(starts)-1]
	forecast.HasHistory = true
	forecast.LastPeriodStart = lastStart
	forecast.CycleDay = DaysBetween(lastStart, today) + 1
	forecast.NextPeriodStart = addDays(lastStart, cycleLength)
	forecast.HasPrediction = true
	forecast.DaysUntilNext = DaysBetween(today, forecast.NextPeriodStart)

	anchor, _ := anchorFor(today, starts)
	forecast.DayInCycle = DayInCycle(today, anchor, cycleLength)
	forecast.Phase = ClassifyPhase(forecast.DayInCycle, cycleLength, periodLength)

	cycleStart := addDays(today, -(forecast.DayInCycle - 1))
	forecast.FertileToday = InFertileWindow(today, cycleStart, cycleLength)
	if ovulationDay := OvulationDay(cycleLength); ovulationDay >= 1 {
		forecast.OvulationDate = addDays(cycleStart, ovulationDay-1)
	}
	return forecast
}
