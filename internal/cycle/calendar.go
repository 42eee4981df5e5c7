package cycle

import (
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

// MaxForecastCycles bounds how many future cycles the calendar projects.
const MaxForecastCycles = 12

type CalendarDay struct {
	Date        time.Time
	DateString  string
	Day         int
	InMonth     bool
	IsToday     bool
	IsPeriod    bool
	Intensity   string
	IsPredicted bool
	IsFertile   bool
	IsOvulation bool
	Phase       Phase
}

// BuildMonth renders a Sunday-aligned grid covering the month of monthStart.
func (engine Engine) BuildMonth(monthStart time.Time, records []models.PeriodRecord, settings models.Settings, today time.Time) []CalendarDay {
	year, month, _ := monthStart.Date()
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstDay.AddDate(0, 1, -1)
	gridStart := firstDay.AddDate(0, 0, -int(firstDay.Weekday()))
	gridEnd := lastDay.AddDate(0, 0, 6-int(lastDay.Weekday()))

	intensityByDate := make(map[string]string, len(records))
	for _, record := range records {
		parsed, ok := ParseDay(record.Date)
		if !ok {
			continue
		}
		intensityByDate[FormatDay(parsed)] = record.Intensity
	}

	starts := engine.EpisodeStarts(records)
	cycleLength := engine.AverageCycleLength(records, settings.CycleLength())
	periodLength := settings.PeriodLength()
	predictedPeriod := predictedPeriodDays(starts, cycleLength, periodLength)

	days := make([]CalendarDay, 0, 42)
	for date := gridStart; !date.After(gridEnd); date = date.AddDate(0, 0, 1) {
		key := FormatDay(date)
		intensity, logged := intensityByDate[key]

		calendarDay := CalendarDay{
			Date:        date,
			DateString:  key,
			Day:         date.Day(),
			InMonth:     date.Month() == month,
			IsToday:     sameDay(date, today),
			IsPeriod:    logged,
			Intensity:   intensity,
			IsPredicted: !logged && predictedPeriod[key],
			Phase:       phaseFromStarts(date, starts, cycleLength, periodLength),
		}

		if cycleStart, ok := forecastCycleStart(date, starts, cycleLength); ok {
			calendarDay.IsFertile = InFertileWindow(date, cycleStart, cycleLength)
			calendarDay.IsOvulation = DayInCycle(date, cycleStart, cycleLength) == OvulationDay(cycleLength)
		}

		days = append(days, calendarDay)
	}
	return days
}

func BuildMonth(monthStart time.Time, records []models.PeriodRecord, settings models.Settings, today time.Time) []CalendarDay {
	return DefaultEngine.BuildMonth(monthStart, records, settings, today)
}

func predictedPeriodDays(starts []time.Time, cycleLength int, periodLength int) map[string]bool {
	predicted := make(map[string]bool)
	if len(starts) == 0 || cycleLength <= 0 {
		return predicted
	}
	lastStart := starts[len(starts)-1]
	for cycleOffset := 1; cycleOffset <= MaxForecastCycles; cycleOffset++ {
		cycleStart := addDays(lastStart, cycleOffset*cycleLength)
		for offset := 0; offset < periodLength; offset++ {
			predicted[FormatDay(addDays(cycleStart, offset))] = true
		}
	}
	return predicted
}

// forecastCycleStart returns the start of the current or a projected future
// cycle containing date. Dates before the latest logged start and beyond the
// forecast horizon have no projected cycle.
func forecastCycleStart(date time.Time, starts []time.Time, cycleLength int) (time.Time, bool) {
	if len(starts) == 0 || cycleLength <= 0 {
		return time.Time{}, false
	}
	lastStart := starts[len(starts)-1]
	elapsed := DaysBetween(lastStart, date)
	if elapsed < 0 {
		return time.Time{}, false
	}
	cycleOffset := elapsed / cycleLength
	if cycleOffset > MaxForecastCycles {
		return time.Time{}, false
	}
	return addDays(lastStart, cycleOffset*cycleLength), true
}
