package cycle

import (
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

// DayInCycle wraps the distance between anchor and date into [1, cycleLength].
// Dates before the anchor count backwards through hypothetical earlier cycles,
// so the day right before the anchor is the last day of the previous cycle.
// Both directions use the same floorMod wrap as forward projection.
func DayInCycle(date time.Time, anchor time.Time, cycleLength int) int {
	if cycleLength <= 0 {
		cycleLength = models.DefaultCycleLength
	}
	return floorMod(DaysBetween(anchor, date), cycleLength) + 1
}

// PhaseOnDate projects the phase of any calendar date from the log.
func (engine Engine) PhaseOnDate(date time.Time, records []models.PeriodRecord, cycleLength int, periodLength int) Phase {
	return phaseFromStarts(date, engine.EpisodeStarts(records), cycleLength, periodLength)
}

func PhaseOnDate(date time.Time, records []models.PeriodRecord, cycleLength int, periodLength int) Phase {
	return DefaultEngine.PhaseOnDate(date, records, cycleLength, periodLength)
}

func phaseFromStarts(date time.Time, starts []time.Time, cycleLength int, periodLength int) Phase {
	anchor, ok := anchorFor(date, starts)
	if !ok {
		return PhaseFollicular
	}
	if cycleLength <= 0 {
		cycleLength = models.DefaultCycleLength
	}
	return ClassifyPhase(DayInCycle(date, anchor, cycleLength), cycleLength, periodLength)
}

// anchorFor picks the latest start on or before date, or the earliest start
// when date precedes the whole history. starts must be sorted ascending.
func anchorFor(date time.Time, starts []time.Time) (time.Time, bool) {
	if len(starts) == 0 {
		return time.Time{}, false
	}
	target := DateOnly(date)
	anchor := starts[0]
	for _, start := range starts {
		if start.After(target) {
			break
		}
		anchor = start
	}
	return anchor, true
}

// DayInfo is the projection of a single calendar date.
type DayInfo struct {
	Date        time.Time
	HasHistory  bool
	DayInCycle  int
	Phase       Phase
	Fertile     bool
	IsOvulation bool
}

// DayInfo evaluates date against the log using the observed average cycle
// length, falling back to the settings.
func (engine Engine) DayInfo(date time.Time, records []models.PeriodRecord, settings models.Settings) DayInfo {
	date = DateOnly(date)
	info := DayInfo{Date: date, Phase: PhaseFollicular}

	starts := engine.EpisodeStarts(records)
	anchor, ok := anchorFor(date, starts)
	if !ok {
		return info
	}

	cycleLength := engine.AverageCycleLength(records, settings.CycleLength())
	info.HasHistory = true
	info.DayInCycle = DayInCycle(date, anchor, cycleLength)
	info.Phase = ClassifyPhase(info.DayInCycle, cycleLength, settings.PeriodLength())
	info.Fertile = InFertileWindow(date, anchor, cycleLength)
	info.IsOvulation = info.DayInCycle == OvulationDay(cycleLength)
	return info
}
