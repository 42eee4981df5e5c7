package cycle

import (
	"sort"
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

// DefaultGapDays is the largest distance between two logged flow days that
// still keeps them in the same episode.
const DefaultGapDays = 2

// Engine holds the tunables of the cycle calculations. The zero value behaves
// like DefaultEngine.
type Engine struct {
	GapDays int
}

var DefaultEngine = Engine{GapDays: DefaultGapDays}

func NewEngine(gapDays int) Engine {
	if gapDays < 1 {
		gapDays = DefaultGapDays
	}
	return Engine{GapDays: gapDays}
}

// Episode is a contiguous run of logged period days.
type Episode struct {
	Start      time.Time
	End        time.Time
	LoggedDays int
}

func (engine Engine) gapDays() int {
	if engine.GapDays < 1 {
		return DefaultGapDays
	}
	return engine.GapDays
}

// Episodes groups the log into episodes, oldest first. Records with an
// unparseable date are ignored.
func (engine Engine) Episodes(records []models.PeriodRecord) []Episode {
	days := sortedPeriodDays(records)
	if len(days) == 0 {
		return nil
	}

	gap := engine.gapDays()
	episodes := make([]Episode, 0, 4)
	current := Episode{Start: days[0], End: days[0], LoggedDays: 1}
	for _, periodDay := range days[1:] {
		if DaysBetween(current.End, periodDay) > gap {
			episodes = append(episodes, current)
			current = Episode{Start: periodDay, End: periodDay, LoggedDays: 1}
			continue
		}
		current.End = periodDay
		current.LoggedDays++
	}
	return append(episodes, current)
}

// EpisodeStarts returns the start date of every episode, oldest first.
func (engine Engine) EpisodeStarts(records []models.PeriodRecord) []time.Time {
	episodes := engine.Episodes(records)
	if len(episodes) == 0 {
		return nil
	}
	starts := make([]time.Time, 0, len(episodes))
	for _, episode := range episodes {
		starts = append(starts, episode.Start)
	}
	return starts
}

func Episodes(records []models.PeriodRecord) []Episode {
	return DefaultEngine.Episodes(records)
}

func EpisodeStarts(records []models.PeriodRecord) []time.Time {
	return DefaultEngine.EpisodeStarts(records)
}

func sortedPeriodDays(records []models.PeriodRecord) []time.Time {
	seen := make(map[time.Time]struct{}, len(records))
	days := make([]time.Time, 0, len(records))
	for _, record := range records {
		parsed, ok := ParseDay(record.Date)
		if !ok {
			continue
		}
		if _, duplicate := seen[parsed]; duplicate {
			continue
		}
		seen[parsed] = struct{}{}
		days = append(days, parsed)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})
	return days
}
