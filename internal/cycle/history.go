package cycle

import (
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

type HistoryEntry struct {
	Start       time.Time
	End         time.Time
	PeriodDays  int
	CycleLength int
	Ongoing     bool
}

// History lists episodes most recent first. Each entry carries the distance to
// the following episode; the latest one is still ongoing.
func (engine Engine) History(records []models.PeriodRecord) []HistoryEntry {
	episodes := engine.Episodes(records)
	entries := make([]HistoryEntry, 0, len(episodes))
	for index := len(episodes) - 1; index >= 0; index-- {
		episode := episodes[index]
		entry := HistoryEntry{
			Start:      episode.Start,
			End:        episode.End,
			PeriodDays: episode.LoggedDays,
		}
		if index+1 < len(episodes) {
			entry.CycleLength = DaysBetween(episode.Start, episodes[index+1].Start)
		} else {
			entry.Ongoing = true
		}
		entries = append(entries, entry)
	}
	return entries
}

func History(records []models.PeriodRecord) []HistoryEntry {
	return DefaultEngine.History(records)
}
