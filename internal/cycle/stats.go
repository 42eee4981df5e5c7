package cycle

import (
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

// AverageCycleLength is the mean distance between consecutive episode starts,
// rounded half up. With fewer than two episodes the fallback is returned as is.
func (engine Engine) AverageCycleLength(records []models.PeriodRecord, fallback int) int {
	lengths := cycleLengths(engine.EpisodeStarts(records))
	if len(lengths) == 0 {
		return fallback
	}
	return roundedMean(lengths)
}

// AveragePeriodLength averages the logged days of every completed episode.
// The most recent episode may still be running and is left out.
func (engine Engine) AveragePeriodLength(records []models.PeriodRecord, fallback int) int {
	episodes := engine.Episodes(records)
	if len(episodes) < 2 {
		return fallback
	}
	lengths := make([]int, 0, len(episodes)-1)
	for _, episode := range episodes[:len(episodes)-1] {
		lengths = append(lengths, episode.LoggedDays)
	}
	return roundedMean(lengths)
}

func AverageCycleLength(records []models.PeriodRecord, fallback int) int {
	return DefaultEngine.AverageCycleLength(records, fallback)
}

func AveragePeriodLength(records []models.PeriodRecord, fallback int) int {
	return DefaultEngine.AveragePeriodLength(records, fallback)
}

func cycleLengths(starts []time.Time) []int {
	if len(starts) < 2 {
		return nil
	}
	lengths := make([]int, 0, len(starts)-1)
	for i := 1; i < len(starts); i++ {
		lengths = append(lengths, DaysBetween(starts[i-1], starts[i]))
	}
	return lengths
}

func roundedMean(values []int) int {
	if len(values) == 0 {
		return 0
	}
	total := 0
	for _, value := range values {
		total += value
	}
	count := len(values)
	// half up for non-negative totals: floor((2*total + count) / (2*count))
	return (2*total + count) / (2 * count)
}
