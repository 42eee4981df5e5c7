package cycle

import (
	"testing"
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

func periodRecords(dates ...string) []models.PeriodRecord {
	records := make([]models.PeriodRecord, 0, len(dates))
	for _, date := range dates {
		records = append(records, models.PeriodRecord{Date: date, Intensity: models.IntensityMedium})
	}
	return records
}

// threeCycleLog has episodes starting 2025-01-01, 2025-01-29 and 2025-02-26.
func threeCycleLog() []models.PeriodRecord {
	return periodRecords(
		"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04",
		"2025-01-29", "2025-01-30", "2025-01-31", "2025-02-01",
		"2025-02-26", "2025-02-27", "2025-02-28", "2025-03-01",
	)
}

func mustDay(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, ok := ParseDay(raw)
	if !ok {
		t.Fatalf("invalid test date %q", raw)
	}
	return parsed
}

func formatDays(values []time.Time) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		result = append(result, FormatDay(value))
	}
	return result
}
