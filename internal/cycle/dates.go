package cycle

import (
	"strings"
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

const secondsPerDay = 24 * 60 * 60

// ParseDay parses a YYYY-MM-DD string into UTC midnight of that day.
func ParseDay(raw string) (time.Time, bool) {
	parsed, err := time.Parse(models.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// DateOnly drops the time of day, keeping the calendar date as seen in the
// value's own location, and returns it as UTC midnight.
func DateOnly(value time.Time) time.Time {
	year, month, dayOfMonth := value.Date()
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func FormatDay(value time.Time) string {
	return DateOnly(value).Format(models.DateLayout)
}

// DaysBetween returns the signed number of calendar days from one date to
// another. It counts through Unix seconds so spans beyond time.Duration's
// range stay exact.
func DaysBetween(from time.Time, to time.Time) int {
	return int((DateOnly(to).Unix() - DateOnly(from).Unix()) / secondsPerDay)
}

func addDays(value time.Time, days int) time.Time {
	return DateOnly(value).AddDate(0, 0, days)
}

func floorMod(value int, modulus int) int {
	remainder := value % modulus
	if remainder < 0 {
		remainder += modulus
	}
	return remainder
}

func sameDay(a time.Time, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}
