package services

import (
	"time"

	"github.com/terraincognita07/lunacycle/internal/cycle"
)

type Clock func() time.Time

func (clock Clock) now() time.Time {
	if clock == nil {
		return time.Now()
	}
	return clock()
}

// today is the calendar date in location, as a UTC midnight.
func (clock Clock) today(location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return cycle.DateOnly(clock.now().In(location))
}
