package models

import "time"

const (
	IntensityLight  = "light"
	IntensityMedium = "medium"
	IntensityHeavy  = "heavy"
)

// DateLayout is the canonical serialization of a calendar day.
const DateLayout = "2006-01-02"

// PeriodRecord marks one calendar day as having period flow. The date string is
// the primary key, so a second write for the same day replaces the first.
type PeriodRecord struct {
	Date      string    `gorm:"primaryKey;type:text" json:"date"`
	Intensity string    `gorm:"not null;default:medium" json:"intensity"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func IsValidIntensity(value string) bool {
	switch value {
	case IntensityLight, IntensityMedium, IntensityHeavy:
		return true
	default:
		return false
	}
}
