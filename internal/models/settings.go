package models

import "time"

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5

	MinCycleLength  = 15
	MaxCycleLength  = 90
	MinPeriodLength = 1
	MaxPeriodLength = 14

	LockMethodNone = ""
	LockMethodPIN  = "pin"

	settingsRowID = 1
)

type Settings struct {
	ID                   uint      `gorm:"primaryKey" json:"-"`
	AverageCycleLength   int       `gorm:"not null;default:28" json:"averageCycleLength"`
	AveragePeriodLength  int       `gorm:"not null;default:5" json:"averagePeriodLength"`
	LockMethod           string    `gorm:"not null;default:''" json:"lockMethod,omitempty"`
	PinHash              string    `gorm:"not null;default:''" json:"-"`
	NotificationsEnabled bool      `gorm:"not null;default:false" json:"notificationsEnabled"`
	UpdatedAt            time.Time `json:"-"`
}

func DefaultSettings() Settings {
	return Settings{
		ID:                  settingsRowID,
		AverageCycleLength:  DefaultCycleLength,
		AveragePeriodLength: DefaultPeriodLength,
	}
}

func SettingsRowID() uint {
	return settingsRowID
}

func (settings Settings) Locked() bool {
	return settings.LockMethod == LockMethodPIN && settings.PinHash != ""
}

// CycleLength returns the configured average, falling back to the default for
// values outside the accepted range.
func (settings Settings) CycleLength() int {
	if settings.AverageCycleLength < MinCycleLength || settings.AverageCycleLength > MaxCycleLength {
		return DefaultCycleLength
	}
	return settings.AverageCycleLength
}

func (settings Settings) PeriodLength() int {
	if settings.AveragePeriodLength < MinPeriodLength || settings.AveragePeriodLength > MaxPeriodLength {
		return DefaultPeriodLength
	}
	return settings.AveragePeriodLength
}

func (Settings) TableName() string {
	return "settings"
}
