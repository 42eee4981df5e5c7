package services

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/lunacycle/internal/models"
)

var (
	ErrSettingsLoadFailed = errors.New("load settings failed")
	ErrSettingsSaveFailed = errors.New("save settings failed")
)

type CycleSettingsUpdate struct {
	AverageCycleLength   int  `json:"averageCycleLength" validate:"min=15,max=90"`
	AveragePeriodLength  int  `json:"averagePeriodLength" validate:"min=1,max=14"`
	NotificationsEnabled bool `json:"notificationsEnabled"`
}

type SettingsService struct {
	changeNotifier

	settings SettingsRepository
}

func NewSettingsService(settings SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

func (service *SettingsService) Load() (models.Settings, error) {
	settings, err := service.settings.Load()
	if err != nil {
		return models.Settings{}, fmt.Errorf("%w: %v", ErrSettingsLoadFailed, err)
	}
	return settings, nil
}

// SaveCycleSettings updates the fallback averages and the reminder switch.
// The lock configuration is left untouched.
func (service *SettingsService) SaveCycleSettings(update CycleSettingsUpdate) (models.Settings, error) {
	if err := validateStruct(update); err != nil {
		return models.Settings{}, err
	}

	settings, err := service.Load()
	if err != nil {
		return models.Settings{}, err
	}
	settings.AverageCycleLength = update.AverageCycleLength
	settings.AveragePeriodLength = update.AveragePeriodLength
	settings.NotificationsEnabled = update.NotificationsEnabled
	if err := service.settings.Save(&settings); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %v", ErrSettingsSaveFailed, err)
	}

	service.notifyChanged()
	return settings, nil
}
