package db

import (
	"gorm.io/gorm"

	"github.com/terraincognita07/lunacycle/internal/models"
)

// SettingsRepository stores the single settings row.
type SettingsRepository struct {
	database *gorm.DB
}

func NewSettingsRepository(database *gorm.DB) *SettingsRepository {
	return &SettingsRepository{database: database}
}

// Load returns the stored settings, or the defaults when none were saved yet.
func (repo *SettingsRepository) Load() (models.Settings, error) {
	settings := models.Settings{}
	result := repo.database.Where("id = ?", models.SettingsRowID()).Limit(1).Find(&settings)
	if result.Error != nil {
		return models.Settings{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DefaultSettings(), nil
	}
	return settings, nil
}

func (repo *SettingsRepository) Save(settings *models.Settings) error {
	settings.ID = models.SettingsRowID()
	return repo.database.Save(settings).Error
}
