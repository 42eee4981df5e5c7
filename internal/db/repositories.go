package db

import (
	"gorm.io/gorm"

	"github.com/terraincognita07/lunacycle/internal/models"
)

type Repositories struct {
	database *gorm.DB

	Periods  *PeriodRepository
	Symptoms *SymptomRepository
	Settings *SettingsRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		database: database,
		Periods:  NewPeriodRepository(database),
		Symptoms: NewSymptomRepository(database),
		Settings: NewSettingsRepository(database),
	}
}

// ReplaceJournal swaps the whole journal in one transaction.
func (repos *Repositories) ReplaceJournal(periods []models.PeriodRecord, symptoms []models.SymptomRecord) error {
	return repos.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.PeriodRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.SymptomRecord{}).Error; err != nil {
			return err
		}
		if len(periods) > 0 {
			if err := tx.CreateInBatches(periods, 200).Error; err != nil {
				return err
			}
		}
		if len(symptoms) > 0 {
			if err := tx.CreateInBatches(symptoms, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
