package services

import "github.com/terraincognita07/lunacycle/internal/models"

type PeriodRepository interface {
	List() ([]models.PeriodRecord, error)
	ListRange(from string, to string) ([]models.PeriodRecord, error)
	Find(date string) (models.PeriodRecord, bool, error)
	Upsert(record *models.PeriodRecord) error
	Delete(date string) error
}

type SymptomRepository interface {
	List() ([]models.SymptomRecord, error)
	ListRange(from string, to string) ([]models.SymptomRecord, error)
	Find(date string) (models.SymptomRecord, bool, error)
	Upsert(record *models.SymptomRecord) error
	Delete(date string) error
}

type SettingsRepository interface {
	Load() (models.Settings, error)
	Save(settings *models.Settings) error
}

type JournalReplacer interface {
	ReplaceJournal(periods []models.PeriodRecord, symptoms []models.SymptomRecord) error
}
