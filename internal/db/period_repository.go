package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terraincognita07/lunacycle/internal/models"
)

type PeriodRepository struct {
	database *gorm.DB
}

func NewPeriodRepository(database *gorm.DB) *PeriodRepository {
	return &PeriodRepository{database: database}
}

func (repo *PeriodRepository) List() ([]models.PeriodRecord, error) {
	records := make([]models.PeriodRecord, 0)
	if err := repo.database.Order("date ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListRange returns records with from <= date <= to. Empty bounds are open.
func (repo *PeriodRepository) ListRange(from string, to string) ([]models.PeriodRecord, error) {
	query := repo.database.Model(&models.PeriodRecord{})
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		query = query.Where("date <= ?", to)
	}

	records := make([]models.PeriodRecord, 0)
	if err := query.Order("date ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *PeriodRepository) Find(date string) (models.PeriodRecord, bool, error) {
	record := models.PeriodRecord{}
	result := repo.database.Where("date = ?", date).Limit(1).Find(&record)
	if result.Error != nil {
		return models.PeriodRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.PeriodRecord{}, false, nil
	}
	return record, true, nil
}

// Upsert writes the record, replacing the intensity of an existing day.
func (repo *PeriodRepository) Upsert(record *models.PeriodRecord) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"intensity", "updated_at"}),
	}).Create(record).Error
}

func (repo *PeriodRepository) Delete(date string) error {
	return repo.database.Where("date = ?", date).Delete(&models.PeriodRecord{}).Error
}

func (repo *PeriodRepository) Count() (int64, error) {
	var count int64
	err := repo.database.Model(&models.PeriodRecord{}).Count(&count).Error
	return count, err
}
