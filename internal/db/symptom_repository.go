package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terraincognita07/lunacycle/internal/models"
)

type SymptomRepository struct {
	database *gorm.DB
}

func NewSymptomRepository(database *gorm.DB) *SymptomRepository {
	return &SymptomRepository{database: database}
}

func (repo *SymptomRepository) List() ([]models.SymptomRecord, error) {
	records := make([]models.SymptomRecord, 0)
	if err := repo.database.Order("date ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *SymptomRepository) ListRange(from string, to string) ([]models.SymptomRecord, error) {
	query := repo.database.Model(&models.SymptomRecord{})
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		query = query.Where("date <= ?", to)
	}

	records := make([]models.SymptomRecord, 0)
	if err := query.Order("date ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *SymptomRepository) Find(date string) (models.SymptomRecord, bool, error) {
	record := models.SymptomRecord{}
	result := repo.database.Where("date = ?", date).Limit(1).Find(&record)
	if result.Error != nil {
		return models.SymptomRecord{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.SymptomRecord{}, false, nil
	}
	return record, true, nil
}

func (repo *SymptomRepository) Upsert(record *models.SymptomRecord) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"moods", "energy", "physical_symptoms", "notes", "updated_at"}),
	}).Create(record).Error
}

func (repo *SymptomRepository) Delete(date string) error {
	return repo.database.Where("date = ?", date).Delete(&models.SymptomRecord{}).Error
}
