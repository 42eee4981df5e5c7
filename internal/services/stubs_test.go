package services

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

var errStubStorage = errors.New("storage unavailable")

type memoryPeriodRepo struct {
	mu      sync.Mutex
	records map[string]models.PeriodRecord
	err     error
}

func newMemoryPeriodRepo(records ...models.PeriodRecord) *memoryPeriodRepo {
	repo := &memoryPeriodRepo{records: make(map[string]models.PeriodRecord)}
	for _, record := range records {
		repo.records[record.Date] = record
	}
	return repo
}

func (repo *memoryPeriodRepo) List() ([]models.PeriodRecord, error) {
	return repo.ListRange("", "")
}

func (repo *memoryPeriodRepo) ListRange(from string, to string) ([]models.PeriodRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return nil, repo.err
	}
	result := make([]models.PeriodRecord, 0, len(repo.records))
	for date, record := range repo.records {
		if (from != "" && date < from) || (to != "" && date > to) {
			continue
		}
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (repo *memoryPeriodRepo) Find(date string) (models.PeriodRecord, bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return models.PeriodRecord{}, false, repo.err
	}
	record, ok := repo.records[date]
	return record, ok, nil
}

func (repo *memoryPeriodRepo) Upsert(record *models.PeriodRecord) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return repo.err
	}
	repo.records[record.Date] = *record
	return nil
}

func (repo *memoryPeriodRepo) Delete(date string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return repo.err
	}
	delete(repo.records, date)
	return nil
}

type memorySymptomRepo struct {
	mu      sync.Mutex
	records map[string]models.SymptomRecord
}

func newMemorySymptomRepo(records ...models.SymptomRecord) *memorySymptomRepo {
	repo := &memorySymptomRepo{records: make(map[string]models.SymptomRecord)}
	for _, record := range records {
		repo.records[record.Date] = record
	}
	return repo
}

func (repo *memorySymptomRepo) List() ([]models.SymptomRecord, error) {
	return repo.ListRange("", "")
}

func (repo *memorySymptomRepo) ListRange(from string, to string) ([]models.SymptomRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	result := make([]models.SymptomRecord, 0, len(repo.records))
	for date, record := range repo.records {
		if (from != "" && date < from) || (to != "" && date > to) {
			continue
		}
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (repo *memorySymptomRepo) Find(date string) (models.SymptomRecord, bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	record, ok := repo.records[date]
	return record, ok, nil
}

func (repo *memorySymptomRepo) Upsert(record *models.SymptomRecord) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.records[record.Date] = *record
	return nil
}

func (repo *memorySymptomRepo) Delete(date string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.records, date)
	return nil
}

type memorySettingsRepo struct {
	mu       sync.Mutex
	settings models.Settings
	saves    int
}

func newMemorySettingsRepo() *memorySettingsRepo {
	return &memorySettingsRepo{settings: models.DefaultSettings()}
}

func (repo *memorySettingsRepo) Load() (models.Settings, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.settings, nil
}

func (repo *memorySettingsRepo) Save(settings *models.Settings) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.settings = *settings
	repo.saves++
	return nil
}

type memoryJournal struct {
	periods  *memoryPeriodRepo
	symptoms *memorySymptomRepo
}

func (journal memoryJournal) ReplaceJournal(periods []models.PeriodRecord, symptoms []models.SymptomRecord) error {
	journal.periods.mu.Lock()
	journal.periods.records = make(map[string]models.PeriodRecord, len(periods))
	for _, record := range periods {
		journal.periods.records[record.Date] = record
	}
	journal.periods.mu.Unlock()

	journal.symptoms.mu.Lock()
	journal.symptoms.records = make(map[string]models.SymptomRecord, len(symptoms))
	for _, record := range symptoms {
		journal.symptoms.records[record.Date] = record
	}
	journal.symptoms.mu.Unlock()
	return nil
}

func fixedClock(value string) Clock {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return parsed }
}

// threeCycles logs four period days starting on each given date.
func threeCycles() []models.PeriodRecord {
	records := make([]models.PeriodRecord, 0, 12)
	for _, start := range []string{"2025-01-01", "2025-01-29", "2025-02-26"} {
		day, _ := time.Parse(models.DateLayout, start)
		for offset := 0; offset < 4; offset++ {
			records = append(records, models.PeriodRecord{
				Date:      day.AddDate(0, 0, offset).Format(models.DateLayout),
				Intensity: models.IntensityMedium,
			})
		}
	}
	return records
}
