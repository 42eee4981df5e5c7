package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/lunacycle/internal/models"
)

func TestJournalServiceSaveDayStoresBothRecords(t *testing.T) {
	periods := newMemoryPeriodRepo()
	symptoms := newMemorySymptomRepo()
	service := NewJournalService(periods, symptoms)

	changes := 0
	service.OnChange(func() { changes++ })

	entry, err := service.SaveDay("2025-03-01", DayInput{
		Period:           true,
		Intensity:        "HEAVY",
		Moods:            []string{" calm ", ""},
		Energy:           3,
		PhysicalSymptoms: []string{"Cramps"},
		Notes:            "  long walk ",
	})
	require.NoError(t, err)
	require.NotNil(t, entry.Period)
	require.NotNil(t, entry.Symptom)
	assert.Equal(t, models.IntensityHeavy, entry.Period.Intensity)
	assert.Equal(t, []string{"calm"}, entry.Symptom.Moods)
	assert.Equal(t, "long walk", entry.Symptom.Notes)
	assert.Equal(t, 1, changes)

	fetched, err := service.FetchDay("2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, models.IntensityHeavy, fetched.Period.Intensity)
	assert.Equal(t, 3, fetched.Symptom.Energy)
}

func TestJournalServiceSaveDayClearsMissingParts(t *testing.T) {
	periods := newMemoryPeriodRepo(models.PeriodRecord{Date: "2025-03-01", Intensity: models.IntensityLight})
	symptoms := newMemorySymptomRepo(models.SymptomRecord{Date: "2025-03-01", Energy: 2})
	service := NewJournalService(periods, symptoms)

	entry, err := service.SaveDay("2025-03-01", DayInput{})
	require.NoError(t, err)
	assert.Nil(t, entry.Period)
	assert.Nil(t, entry.Symptom)

	_, found, _ := periods.Find("2025-03-01")
	assert.False(t, found)
	_, found, _ = symptoms.Find("2025-03-01")
	assert.False(t, found)
}

func TestJournalServiceSaveDayDefaultsIntensity(t *testing.T) {
	service := NewJournalService(newMemoryPeriodRepo(), newMemorySymptomRepo())

	entry, err := service.SaveDay("2025-03-01", DayInput{Period: true})
	require.NoError(t, err)
	assert.Equal(t, models.IntensityMedium, entry.Period.Intensity)
}

func TestJournalServiceSaveDayRejectsInvalidInput(t *testing.T) {
	service := NewJournalService(newMemoryPeriodRepo(), newMemorySymptomRepo())

	_, err := service.SaveDay("2025-02-30", DayInput{Period: true})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = service.SaveDay("2025-03-01", DayInput{Period: true, Intensity: "spotting"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.SaveDay("2025-03-01", DayInput{Energy: 9})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.NotEmpty(t, validationErr.Fields)
}

func TestJournalServiceSaveDayWrapsStorageErrors(t *testing.T) {
	periods := newMemoryPeriodRepo()
	periods.err = errStubStorage
	service := NewJournalService(periods, newMemorySymptomRepo())

	_, err := service.SaveDay("2025-03-01", DayInput{Period: true})
	assert.ErrorIs(t, err, ErrDaySaveFailed)
}

func TestJournalServiceFetchRangeMergesByDate(t *testing.T) {
	periods := newMemoryPeriodRepo(
		models.PeriodRecord{Date: "2025-03-02", Intensity: models.IntensityLight},
		models.PeriodRecord{Date: "2025-03-01", Intensity: models.IntensityHeavy},
		models.PeriodRecord{Date: "2025-04-01", Intensity: models.IntensityHeavy},
	)
	symptoms := newMemorySymptomRepo(
		models.SymptomRecord{Date: "2025-03-02", Energy: 1},
		models.SymptomRecord{Date: "2025-03-05", Notes: "tired"},
	)
	service := NewJournalService(periods, symptoms)

	entries, err := service.FetchRange("2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2025-03-01", entries[0].Date)
	assert.NotNil(t, entries[1].Period)
	assert.NotNil(t, entries[1].Symptom)
	assert.Nil(t, entries[2].Period)

	_, err = service.FetchRange("2025-03-31", "2025-03-01")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestJournalServiceDeleteDay(t *testing.T) {
	periods := newMemoryPeriodRepo(models.PeriodRecord{Date: "2025-03-01", Intensity: models.IntensityLight})
	symptoms := newMemorySymptomRepo(models.SymptomRecord{Date: "2025-03-01", Energy: 2})
	service := NewJournalService(periods, symptoms)

	require.NoError(t, service.DeleteDay("2025-03-01"))
	entry, err := service.FetchDay("2025-03-01")
	require.NoError(t, err)
	assert.Nil(t, entry.Period)
	assert.Nil(t, entry.Symptom)

	assert.ErrorIs(t, service.DeleteDay("yesterday"), ErrInvalidDate)
}
