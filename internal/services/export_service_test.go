package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/lunacycle/internal/cycle"
	"github.com/terraincognita07/lunacycle/internal/models"
	"github.com/terraincognita07/lunacycle/internal/vault"
)

func newTestExportService(periods *memoryPeriodRepo, symptoms *memorySymptomRepo, settings *memorySettingsRepo) *ExportService {
	return NewExportService(cycle.DefaultEngine, periods, symptoms, settings, fixedClock("2025-03-05T09:30:00Z"), time.UTC)
}

func TestExportServiceCSV(t *testing.T) {
	periods := newMemoryPeriodRepo(
		models.PeriodRecord{Date: "2025-03-02", Intensity: models.IntensityHeavy},
		models.PeriodRecord{Date: "2025-03-01", Intensity: models.IntensityLight},
	)
	symptoms := newMemorySymptomRepo(
		models.SymptomRecord{Date: "2025-03-02", Moods: []string{"calm", "tired"}, Energy: 2, PhysicalSymptoms: []string{"Cramps"}, Notes: "rest, tea"},
		models.SymptomRecord{Date: "2025-03-04", Notes: "fine"},
	)
	service := newTestExportService(periods, symptoms, newMemorySettingsRepo())

	payload, err := service.CSV()
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, ExportCSVHeaders, rows[0])
	assert.Equal(t, []string{"2025-03-01", "yes", "light", "", "", "", ""}, rows[1])
	assert.Equal(t, []string{"2025-03-02", "yes", "heavy", "calm; tired", "2", "Cramps", "rest, tea"}, rows[2])
	assert.Equal(t, []string{"2025-03-04", "no", "", "", "", "", "fine"}, rows[3])
}

func TestExportServiceJSONRoundTrip(t *testing.T) {
	settings := newMemorySettingsRepo()
	settings.settings.PinHash = "secret-hash"
	service := newTestExportService(newMemoryPeriodRepo(threeCycles()...), newMemorySymptomRepo(), settings)

	payload, err := service.JSON()
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "secret-hash")

	document, skipped, err := vault.Decode(payload)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Len(t, document.Logs, 12)
	assert.Equal(t, "2025-01-01", document.Logs[0].Date)
}

func TestExportServicePDF(t *testing.T) {
	service := newTestExportService(newMemoryPeriodRepo(threeCycles()...), newMemorySymptomRepo(), newMemorySettingsRepo())

	payload, err := service.PDF()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestExportServiceStorageFailure(t *testing.T) {
	periods := newMemoryPeriodRepo()
	periods.err = errStubStorage
	service := newTestExportService(periods, newMemorySymptomRepo(), newMemorySettingsRepo())

	_, err := service.CSV()
	assert.ErrorIs(t, err, ErrExportFailed)
}
