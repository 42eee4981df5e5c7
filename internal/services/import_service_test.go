package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/lunacycle/internal/models"
	"github.com/terraincognita07/lunacycle/internal/vault"
)

type importFixture struct {
	periods  *memoryPeriodRepo
	symptoms *memorySymptomRepo
	settings *memorySettingsRepo
	service  *ImportService
}

func newImportFixture(periods ...models.PeriodRecord) importFixture {
	fixture := importFixture{
		periods:  newMemoryPeriodRepo(periods...),
		symptoms: newMemorySymptomRepo(),
		settings: newMemorySettingsRepo(),
	}
	exporter := newTestExportService(fixture.periods, fixture.symptoms, fixture.settings)
	fixture.service = NewImportService(exporter, memoryJournal{periods: fixture.periods, symptoms: fixture.symptoms}, fixture.settings)
	return fixture
}

const legacyVault = `{
  "logs": [
    {"startDate": "2025-02-01T00:00:00.000Z", "intensity": "heavy"},
    {"date": "2025-02-02", "intensity": "unknown"},
    {"date": "not-a-date", "intensity": "light"}
  ],
  "symptoms": [{"date": "2025-02-01", "moods": ["sad"], "energy": 2}],
  "settings": {"averageCycleLength": 31, "averagePeriodLength": 4}
}`

func TestImportServiceReplace(t *testing.T) {
	fixture := newImportFixture(models.PeriodRecord{Date: "2024-12-01", Intensity: models.IntensityLight})
	fixture.settings.settings.LockMethod = models.LockMethodPIN
	fixture.settings.settings.PinHash = "hash"

	changed := false
	fixture.service.OnChange(func() { changed = true })

	result, err := fixture.service.Import([]byte(legacyVault), "")
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Mode: ImportModeReplace, Periods: 2, Symptoms: 1, Skipped: 1}, result)
	assert.True(t, changed)

	periods, _ := fixture.periods.List()
	require.Len(t, periods, 2)
	assert.Equal(t, "2025-02-01", periods[0].Date)
	assert.Equal(t, models.IntensityHeavy, periods[0].Intensity)
	assert.Equal(t, models.IntensityMedium, periods[1].Intensity)

	settings := fixture.settings.settings
	assert.Equal(t, 31, settings.AverageCycleLength)
	assert.Equal(t, 4, settings.AveragePeriodLength)
	assert.Equal(t, "hash", settings.PinHash)
}

func TestImportServiceMergeKeepsLargerJournal(t *testing.T) {
	fixture := newImportFixture(threeCycles()...)

	result, err := fixture.service.Import([]byte(legacyVault), ImportModeMerge)
	require.NoError(t, err)
	assert.Equal(t, 12, result.Periods)
	assert.Zero(t, result.Symptoms)

	periods, _ := fixture.periods.List()
	assert.Len(t, periods, 12)
}

func TestImportServiceMergeUnionsOnTie(t *testing.T) {
	fixture := newImportFixture(
		models.PeriodRecord{Date: "2025-02-01", Intensity: models.IntensityLight},
		models.PeriodRecord{Date: "2025-01-05", Intensity: models.IntensityLight},
		models.PeriodRecord{Date: "2025-01-06", Intensity: models.IntensityLight},
	)

	payload, err := vault.Encode(vault.NewDocument([]models.PeriodRecord{
		{Date: "2025-02-01", Intensity: models.IntensityHeavy},
		{Date: "2025-02-02", Intensity: models.IntensityHeavy},
		{Date: "2025-02-03", Intensity: models.IntensityHeavy},
	}, nil, models.DefaultSettings()))
	require.NoError(t, err)

	result, err := fixture.service.Import(payload, ImportModeMerge)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Periods)

	record, found, _ := fixture.periods.Find("2025-02-01")
	require.True(t, found)
	assert.Equal(t, models.IntensityHeavy, record.Intensity)
}

func TestImportServiceRejectsBadInput(t *testing.T) {
	fixture := newImportFixture()

	_, err := fixture.service.Import([]byte(legacyVault), "append")
	assert.ErrorIs(t, err, ErrInvalidImportMode)

	_, err = fixture.service.Import([]byte("{"), ImportModeReplace)
	assert.ErrorIs(t, err, vault.ErrInvalidDocument)
}
