package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/lunacycle/internal/models"
	"github.com/terraincognita07/lunacycle/internal/vault"
)

const (
	ImportModeReplace = "replace"
	ImportModeMerge   = "merge"
)

var (
	ErrInvalidImportMode = errors.New("invalid import mode")
	ErrImportFailed      = errors.New("import failed")
)

type ImportResult struct {
	Mode     string `json:"mode"`
	Periods  int    `json:"periods"`
	Symptoms int    `json:"symptoms"`
	Skipped  int    `json:"skipped"`
}

type ImportService struct {
	changeNotifier

	exporter *ExportService
	journal  JournalReplacer
	settings SettingsRepository
}

func NewImportService(exporter *ExportService, journal JournalReplacer, settings SettingsRepository) *ImportService {
	return &ImportService{
		exporter: exporter,
		journal:  journal,
		settings: settings,
	}
}

// Import loads a vault document. Replace discards the current journal; merge
// keeps whichever side holds more records and unions them on a tie. The local
// lock configuration always survives.
func (service *ImportService) Import(payload []byte, mode string) (ImportResult, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = ImportModeReplace
	}
	if mode != ImportModeReplace && mode != ImportModeMerge {
		return ImportResult{}, ErrInvalidImportMode
	}

	incoming, skipped, err := vault.Decode(payload)
	if err != nil {
		return ImportResult{}, err
	}

	local, err := service.exporter.Snapshot()
	if err != nil {
		return ImportResult{}, err
	}

	result := incoming
	if mode == ImportModeMerge {
		result = vault.Merge(local, incoming)
	}

	if err := service.journal.ReplaceJournal(result.Logs, result.Symptoms); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrImportFailed, err)
	}

	settings := mergeImportedSettings(local.Settings, result.Settings)
	if err := service.settings.Save(&settings); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrImportFailed, err)
	}

	service.notifyChanged()
	return ImportResult{
		Mode:     mode,
		Periods:  len(result.Logs),
		Symptoms: len(result.Symptoms),
		Skipped:  skipped,
	}, nil
}

func mergeImportedSettings(local models.Settings, imported models.Settings) models.Settings {
	settings := local
	if imported.AverageCycleLength >= models.MinCycleLength && imported.AverageCycleLength <= models.MaxCycleLength {
		settings.AverageCycleLength = imported.AverageCycleLength
	}
	if imported.AveragePeriodLength >= models.MinPeriodLength && imported.AveragePeriodLength <= models.MaxPeriodLength {
		settings.AveragePeriodLength = imported.AveragePeriodLength
	}
	return settings
}
