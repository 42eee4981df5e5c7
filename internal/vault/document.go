package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/terraincognita07/lunacycle/internal/cycle"
	"github.com/terraincognita07/lunacycle/internal/models"
)

const maxEnergy = 5

var ErrInvalidDocument = errors.New("invalid vault document")

// Document is the portable JSON form of the whole journal.
type Document struct {
	Logs     []models.PeriodRecord  `json:"logs"`
	Symptoms []models.SymptomRecord `json:"symptoms"`
	Settings models.Settings        `json:"settings"`
}

type rawDocument struct {
	Logs     []rawPeriod            `json:"logs"`
	Symptoms []models.SymptomRecord `json:"symptoms"`
	Settings *models.Settings       `json:"settings"`
}

// rawPeriod accepts both the current "date" key and the older "startDate".
type rawPeriod struct {
	Date      string `json:"date"`
	StartDate string `json:"startDate"`
	Intensity string `json:"intensity"`
}

func NewDocument(periods []models.PeriodRecord, symptoms []models.SymptomRecord, settings models.Settings) Document {
	document := Document{
		Logs:     append([]models.PeriodRecord(nil), periods...),
		Symptoms: append([]models.SymptomRecord(nil), symptoms...),
		Settings: settings,
	}
	document.sort()
	return document
}

// Decode parses a vault document. Records with unparseable dates are dropped
// and reported in the skipped count; the rest of the document is kept.
func Decode(data []byte) (Document, int, error) {
	raw := rawDocument{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, 0, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	skipped := 0
	periods := make(map[string]models.PeriodRecord, len(raw.Logs))
	for _, entry := range raw.Logs {
		date, ok := normalizeDate(entry.Date, entry.StartDate)
		if !ok {
			skipped++
			continue
		}
		periods[date] = models.PeriodRecord{Date: date, Intensity: normalizeIntensity(entry.Intensity)}
	}

	symptoms := make(map[string]models.SymptomRecord, len(raw.Symptoms))
	for _, entry := range raw.Symptoms {
		date, ok := normalizeDate(entry.Date)
		if !ok {
			skipped++
			continue
		}
		symptoms[date] = normalizeSymptom(entry, date)
	}

	document := Document{
		Logs:     make([]models.PeriodRecord, 0, len(periods)),
		Symptoms: make([]models.SymptomRecord, 0, len(symptoms)),
		Settings: models.DefaultSettings(),
	}
	for _, record := range periods {
		document.Logs = append(document.Logs, record)
	}
	for _, record := range symptoms {
		document.Symptoms = append(document.Symptoms, record)
	}
	if raw.Settings != nil {
		document.Settings.AverageCycleLength = raw.Settings.CycleLength()
		document.Settings.AveragePeriodLength = raw.Settings.PeriodLength()
		document.Settings.NotificationsEnabled = raw.Settings.NotificationsEnabled
	}
	document.sort()

	return document, skipped, nil
}

func Encode(document Document) ([]byte, error) {
	document.sort()
	if document.Logs == nil {
		document.Logs = []models.PeriodRecord{}
	}
	if document.Symptoms == nil {
		document.Symptoms = []models.SymptomRecord{}
	}
	return json.MarshalIndent(document, "", "  ")
}

// RecordCount is the size measure used when choosing between two documents.
func (document Document) RecordCount() int {
	return len(document.Logs) + len(document.Symptoms)
}

func (document *Document) sort() {
	sort.Slice(document.Logs, func(i, j int) bool { return document.Logs[i].Date < document.Logs[j].Date })
	sort.Slice(document.Symptoms, func(i, j int) bool { return document.Symptoms[i].Date < document.Symptoms[j].Date })
}

func normalizeDate(candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		// some exports carry a full timestamp
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) > len(models.DateLayout) {
			trimmed = trimmed[:len(models.DateLayout)]
		}
		if parsed, ok := cycle.ParseDay(trimmed); ok {
			return cycle.FormatDay(parsed), true
		}
	}
	return "", false
}

func normalizeIntensity(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if !models.IsValidIntensity(value) {
		return models.IntensityMedium
	}
	return value
}

func normalizeSymptom(entry models.SymptomRecord, date string) models.SymptomRecord {
	energy := entry.Energy
	if energy < 0 {
		energy = 0
	}
	if energy > maxEnergy {
		energy = maxEnergy
	}
	return models.SymptomRecord{
		Date:             date,
		Moods:            compactStrings(entry.Moods),
		Energy:           energy,
		PhysicalSymptoms: compactStrings(entry.PhysicalSymptoms),
		Notes:            strings.TrimSpace(entry.Notes),
	}
}

func compactStrings(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
