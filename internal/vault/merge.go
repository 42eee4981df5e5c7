package vault

import "github.com/terraincognita07/lunacycle/internal/models"

// Merge combines the stored journal with an imported one. The document with
// more records wins outright. On a tie the journals are unioned per date and
// incoming records replace local ones for the same day.
func Merge(local Document, incoming Document) Document {
	switch {
	case incoming.RecordCount() > local.RecordCount():
		return NewDocument(incoming.Logs, incoming.Symptoms, incoming.Settings)
	case local.RecordCount() > incoming.RecordCount():
		return NewDocument(local.Logs, local.Symptoms, local.Settings)
	}

	periods := make(map[string]models.PeriodRecord, len(local.Logs)+len(incoming.Logs))
	for _, record := range local.Logs {
		periods[record.Date] = record
	}
	for _, record := range incoming.Logs {
		periods[record.Date] = record
	}

	symptoms := make(map[string]models.SymptomRecord, len(local.Symptoms)+len(incoming.Symptoms))
	for _, record := range local.Symptoms {
		symptoms[record.Date] = record
	}
	for _, record := range incoming.Symptoms {
		symptoms[record.Date] = record
	}

	mergedPeriods := make([]models.PeriodRecord, 0, len(periods))
	for _, record := range periods {
		mergedPeriods = append(mergedPeriods, record)
	}
	mergedSymptoms := make([]models.SymptomRecord, 0, len(symptoms))
	for _, record := range symptoms {
		mergedSymptoms = append(mergedSymptoms, record)
	}

	return NewDocument(mergedPeriods, mergedSymptoms, incoming.Settings)
}
