package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/terraincognita07/lunacycle/internal/cycle"
	"github.com/terraincognita07/lunacycle/internal/models"
	"github.com/terraincognita07/lunacycle/internal/vault"
)

var ErrExportFailed = errors.New("export failed")

var ExportCSVHeaders = []string{
	"Date",
	"Period",
	"Intensity",
	"Moods",
	"Energy",
	"Symptoms",
	"Notes",
}

var exportHistoryHeaders = []string{"Start", "End", "Period days", "Cycle length"}

type ExportService struct {
	engine   cycle.Engine
	periods  PeriodRepository
	symptoms SymptomRepository
	settings SettingsRepository
	clock    Clock
	location *time.Location
}

func NewExportService(engine cycle.Engine, periods PeriodRepository, symptoms SymptomRepository, settings SettingsRepository, clock Clock, location *time.Location) *ExportService {
	if location == nil {
		location = time.UTC
	}
	return &ExportService{
		engine:   engine,
		periods:  periods,
		symptoms: symptoms,
		settings: settings,
		clock:    clock,
		location: location,
	}
}

// Snapshot collects the whole journal as a vault document.
func (service *ExportService) Snapshot() (vault.Document, error) {
	periods, err := service.periods.List()
	if err != nil {
		return vault.Document{}, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	symptoms, err := service.symptoms.List()
	if err != nil {
		return vault.Document{}, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	settings, err := service.settings.Load()
	if err != nil {
		return vault.Document{}, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return vault.NewDocument(periods, symptoms, settings), nil
}

func (service *ExportService) JSON() ([]byte, error) {
	document, err := service.Snapshot()
	if err != nil {
		return nil, err
	}
	payload, err := vault.Encode(document)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return payload, nil
}

// CSV writes one row per date that has a period or symptom record.
func (service *ExportService) CSV() ([]byte, error) {
	document, err := service.Snapshot()
	if err != nil {
		return nil, err
	}

	periodsByDate := make(map[string]models.PeriodRecord, len(document.Logs))
	symptomsByDate := make(map[string]models.SymptomRecord, len(document.Symptoms))
	dates := make([]string, 0, len(document.Logs)+len(document.Symptoms))
	for _, period := range document.Logs {
		periodsByDate[period.Date] = period
		dates = append(dates, period.Date)
	}
	for _, symptom := range document.Symptoms {
		if _, ok := periodsByDate[symptom.Date]; !ok {
			dates = append(dates, symptom.Date)
		}
		symptomsByDate[symptom.Date] = symptom
	}
	sort.Strings(dates)

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)
	if err := writer.Write(ExportCSVHeaders); err != nil {
		return nil, fmt.Errorf("%w: write csv headers: %v", ErrExportFailed, err)
	}
	for _, date := range dates {
		row := []string{date, "no", "", "", "", "", ""}
		if period, ok := periodsByDate[date]; ok {
			row[1] = "yes"
			row[2] = period.Intensity
		}
		if symptom, ok := symptomsByDate[date]; ok {
			row[3] = strings.Join(symptom.Moods, "; ")
			if symptom.Energy > 0 {
				row[4] = strconv.Itoa(symptom.Energy)
			}
			row[5] = strings.Join(symptom.PhysicalSymptoms, "; ")
			row[6] = symptom.Notes
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("%w: write csv row: %v", ErrExportFailed, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("%w: flush csv: %v", ErrExportFailed, err)
	}
	return buffer.Bytes(), nil
}

// PDF renders a cycle report: the forecast summary followed by the history table.
func (service *ExportService) PDF() ([]byte, error) {
	document, err := service.Snapshot()
	if err != nil {
		return nil, err
	}
	today := service.clock.today(service.location)
	forecast := service.engine.Forecast(document.Logs, document.Settings, today)
	history := service.engine.History(document.Logs)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "LUNA CYCLE REPORT", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 10)
	summary := []string{
		"Generated: " + cycle.FormatDay(today),
		"Average cycle length: " + strconv.Itoa(forecast.AverageCycleLength) + " days",
		"Average period length: " + strconv.Itoa(forecast.AveragePeriodLength) + " days",
		"Current phase: " + forecast.Phase.String(),
	}
	if forecast.HasPrediction {
		summary = append(summary, "Next period: "+cycle.FormatDay(forecast.NextPeriodStart))
	}
	for _, line := range summary {
		pdf.CellFormat(0, 6, line, "", 1, "", false, 0, "")
	}
	pdf.Ln(5)

	colWidth := 190.0 / float64(len(exportHistoryHeaders))
	pdf.SetFont("Arial", "B", 10)
	for _, header := range exportHistoryHeaders {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, entry := range history {
		cycleLength := "ongoing"
		if !entry.Ongoing {
			cycleLength = strconv.Itoa(entry.CycleLength)
		}
		row := []string{
			cycle.FormatDay(entry.Start),
			cycle.FormatDay(entry.End),
			strconv.Itoa(entry.PeriodDays),
			cycleLength,
		}
		for _, value := range row {
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buffer := &bytes.Buffer{}
	if err := pdf.Output(buffer); err != nil {
		return nil, fmt.Errorf("%w: render pdf: %v", ErrExportFailed, err)
	}
	return buffer.Bytes(), nil
}
