package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/terraincognita07/lunacycle/internal/cycle"
	"github.com/terraincognita07/lunacycle/internal/models"
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidRange    = errors.New("invalid date range")
	ErrDayLoadFailed   = errors.New("load day failed")
	ErrDaySaveFailed   = errors.New("save day failed")
	ErrDayDeleteFailed = errors.New("delete day failed")
)

// DayInput is everything that can be logged for one calendar day.
type DayInput struct {
	Period           bool     `json:"period"`
	Intensity        string   `json:"intensity" validate:"omitempty,oneof=light medium heavy"`
	Moods            []string `json:"moods" validate:"max=12,dive,required,max=40"`
	Energy           int      `json:"energy" validate:"min=0,max=5"`
	PhysicalSymptoms []string `json:"physicalSymptoms" validate:"max=24,dive,required,max=60"`
	Notes            string   `json:"notes" validate:"max=2000"`
}

type DayEntry struct {
	Date    string                `json:"date"`
	Period  *models.PeriodRecord  `json:"period"`
	Symptom *models.SymptomRecord `json:"symptom"`
}

type JournalService struct {
	changeNotifier

	periods  PeriodRepository
	symptoms SymptomRepository
}

func NewJournalService(periods PeriodRepository, symptoms SymptomRepository) *JournalService {
	return &JournalService{
		periods:  periods,
		symptoms: symptoms,
	}
}

// NormalizeDate validates a YYYY-MM-DD string and returns its canonical form.
func NormalizeDate(raw string) (string, error) {
	parsed, ok := cycle.ParseDay(raw)
	if !ok {
		return "", ErrInvalidDate
	}
	return cycle.FormatDay(parsed), nil
}

func (service *JournalService) ListPeriods() ([]models.PeriodRecord, error) {
	records, err := service.periods.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDayLoadFailed, err)
	}
	return records, nil
}

func (service *JournalService) ListSymptoms() ([]models.SymptomRecord, error) {
	records, err := service.symptoms.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDayLoadFailed, err)
	}
	return records, nil
}

func (service *JournalService) FetchDay(rawDate string) (DayEntry, error) {
	date, err := NormalizeDate(rawDate)
	if err != nil {
		return DayEntry{}, err
	}

	entry := DayEntry{Date: date}
	period, found, err := service.periods.Find(date)
	if err != nil {
		return DayEntry{}, fmt.Errorf("%w: %v", ErrDayLoadFailed, err)
	}
	if found {
		entry.Period = &period
	}

	symptom, found, err := service.symptoms.Find(date)
	if err != nil {
		return DayEntry{}, fmt.Errorf("%w: %v", ErrDayLoadFailed, err)
	}
	if found {
		entry.Symptom = &symptom
	}
	return entry, nil
}

// FetchRange returns every day with at least one record, oldest first.
func (service *JournalService) FetchRange(rawFrom string, rawTo string) ([]DayEntry, error) {
	from, to, err := normalizeRange(rawFrom, rawTo)
	if err != nil {
		return nil, err
	}

	periods, err := service.periods.ListRange(from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDayLoadFailed, err)
	}
	symptoms, err := service.symptoms.ListRange(from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDayLoadFailed, err)
	}

	byDate := make(map[string]*DayEntry, len(periods)+len(symptoms))
	entryFor := func(date string) *DayEntry {
		if entry, ok := byDate[date]; ok {
			return entry
		}
		entry := &DayEntry{Date: date}
		byDate[date] = entry
		return entry
	}
	for index := range periods {
		entryFor(periods[index].Date).Period = &periods[index]
	}
	for index := range symptoms {
		entryFor(symptoms[index].Date).Symptom = &symptoms[index]
	}

	entries := make([]DayEntry, 0, len(byDate))
	for _, entry := range byDate {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries, nil
}

// SaveDay sets or clears both records of a date in one call. A day without
// period flow loses its period record; a day without symptom data loses its
// symptom record.
func (service *JournalService) SaveDay(rawDate string, input DayInput) (DayEntry, error) {
	date, err := NormalizeDate(rawDate)
	if err != nil {
		return DayEntry{}, err
	}
	if err := validateStruct(input); err != nil {
		return DayEntry{}, err
	}

	entry := DayEntry{Date: date}
	if input.Period {
		intensity := strings.ToLower(strings.TrimSpace(input.Intensity))
		if intensity == "" {
			intensity = models.IntensityMedium
		}
		period := models.PeriodRecord{Date: date, Intensity: intensity}
		if err := service.periods.Upsert(&period); err != nil {
			return DayEntry{}, fmt.Errorf("%w: %v", ErrDaySaveFailed, err)
		}
		entry.Period = &period
	} else if err := service.periods.Delete(date); err != nil {
		return DayEntry{}, fmt.Errorf("%w: %v", ErrDaySaveFailed, err)
	}

	symptom := models.SymptomRecord{
		Date:             date,
		Moods:            trimList(input.Moods),
		Energy:           input.Energy,
		PhysicalSymptoms: trimList(input.PhysicalSymptoms),
		Notes:            strings.TrimSpace(input.Notes),
	}
	if symptom.HasData() {
		if err := service.symptoms.Upsert(&symptom); err != nil {
			return DayEntry{}, fmt.Errorf("%w: %v", ErrDaySaveFailed, err)
		}
		entry.Symptom = &symptom
	} else if err := service.symptoms.Delete(date); err != nil {
		return DayEntry{}, fmt.Errorf("%w: %v", ErrDaySaveFailed, err)
	}

	service.notifyChanged()
	return entry, nil
}

func (service *JournalService) DeleteDay(rawDate string) error {
	date, err := NormalizeDate(rawDate)
	if err != nil {
		return err
	}
	if err := service.periods.Delete(date); err != nil {
		return fmt.Errorf("%w: %v", ErrDayDeleteFailed, err)
	}
	if err := service.symptoms.Delete(date); err != nil {
		return fmt.Errorf("%w: %v", ErrDayDeleteFailed, err)
	}
	service.notifyChanged()
	return nil
}

func normalizeRange(rawFrom string, rawTo string) (string, string, error) {
	from, to := "", ""
	var err error
	if strings.TrimSpace(rawFrom) != "" {
		if from, err = NormalizeDate(rawFrom); err != nil {
			return "", "", err
		}
	}
	if strings.TrimSpace(rawTo) != "" {
		if to, err = NormalizeDate(rawTo); err != nil {
			return "", "", err
		}
	}
	if from != "" && to != "" && from > to {
		return "", "", ErrInvalidRange
	}
	return from, to, nil
}

func trimList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
