package models

import (
	"strings"
	"time"
)

type SymptomRecord struct {
	Date             string    `gorm:"primaryKey;type:text" json:"date"`
	Moods            []string  `gorm:"serializer:json" json:"moods"`
	Energy           int       `gorm:"not null;default:0" json:"energy"`
	PhysicalSymptoms []string  `gorm:"serializer:json" json:"physicalSymptoms"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// HasData reports whether the record carries anything worth keeping.
func (record SymptomRecord) HasData() bool {
	return len(record.Moods) > 0 ||
		len(record.PhysicalSymptoms) > 0 ||
		record.Energy > 0 ||
		strings.TrimSpace(record.Notes) != ""
}

var BuiltinMoods = []string{"happy", "calm", "irritable", "sad", "anxious", "tired"}

var BuiltinSymptoms = []string{
	"Cramps",
	"Bloating",
	"Acne",
	"Headache",
	"Backache",
	"Tender Breasts",
	"Cravings",
}
