package service

import (
	"testing"

	"visit-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
)

func sampleVisits() []domain.VisitRecord {
	timestamps := []string{
		"2024-01-15 09:30:00",
		"2024-01-15 14:20:00",
		"2024-01-15 18:45:00",
		"2024-01-14 10:15:00",
		"2024-01-14 16:30:00",
		"2024-01-13 11:00:00",
		"2024-01-13 15:45:00",
		"2024-01-13 20:20:00",
	}
	records := make([]domain.VisitRecord, 0, len(timestamps))
	for _, ts := range timestamps {
		records = append(records, domain.VisitRecord{Timestamp: ts, IPAddress: "203.0.113.7", UserAgent: "Chrome"})
	}
	return records
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		previous string
		expected domain.VisitStats
	}{
		{
			name:     "worked example",
			current:  "2024-01-15",
			previous: "2024-01-14",
			expected: domain.VisitStats{Total: 8, Today: 3, Yesterday: 2, CurrentDate: "2024-01-15"},
		},
		{
			name:     "next day",
			current:  "2024-01-16",
			previous: "2024-01-15",
			expected: domain.VisitStats{Total: 8, Today: 0, Yesterday: 3, CurrentDate: "2024-01-16"},
		},
		{
			name:     "two days later",
			current:  "2024-01-17",
			previous: "2024-01-16",
			expected: domain.VisitStats{Total: 8, Today: 0, Yesterday: 0, CurrentDate: "2024-01-17"},
		},
		{
			name:     "earliest day",
			current:  "2024-01-13",
			previous: "2024-01-12",
			expected: domain.VisitStats{Total: 8, Today: 3, Yesterday: 0, CurrentDate: "2024-01-13"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Aggregate(sampleVisits(), tt.current, tt.previous))
		})
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	records := sampleVisits()

	first := Aggregate(records, "2024-01-15", "2024-01-14")
	second := Aggregate(records, "2024-01-15", "2024-01-14")

	assert.Equal(t, first, second)
	assert.Equal(t, sampleVisits(), records)
}

func TestAggregate_PrefixClassification(t *testing.T) {
	records := []domain.VisitRecord{{Timestamp: "2024-01-15 09:30:00"}}

	asToday := Aggregate(records, "2024-01-15", "2024-01-14")
	assert.Equal(t, int64(1), asToday.Today)
	assert.Equal(t, int64(0), asToday.Yesterday)

	asYesterday := Aggregate(records, "2024-01-16", "2024-01-15")
	assert.Equal(t, int64(0), asYesterday.Today)
	assert.Equal(t, int64(1), asYesterday.Yesterday)
}

func TestAggregate_EdgeCases(t *testing.T) {
	t.Run("no records", func(t *testing.T) {
		stats := Aggregate(nil, "2024-01-15", "2024-01-14")
		assert.Equal(t, domain.VisitStats{CurrentDate: "2024-01-15"}, stats)
	})

	t.Run("date only and malformed timestamps", func(t *testing.T) {
		records := []domain.VisitRecord{
			{Timestamp: "2024-01-15"},
			{Timestamp: ""},
			{Timestamp: "15/01/2024 09:30"},
			{Timestamp: " 2024-01-15 09:30:00"},
		}
		stats := Aggregate(records, "2024-01-15", "2024-01-14")
		assert.Equal(t, int64(4), stats.Total)
		assert.Equal(t, int64(1), stats.Today)
		assert.Equal(t, int64(0), stats.Yesterday)
	})
}
