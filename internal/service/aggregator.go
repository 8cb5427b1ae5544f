package service

import (
	"strings"

	"visit-tracker/internal/domain"
)

// Aggregate counts all records and buckets them into today and yesterday by
// timestamp prefix. A record lands in at most one bucket. Records are not
// sorted; the pass is linear.
func Aggregate(records []domain.VisitRecord, currentDate, previousDate string) domain.VisitStats {
	stats := domain.VisitStats{
		Total:       int64(len(records)),
		CurrentDate: currentDate,
	}

	for _, record := range records {
		switch {
		case strings.HasPrefix(record.Timestamp, currentDate):
			stats.Today++
		case strings.HasPrefix(record.Timestamp, previousDate):
			stats.Yesterday++
		}
	}

	return stats
}
