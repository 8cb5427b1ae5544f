package service

import (
	"context"

	"visit-tracker/internal/domain"
)

// VisitorService defines the interface for visitor tracking operations
type VisitorService interface {
	// Start seeds missing local state files
	Start(ctx context.Context) error

	// Stop releases remote backend resources
	Stop(ctx context.Context) error

	// RecordVisit mirrors the visit to the remote backend (best effort) and
	// then records it locally
	RecordVisit(ctx context.Context, ipAddress, userAgent string) error

	// GetStats returns remote statistics, or local ones if the remote fails.
	// It never fails; fields that cannot be computed are zero.
	GetStats(ctx context.Context) domain.VisitStats

	// ListLocalVisits returns the local visit log
	ListLocalVisits(ctx context.Context) ([]domain.VisitRecord, error)
}

// DatasetService defines the interface for the editable CSV dataset
type DatasetService interface {
	// Init seeds the default dataset if none exists
	Init() error

	// Read returns the dataset verbatim
	Read(ctx context.Context) ([]byte, error)

	// Replace overwrites the dataset with body verbatim
	Replace(ctx context.Context, body []byte) error
}

// Services aggregates all service interfaces
type Services struct {
	Visitor VisitorService
	Dataset DatasetService
}
