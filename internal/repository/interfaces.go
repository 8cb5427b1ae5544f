package repository

import (
	"context"
	"errors"

	"visit-tracker/internal/domain"
)

// Remote failure classes. Implementations wrap one of these so callers can
// branch with errors.Is instead of inspecting messages.
var (
	// ErrRemoteNotConfigured means no spreadsheet ID, credentials or DSN were provided
	ErrRemoteNotConfigured = errors.New("remote backend not configured")
	// ErrRemoteUnavailable covers connection, auth and quota failures
	ErrRemoteUnavailable = errors.New("remote backend unavailable")
	// ErrRemoteMalformed means the remote answered with data that could not be parsed
	ErrRemoteMalformed = errors.New("remote backend returned malformed data")
)

// RemoteVisitRepository appends and lists visit records in a remote tabular store
type RemoteVisitRepository interface {
	// Append adds one record at the end of the remote log
	Append(ctx context.Context, record domain.VisitRecord) error

	// FetchAll returns every record in append order, excluding any header row
	FetchAll(ctx context.Context) ([]domain.VisitRecord, error)

	// Name identifies the backend in logs
	Name() string
}

// LocalVisitRepository is the on-disk fallback state: a visit counter and a line log
type LocalVisitRepository interface {
	// EnsureDefaults creates missing files with their default content
	EnsureDefaults() error

	// RecordVisit appends the record to the log and increments the counter atomically
	RecordVisit(record domain.VisitRecord) error

	// ReadCounter returns the counter value, treating malformed content as zero
	ReadCounter() (int64, error)

	// ReadStats returns the counter total and the number of log lines dated
	// current and previous, all taken under one lock. On a log read failure
	// the total is still set.
	ReadStats(current, previous string) (domain.VisitStats, error)

	// ReadRawLog returns every parsed log record in append order
	ReadRawLog() ([]domain.VisitRecord, error)
}

// DatasetRepository stores the editable CSV dataset verbatim
type DatasetRepository interface {
	EnsureDefault() error
	Read() ([]byte, error)
	Write(content []byte) error
}

// noopRemote is used when no remote backend is configured
type noopRemote struct{}

// NewNoopRemoteRepository returns a backend whose calls always fail with ErrRemoteNotConfigured
func NewNoopRemoteRepository() RemoteVisitRepository {
	return noopRemote{}
}

func (noopRemote) Append(context.Context, domain.VisitRecord) error {
	return ErrRemoteNotConfigured
}

func (noopRemote) FetchAll(context.Context) ([]domain.VisitRecord, error) {
	return nil, ErrRemoteNotConfigured
}

func (noopRemote) Name() string {
	return "none"
}
