package repository

import (
	"context"
	"fmt"
	"sync"

	"visit-tracker/internal/domain"
	"visit-tracker/pkg/database"
	"visit-tracker/pkg/logger"
)

// postgresVisitRepository stores visit records in the visits table.
// The pool is opened on first use; a failed attempt is retried on the next call.
type postgresVisitRepository struct {
	databaseURL string
	logger      *logger.Logger

	mu sync.Mutex
	db *database.PostgresDB
}

// NewPostgresVisitRepository creates a remote repository backed by PostgreSQL
func NewPostgresVisitRepository(databaseURL string, logger *logger.Logger) RemoteVisitRepository {
	return &postgresVisitRepository{
		databaseURL: databaseURL,
		logger:      logger,
	}
}

// Name identifies the backend in logs
func (r *postgresVisitRepository) Name() string {
	return "postgres"
}

func (r *postgresVisitRepository) connect(ctx context.Context) (*database.PostgresDB, error) {
	if r.databaseURL == "" {
		return nil, ErrRemoteNotConfigured
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		return r.db, nil
	}

	db, err := database.NewPostgresDB(ctx, r.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	r.logger.Info("Connected to PostgreSQL visit store")
	r.db = db
	return db, nil
}

// Append inserts one visit row
func (r *postgresVisitRepository) Append(ctx context.Context, record domain.VisitRecord) error {
	db, err := r.connect(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO visits (visited_at, ip_address, user_agent, note)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := db.Pool.Exec(ctx, query, record.Timestamp, record.IPAddress, record.UserAgent, record.Note); err != nil {
		return fmt.Errorf("%w: failed to insert visit: %v", ErrRemoteUnavailable, err)
	}
	return nil
}

// FetchAll returns every visit in insertion order
func (r *postgresVisitRepository) FetchAll(ctx context.Context) ([]domain.VisitRecord, error) {
	db, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT visited_at, ip_address, user_agent, COALESCE(note, '')
		FROM visits
		ORDER BY id ASC
	`

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query visits: %v", ErrRemoteUnavailable, err)
	}
	defer rows.Close()

	var records []domain.VisitRecord
	for rows.Next() {
		var record domain.VisitRecord
		if err := rows.Scan(&record.Timestamp, &record.IPAddress, &record.UserAgent, &record.Note); err != nil {
			return nil, fmt.Errorf("%w: failed to scan visit row: %v", ErrRemoteMalformed, err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error reading visit rows: %v", ErrRemoteUnavailable, err)
	}

	return records, nil
}

// Close releases the pool if one was opened
func (r *postgresVisitRepository) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		r.db.Close()
		r.db = nil
	}
}
