package repository

import (
	"fmt"
	"os"
	"sync"

	"visit-tracker/internal/domain"
	"visit-tracker/pkg/logger"
)

// datasetRepository persists the editable CSV dataset as-is
type datasetRepository struct {
	path   string
	logger *logger.Logger
	mu     sync.RWMutex
}

// NewDatasetRepository creates a dataset repository backed by the file at path
func NewDatasetRepository(path string, logger *logger.Logger) DatasetRepository {
	return &datasetRepository{
		path:   path,
		logger: logger,
	}
}

// EnsureDefault seeds the default level/EXP table if the file is absent
func (r *datasetRepository) EnsureDefault() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	created, err := ensureFile(r.path, domain.DefaultDataset)
	if err != nil {
		return err
	}
	if created {
		r.logger.WithField("path", r.path).Info("Seeded default dataset")
	}
	return nil
}

// Read returns the dataset bytes verbatim
func (r *datasetRepository) Read() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return data, nil
}

// Write replaces the whole dataset. The content is not validated.
func (r *datasetRepository) Write(content []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return writeFileAtomic(r.path, content)
}
