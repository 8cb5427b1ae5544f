package service

import (
	"context"

	"visit-tracker/internal/repository"
	"visit-tracker/pkg/errors"
	"visit-tracker/pkg/logger"
)

type datasetService struct {
	repo   repository.DatasetRepository
	logger *logger.Logger
}

// NewDatasetService creates a service for the editable CSV dataset
func NewDatasetService(repo repository.DatasetRepository, logger *logger.Logger) DatasetService {
	return &datasetService{
		repo:   repo,
		logger: logger,
	}
}

func (s *datasetService) Init() error {
	return s.repo.EnsureDefault()
}

func (s *datasetService) Read(ctx context.Context) ([]byte, error) {
	data, err := s.repo.Read()
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	return data, nil
}

// Replace stores body as the new dataset without validating its structure
func (s *datasetService) Replace(ctx context.Context, body []byte) error {
	if err := s.repo.Write(body); err != nil {
		s.logger.WithError(err).Error("Failed to save dataset")
		return errors.NewStorageError(err)
	}

	s.logger.WithField("bytes", len(body)).Info("Dataset replaced")
	return nil
}
