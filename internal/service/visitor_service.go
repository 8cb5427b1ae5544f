package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"visit-tracker/internal/domain"
	"visit-tracker/internal/repository"
	"visit-tracker/pkg/daybucket"
	"visit-tracker/pkg/logger"
)

// DefaultRemoteTimeout bounds every remote backend call
const DefaultRemoteTimeout = 5 * time.Second

// visitorService records visits locally and to a remote backend, and serves
// statistics from the remote backend with a local fallback
type visitorService struct {
	local         repository.LocalVisitRepository
	remote        repository.RemoteVisitRepository
	cache         StatsCache
	bucketer      *daybucket.Bucketer
	logger        *logger.Logger
	remoteTimeout time.Duration

	// generation changes on every successful remote append; a fetch that
	// overlaps an append must not be cached
	generation atomic.Uint64

	warnOnce sync.Once
}

// NewVisitorService creates a new visitor service. A nil cache disables caching.
func NewVisitorService(
	local repository.LocalVisitRepository,
	remote repository.RemoteVisitRepository,
	cache StatsCache,
	bucketer *daybucket.Bucketer,
	logger *logger.Logger,
	remoteTimeout time.Duration,
) VisitorService {
	if cache == nil {
		cache = NewNoopStatsCache()
	}
	if remote == nil {
		remote = repository.NewNoopRemoteRepository()
	}
	if remoteTimeout <= 0 {
		remoteTimeout = DefaultRemoteTimeout
	}

	return &visitorService{
		local:         local,
		remote:        remote,
		cache:         cache,
		bucketer:      bucketer,
		logger:        logger,
		remoteTimeout: remoteTimeout,
	}
}

// Start seeds the counter and log files if they are missing
func (s *visitorService) Start(ctx context.Context) error {
	if err := s.local.EnsureDefaults(); err != nil {
		return fmt.Errorf("failed to initialize local visit state: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"remote_backend": s.remote.Name(),
		"zone":           s.bucketer.Location().String(),
	}).Info("Visitor service started")
	return nil
}

// Stop closes the remote backend if it holds resources
func (s *visitorService) Stop(ctx context.Context) error {
	if closer, ok := s.remote.(interface{ Close() }); ok {
		closer.Close()
	}
	s.logger.Info("Visitor service stopped")
	return nil
}

// RecordVisit appends the visit remotely, then always updates local state
func (s *visitorService) RecordVisit(ctx context.Context, ipAddress, userAgent string) error {
	record := domain.VisitRecord{
		Timestamp: s.bucketer.Timestamp(),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	// The remote write should finish even if the client goes away
	remoteCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.remoteTimeout)
	err := s.remote.Append(remoteCtx, record)
	cancel()

	if err != nil {
		s.logRemoteFailure(err, "append")
	} else {
		s.generation.Add(1)
		s.cache.Invalidate(ctx, s.bucketer.CurrentDate())
		s.logger.WithFields(map[string]interface{}{
			"ip":      ipAddress,
			"backend": s.remote.Name(),
		}).Debug("Visit recorded remotely")
	}

	if err := s.local.RecordVisit(record); err != nil {
		s.logger.WithError(err).Error("Failed to record visit locally")
		return fmt.Errorf("failed to record visit locally: %w", err)
	}

	return nil
}

// GetStats prefers cached or fresh remote aggregates and falls back to local state
func (s *visitorService) GetStats(ctx context.Context) domain.VisitStats {
	current, previous := s.bucketer.Dates()

	if cached, ok := s.cache.Get(ctx, current); ok {
		return *cached
	}

	generation := s.generation.Load()
	stats, err := s.remoteStats(ctx, current, previous)
	if err == nil {
		if s.generation.Load() == generation {
			s.cache.Set(ctx, stats)
		}
		return stats
	}

	s.logRemoteFailure(err, "fetch")
	return s.localStats(current, previous)
}

// ListLocalVisits returns the local visit log
func (s *visitorService) ListLocalVisits(ctx context.Context) ([]domain.VisitRecord, error) {
	records, err := s.local.ReadRawLog()
	if err != nil {
		return nil, fmt.Errorf("failed to read local visit log: %w", err)
	}
	return records, nil
}

func (s *visitorService) remoteStats(ctx context.Context, current, previous string) (domain.VisitStats, error) {
	remoteCtx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()

	records, err := s.remote.FetchAll(remoteCtx)
	if err != nil {
		return domain.VisitStats{}, err
	}

	return Aggregate(records, current, previous), nil
}

// localStats takes the total from the counter and the day buckets from one read of the log
func (s *visitorService) localStats(current, previous string) domain.VisitStats {
	stats, err := s.local.ReadStats(current, previous)
	if err != nil {
		s.logger.WithError(err).Error("Failed to read local visit stats")
	}
	stats.CurrentDate = current
	return stats
}

// logRemoteFailure logs missing configuration once as a warning and every
// other remote failure as an error
func (s *visitorService) logRemoteFailure(err error, op string) {
	log := s.logger.WithError(err).WithFields(map[string]interface{}{
		"backend":   s.remote.Name(),
		"operation": op,
	})

	if errors.Is(err, repository.ErrRemoteNotConfigured) {
		warned := false
		s.warnOnce.Do(func() {
			warned = true
			log.Warn("Remote backend not configured, using local state only")
		})
		if !warned {
			log.Debug("Remote backend not configured")
		}
		return
	}

	log.Error("Remote backend call failed, falling back to local state")
}
