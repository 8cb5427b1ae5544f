package service

import (
	"context"
	"encoding/json"
	"time"

	"visit-tracker/internal/domain"
	"visit-tracker/pkg/logger"
	"visit-tracker/pkg/redis"
)

// StatsCache caches remote aggregates per day bucket so repeated stats
// requests do not each read the whole remote sheet.
type StatsCache interface {
	Get(ctx context.Context, date string) (*domain.VisitStats, bool)
	Set(ctx context.Context, stats domain.VisitStats)
	Invalidate(ctx context.Context, date string)
}

// redisStatsCache stores aggregates as JSON in Redis.
// Cache errors are logged and treated as misses.
type redisStatsCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewRedisStatsCache creates a Redis backed stats cache
func NewRedisStatsCache(client *redis.Client, ttl time.Duration, logger *logger.Logger) StatsCache {
	return &redisStatsCache{
		redis:  client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *redisStatsCache) Get(ctx context.Context, date string) (*domain.VisitStats, bool) {
	cached, err := c.redis.Get(ctx, c.redis.KeyBuilder.KeyRemoteStats(date))
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Warn("Stats cache read failed, treating as miss")
		}
		return nil, false
	}

	var stats domain.VisitStats
	if err := json.Unmarshal([]byte(cached), &stats); err != nil {
		c.logger.WithError(err).Warn("Stats cache entry corrupted, treating as miss")
		return nil, false
	}
	return &stats, true
}

func (c *redisStatsCache) Set(ctx context.Context, stats domain.VisitStats) {
	data, err := json.Marshal(stats)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to encode stats for cache")
		return
	}
	if err := c.redis.Set(ctx, c.redis.KeyBuilder.KeyRemoteStats(stats.CurrentDate), data, c.ttl); err != nil {
		c.logger.WithError(err).Warn("Failed to cache remote stats")
	}
}

func (c *redisStatsCache) Invalidate(ctx context.Context, date string) {
	if err := c.redis.Delete(ctx, c.redis.KeyBuilder.KeyRemoteStats(date)); err != nil {
		c.logger.WithError(err).Warn("Failed to invalidate cached stats")
	}
}

// noopStatsCache is used when Redis is not configured
type noopStatsCache struct{}

// NewNoopStatsCache returns a cache that never hits
func NewNoopStatsCache() StatsCache {
	return noopStatsCache{}
}

func (noopStatsCache) Get(context.Context, string) (*domain.VisitStats, bool) { return nil, false }
func (noopStatsCache) Set(context.Context, domain.VisitStats)                 {}
func (noopStatsCache) Invalidate(context.Context, string)                     {}
