package container

import (
	"visit-tracker/internal/config"
	"visit-tracker/internal/repository"
	"visit-tracker/internal/service"
	"visit-tracker/internal/service/sheets"
	"visit-tracker/pkg/daybucket"
	"visit-tracker/pkg/logger"
	"visit-tracker/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client
	Bucketer    *daybucket.Bucketer
	Remote      repository.RemoteVisitRepository
	Services    *service.Services
}

// New creates a new dependency injection container. Missing or broken
// optional infrastructure (Redis, remote backend) degrades to local-only mode.
func New(cfg *config.Config, logger *logger.Logger) (*Container, error) {
	// Initialize Redis client if Redis URL is configured
	var redisClient *redis.Client
	statsCache := service.NewNoopStatsCache()
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, proceeding without stats cache")
		} else {
			redisClient = client
			statsCache = service.NewRedisStatsCache(client, cfg.StatsCacheTTL, logger)
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, proceeding without stats cache")
	}

	bucketer := daybucket.New(cfg.TimezoneOffset, nil)
	remote := newRemoteRepository(cfg, logger)

	localRepo := repository.NewLocalVisitRepository(cfg.CounterFile, cfg.LogFile, logger)
	datasetRepo := repository.NewDatasetRepository(cfg.DatasetFile, logger)

	services := &service.Services{
		Visitor: service.NewVisitorService(localRepo, remote, statsCache, bucketer, logger, cfg.RemoteTimeout),
		Dataset: service.NewDatasetService(datasetRepo, logger),
	}

	return &Container{
		Config:      cfg,
		Logger:      logger,
		RedisClient: redisClient,
		Bucketer:    bucketer,
		Remote:      remote,
		Services:    services,
	}, nil
}

// newRemoteRepository selects the remote backend from configuration
func newRemoteRepository(cfg *config.Config, logger *logger.Logger) repository.RemoteVisitRepository {
	switch cfg.RemoteBackend {
	case config.RemoteBackendSheets:
		if cfg.GoogleSheetsID == "" {
			logger.Warn("GOOGLE_SHEETS_ID not set, visits are recorded locally only")
			return repository.NewNoopRemoteRepository()
		}
		return sheets.NewService(sheets.Config{
			SpreadsheetID:   cfg.GoogleSheetsID,
			WorksheetName:   cfg.WorksheetName,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
		}, logger)

	case config.RemoteBackendPostgres:
		if cfg.DatabaseURL == "" {
			logger.Warn("DATABASE_URL not set, visits are recorded locally only")
			return repository.NewNoopRemoteRepository()
		}
		return repository.NewPostgresVisitRepository(cfg.DatabaseURL, logger)

	case config.RemoteBackendNone:
		logger.Info("Remote backend disabled, visits are recorded locally only")
		return repository.NewNoopRemoteRepository()

	default:
		logger.WithField("remote_backend", cfg.RemoteBackend).Warn("Unknown remote backend, visits are recorded locally only")
		return repository.NewNoopRemoteRepository()
	}
}

// GetVisitorService returns the visitor service
func (c *Container) GetVisitorService() service.VisitorService {
	return c.Services.Visitor
}

// GetDatasetService returns the dataset service
func (c *Container) GetDatasetService() service.DatasetService {
	return c.Services.Dataset
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
