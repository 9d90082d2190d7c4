package container

import (
	"context"
	"fmt"

	"expvote/internal/clock"
	"expvote/internal/config"
	"expvote/internal/metrics"
	"expvote/internal/repository"
	"expvote/internal/service"
	"expvote/internal/service/auth"
	"expvote/pkg/database"
	"expvote/pkg/logger"
	"expvote/pkg/redis"

	"github.com/prometheus/client_golang/prometheus"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	Clock       clock.Clock
	Metrics     *metrics.Metrics
	DB          *database.PostgresDB
	RedisClient *redis.Client
	Store       repository.Transactor
	Tokens      *auth.TokenService
	Voting      *service.VotingService
	Services    *service.Services
}

// New wires the configured backends and services. Metrics register on reg.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, reg prometheus.Registerer) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  log,
		Clock:   clock.System(),
		Metrics: metrics.New(reg),
	}

	if err := c.initStore(ctx); err != nil {
		c.Close()
		return nil, err
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, log)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}
	c.Tokens = tokens

	c.Voting = service.NewVotingService(c.Store, c.Clock, cfg.VoteWindow, c.Metrics, log)
	c.Services = &service.Services{
		Voting:   c.Voting,
		Accounts: service.NewAccountService(c.Store.Ledger(), service.NewOwnerPolicy(cfg.AdminAccounts), c.Metrics, log),
		Closer:   service.NewCloserService(c.Voting, c.Store.Votes(), c.Clock, cfg.CloserInterval, c.Metrics, log),
	}

	log.WithFields(map[string]interface{}{
		"store":  cfg.StoreBackend,
		"ledger": cfg.LedgerBackend,
		"window": cfg.VoteWindow.String(),
	}).Info("Container initialized")

	return c, nil
}

func (c *Container) initStore(ctx context.Context) error {
	cfg := c.Config

	switch cfg.StoreBackend {
	case config.StorePostgres:
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db

		if cfg.AutoMigrate {
			if err := db.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			c.Logger.Info("Database schema migrated")
		}
		c.Store = repository.NewPostgresStore(db)
		return nil

	case config.StoreMemory:
		var ledger repository.FundingLedger
		if cfg.LedgerBackend == config.LedgerRedis {
			client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, c.Logger.Logger)
			if err != nil {
				return fmt.Errorf("failed to connect to Redis: %w", err)
			}
			c.RedisClient = client
			ledger = repository.NewRedisLedger(client)
			c.Logger.WithField("key_prefix", client.KeyBuilder.GetPrefix()).Info("Redis ledger initialized")
		}
		c.Store = repository.NewMemoryStore(ledger)
		return nil

	default:
		return fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// HealthChecks returns a ping per configured backend
func (c *Container) HealthChecks() map[string]func(ctx context.Context) error {
	checks := map[string]func(ctx context.Context) error{}
	if c.DB != nil {
		checks["postgres"] = c.DB.Health
	}
	if c.RedisClient != nil {
		checks["redis"] = c.RedisClient.Health
	}
	return checks
}

// Close releases backend connections
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Warn("Failed to close Redis client")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
