package di

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"user-crud-service/internal/adapter/cache"
	"user-crud-service/internal/adapter/repository/cached"
	"user-crud-service/internal/adapter/repository/memory"
	"user-crud-service/internal/config"
	"user-crud-service/internal/usecase/user"
	redisclient "user-crud-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	RedisClient *redisclient.Client
	UserUC      user.Usecase
}

// NewContainer creates and initializes all application dependencies.
// The user repository is in-memory; when Redis is enabled the repository
// is wrapped with a cache-aside decorator.
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	var repo user.Repository = memory.NewUserRepoMem(l)

	var rdb *redisclient.Client
	if cfg.Redis.Enabled {
		var err error
		rdb, err = redisclient.NewClient(redisclient.Config{
			Host:        cfg.Redis.Host,
			Port:        cfg.Redis.Port,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			MaxRetries:  cfg.Redis.MaxRetries,
			PoolSize:    cfg.Redis.PoolSize,
			MinIdleConn: cfg.Redis.MinIdleConn,
		}, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}

		userCache := cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewCachedUserRepository(repo, userCache, l)
	}

	userUC := user.New(repo, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		RedisClient: rdb,
		UserUC:      userUC,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}
	return nil
}
