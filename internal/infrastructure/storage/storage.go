package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"

	"arbscan/internal/application/port"
	"arbscan/internal/infrastructure/config"
	"arbscan/internal/infrastructure/storage/composite"
	"arbscan/internal/infrastructure/storage/postgres"
	redisrepo "arbscan/internal/infrastructure/storage/redis"
	"arbscan/internal/infrastructure/storage/sqlite"
)

// ErrStorageInitFailed wraps backend initialization failures; main treats it
// as fatal misconfiguration.
var ErrStorageInitFailed = errors.New("storage initialization failed")

// Open builds the repository selected by storage.driver. A comma-separated
// driver list fans writes out to every named backend.
func Open(cfg *config.Config) (port.Repository, error) {
	drivers := cfg.StorageDrivers()
	if len(drivers) == 0 {
		return nil, fmt.Errorf("%w: no driver configured", ErrStorageInitFailed)
	}

	repos := make([]port.Repository, 0, len(drivers))
	for _, d := range drivers {
		repo, err := openOne(cfg, d)
		if err != nil {
			for _, r := range repos {
				_ = r.Close()
			}
			return nil, err
		}
		repos = append(repos, repo)
	}

	if len(repos) == 1 {
		return repos[0], nil
	}
	return composite.New(repos...), nil
}

func openOne(cfg *config.Config, driver string) (port.Repository, error) {
	switch driver {
	case "none":
		return NewNoop(), nil

	case "sqlite":
		repo, err := sqlite.New(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%w: sqlite: %v", ErrStorageInitFailed, err)
		}
		return repo, nil

	case "postgres":
		repo, err := postgres.New(cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("%w: postgres: %v", ErrStorageInitFailed, err)
		}
		return repo, nil

	case "redis":
		rdb := redisclient.NewClient(&redisclient.Options{Addr: cfg.Storage.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("%w: redis: %v", ErrStorageInitFailed, err)
		}
		ttl := time.Duration(cfg.Storage.RedisTTLSec) * time.Second
		return redisrepo.New(rdb, cfg.Storage.RedisPrefix, ttl), nil

	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrStorageInitFailed, driver)
	}
}
