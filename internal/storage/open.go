package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/debuglog"
	bolt "go.etcd.io/bbolt"
)

// Open returns the Counter selected by cfg.Trending.Backend.
func Open(ctx context.Context, cfg *config.Config) (Counter, error) {
	switch cfg.Trending.Backend {
	case config.BackendBolt, "":
		var store *Store
		err := retryOperation(ctx, func() error {
			var err error
			store, err = NewStore(cfg.Database.Path, cfg.Database.Timeout)
			return err
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendValkey:
		return NewValkeyCounter(cfg.Trending.ValkeyAddr, cfg.Trending.ValkeyPassword)
	case config.BackendPostgres:
		return NewPostgresCounter(ctx, cfg.Trending.PostgresURL)
	default:
		return nil, fmt.Errorf("unknown trending backend %q", cfg.Trending.Backend)
	}
}

// retryOperation retries operation up to 3 times with exponential backoff
// while it fails with a bbolt lock timeout, which happens when another reel
// process is still closing the database.
func retryOperation(ctx context.Context, operation func() error) error {
	const maxRetries = 3
	baseDelay := 100 * time.Millisecond

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		lastErr = operation()
		if lastErr == nil || !errors.Is(lastErr, bolt.ErrTimeout) {
			return lastErr
		}
		if i == maxRetries-1 {
			break
		}
		debuglog.Warnf("database locked, retrying (attempt %d): %v", i+1, lastErr)
		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(baseDelay * time.Duration(1<<i)):
		}
	}
	return lastErr
}
