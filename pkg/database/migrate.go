package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// isConnectionError reports whether err looks like a transient connection
// problem rather than a SQL error. Only connection errors are retried.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, p := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"i/o timeout",
		"dial tcp",
		"EOF",
		"connection timed out",
		"server closed the connection unexpectedly",
		"could not connect",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// RunMigrations applies all pending goose migrations found in migrations.
// Transient connection failures are retried with the same backoff as pool
// startup; SQL errors fail immediately.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, logger *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < defaultRetryAttempts; attempt++ {
		if attempt > 0 {
			wait := retryBackoff(attempt - 1)
			logger.Warn("migration failed due to connection error, retrying",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", defaultRetryAttempts),
				slog.Duration("backoff", wait),
				slog.String("error", lastErr.Error()),
			)
			if err := sleepCtx(ctx, wait); err != nil {
				return fmt.Errorf("run migrations: context done during retry: %w", err)
			}
		}

		results, err := provider.Up(ctx)
		for _, res := range results {
			if res == nil || res.Source == nil {
				continue
			}
			logger.Info("migration applied",
				slog.Int64("version", res.Source.Version),
				slog.String("file", res.Source.Path),
				slog.Duration("duration", res.Duration),
			)
		}
		if err == nil {
			return nil
		}
		if !isConnectionError(err) {
			return fmt.Errorf("apply migrations: %w", err)
		}
		lastErr = err
	}

	return fmt.Errorf("run migrations after %d attempts: %w", defaultRetryAttempts, lastErr)
}
