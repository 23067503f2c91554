package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gridops/utility_ledger_app/internal/apperrors"
	"github.com/gridops/utility_ledger_app/internal/core/domain"
	"github.com/gridops/utility_ledger_app/internal/middleware"
)

// withConflictRetry runs fn, retrying only on ErrConflict up to maxAttempts
// with a linear backoff. Conflicts leave no partial state, so retrying is
// safe; every other error is returned as-is on the first occurrence.
func withConflictRetry(ctx context.Context, maxAttempts int, backoff time.Duration, fn func() (*domain.JournalEntry, error)) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		entry, err := fn()
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		lastErr = err
		if attempt == maxAttempts {
			break
		}
		logger.Warn("Posting conflict, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxAttempts),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff * time.Duration(attempt)):
		}
	}
	return nil, lastErr
}
