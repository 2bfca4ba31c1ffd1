package sheets

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/openlift/blockload/internal/model"
)

// retrier runs source fetches with a bounded retry budget and doubling
// backoff. Retry applies only to this read side; the store's write
// transactions are never retried.
type retrier struct {
	attempts int
	backoff  time.Duration
	logger   *slog.Logger
}

// do runs fn up to the attempt budget. Transient API errors are retried
// after a backoff; anything else fails immediately. Exhausted budgets and
// hard failures both surface as a SourceError.
func (r retrier) do(ctx context.Context, op string, fn func() error) error {
	attempts := r.attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := r.backoff

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return &model.SourceError{Attempts: attempt, Err: err}
		}
		if attempt == attempts {
			break
		}
		r.logger.Warn("transient source error, retrying",
			"op", op, "attempt", attempt, "backoff", delay, "error", err)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return &model.SourceError{Attempts: attempt, Err: ctx.Err()}
		}
		delay *= 2
	}
	return &model.SourceError{Attempts: attempts, Err: err}
}

// isTransient reports whether an API error is worth retrying: quota and
// rate-limit rejections plus server-side failures.
func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable:
		return true
	}
	return false
}
