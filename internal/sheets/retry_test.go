package sheets

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/openlift/blockload/internal/model"
	"github.com/openlift/blockload/internal/testutil"
)

func newTestRetrier(t *testing.T, attempts int) retrier {
	t.Helper()
	return retrier{attempts: attempts, backoff: time.Millisecond, logger: testutil.NewTestLogger(t)}
}

func TestRetrierTransientThenSuccess(t *testing.T) {
	r := newTestRetrier(t, 3)
	calls := 0
	err := r.do(context.Background(), "grid", func() error {
		calls++
		if calls < 3 {
			return &googleapi.Error{Code: 503}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetrierBudgetExhausted(t *testing.T) {
	r := newTestRetrier(t, 3)
	calls := 0
	err := r.do(context.Background(), "grid", func() error {
		calls++
		return &googleapi.Error{Code: 429}
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	require.ErrorIs(t, err, model.ErrSourceUnavailable)

	var serr *model.SourceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 3, serr.Attempts)
}

func TestRetrierNonTransientFailsImmediately(t *testing.T) {
	r := newTestRetrier(t, 5)
	calls := 0
	cause := errors.New("invalid credentials")
	err := r.do(context.Background(), "titles", func() error {
		calls++
		return cause
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	require.ErrorIs(t, err, model.ErrSourceUnavailable)
	require.ErrorIs(t, err, cause)

	var serr *model.SourceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Attempts)
}

func TestRetrierStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := retrier{attempts: 5, backoff: time.Hour, logger: testutil.NewTestLogger(t)}
	calls := 0
	err := r.do(ctx, "grid", func() error {
		calls++
		return &googleapi.Error{Code: 500}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	require.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &googleapi.Error{Code: 429}, true},
		{"server error", &googleapi.Error{Code: 500}, true},
		{"bad gateway", &googleapi.Error{Code: 502}, true},
		{"unavailable", &googleapi.Error{Code: 503}, true},
		{"not found", &googleapi.Error{Code: 404}, false},
		{"forbidden", &googleapi.Error{Code: 403}, false},
		{"wrapped api error", fmt.Errorf("fetch: %w", &googleapi.Error{Code: 429}), true},
		{"plain error", errors.New("dial tcp: connection refused"), false},
		{"nil-ish wrapper", fmt.Errorf("no api error inside"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransient(tt.err))
		})
	}
}
