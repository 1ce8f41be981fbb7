package blobstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sleepRecorder collects requested backoff delays without sleeping.
type sleepRecorder struct {
	delays []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func TestRetryPolicy_Backoff(t *testing.T) {
	p := RetryPolicy{MaxRetries: 10}

	assert.Equal(t, 1*time.Second, p.Backoff(0))
	assert.Equal(t, 2*time.Second, p.Backoff(1))
	assert.Equal(t, 4*time.Second, p.Backoff(2))
	assert.Equal(t, 32*time.Second, p.Backoff(5))
	assert.Equal(t, 64*time.Second, p.Backoff(6))

	// Capped beyond 2^6.
	assert.Equal(t, 64*time.Second, p.Backoff(7))
	assert.Equal(t, 64*time.Second, p.Backoff(100))
}

func TestRetryPolicy_Do_SuccessFirstAttempt(t *testing.T) {
	rec := &sleepRecorder{}
	p := RetryPolicy{MaxRetries: 3, Sleep: rec.sleep}

	calls := 0
	err := p.Do(context.Background(), func() (bool, error) {
		calls++
		return false, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.delays)
}

func TestRetryPolicy_Do_ExhaustsBudget(t *testing.T) {
	rec := &sleepRecorder{}
	p := RetryPolicy{MaxRetries: 3, Sleep: rec.sleep}

	serverErr := &StatusError{Op: "get", Code: 503, Body: "unavailable"}
	calls := 0
	err := p.Do(context.Background(), func() (bool, error) {
		calls++
		return true, serverErr
	})

	// N+1 total attempts with delays 1, 2, 4 between them.
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, rec.delays)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 503, se.Code)
}

func TestRetryPolicy_Do_EventualSuccess(t *testing.T) {
	rec := &sleepRecorder{}
	p := RetryPolicy{MaxRetries: 5, Sleep: rec.sleep}

	calls := 0
	err := p.Do(context.Background(), func() (bool, error) {
		calls++
		if calls < 3 {
			return true, &StatusError{Op: "put", Code: 500, Body: "error"}
		}
		return false, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestRetryPolicy_Do_TerminalErrorNoRetry(t *testing.T) {
	rec := &sleepRecorder{}
	p := RetryPolicy{MaxRetries: 3, Sleep: rec.sleep}

	terminal := errors.New("bad request")
	calls := 0
	err := p.Do(context.Background(), func() (bool, error) {
		calls++
		return false, terminal
	})

	assert.ErrorIs(t, err, terminal)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.delays)
}

func TestRetryPolicy_Do_ZeroBudget(t *testing.T) {
	rec := &sleepRecorder{}
	p := RetryPolicy{MaxRetries: 0, Sleep: rec.sleep}

	calls := 0
	err := p.Do(context.Background(), func() (bool, error) {
		calls++
		return true, &StatusError{Op: "get", Code: 502, Body: "bad gateway"}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.delays)
}

func TestRetryPolicy_Do_CanceledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := RetryPolicy{MaxRetries: 3}
	calls := 0
	err := p.Do(ctx, func() (bool, error) {
		calls++
		return true, &StatusError{Op: "get", Code: 500, Body: "error"}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
