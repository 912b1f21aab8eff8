package llm

import (
	"context"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = 1 * time.Second
	defaultTimeout     = 30 * time.Second
)

// Sleeper pauses between attempts. Tests swap in a recorder so no real time passes.
type Sleeper func(ctx context.Context, d time.Duration) error

// RetryPolicy bounds a call to the completion service: MaxAttempts tries of at most
// Timeout each, with a fixed Backoff pause in between.
type RetryPolicy struct {
	MaxAttempts int
	Timeout     time.Duration
	Backoff     time.Duration
	Sleep       Sleeper
}

// DefaultRetryPolicy returns 3 attempts, 30s timeout, 1s pause.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: defaultMaxAttempts,
		Timeout:     defaultTimeout,
		Backoff:     defaultBackoff,
		Sleep:       SleepContext,
	}
}

// WithDefaults fills zero fields from DefaultRetryPolicy.
func (p RetryPolicy) WithDefaults() RetryPolicy {
	d := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.Timeout <= 0 {
		p.Timeout = d.Timeout
	}
	if p.Backoff <= 0 {
		p.Backoff = d.Backoff
	}
	if p.Sleep == nil {
		p.Sleep = d.Sleep
	}
	return p
}

// Do runs fn until it succeeds or the attempts are used up, pausing Backoff between
// attempts (never after the last one). onFailure, if set, sees every failed attempt.
// It returns the last error.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error, onFailure func(attempt int, err error)) error {
	p = p.WithDefaults()
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if onFailure != nil {
			onFailure(attempt, lastErr)
		}
		if attempt == p.MaxAttempts {
			break
		}
		if err := p.Sleep(ctx, p.Backoff); err != nil {
			return err
		}
	}
	return lastErr
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
