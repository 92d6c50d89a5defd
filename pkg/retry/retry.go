// Package retry provides bounded retries with exponential backoff for
// operations that fail transiently, such as statements hitting SQLITE_BUSY
// contention.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"
)

// Config defines retry behavior.
type Config struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int
	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration
	// Multiplier is the exponential backoff factor.
	Multiplier float64
	// Jitter randomizes each delay within [delay/2, delay].
	Jitter bool
	// OnRetry is called before each retry for observability.
	OnRetry func(attempt int, err error, nextDelay time.Duration)
}

// DefaultConfig returns settings suitable for short lock contention.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     500 * time.Millisecond,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

func (c *Config) normalize() error {
	if c.MaxAttempts <= 0 {
		return errors.New("retry: MaxAttempts must be positive")
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 10 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 500 * time.Millisecond
	}
	if c.Multiplier < 1.0 {
		c.Multiplier = 2.0
	}
	return nil
}

// Do runs fn until it succeeds, retryable returns false, the attempts are
// exhausted or ctx ends. The last error is returned. A nil retryable
// retries every error.
func Do(ctx context.Context, cfg Config, retryable func(error) bool, fn func(ctx context.Context) error) error {
	if err := cfg.normalize(); err != nil {
		return err
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}

		next := delay
		if cfg.Jitter {
			next = delay/2 + time.Duration(rand.Int63n(int64(delay/2)+1))
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr, next)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(next):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return lastErr
}

// IsSQLiteBusy reports whether err looks like SQLITE_BUSY lock contention.
// The driver surfaces these as text, so the check is string-based.
func IsSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database table is locked")
}
