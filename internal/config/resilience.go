package config

import (
	"context"
	"math"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

// Retry configuration constants
const (
	// Backend API request retry configuration
	APIRequestMaxAttempts       = 3
	APIRequestInitialWait       = 1 * time.Second
	APIRequestMaxWait           = 10 * time.Second
	APIRequestBackoffMultiplier = 2.0
	APIRequestTimeout           = 30 * time.Second

	// Sheet Write retry configuration
	SheetWriteMaxAttempts       = 3
	SheetWriteInitialWait       = 1 * time.Second
	SheetWriteMaxWait           = 10 * time.Second
	SheetWriteBackoffMultiplier = 2.0
	SheetWriteTimeout           = 30 * time.Second

	// BigQuery archive insert retry configuration
	ArchiveInsertMaxAttempts       = 4
	ArchiveInsertInitialWait       = 2 * time.Second
	ArchiveInsertMaxWait           = 20 * time.Second
	ArchiveInsertBackoffMultiplier = 2.0
	ArchiveInsertTimeout           = 60 * time.Second
)

// RetryConfig defines retry behavior for operations
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	Timeout     time.Duration
}

// ResilienceConfig contains all retry configurations
type ResilienceConfig struct {
	APIRequest    RetryConfig
	SheetWrite    RetryConfig
	ArchiveInsert RetryConfig
}

// DefaultResilienceConfig provides sensible defaults
var DefaultResilienceConfig = ResilienceConfig{
	APIRequest: RetryConfig{
		MaxAttempts: APIRequestMaxAttempts,
		InitialWait: APIRequestInitialWait,
		MaxWait:     APIRequestMaxWait,
		Multiplier:  APIRequestBackoffMultiplier,
		Timeout:     APIRequestTimeout,
	},
	SheetWrite: RetryConfig{
		MaxAttempts: SheetWriteMaxAttempts,
		InitialWait: SheetWriteInitialWait,
		MaxWait:     SheetWriteMaxWait,
		Multiplier:  SheetWriteBackoffMultiplier,
		Timeout:     SheetWriteTimeout,
	},
	ArchiveInsert: RetryConfig{
		MaxAttempts: ArchiveInsertMaxAttempts,
		InitialWait: ArchiveInsertInitialWait,
		MaxWait:     ArchiveInsertMaxWait,
		Multiplier:  ArchiveInsertBackoffMultiplier,
		Timeout:     ArchiveInsertTimeout,
	},
}

// Backoff returns the wait before retry number n (0-based), capped at MaxWait
func (c RetryConfig) Backoff(n uint) time.Duration {
	multiplier := c.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	wait := time.Duration(float64(c.InitialWait) * math.Pow(multiplier, float64(n)))
	if c.MaxWait > 0 && (wait > c.MaxWait || wait < 0) {
		return c.MaxWait
	}
	return wait
}

// Do runs fn until it succeeds, the attempts are exhausted, the timeout expires
// or fn returns an error wrapped with retry.Unrecoverable.
func (c RetryConfig) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	attempts := c.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	return retry.Do(
		func() error { return fn(ctx) },
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return c.Backoff(n)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().
				Err(err).
				Str("operation", operation).
				Uint("attempt", n+1).
				Int("max_attempts", attempts).
				Msg("Retrying operation")
		}),
	)
}
