package remote

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig configures retry behavior for transient remote failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns the retry policy used when none is configured.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     5 * time.Second,
		Multiplier:  2.0,
	}
}

// retryScorer and retryGenerator are decorators that retry transient
// errors with exponential backoff and jitter.
type retryScorer struct {
	inner  Scorer
	config RetryConfig
}

type retryGenerator struct {
	inner  Generator
	config RetryConfig
}

// WithScoreRetry wraps a Scorer with retry logic.
func WithScoreRetry(s Scorer, cfg RetryConfig) Scorer {
	return &retryScorer{inner: s, config: cfg}
}

// WithGenerateRetry wraps a Generator with retry logic.
func WithGenerateRetry(g Generator, cfg RetryConfig) Generator {
	return &retryGenerator{inner: g, config: cfg}
}

func (r *retryScorer) Score(ctx context.Context, req ScoreRequest) (*ScoreResponse, error) {
	var resp *ScoreResponse
	err := retryCall(ctx, r.config, func() error {
		var callErr error
		resp, callErr = r.inner.Score(ctx, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (r *retryGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var resp *GenerateResponse
	err := retryCall(ctx, r.config, func() error {
		var callErr error
		resp, callErr = r.inner.Generate(ctx, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// retryCall runs fn up to MaxAttempts times, backing off between attempts.
func retryCall(ctx context.Context, cfg RetryConfig, fn func() error) error {
	var lastErr error
	invalidRetried := false

	for attempt := range cfg.MaxAttempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err, &invalidRetried) {
			return err
		}

		// Last attempt: don't sleep, just return the error.
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		wait := backoff(cfg, attempt, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return lastErr
}

// shouldRetry determines if an error is retryable.
func shouldRetry(err error, invalidRetried *bool) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Invalid response gets one retry.
	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	// Rate limit and unavailable are retryable; other errors (network,
	// etc.) are treated as transient too.
	return true
}

// backoff computes the wait duration for the given attempt.
func backoff(cfg RetryConfig, attempt int, err error) time.Duration {
	// Respect RetryAfter for rate limits.
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(cfg.InitialWait) * math.Pow(cfg.Multiplier, float64(attempt))
	if wait > float64(cfg.MaxWait) {
		wait = float64(cfg.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
