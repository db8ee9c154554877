// Package retry implements the bounded retry policy applied to external
// summarization calls.
package retry

import (
	"math/rand"
	"time"

	"github.com/localrivet/condense/internal/errortypes"
)

// Default policy settings.
const (
	DefaultMaxAttempts = 3
	DefaultMinWait     = 1 * time.Second
	DefaultMaxWait     = 5 * time.Second
)

// Policy describes how a failed call is retried. Sleep and Rand are
// injectable so the policy can be exercised in tests without waiting.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// MinWait and MaxWait bound the randomized base wait; the wait before
	// a retry is drawn uniformly from [MinWait, MaxWait).
	MinWait time.Duration
	MaxWait time.Duration

	// Sleep blocks for the given duration. Defaults to time.Sleep.
	Sleep func(time.Duration)

	// Rand returns a value in [0, 1). Defaults to math/rand.Float64.
	Rand func() float64
}

// DefaultPolicy returns the production retry policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		MinWait:     DefaultMinWait,
		MaxWait:     DefaultMaxWait,
	}
}

// Backoff returns the wait before the retry following the given attempt
// number (1-based). The base wait is drawn uniformly from
// [MinWait, MaxWait) and scaled by the square of the attempt number.
// The quadratic scaling is deliberate and matches the shipped behavior;
// more tries, much longer wait.
func (p Policy) Backoff(attempt int) time.Duration {
	randFn := p.Rand
	if randFn == nil {
		randFn = rand.Float64
	}
	base := p.MinWait + time.Duration(randFn()*float64(p.MaxWait-p.MinWait))
	return base * time.Duration(attempt) * time.Duration(attempt)
}

// Do runs op up to MaxAttempts times, sleeping per Backoff between
// attempts. Only errors that errortypes.IsRetryable accepts are retried;
// anything else aborts immediately. It returns the number of attempts made
// along with the final error, nil on success.
func (p Policy) Do(op func() error) (int, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return attempt, nil
		}
		if !errortypes.IsRetryable(lastErr) {
			return attempt, lastErr
		}
		if attempt < maxAttempts {
			sleep(p.Backoff(attempt))
		}
	}
	return maxAttempts, lastErr
}
