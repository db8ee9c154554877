package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/localrivet/condense/internal/errortypes"
)

// testPolicy returns a policy with deterministic randomness and a sleep
// recorder instead of real waiting.
func testPolicy(slept *[]time.Duration) Policy {
	return Policy{
		MaxAttempts: 3,
		MinWait:     1 * time.Second,
		MaxWait:     5 * time.Second,
		Sleep: func(d time.Duration) {
			*slept = append(*slept, d)
		},
		Rand: func() float64 { return 0 },
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	var slept []time.Duration
	p := testPolicy(&slept)

	calls := 0
	attempts, err := p.Do(func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if attempts != 1 || calls != 1 {
		t.Errorf("attempts = %d, calls = %d, want 1, 1", attempts, calls)
	}
	if len(slept) != 0 {
		t.Errorf("Slept %d times on immediate success", len(slept))
	}
}

func TestDoRetriesTransientErrors(t *testing.T) {
	var slept []time.Duration
	p := testPolicy(&slept)

	transient := errortypes.TransientError(errors.New("rate limited"), "provider busy")

	calls := 0
	attempts, err := p.Do(func() error {
		calls++
		return transient
	})
	if err == nil {
		t.Fatal("Expected error after exhausting attempts")
	}
	if attempts != 3 || calls != 3 {
		t.Errorf("attempts = %d, calls = %d, want 3, 3", attempts, calls)
	}
	// Two waits between three attempts.
	if len(slept) != 2 {
		t.Fatalf("Slept %d times, want 2", len(slept))
	}
}

func TestDoRecoversMidway(t *testing.T) {
	var slept []time.Duration
	p := testPolicy(&slept)

	calls := 0
	attempts, err := p.Do(func() error {
		calls++
		if calls < 2 {
			return errortypes.TransientError(errors.New("hiccup"), "transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestDoAbortsOnNonRetryableError(t *testing.T) {
	var slept []time.Duration
	p := testPolicy(&slept)

	fatal := errortypes.CallFailedError(errors.New("bad request"), "provider rejected the call")

	calls := 0
	attempts, err := p.Do(func() error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("Expected the original error back, got %v", err)
	}
	if attempts != 1 || calls != 1 {
		t.Errorf("attempts = %d, calls = %d, want 1, 1", attempts, calls)
	}
	if len(slept) != 0 {
		t.Error("Slept before aborting on a non-retryable error")
	}
}

func TestBackoffScalesQuadratically(t *testing.T) {
	p := Policy{
		MinWait: 1 * time.Second,
		MaxWait: 5 * time.Second,
		Rand:    func() float64 { return 0 },
	}

	// With Rand pinned to 0 the base wait is exactly MinWait.
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 1 * time.Second},
		{2, 4 * time.Second},
		{3, 9 * time.Second},
	}
	for _, tt := range tests {
		if got := p.Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoffStaysWithinBounds(t *testing.T) {
	p := DefaultPolicy()

	for i := 0; i < 100; i++ {
		got := p.Backoff(1)
		if got < DefaultMinWait || got >= DefaultMaxWait {
			t.Fatalf("Backoff(1) = %v, want within [%v, %v)", got, DefaultMinWait, DefaultMaxWait)
		}
	}
}

func TestDoDefaultsMaxAttempts(t *testing.T) {
	var slept []time.Duration
	p := Policy{
		Sleep: func(d time.Duration) { slept = append(slept, d) },
		Rand:  func() float64 { return 0 },
	}

	calls := 0
	attempts, _ := p.Do(func() error {
		calls++
		return errortypes.TransientError(errors.New("x"), "transient")
	})
	if attempts != DefaultMaxAttempts || calls != DefaultMaxAttempts {
		t.Errorf("attempts = %d, calls = %d, want %d", attempts, calls, DefaultMaxAttempts)
	}
}
