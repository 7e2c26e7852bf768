package retrylimit

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/time/rate"
)

func TestWithRetryMaxStopsOnSuccess(t *testing.T) {
	calls := 0
	err := WithRetryMax(context.Background(), func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	}, nil, 5)
	if err != nil {
		t.Fatalf("WithRetryMax() error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestWithRetryMaxStopsOnFatalError(t *testing.T) {
	sentinel := errors.New("unauthorized")
	calls := 0
	err := WithRetryMax(context.Background(), func() error {
		calls++
		return &FatalError{Err: sentinel}
	}, nil, 5)
	if !errors.Is(err, sentinel) {
		t.Fatalf("error = %v, want %v", err, sentinel)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retries after fatal)", calls)
	}
}

func TestWithRetryMaxExhaustsAttempts(t *testing.T) {
	transient := errors.New("transient")
	calls := 0
	err := WithRetryMax(context.Background(), func() error {
		calls++
		return transient
	}, nil, 2)
	if !errors.Is(err, transient) {
		t.Fatalf("error = %v, want wrapped %v", err, transient)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestWithRetryMaxHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetryMax(ctx, func() error {
		t.Fatal("fn ran with cancelled context")
		return nil
	}, nil, 3)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestAdaptiveLimiterFeedback(t *testing.T) {
	lim := NewAdaptiveLimiter(10, 1, 20, 1, 0.5)

	lim.Failure()
	if got := lim.CurrentLimit(); got != 5 {
		t.Fatalf("limit after failure = %v, want 5", got)
	}

	// Success right after a failure must not raise the rate.
	lim.Success()
	if got := lim.CurrentLimit(); got != 5 {
		t.Fatalf("limit after quick success = %v, want 5", got)
	}

	lim.Failure()
	lim.Failure()
	lim.Failure()
	if got := lim.CurrentLimit(); got < float64(rate.Limit(1)) {
		t.Fatalf("limit fell below the floor: %v", got)
	}
}
