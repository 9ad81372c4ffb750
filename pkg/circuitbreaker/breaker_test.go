package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{FailureThreshold: 3, Timeout: time.Minute})

	for i := 0; i < 3; i++ {
		err := cb.Execute(context.Background(), func() error { return errBoom })
		if !errors.Is(err, errBoom) {
			t.Fatalf("attempt %d: expected errBoom, got %v", i, err)
		}
	}

	if got := cb.State(); got != StateOpen {
		t.Fatalf("expected open state, got %s", got)
	}

	err := cb.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{FailureThreshold: 3, Timeout: time.Minute})

	for i := 0; i < 2; i++ {
		cb.Execute(context.Background(), func() error { return errBoom })
	}
	cb.Execute(context.Background(), func() error { return nil })
	cb.Execute(context.Background(), func() error { return errBoom })

	if got := cb.State(); got != StateClosed {
		t.Errorf("expected closed state after reset, got %s", got)
	}
}

func TestHalfOpenClosesAfterSuccesses(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		MaxRequests:      2,
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Timeout:          10 * time.Millisecond,
	})

	cb.Execute(context.Background(), func() error { return errBoom })
	if got := cb.State(); got != StateOpen {
		t.Fatalf("expected open state, got %s", got)
	}

	time.Sleep(20 * time.Millisecond)

	for i := 0; i < 2; i++ {
		if err := cb.Execute(context.Background(), func() error { return nil }); err != nil {
			t.Fatalf("probe %d failed: %v", i, err)
		}
	}

	if got := cb.State(); got != StateClosed {
		t.Errorf("expected closed state after probes, got %s", got)
	}
}

func TestHalfOpenReopensOnFailure(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		FailureThreshold: 1,
		Timeout:          10 * time.Millisecond,
	})

	cb.Execute(context.Background(), func() error { return errBoom })
	time.Sleep(20 * time.Millisecond)

	cb.Execute(context.Background(), func() error { return errBoom })
	if got := cb.State(); got != StateOpen {
		t.Errorf("expected open state after half-open failure, got %s", got)
	}
}
