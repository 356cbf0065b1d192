package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// fastRetryConfig keeps retry tests quick
func fastRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		RetryableErrors: []ErrorCode{
			ErrCodeBusy,
			ErrCodeTimeout,
			ErrCodeUnavailable,
		},
	}
}

func TestWithRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestWithRetry_RetriesRetryableErrors(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		calls++
		if calls < 3 {
			return NewStoreError("op", errors.New("locked"), ErrCodeBusy)
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_StopsOnNonRetryableError(t *testing.T) {
	calls := 0
	cause := NewStoreError("op", errors.New("bad index"), ErrCodeInvalidIndex)
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		calls++
		return cause
	})

	if !errors.Is(err, cause) {
		t.Errorf("expected the original error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("non-retryable error must not retry, got %d calls", calls)
	}
}

func TestWithRetry_PlainErrorsAreNotRetried(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		calls++
		return errors.New("plain failure")
	})

	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Errorf("plain errors must not retry, got %d calls", calls)
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastRetryConfig(), func() error {
		calls++
		return NewStoreError("op", errors.New("still busy"), ErrCodeBusy)
	})

	if err == nil {
		t.Fatal("expected an error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("final error should mention the attempt count: %v", err)
	}
	if !IsBusy(err) {
		t.Errorf("final error should still unwrap to the last cause: %v", err)
	}
}

func TestWithRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	config := fastRetryConfig()
	config.InitialDelay = 50 * time.Millisecond

	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	err := WithRetry(ctx, config, func() error {
		calls++
		return NewStoreError("op", errors.New("busy"), ErrCodeBusy)
	})

	if !IsTimeout(err) {
		t.Errorf("cancellation should surface as a timeout error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", calls)
	}
}

func TestWithRetry_NilConfigUsesDefaults(t *testing.T) {
	err := WithRetry(context.Background(), nil, func() error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWithRetryNamed_LogsRetries(t *testing.T) {
	logger := &capturingRetryLogger{}
	SetRetryLogger(logger)
	defer SetRetryLogger(nil)

	calls := 0
	err := WithRetryNamed(context.Background(), fastRetryConfig(), "Get", func() error {
		calls++
		if calls < 2 {
			return NewStoreError("Get", errors.New("busy"), ErrCodeBusy)
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	messages := logger.messages()
	if len(messages) < 2 {
		t.Fatalf("expected retry and success log lines, got %v", messages)
	}
	if !strings.Contains(messages[len(messages)-1], "succeeded after 2 attempts") {
		t.Errorf("missing success line: %v", messages)
	}
}

func TestCalculateDelay(t *testing.T) {
	config := &RetryConfig{
		InitialDelay:  10 * time.Millisecond,
		MaxDelay:      35 * time.Millisecond,
		BackoffFactor: 2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 10 * time.Millisecond},
		{1, 20 * time.Millisecond},
		{2, 35 * time.Millisecond}, // capped at MaxDelay
		{3, 35 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := calculateDelay(tt.attempt, config); got != tt.expected {
			t.Errorf("attempt %d: expected %v, got %v", tt.attempt, tt.expected, got)
		}
	}
}

func TestCalculateDelay_JitterStaysBounded(t *testing.T) {
	config := &RetryConfig{
		InitialDelay:  10 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	}

	for i := 0; i < 50; i++ {
		delay := calculateDelay(0, config)
		if delay < 10*time.Millisecond || delay > 12500*time.Microsecond {
			t.Fatalf("jittered delay %v outside [10ms, 12.5ms]", delay)
		}
	}
}

type capturingRetryLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *capturingRetryLogger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func (l *capturingRetryLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
