/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package retry_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"protoreview.dev/reviewer/retry"
)

func testConfig() retry.Config {
	return retry.Config{
		MaxRetries:  3,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  10 * time.Millisecond,
		MaxJitter:   time.Millisecond,
	}
}

func alwaysRetryable(err error) bool { return err != nil }

func TestDoSuccess(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32
	result, err := retry.Do(context.Background(), testConfig(), "generate", alwaysRetryable, func() (string, error) {
		attempts.Add(1)
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Fatalf("result = %q", result)
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("attempts = %d, want 1", got)
	}
}

func TestDoSuccessAfterRetries(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32
	transient := errors.New("429 rate limited")

	result, err := retry.Do(context.Background(), testConfig(), "generate", alwaysRetryable, func() (string, error) {
		if attempts.Add(1) < 3 {
			return "", transient
		}
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "recovered" {
		t.Fatalf("result = %q", result)
	}
	if got := attempts.Load(); got != 3 {
		t.Fatalf("attempts = %d, want 3", got)
	}
}

func TestDoExhaustedRetries(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32
	transient := errors.New("overloaded")

	_, err := retry.Do(context.Background(), testConfig(), "generate", alwaysRetryable, func() (string, error) {
		attempts.Add(1)
		return "", transient
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, transient) {
		t.Errorf("error chain lost original: %v", err)
	}
	if !strings.Contains(err.Error(), "after 3 retries") {
		t.Errorf("error = %v", err)
	}
	if got := attempts.Load(); got != 4 {
		t.Fatalf("attempts = %d, want 4 (1 + 3 retries)", got)
	}
}

func TestDoNonRetryableFailsFast(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32
	fatal := errors.New("401 invalid api key")

	_, err := retry.Do(context.Background(), testConfig(), "generate", func(error) bool { return false }, func() (string, error) {
		attempts.Add(1)
		return "", fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("error = %v, want %v", err, fatal)
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("attempts = %d, want 1", got)
	}
}

func TestDoContextCancelledDuringBackoff(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.BaseBackoff = time.Minute
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := retry.Do(ctx, cfg, "generate", alwaysRetryable, func() (string, error) {
		return "", errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := retry.DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	bad := retry.Config{MaxRetries: -1}
	if err := bad.Validate(); err == nil {
		t.Error("negative retries should be invalid")
	}
}
