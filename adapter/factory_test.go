/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MODEL_PROVIDER",
		"OPENAI_API_KEY", "GOOGLE_API_KEY", "ANTHROPIC_API_KEY",
		"OPENAI_BASE_URL", "GEMINI_BASE_URL", "ANTHROPIC_BASE_URL",
		"LLM_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestAvailableProviders(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want []string
	}{{
		name: "none",
		want: nil,
	}, {
		name: "openai only",
		env:  map[string]string{"OPENAI_API_KEY": "sk-test"},
		want: []string{"openai"},
	}, {
		name: "all providers, openai first",
		env: map[string]string{
			"ANTHROPIC_API_KEY": "sk-ant",
			"GOOGLE_API_KEY":    "goog",
			"OPENAI_API_KEY":    "sk-test",
		},
		want: []string{"openai", "gemini", "anthropic"},
	}, {
		name: "gemini and anthropic",
		env: map[string]string{
			"GOOGLE_API_KEY":    "goog",
			"ANTHROPIC_API_KEY": "sk-ant",
		},
		want: []string{"gemini", "anthropic"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearProviderEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if diff := cmp.Diff(tt.want, AvailableProviders()); diff != "" {
				t.Errorf("AvailableProviders() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewProviderSelection(t *testing.T) {
	ctx := context.Background()

	t.Run("no credentials", func(t *testing.T) {
		clearProviderEnv(t)
		_, err := New(ctx, "", "")
		if !errors.Is(err, ErrNoCredentials) {
			t.Fatalf("New() error = %v, want ErrNoCredentials", err)
		}
	})

	t.Run("explicit provider without key", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")
		_, err := New(ctx, "anthropic", "")
		if !errors.Is(err, ErrNoCredentials) {
			t.Fatalf("New() error = %v, want ErrNoCredentials", err)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")
		_, err := New(ctx, "bedrock", "")
		if err == nil {
			t.Fatal("New() expected error for unknown provider")
		}
	})

	t.Run("auto-detect prefers openai", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
		a, err := New(ctx, "", "")
		if err != nil {
			t.Fatal(err)
		}
		if a.ProviderName() != "openai" {
			t.Errorf("ProviderName() = %q, want openai", a.ProviderName())
		}
		if a.ModelName() != defaultOpenAIModel {
			t.Errorf("ModelName() = %q, want %q", a.ModelName(), defaultOpenAIModel)
		}
	})

	t.Run("MODEL_PROVIDER env wins over auto-detect", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
		t.Setenv("MODEL_PROVIDER", "anthropic")
		a, err := New(ctx, "", "")
		if err != nil {
			t.Fatal(err)
		}
		if a.ProviderName() != "anthropic" {
			t.Errorf("ProviderName() = %q, want anthropic", a.ProviderName())
		}
		if a.ModelName() != defaultAnthropicModel {
			t.Errorf("ModelName() = %q, want %q", a.ModelName(), defaultAnthropicModel)
		}
	})

	t.Run("explicit provider wins over env", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
		t.Setenv("MODEL_PROVIDER", "openai")
		a, err := New(ctx, "Anthropic", "claude-opus-4-20250514")
		if err != nil {
			t.Fatal(err)
		}
		if a.ProviderName() != "anthropic" {
			t.Errorf("ProviderName() = %q, want anthropic", a.ProviderName())
		}
		if a.ModelName() != "claude-opus-4-20250514" {
			t.Errorf("ModelName() = %q, want the explicit model", a.ModelName())
		}
	})

	t.Run("gemini default model", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("GOOGLE_API_KEY", "goog")
		a, err := New(ctx, "gemini", "")
		if err != nil {
			t.Fatal(err)
		}
		if a.ModelName() != defaultGeminiModel {
			t.Errorf("ModelName() = %q, want %q", a.ModelName(), defaultGeminiModel)
		}
	})
}

func TestGenerateOptionsTemperature(t *testing.T) {
	if got := (GenerateOptions{}).temperature(); got != DefaultTemperature {
		t.Errorf("zero options temperature = %v, want %v", got, DefaultTemperature)
	}
	if got := (GenerateOptions{Temperature: 0.7}).temperature(); got != 0.7 {
		t.Errorf("explicit temperature = %v, want 0.7", got)
	}
}
