/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// ErrNoCredentials is returned when no provider credentials are available.
var ErrNoCredentials = errors.New("no API key found: set one of GOOGLE_API_KEY, OPENAI_API_KEY, or ANTHROPIC_API_KEY")

// SupportedProviders lists every provider New understands, preferred
// default first.
var SupportedProviders = []string{"openai", "gemini", "anthropic"}

type config struct {
	Provider string        `env:"MODEL_PROVIDER"`
	Timeout  time.Duration `env:"LLM_TIMEOUT, default=120s"`

	OpenAIKey    string `env:"OPENAI_API_KEY"`
	GoogleKey    string `env:"GOOGLE_API_KEY"`
	AnthropicKey string `env:"ANTHROPIC_API_KEY"`

	// Optional endpoint overrides for gateway deployments.
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`
	GeminiBaseURL    string `env:"GEMINI_BASE_URL"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL"`
}

// AvailableProviders reports which providers have credentials in the
// environment, in the same preference order as SupportedProviders.
func AvailableProviders() []string {
	var providers []string
	if os.Getenv("OPENAI_API_KEY") != "" {
		providers = append(providers, "openai")
	}
	if os.Getenv("GOOGLE_API_KEY") != "" {
		providers = append(providers, "gemini")
	}
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		providers = append(providers, "anthropic")
	}
	return providers
}

// New builds an adapter for the given provider and model. Provider selection
// order: the explicit argument, then MODEL_PROVIDER, then the first provider
// with credentials. An empty modelName selects the provider's default model.
func New(ctx context.Context, provider, modelName string) (Adapter, error) {
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("reading provider configuration: %w", err)
	}

	if provider == "" {
		provider = cfg.Provider
	}
	if provider == "" {
		available := AvailableProviders()
		if len(available) == 0 {
			return nil, ErrNoCredentials
		}
		provider = available[0]
	}

	switch strings.ToLower(provider) {
	case "gemini":
		if cfg.GoogleKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY environment variable required for gemini: %w", ErrNoCredentials)
		}
		return newGemini(ctx, cfg, modelName)
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable required for openai: %w", ErrNoCredentials)
		}
		return newOpenAI(cfg, modelName), nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable required for anthropic: %w", ErrNoCredentials)
		}
		return newAnthropic(cfg, modelName), nil
	default:
		return nil, fmt.Errorf("unknown provider %q: use gemini, openai, or anthropic", provider)
	}
}
