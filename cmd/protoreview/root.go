/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"

	"github.com/spf13/cobra"

	"protoreview.dev/reviewer/knowledge"
	"protoreview.dev/reviewer/tools"
)

var rootCmd = &cobra.Command{
	Use:   "protoreview",
	Short: "Review Protocol Buffer definitions for semantic correctness",
	Long: `protoreview reviews .proto files for semantic issues that automated
linters miss: wrong field types for the data they carry, misapplied AIP
patterns, and violations of organizational event standards.

Reviews run through a configured model provider (openai, gemini, or
anthropic); credentials are picked up from the environment.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// newRegistry builds the tool registry over the standards base, shared by
// every command that reviews or looks up standards.
func newRegistry(ctx context.Context) (*knowledge.Base, *tools.Registry, error) {
	base, err := knowledge.Default(ctx)
	if err != nil {
		return nil, nil, err
	}
	return base, tools.NewRegistry(base), nil
}
