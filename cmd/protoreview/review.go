/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"protoreview.dev/reviewer/adapter"
	"protoreview.dev/reviewer/agent"
	"protoreview.dev/reviewer/prompts"
)

// errIssuesFound signals a completed review that found error-severity
// issues; main exits nonzero without printing anything further.
var errIssuesFound = errors.New("review found errors")

var (
	reviewFormat   string
	reviewProvider string
	reviewModel    string
	reviewFocus    string
	reviewRaw      bool
)

var reviewCmd = &cobra.Command{
	Use:   "review <proto-file>",
	Short: "Review a proto file",
	Long: `Review a proto file for semantic issues.

Pass '-' as the file to read proto content from stdin.

Examples:
  protoreview review api/order_events.proto
  protoreview review - < order_events.proto
  protoreview review --focus rest --format json api/orders.proto`,
	Args: cobra.ExactArgs(1),
	RunE: runReviewCmd,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewFormat, "format", "text", "Output format: text or json")
	reviewCmd.Flags().StringVar(&reviewProvider, "provider", "", "Model provider (openai, gemini, anthropic). Auto-detected from API keys if not specified.")
	reviewCmd.Flags().StringVar(&reviewModel, "model", "", "Specific model name. Uses the provider's default if not specified.")
	reviewCmd.Flags().StringVar(&reviewFocus, "focus", prompts.FocusEvent, "Review focus: 'event' for event messages, 'rest' for REST APIs")
	reviewCmd.Flags().BoolVar(&reviewRaw, "raw", false, "Output the raw model response instead of the structured format")
	rootCmd.AddCommand(reviewCmd)
}

func runReviewCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if reviewFormat != "text" && reviewFormat != "json" {
		return fmt.Errorf("invalid format %q: want text or json", reviewFormat)
	}
	if reviewFocus != prompts.FocusEvent && reviewFocus != prompts.FocusREST {
		return fmt.Errorf("invalid focus %q: want event or rest", reviewFocus)
	}

	protoContent, err := readProtoContent(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	rc, err := agent.NewReviewContext(ctx, reviewFocus)
	if err != nil {
		return err
	}
	_, registry, err := newRegistry(ctx)
	if err != nil {
		return err
	}
	a, err := adapter.New(ctx, reviewProvider, reviewModel)
	if err != nil {
		return err
	}
	reviewer := agent.New(a, registry)

	if reviewRaw {
		res, err := reviewer.Review(ctx, protoContent, rc)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Content)
		return nil
	}

	res, err := reviewer.ReviewStructured(ctx, protoContent, rc)
	if err != nil {
		return err
	}
	out, err := formatStructured(res.Structured, reviewFormat)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	for _, issue := range res.Structured.Issues {
		if issue.Severity == "error" {
			return errIssuesFound
		}
	}
	return nil
}

func readProtoContent(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("file not found: %s", path)
	}
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), nil
}
