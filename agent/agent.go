/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package agent drives a semantic proto review: it sends the proto to a
// model with the standards tools attached, executes the tool calls the
// model asks for, and loops until the model produces its findings or the
// iteration budget runs out.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"

	"protoreview.dev/reviewer/adapter"
	"protoreview.dev/reviewer/metrics"
	"protoreview.dev/reviewer/prompts"
	"protoreview.dev/reviewer/result"
	"protoreview.dev/reviewer/reviewtrace"
	"protoreview.dev/reviewer/tools"
	"protoreview.dev/reviewer/validation"
)

const (
	// DefaultMaxIterations bounds the generate/tool-call loop.
	DefaultMaxIterations = 10
	// DefaultMaxInputSize bounds accepted proto content, in bytes.
	DefaultMaxInputSize = 100 * 1024
)

// ReviewContext carries per-review configuration. Zero values fall back to
// the defaults, so a literal with just Focus set is fine.
type ReviewContext struct {
	// Focus selects the review angle: "event" (default) or "rest".
	Focus string
	// MaxIterations caps how many model turns a review may take.
	MaxIterations int
	// MaxInputSize caps the proto content size in bytes.
	MaxInputSize int
}

type reviewEnv struct {
	MaxIterations int `env:"MAX_ITERATIONS, default=10"`
	MaxInputSize  int `env:"MAX_INPUT_SIZE, default=102400"`
}

// NewReviewContext builds a ReviewContext from the environment, honoring
// MAX_ITERATIONS and MAX_INPUT_SIZE overrides.
func NewReviewContext(ctx context.Context, focus string) (ReviewContext, error) {
	var env reviewEnv
	if err := envconfig.Process(ctx, &env); err != nil {
		return ReviewContext{}, fmt.Errorf("processing environment: %w", err)
	}
	return ReviewContext{
		Focus:         focus,
		MaxIterations: env.MaxIterations,
		MaxInputSize:  env.MaxInputSize,
	}.withDefaults(), nil
}

func (rc ReviewContext) withDefaults() ReviewContext {
	if rc.Focus == "" {
		rc.Focus = prompts.FocusEvent
	}
	if rc.MaxIterations <= 0 {
		rc.MaxIterations = DefaultMaxIterations
	}
	if rc.MaxInputSize <= 0 {
		rc.MaxInputSize = DefaultMaxInputSize
	}
	return rc
}

// InputError marks a problem with the submitted proto content rather than
// with the review pipeline. Servers map it to a client error.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return e.Reason }

// ReviewResult is the outcome of a review. Raw reviews fill Content;
// structured reviews fill Structured instead.
type ReviewResult struct {
	Content    string
	Structured *result.StructuredResponse
	Provider   string
	Model      string
	Iterations int
}

// Reviewer runs reviews against a fixed adapter and tool registry. It is
// safe for concurrent use.
type Reviewer struct {
	adapter  adapter.Adapter
	registry *tools.Registry
	genai    *metrics.GenAI
}

// New builds a Reviewer around the given adapter and tool registry.
func New(a adapter.Adapter, registry *tools.Registry) *Reviewer {
	return &Reviewer{
		adapter:  a,
		registry: registry,
		genai:    metrics.NewGenAI("protoreview.ai"),
	}
}

// Review runs a free-text review and returns the model's findings as prose.
func (r *Reviewer) Review(ctx context.Context, protoContent string, rc ReviewContext) (*ReviewResult, error) {
	return r.run(ctx, protoContent, rc, false)
}

// ReviewStructured runs a review that asks the model for a JSON issue
// report and parses it. Parse failures surface in Structured.Error, not as
// a Go error.
func (r *Reviewer) ReviewStructured(ctx context.Context, protoContent string, rc ReviewContext) (*ReviewResult, error) {
	return r.run(ctx, protoContent, rc, true)
}

func (r *Reviewer) run(ctx context.Context, protoContent string, rc ReviewContext, structured bool) (*ReviewResult, error) {
	rc = rc.withDefaults()
	log := clog.FromContext(ctx)

	if err := validateInput(ctx, protoContent, rc.MaxInputSize); err != nil {
		return nil, err
	}

	userPrompt, err := prompts.Review(protoContent, rc.Focus, structured)
	if err != nil {
		return nil, err
	}
	systemPrompt := prompts.System(rc.Focus)
	decls := toolDeclarations(r.registry)

	res := &ReviewResult{
		Provider: r.adapter.ProviderName(),
		Model:    r.adapter.ModelName(),
	}
	trace := reviewtrace.Start(ctx, res.Provider, res.Model, rc.Focus)

	messages := []adapter.Message{{Role: adapter.RoleUser, Content: userPrompt}}

	for i := 1; i <= rc.MaxIterations; i++ {
		res.Iterations = i

		text, calls, err := r.adapter.Generate(ctx, messages, decls, systemPrompt, adapter.GenerateOptions{})
		if err != nil {
			trace.Complete("", err)
			return nil, fmt.Errorf("generating review: %w", err)
		}

		if len(calls) == 0 {
			if structured {
				parsed := result.Extract(text)
				res.Structured = &parsed
			} else {
				if text == "" {
					text = "No issues found."
				}
				res.Content = text
			}
			r.finish(ctx, trace, res, rc.Focus, text)
			return res, nil
		}

		log.Infof("iteration %d: model requested %d tool call(s)", i, len(calls))

		// The assistant turn that asked for the tools must precede the
		// tool outputs, one per call, in call order, or providers reject
		// the conversation.
		messages = append(messages, adapter.Message{
			Role:      adapter.RoleAssistant,
			Content:   text,
			ToolCalls: calls,
		})
		for _, call := range calls {
			r.genai.RecordToolCall(ctx, res.Model, call.Name)
			tc := trace.StartToolCall(call.ID, call.Name, call.Arguments)
			output := r.registry.Execute(ctx, call.Name, call.Arguments)
			tc.Complete(output, nil)
			messages = append(messages, adapter.Message{
				Role:       adapter.RoleTool,
				Content:    output,
				ToolCallID: call.ID,
			})
		}
	}

	log.Warnf("review did not complete within %d iterations", rc.MaxIterations)
	if structured {
		res.Structured = &result.StructuredResponse{
			Error:  "Maximum iterations reached",
			Issues: []result.Issue{},
		}
	} else {
		res.Content = "Error: Maximum iterations reached without completing review"
	}
	r.finish(ctx, trace, res, rc.Focus, res.Content)
	return res, nil
}

func (r *Reviewer) finish(ctx context.Context, trace *reviewtrace.Trace, res *ReviewResult, focus, text string) {
	trace.RecordIterations(res.Iterations)
	trace.Complete(text, nil)
	r.genai.RecordReview(ctx, res.Provider, focus, res.Iterations)
}

// validateInput rejects content the review cannot meaningfully process.
func validateInput(ctx context.Context, content string, maxSize int) error {
	if strings.TrimSpace(content) == "" {
		return &InputError{Reason: "Proto content cannot be empty"}
	}
	if len(content) > maxSize {
		return &InputError{Reason: fmt.Sprintf("Proto content size (%d bytes) exceeds maximum allowed size (%d bytes)", len(content), maxSize)}
	}

	check := validation.CheckSyntax(ctx, content, validation.DefaultFilename)
	if !check.Valid {
		return &InputError{Reason: "Proto syntax error: " + check.ErrorMessage()}
	}
	if len(check.Warnings) > 0 {
		clog.FromContext(ctx).Infof("proto validation warnings: %s", strings.Join(check.Warnings, "; "))
	}
	return nil
}

func toolDeclarations(registry *tools.Registry) []adapter.ToolDeclaration {
	decls := registry.Declarations()
	out := make([]adapter.ToolDeclaration, 0, len(decls))
	for _, d := range decls {
		out = append(out, adapter.ToolDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	return out
}
