/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package reviewtrace records one OpenTelemetry span per review run and one
// child span per tool call, so a single review can be followed end to end in
// a trace viewer without cross-referencing metrics.
package reviewtrace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "protoreview.ai.reviewtrace"

// Trace follows a single review from prompt to result.
type Trace struct {
	ID        string      `json:"id"`
	Provider  string      `json:"provider"`
	Model     string      `json:"model"`
	Focus     string      `json:"focus"`
	ToolCalls []*ToolCall `json:"tool_calls"`
	Result    string      `json:"result"`
	Err       error       `json:"error,omitempty"`
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`

	mu   sync.Mutex
	ctx  context.Context
	span oteltrace.Span
}

// ToolCall is a single tool invocation within a review.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Params    map[string]any `json:"params"`
	Result    string         `json:"result"`
	Err       error          `json:"error,omitempty"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`

	trace *Trace
	mu    sync.Mutex
	span  oteltrace.Span
}

// Start opens the review span and returns the trace tracking it. Callers
// must Complete the trace to close the span.
func Start(ctx context.Context, provider, model, focus string) *Trace {
	tr := otel.Tracer(instrumentationName)
	ctx, span := tr.Start(ctx, "review.execution", oteltrace.WithAttributes(
		attribute.String("review.provider", provider),
		attribute.String("review.model", model),
		attribute.String("review.focus", focus),
	))
	return &Trace{
		ID:        generateTraceID(),
		Provider:  provider,
		Model:     model,
		Focus:     focus,
		StartTime: time.Now(),
		ctx:       ctx,
		span:      span,
	}
}

// StartToolCall opens a child span for a tool invocation.
func (t *Trace) StartToolCall(id, name string, params map[string]any) *ToolCall {
	tr := otel.Tracer(instrumentationName)
	_, span := tr.Start(t.ctx, "review.tool_call", oteltrace.WithAttributes(
		attribute.String("tool.name", name),
		attribute.String("tool.id", id),
	))
	return &ToolCall{
		ID:        id,
		Name:      name,
		Params:    params,
		StartTime: time.Now(),
		trace:     t,
		span:      span,
	}
}

// RecordIterations annotates the review span with the number of model turns
// the review consumed.
func (t *Trace) RecordIterations(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.span != nil {
		t.span.SetAttributes(attribute.Int("review.iterations", n))
	}
}

// Complete marks the tool call as finished and attaches it to the review.
func (tc *ToolCall) Complete(result string, err error) {
	tc.mu.Lock()
	tc.Result = result
	tc.Err = err
	tc.EndTime = time.Now()
	trace := tc.trace
	span := tc.span
	tc.mu.Unlock()

	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}

	trace.mu.Lock()
	defer trace.mu.Unlock()
	trace.ToolCalls = append(trace.ToolCalls, tc)
}

// Complete marks the review as finished and closes its span.
func (t *Trace) Complete(result string, err error) {
	t.mu.Lock()
	t.Result = result
	t.Err = err
	t.EndTime = time.Now()
	span := t.span
	t.mu.Unlock()

	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

// Duration returns how long the review has run, or took in total once
// complete.
func (t *Trace) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.EndTime.IsZero() {
		return time.Since(t.StartTime)
	}
	return t.EndTime.Sub(t.StartTime)
}

// String renders a human-readable summary of the review, useful in logs.
func (t *Trace) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var duration time.Duration
	if t.EndTime.IsZero() {
		duration = time.Since(t.StartTime)
	} else {
		duration = t.EndTime.Sub(t.StartTime)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== Review %s ===\n", t.ID))
	sb.WriteString(fmt.Sprintf("Provider: %s Model: %s Focus: %s\n", t.Provider, t.Model, t.Focus))
	sb.WriteString(fmt.Sprintf("Duration: %v\n", duration))

	if len(t.ToolCalls) > 0 {
		sb.WriteString(fmt.Sprintf("\nTool Calls (%d):\n", len(t.ToolCalls)))
		for i, tc := range t.ToolCalls {
			sb.WriteString(fmt.Sprintf("  [%d] %s (ID: %s)\n", i+1, tc.Name, tc.ID))
			if tc.Err != nil {
				sb.WriteString(fmt.Sprintf("      Error: %v\n", tc.Err))
			} else if tc.Result != "" {
				result := tc.Result
				if len(result) > 200 {
					result = result[:197] + "..."
				}
				sb.WriteString(fmt.Sprintf("      Result: %s\n", result))
			}
		}
	} else {
		sb.WriteString("\nNo tool calls\n")
	}

	sb.WriteString("\nCompletion:\n")
	switch {
	case t.Err != nil:
		sb.WriteString(fmt.Sprintf("  Error: %v\n", t.Err))
	case t.Result != "":
		result := t.Result
		if len(result) > 500 {
			result = result[:497] + "..."
		}
		sb.WriteString(fmt.Sprintf("  Result: %s\n", result))
	default:
		sb.WriteString("  Result: <empty>\n")
	}

	return sb.String()
}

func generateTraceID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102-150405.000000")
	}
	return fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), hex.EncodeToString(b))
}
