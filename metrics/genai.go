/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics provides OpenTelemetry counters for the review pipeline:
// model token usage, tool calls, and completed reviews.
package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// GenAI records metrics for generative AI operations. Counter creation
// degrades gracefully: a counter that fails to initialize is replaced with a
// no-op so reviews never fail because of metrics.
type GenAI struct {
	meter            metric.Meter
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	toolCallCounter  metric.Int64Counter
	reviewCounter    metric.Int64Counter
}

// NewGenAI creates a GenAI metrics instance. The meterName should be shared
// across the whole reviewer (e.g. "protoreview.ai") with model and provider
// as dimensions on the recorded metrics.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	promptTokens, err := meter.Int64Counter("genai.token.prompt",
		metric.WithDescription("The number of prompt tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create prompt tokens counter, metrics will be disabled", "error", err, "meter", meterName)
		promptTokens = noop.Int64Counter{}
	}

	completionTokens, err := meter.Int64Counter("genai.token.completion",
		metric.WithDescription("The number of completion tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create completion tokens counter, metrics will be disabled", "error", err, "meter", meterName)
		completionTokens = noop.Int64Counter{}
	}

	toolCallCounter, err := meter.Int64Counter("genai.tool.calls",
		metric.WithDescription("The number of tool calls made during a review"),
		metric.WithUnit("{calls}"))
	if err != nil {
		slog.Warn("Failed to create tool call counter, metrics will be disabled", "error", err, "meter", meterName)
		toolCallCounter = noop.Int64Counter{}
	}

	reviewCounter, err := meter.Int64Counter("review.completed",
		metric.WithDescription("The number of completed proto reviews"),
		metric.WithUnit("{reviews}"))
	if err != nil {
		slog.Warn("Failed to create review counter, metrics will be disabled", "error", err, "meter", meterName)
		reviewCounter = noop.Int64Counter{}
	}

	return &GenAI{
		meter:            meter,
		promptTokens:     promptTokens,
		completionTokens: completionTokens,
		toolCallCounter:  toolCallCounter,
		reviewCounter:    reviewCounter,
	}
}

// RecordTokens records prompt and completion token usage for one model call.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64, attrs ...attribute.KeyValue) {
	baseAttrs := append([]attribute.KeyValue{
		attribute.String("model", model),
	}, attrs...)

	m.promptTokens.Add(ctx, promptTokens, metric.WithAttributes(baseAttrs...))
	m.completionTokens.Add(ctx, completionTokens, metric.WithAttributes(baseAttrs...))
}

// RecordToolCall records one tool invocation made by the model.
func (m *GenAI) RecordToolCall(ctx context.Context, model, toolName string, attrs ...attribute.KeyValue) {
	baseAttrs := append([]attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("tool", toolName),
	}, attrs...)

	m.toolCallCounter.Add(ctx, 1, metric.WithAttributes(baseAttrs...))
}

// RecordReview records one completed review with its provider and focus.
func (m *GenAI) RecordReview(ctx context.Context, provider, focus string, iterations int, attrs ...attribute.KeyValue) {
	baseAttrs := append([]attribute.KeyValue{
		attribute.String("provider", provider),
		attribute.String("focus", focus),
		attribute.Int("iterations", iterations),
	}, attrs...)

	m.reviewCounter.Add(ctx, 1, metric.WithAttributes(baseAttrs...))
}
