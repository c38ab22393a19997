/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package adapter unifies the model providers behind one interface. Each
// adapter owns the provider-specific wire conversion: tool declaration
// format, message shapes, and response parsing. Everything above this
// package speaks only the provider-neutral types defined here.
package adapter

import (
	"context"
	"time"
)

// Role identifies who authored a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Message is one provider-neutral conversation turn. ToolCalls is set on
// assistant messages that requested tools; ToolCallID on tool-result
// messages, pairing the result with the call it answers.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// ToolDeclaration describes a tool in JSON Schema form. Parameters must be
// an object schema with "properties" and optional "required" keys.
type ToolDeclaration struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// DefaultTemperature keeps reviews consistent across runs.
const DefaultTemperature = 0.2

// GenerateOptions carries per-call tuning. Zero values mean "use the
// adapter default" (DefaultTemperature, the configured LLM_TIMEOUT).
type GenerateOptions struct {
	Temperature float64
	Timeout     time.Duration
}

func (o GenerateOptions) temperature() float64 {
	if o.Temperature > 0 {
		return o.Temperature
	}
	return DefaultTemperature
}

// Adapter is the contract every model provider implements. Generate returns
// the model's text output (empty when the model only called tools) and the
// tool calls it wants executed, in the order the model issued them.
type Adapter interface {
	Generate(ctx context.Context, messages []Message, tools []ToolDeclaration, systemPrompt string, opts GenerateOptions) (string, []ToolCall, error)

	// ModelName reports the concrete model this adapter calls.
	ModelName() string

	// ProviderName reports the provider ("openai", "gemini", "anthropic").
	ProviderName() string
}
