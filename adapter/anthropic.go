/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/chainguard-dev/clog"

	"protoreview.dev/reviewer/metrics"
	"protoreview.dev/reviewer/retry"
)

const (
	defaultAnthropicModel = "claude-sonnet-4-20250514"

	// Anthropic requires an explicit output cap.
	anthropicMaxTokens = 4096
)

type anthropicAdapter struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
	genai   *metrics.GenAI
	retry   retry.Config
}

func newAnthropic(cfg config, modelName string) *anthropicAdapter {
	opts := []option.RequestOption{option.WithAPIKey(cfg.AnthropicKey)}
	if cfg.AnthropicBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.AnthropicBaseURL))
	}
	if modelName == "" {
		modelName = defaultAnthropicModel
	}
	return &anthropicAdapter{
		client:  anthropic.NewClient(opts...),
		model:   modelName,
		timeout: cfg.Timeout,
		genai:   metrics.NewGenAI("protoreview.ai"),
		retry:   retry.DefaultConfig(),
	}
}

func (a *anthropicAdapter) ModelName() string    { return a.model }
func (a *anthropicAdapter) ProviderName() string { return "anthropic" }

func (a *anthropicAdapter) Generate(ctx context.Context, messages []Message, tools []ToolDeclaration, systemPrompt string, opts GenerateOptions) (string, []ToolCall, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = a.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: anthropicMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:  anthropicMessages(messages),
		Tools:     anthropicTools(tools),
	}
	params.Temperature = anthropic.Float(opts.temperature())

	clog.FromContext(ctx).With("model", a.model).Debug("Calling Anthropic API")

	message, err := retry.Do(ctx, a.retry, "anthropic_generate", isRetryableAnthropicError, func() (*anthropic.Message, error) {
		return a.client.Messages.New(ctx, params)
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", nil, fmt.Errorf("anthropic request timed out after %s: %w", timeout, err)
		}
		return "", nil, fmt.Errorf("anthropic generate: %w", err)
	}

	if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
		a.genai.RecordTokens(ctx, a.model, message.Usage.InputTokens, message.Usage.OutputTokens)
	}

	var textParts []string
	var calls []ToolCall
	for _, block := range message.Content {
		switch block.Type {
		case "text":
			textParts = append(textParts, block.Text)
		case "tool_use":
			args := map[string]any{}
			if len(block.Input) > 0 {
				if err := json.Unmarshal(block.Input, &args); err != nil {
					return "", nil, fmt.Errorf("decoding arguments for tool %s: %w", block.Name, err)
				}
			}
			calls = append(calls, ToolCall{ID: block.ID, Name: block.Name, Arguments: args})
		}
	}
	return strings.Join(textParts, "\n"), calls, nil
}

// anthropicTools converts declarations to Anthropic's input_schema format.
func anthropicTools(tools []ToolDeclaration) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		inputSchema := anthropic.ToolInputSchemaParam{
			Properties: t.Parameters["properties"],
		}
		if req := requiredFields(t.Parameters); len(req) > 0 {
			inputSchema.Required = req
		}
		out[i] = anthropic.ToolUnionParamOfTool(inputSchema, t.Name)
		if t.Description != "" {
			out[i].OfTool.Description = anthropic.String(t.Description)
		}
	}
	return out
}

func anthropicMessages(messages []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			// Carried via the top-level system parameter.
		case RoleTool:
			// Tool results ride in a user message with a tool_result block.
			out = append(out, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: msg.ToolCallID,
						Content: []anthropic.ToolResultBlockParamContentUnion{{
							OfText: &anthropic.TextBlockParam{Text: msg.Content},
						}},
					},
				}},
			})
		case RoleAssistant:
			var content []anthropic.ContentBlockParamUnion
			if msg.Content != "" {
				content = append(content, anthropic.NewTextBlock(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				content = append(content, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    tc.ID,
						Name:  tc.Name,
						Input: tc.Arguments,
					},
				})
			}
			if len(content) > 0 {
				out = append(out, anthropic.MessageParam{
					Role:    anthropic.MessageParamRoleAssistant,
					Content: content,
				})
			}
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return out
}

// requiredFields pulls the "required" list out of a JSON-schema parameter
// map, tolerating both the typed and the JSON-decoded representation.
func requiredFields(parameters map[string]any) []string {
	switch req := parameters["required"].(type) {
	case []string:
		return req
	case []any:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// isRetryableAnthropicError reports whether an error is a transient
// Anthropic API error: rate limit, overloaded, or gateway timeouts.
func isRetryableAnthropicError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503, 504, 529:
			return true
		}
	}
	return false
}
