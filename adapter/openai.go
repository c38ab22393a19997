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
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"protoreview.dev/reviewer/metrics"
	"protoreview.dev/reviewer/retry"
)

const defaultOpenAIModel = "gpt-4o"

type openAIAdapter struct {
	client  openai.Client
	model   string
	timeout time.Duration
	genai   *metrics.GenAI
	retry   retry.Config
}

func newOpenAI(cfg config, modelName string) *openAIAdapter {
	opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAIKey)}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	return &openAIAdapter{
		client:  openai.NewClient(opts...),
		model:   modelName,
		timeout: cfg.Timeout,
		genai:   metrics.NewGenAI("protoreview.ai"),
		retry:   retry.DefaultConfig(),
	}
}

func (a *openAIAdapter) ModelName() string    { return a.model }
func (a *openAIAdapter) ProviderName() string { return "openai" }

func (a *openAIAdapter) Generate(ctx context.Context, messages []Message, tools []ToolDeclaration, systemPrompt string, opts GenerateOptions) (string, []ToolCall, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = a.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// The system prompt leads the conversation.
	openaiMessages := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	openaiMessages = append(openaiMessages, openai.SystemMessage(systemPrompt))
	openaiMessages = append(openaiMessages, convertOpenAIMessages(messages)...)

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(a.model),
		Messages:    openaiMessages,
		Tools:       openAITools(tools),
		Temperature: openai.Float(opts.temperature()),
	}

	clog.FromContext(ctx).With("model", a.model).Debug("Calling OpenAI API")

	resp, err := retry.Do(ctx, a.retry, "openai_generate", isRetryableOpenAIError, func() (*openai.ChatCompletion, error) {
		return a.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", nil, fmt.Errorf("openai request timed out after %s: %w", timeout, err)
		}
		return "", nil, fmt.Errorf("openai generate: %w", err)
	}

	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		a.genai.RecordTokens(ctx, a.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	if len(resp.Choices) == 0 {
		return "", nil, errors.New("openai returned no choices")
	}
	message := resp.Choices[0].Message

	var calls []ToolCall
	for _, tc := range message.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return "", nil, fmt.Errorf("decoding arguments for tool %s: %w", tc.Function.Name, err)
			}
		}
		calls = append(calls, ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: args})
	}
	return message.Content, calls, nil
}

// openAITools converts declarations to OpenAI's function tool format. The
// JSON-schema parameter maps pass through unchanged.
func openAITools(tools []ToolDeclaration) []openai.ChatCompletionToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openai.ChatCompletionToolUnionParam, len(tools))
	for i, t := range tools {
		out[i] = openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  openai.FunctionParameters(t.Parameters),
		})
	}
	return out
}

func convertOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch {
		case msg.Role == RoleSystem:
			// Already sent as the first message.
		case msg.Role == RoleTool:
			out = append(out, openai.ToolMessage(msg.Content, msg.ToolCallID))
		case msg.Role == RoleAssistant && len(msg.ToolCalls) > 0:
			assistant := openai.ChatCompletionAssistantMessageParam{
				Content: openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(msg.Content),
				},
			}
			for _, tc := range msg.ToolCalls {
				// OpenAI carries tool arguments as serialized JSON.
				args, err := json.Marshal(tc.Arguments)
				if err != nil {
					args = []byte("{}")
				}
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      tc.Name,
							Arguments: string(args),
						},
					},
				})
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		case msg.Role == RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

// isRetryableOpenAIError reports whether an error is a transient OpenAI API
// error: rate limit or server-side failure.
func isRetryableOpenAIError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return false
}
