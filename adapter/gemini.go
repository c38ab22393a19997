/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"

	"protoreview.dev/reviewer/metrics"
	"protoreview.dev/reviewer/retry"
)

const defaultGeminiModel = "gemini-2.0-flash"

type geminiAdapter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	genai   *metrics.GenAI
	retry   retry.Config
}

func newGemini(ctx context.Context, cfg config, modelName string) (*geminiAdapter, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.GoogleKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.GeminiBaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.GeminiBaseURL
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	return &geminiAdapter{
		client:  client,
		model:   modelName,
		timeout: cfg.Timeout,
		genai:   metrics.NewGenAI("protoreview.ai"),
		retry:   retry.DefaultConfig(),
	}, nil
}

func (a *geminiAdapter) ModelName() string    { return a.model }
func (a *geminiAdapter) ProviderName() string { return "gemini" }

func (a *geminiAdapter) Generate(ctx context.Context, messages []Message, tools []ToolDeclaration, systemPrompt string, opts GenerateOptions) (string, []ToolCall, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = a.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.temperature())),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}
	if decls := geminiTools(tools); len(decls) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	contents := geminiContents(messages)

	clog.FromContext(ctx).With("model", a.model).Debug("Calling Gemini API")

	resp, err := retry.Do(ctx, a.retry, "gemini_generate", isRetryableGeminiError, func() (*genai.GenerateContentResponse, error) {
		return a.client.Models.GenerateContent(ctx, a.model, contents, config)
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", nil, fmt.Errorf("gemini request timed out after %s: %w", timeout, err)
		}
		return "", nil, fmt.Errorf("gemini generate: %w", err)
	}

	if resp.UsageMetadata != nil {
		a.genai.RecordTokens(ctx, a.model,
			int64(resp.UsageMetadata.PromptTokenCount),
			int64(resp.UsageMetadata.CandidatesTokenCount))
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		clog.FromContext(ctx).Warn("Gemini returned no candidates")
		return "", nil, nil
	}

	var textParts []string
	var calls []ToolCall
	for _, part := range resp.Candidates[0].Content.Parts {
		switch {
		case part.FunctionCall != nil:
			args := part.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			// Gemini omits call IDs; the function name stands in, which
			// still pairs results with calls since each tool is called with
			// a distinct name per round.
			calls = append(calls, ToolCall{
				ID:        part.FunctionCall.Name,
				Name:      part.FunctionCall.Name,
				Arguments: args,
			})
		case part.Text != "":
			textParts = append(textParts, part.Text)
		}
	}
	return strings.Join(textParts, "\n"), calls, nil
}

// geminiTools converts JSON-schema declarations to Gemini's typed
// FunctionDeclaration form.
func geminiTools(tools []ToolDeclaration) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		properties := map[string]*genai.Schema{}
		if props, ok := t.Parameters["properties"].(map[string]any); ok {
			for name, raw := range props {
				prop, _ := raw.(map[string]any)
				s := &genai.Schema{Type: geminiType(prop)}
				if desc, ok := prop["description"].(string); ok {
					s.Description = desc
				}
				properties[name] = s
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   requiredFields(t.Parameters),
			},
		})
	}
	return decls
}

func geminiType(prop map[string]any) genai.Type {
	jsonType, _ := prop["type"].(string)
	switch jsonType {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

func geminiContents(messages []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch {
		case msg.Role == RoleSystem:
			// Carried via SystemInstruction.
		case msg.ToolCallID != "":
			// Tool results travel as a FunctionResponse in a user turn.
			out = append(out, &genai.Content{
				Role: "user",
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						Name:     msg.ToolCallID,
						Response: map[string]any{"result": msg.Content},
					},
				}},
			})
		case msg.Role == RoleAssistant && len(msg.ToolCalls) > 0:
			var parts []*genai.Part
			if msg.Content != "" {
				parts = append(parts, &genai.Part{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						Name: tc.Name,
						Args: tc.Arguments,
					},
				})
			}
			out = append(out, &genai.Content{Role: "model", Parts: parts})
		default:
			role := "user"
			if msg.Role == RoleAssistant {
				role = "model"
			}
			out = append(out, &genai.Content{
				Role:  role,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}
	return out
}

// isRetryableGeminiError reports whether an error is a transient Gemini API
// error. The SDK does not expose a stable typed error for every transport
// path, so this matches on the messages the API actually returns.
func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "Resource exhausted") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "Overloaded") ||
		strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "Internal error") ||
		strings.Contains(errStr, "server error")
}
