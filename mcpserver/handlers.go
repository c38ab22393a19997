/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"protoreview.dev/reviewer/knowledge"
	"protoreview.dev/reviewer/prompts"
	"protoreview.dev/reviewer/result"
)

// reviewPayload is the review_proto tool's response shape.
type reviewPayload struct {
	Issues   []result.Issue `json:"issues"`
	Summary  string         `json:"summary"`
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
	Error    string         `json:"error,omitempty"`
}

// rulePayload mirrors knowledge.SemanticRule for tool responses.
type rulePayload struct {
	ID            string   `json:"id"`
	Description   string   `json:"description"`
	CheckGuidance string   `json:"check_guidance"`
	Violations    []string `json:"common_violations,omitempty"`
	GoodExample   string   `json:"good_example,omitempty"`
	BadExample    string   `json:"bad_example,omitempty"`
}

func (s *Server) handleReviewProto(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	focus := req.GetString("focus", prompts.FocusEvent)
	provider := req.GetString("provider", "")

	// Stdio has no request middleware, so mint an ID here to correlate the
	// log lines of concurrent reviews.
	log := clog.FromContext(ctx).With("review_id", uuid.NewString())
	log.Infof("reviewing proto (%d bytes, focus=%s)", len(content), focus)
	ctx = clog.WithLogger(ctx, log)

	return jsonResult(s.runReview(ctx, content, focus, provider))
}

func (s *Server) handleLookupAIP(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	number, err := req.RequireInt("aip_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	std, ok := s.base.AIP(number)
	if !ok {
		return jsonResult(map[string]string{"error": fmt.Sprintf("Unknown AIP: %d", number)})
	}
	return jsonResult(map[string]any{
		"aip":     std.Number,
		"title":   std.Title,
		"summary": std.Summary,
		"rules":   rulePayloads(std.Rules),
	})
}

func (s *Server) handleListAIPs(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	aips := s.base.AIPs()
	list := make([]map[string]any, 0, len(aips))
	for _, std := range aips {
		list = append(list, map[string]any{
			"aip":     std.Number,
			"title":   std.Title,
			"summary": std.Summary,
		})
	}
	return jsonResult(list)
}

func (s *Server) handleLookupOrgStandard(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("standard_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	std, ok := s.base.Org(strings.ToUpper(id))
	if !ok {
		return jsonResult(map[string]string{"error": fmt.Sprintf("Unknown standard: %s", id)})
	}
	return jsonResult(map[string]any{
		"id":           std.ID,
		"title":        std.Title,
		"summary":      std.Summary,
		"applies_to":   std.AppliesTo,
		"related_aips": std.RelatedAIPs,
		"rules":        rulePayloads(std.Rules),
	})
}

func (s *Server) handleListOrgStandards(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	orgs := s.base.Orgs()
	list := make([]map[string]any, 0, len(orgs))
	for _, std := range orgs {
		list = append(list, map[string]any{
			"id":         std.ID,
			"title":      std.Title,
			"summary":    std.Summary,
			"applies_to": std.AppliesTo,
		})
	}
	return jsonResult(list)
}

func rulePayloads(rules []knowledge.SemanticRule) []rulePayload {
	out := make([]rulePayload, 0, len(rules))
	for _, r := range rules {
		out = append(out, rulePayload{
			ID:            r.ID,
			Description:   r.Description,
			CheckGuidance: r.CheckGuidance,
			Violations:    r.Violations,
			GoodExample:   r.GoodExample,
			BadExample:    r.BadExample,
		})
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
