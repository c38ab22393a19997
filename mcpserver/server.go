/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package mcpserver exposes the reviewer over the Model Context Protocol
// so IDE plugins and other MCP clients can review protos and browse the
// standards knowledge base. Both stdio and streamable HTTP transports are
// supported.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"protoreview.dev/reviewer/adapter"
	"protoreview.dev/reviewer/agent"
	"protoreview.dev/reviewer/knowledge"
	"protoreview.dev/reviewer/result"
	"protoreview.dev/reviewer/tools"
)

const (
	serverName    = "Proto Semantic Reviewer"
	serverVersion = "0.2.0"
)

// Server is the MCP front end.
type Server struct {
	mcp  *server.MCPServer
	base *knowledge.Base

	// runReview performs a structured review; swapped out in tests.
	runReview func(ctx context.Context, content, focus, provider string) reviewPayload
}

// New builds the MCP server with all reviewer tools registered.
func New(base *knowledge.Base, registry *tools.Registry) *Server {
	s := &Server{base: base}
	s.runReview = func(ctx context.Context, content, focus, provider string) reviewPayload {
		return runStructuredReview(ctx, registry, content, focus, provider)
	}

	m := server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	m.AddTool(mcp.NewTool("review_proto",
		mcp.WithDescription("Review a Protocol Buffer definition for semantic issues against Google AIP standards and organizational standards. Returns structured issues with recommendations."),
		mcp.WithString("content", mcp.Required(),
			mcp.Description("The .proto file content to review")),
		mcp.WithString("focus",
			mcp.Description("Review focus: 'event' for event messages (default), 'rest' for REST APIs")),
		mcp.WithString("provider",
			mcp.Description("LLM provider to use (gemini, openai, anthropic). Auto-detected if not specified.")),
	), s.handleReviewProto)

	m.AddTool(mcp.NewTool("lookup_aip",
		mcp.WithDescription("Look up detailed guidance for a specific AIP (API Improvement Proposal)."),
		mcp.WithNumber("aip_number", mcp.Required(),
			mcp.Description("The AIP number (e.g. 142 for timestamps)")),
	), s.handleLookupAIP)

	m.AddTool(mcp.NewTool("list_aips",
		mcp.WithDescription("List available AIP standards covering proto best practices for events and REST APIs."),
	), s.handleListAIPs)

	m.AddTool(mcp.NewTool("lookup_org_standard",
		mcp.WithDescription("Look up detailed guidance for a specific organizational standard."),
		mcp.WithString("standard_id", mcp.Required(),
			mcp.Description("The standard ID (e.g. 'ORG-001')")),
	), s.handleLookupOrgStandard)

	m.AddTool(mcp.NewTool("list_org_standards",
		mcp.WithDescription("List available organizational standards that extend the universal AIP standards."),
	), s.handleListOrgStandards)

	s.mcp = m
	return s
}

// ServeStdio serves over stdin/stdout for local IDE plugins. It blocks
// until the client disconnects. Nothing may print to stdout besides the
// protocol itself.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// ServeHTTP serves the streamable HTTP transport at /mcp on addr, shutting
// down when the context is canceled.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	log := clog.FromContext(ctx)

	httpServer := server.NewStreamableHTTPServer(s.mcp,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
	)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("MCP server listening on http://%s/mcp", addr)
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving MCP over HTTP: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infof("shutting down MCP server")
	if err := httpServer.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("shutting down MCP server: %w", err)
	}
	return nil
}

// runStructuredReview runs a structured review end to end, folding every
// failure into the payload's error field. MCP tool calls never surface Go
// errors for review problems; clients read the error field instead.
func runStructuredReview(ctx context.Context, registry *tools.Registry, content, focus, provider string) reviewPayload {
	log := clog.FromContext(ctx)

	a, err := adapter.New(ctx, provider, "")
	if err != nil {
		log.Errorf("review failed: %v", err)
		return reviewPayload{Issues: []result.Issue{}, Provider: "unknown", Model: "unknown", Error: err.Error()}
	}

	payload := reviewPayload{Issues: []result.Issue{}, Provider: a.ProviderName(), Model: a.ModelName()}

	rc, err := agent.NewReviewContext(ctx, focus)
	if err != nil {
		log.Errorf("review failed: %v", err)
		payload.Error = err.Error()
		return payload
	}

	res, err := agent.New(a, registry).ReviewStructured(ctx, content, rc)
	if err != nil {
		log.Errorf("review failed: %v", err)
		payload.Error = err.Error()
		return payload
	}
	if res.Structured != nil {
		if res.Structured.Issues != nil {
			payload.Issues = res.Structured.Issues
		}
		payload.Summary = res.Structured.Summary
		payload.Error = res.Structured.Error
	}
	return payload
}
