/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package tools defines the review tools the model can call while analyzing
// a protobuf schema. Every tool is read-only: handlers consult the bundled
// knowledge base and never touch the network.
package tools

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"protoreview.dev/reviewer/knowledge"
)

// Declaration describes a tool's name, purpose, and parameter schema in a
// provider-neutral form. Adapters translate it to each provider's wire shape.
type Declaration struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Handler executes one tool call. The returned string is handed back to the
// model verbatim as the tool result.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// noArgs is the argument type for tools that take no parameters. It must be
// a named type: the schema reflector cannot expand an anonymous struct.
type noArgs struct{}

type tool struct {
	decl    Declaration
	handler Handler
}

// Registry holds the review tools backed by a knowledge base.
type Registry struct {
	base  *knowledge.Base
	tools []tool
	index map[string]int
}

// NewRegistry builds the full review tool set over the given knowledge base.
func NewRegistry(base *knowledge.Base) *Registry {
	r := &Registry{base: base, index: map[string]int{}}

	// Universal AIP standards.
	r.register(lookupAIPDecl, r.lookupAIP)
	r.register(listAIPsDecl, r.listAvailableAIPs)
	r.register(lookupTypeDecl, r.lookupTypeRecommendation)
	r.register(analyzeFieldDecl, r.analyzeFieldSemantics)
	r.register(standardFieldsDecl, r.standardFieldsGuidance)
	r.register(methodPatternDecl, r.methodPatternGuidance)

	// Event analysis.
	r.register(eventFieldsDecl, r.eventFieldGuidance)
	r.register(analyzeEventDecl, r.analyzeEventSemantics)

	// Organizational standards.
	r.register(lookupOrgDecl, r.lookupOrgStandard)
	r.register(listOrgDecl, r.listOrgStandards)

	return r
}

func (r *Registry) register(decl Declaration, h Handler) {
	r.index[decl.Name] = len(r.tools)
	r.tools = append(r.tools, tool{decl: decl, handler: h})
}

// Declarations returns every tool declaration in registration order.
func (r *Registry) Declarations() []Declaration {
	decls := make([]Declaration, len(r.tools))
	for i, t := range r.tools {
		decls[i] = t.decl
	}
	return decls
}

// Execute runs the named tool. Failures are reported in the returned text
// rather than as errors, so the review conversation can continue and the
// model can see what went wrong.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) string {
	i, ok := r.index[name]
	if !ok {
		return fmt.Sprintf("Unknown tool: %s", name)
	}
	out, err := r.tools[i].handler(ctx, args)
	if err != nil {
		clog.FromContext(ctx).Warnf("tool %s failed: %v", name, err)
		return fmt.Sprintf("Error executing %s: %v", name, err)
	}
	return out
}
