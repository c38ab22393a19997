/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package promptbuilder assembles prompts from templates with {{name}}
// placeholders. Binding is explicit and checked: building with an unbound
// placeholder is an error, as is binding a name the template doesn't have.
package promptbuilder

import (
	"encoding/json"
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// Prompt is a template with named placeholders. Bind methods return a new
// Prompt, leaving the receiver untouched, so a base template can be shared
// and specialized per request.
type Prompt struct {
	template string
	bindings map[string]binding
}

// New parses a template and registers its placeholders.
func New(template string) (*Prompt, error) {
	bindings := make(map[string]binding)
	if _, err := expand(template, func(name string) (string, error) {
		if _, ok := bindings[name]; !ok {
			bindings[name] = unbound{name: name}
		}
		return "", nil
	}); err != nil {
		return nil, err
	}
	return &Prompt{template: template, bindings: bindings}, nil
}

// Must wraps New (or a Bind call) for package-level template variables.
func Must(p *Prompt, err error) *Prompt {
	if err != nil {
		panic(err)
	}
	return p
}

// Placeholders returns the set of placeholder names in the template.
func (p *Prompt) Placeholders() map[string]struct{} {
	names := make(map[string]struct{}, len(p.bindings))
	for name := range p.bindings {
		names[name] = struct{}{}
	}
	return names
}

// Bind binds a text value to a placeholder.
func (p *Prompt) Bind(name, value string) (*Prompt, error) {
	return p.bind(name, text(value))
}

// BindJSON binds structured data, marshaled as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, jsonData{data: data})
}

// BindYAML binds structured data, marshaled as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, yamlData{data: data})
}

func (p *Prompt) bind(name string, b binding) (*Prompt, error) {
	existing, ok := p.bindings[name]
	if !ok {
		return nil, fmt.Errorf("placeholder %q not found in template", name)
	}
	if _, isUnbound := existing.(unbound); !isUnbound {
		return nil, fmt.Errorf("placeholder %q already bound", name)
	}
	next := &Prompt{template: p.template, bindings: maps.Clone(p.bindings)}
	next.bindings[name] = b
	return next, nil
}

// Build renders the prompt. Every placeholder must be bound.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bindings))
	for name, b := range p.bindings {
		v, err := b.value()
		if err != nil {
			return "", err
		}
		values[name] = v
	}
	return expand(p.template, func(name string) (string, error) {
		return values[name], nil
	})
}

type binding interface {
	value() (string, error)
}

type unbound struct{ name string }

func (u unbound) value() (string, error) {
	return "", fmt.Errorf("unbound placeholder: %s", u.name)
}

type text string

func (t text) value() (string, error) { return string(t), nil }

type jsonData struct{ data any }

func (j jsonData) value() (string, error) {
	b, err := json.MarshalIndent(j.data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON binding: %w", err)
	}
	return string(b), nil
}

type yamlData struct{ data any }

func (y yamlData) value() (string, error) {
	b, err := yaml.Marshal(y.data)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML binding: %w", err)
	}
	return string(b), nil
}
