/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystem(t *testing.T) {
	tests := []struct {
		name  string
		focus string
		want  string
	}{{
		name:  "event focus",
		focus: "event",
		want:  "You are an expert Protocol Buffer reviewer.",
	}, {
		name:  "rest focus",
		focus: "rest",
		want:  "You are an expert Protocol Buffer API design reviewer",
	}, {
		name:  "rest focus is case insensitive",
		focus: "REST",
		want:  "You are an expert Protocol Buffer API design reviewer",
	}, {
		name:  "unknown focus falls back to event",
		focus: "whatever",
		want:  "You are an expert Protocol Buffer reviewer.",
	}, {
		name:  "empty focus falls back to event",
		focus: "",
		want:  "You are an expert Protocol Buffer reviewer.",
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := System(test.focus)
			if !strings.HasPrefix(got, test.want) {
				t.Errorf("System(%q) starts with %q, want prefix %q", test.focus, got[:min(len(got), 80)], test.want)
			}
		})
	}
}

func TestSystemSharedSections(t *testing.T) {
	for _, focus := range []string{FocusEvent, FocusREST} {
		got := System(focus)
		for _, section := range []string{
			"## Two Types of Standards",
			"## Available Tools",
			"## Review Strategy",
			"## Output Format",
			"## Out of Scope",
		} {
			require.Contains(t, got, section, "focus %s", focus)
		}
	}

	// Only the REST prompt carries the resource-pattern table.
	require.Contains(t, System(FocusREST), "### Additional REST/Resource Patterns")
	require.NotContains(t, System(FocusEvent), "### Additional REST/Resource Patterns")
}

func TestReview(t *testing.T) {
	proto := "syntax = \"proto3\";\n\nmessage OrderCreatedEvent {\n  string order_id = 1;\n}"

	tests := []struct {
		name       string
		focus      string
		structured bool
		want       []string
		absent     []string
	}{{
		name:  "event prompt embeds proto",
		focus: "event",
		want: []string{
			"This proto defines EVENT MESSAGES (not REST resources).",
			"```protobuf\n" + proto + "\n```",
		},
		absent: []string{"JSON object"},
	}, {
		name:  "rest prompt embeds proto",
		focus: "rest",
		want: []string{
			"Standard method patterns (Get, List, Create, Update, Delete)",
			"```protobuf\n" + proto + "\n```",
		},
		absent: []string{"EVENT MESSAGES"},
	}, {
		name:       "structured suffix appended",
		focus:      "event",
		structured: true,
		want: []string{
			"provide your final response as a JSON object",
			`"severity": "error|warning|suggestion"`,
		},
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Review(proto, test.focus, test.structured)
			require.NoError(t, err)
			for _, want := range test.want {
				require.Contains(t, got, want)
			}
			for _, absent := range test.absent {
				require.NotContains(t, got, absent)
			}
		})
	}
}

func TestReviewSuffixOrdering(t *testing.T) {
	got, err := Review("message M {}", FocusEvent, true)
	require.NoError(t, err)

	analysis := strings.Index(got, "provide your findings")
	suffix := strings.Index(got, "After your analysis")
	require.Greater(t, suffix, analysis, "structured suffix must follow the review instructions")
	require.True(t, strings.HasSuffix(got, "then provide the structured JSON response."))
}
