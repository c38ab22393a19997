/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package result recovers structured review output from free-form model
// text. Models are asked for a JSON object but routinely wrap it in
// markdown fences or surrounding prose, so extraction is a chain of
// increasingly permissive strategies rather than a single parse.
package result

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Issue is a single finding from a review.
type Issue struct {
	Severity       string `json:"severity"`
	Location       string `json:"location"`
	Issue          string `json:"issue"`
	Recommendation string `json:"recommendation"`
	Reference      string `json:"reference,omitempty"`
}

// StructuredResponse is the shape the model is asked to produce. When
// extraction or parsing fails, Error is set and Issues/Summary hold their
// zero values; callers never receive a Go error from Extract.
type StructuredResponse struct {
	Issues      []Issue `json:"issues"`
	Summary     string  `json:"summary"`
	Error       string  `json:"error,omitempty"`
	RawResponse string  `json:"raw_response,omitempty"`
}

// rawResponseLimit bounds how much of the original text is echoed back in
// RawResponse when parsing fails.
const rawResponseLimit = 500

var (
	jsonFenceRE    = regexp.MustCompile("(?s)```json\\s*\n?(.*?)\n?```")
	genericFenceRE = regexp.MustCompile("(?s)```\\w*\\s*\n?(\\{.*?\\})\\s*\n?```")
	// Anchors on the two required keys so prose braces around the object
	// don't confuse the match.
	issuesPatternRE = regexp.MustCompile(`(?s)\{[^{}]*"issues"\s*:\s*\[.*?\][^{}]*"summary"\s*:\s*"[^"]*"[^{}]*\}`)
)

// Extract pulls a StructuredResponse out of raw model text. Strategies are
// tried in order and the first one that yields a candidate wins:
//
//  1. a ```json fenced block
//  2. any fenced block whose body is a {...} object
//  3. a regexp match anchored on the "issues" and "summary" keys
//  4. a brace-matching scan from the first "{"
//
// Extract never returns an error. Empty input, missing JSON, and JSON that
// fails to parse all come back as a StructuredResponse with Error set.
func Extract(raw string) StructuredResponse {
	if strings.TrimSpace(raw) == "" {
		return StructuredResponse{
			Error:  "Empty response",
			Issues: []Issue{},
		}
	}

	candidate, found := findCandidate(raw)
	if !found || candidate == "" {
		return StructuredResponse{
			Error:       "Could not find JSON in response",
			RawResponse: truncate(raw),
			Issues:      []Issue{},
		}
	}

	var resp StructuredResponse
	if err := json.Unmarshal([]byte(candidate), &resp); err != nil {
		return StructuredResponse{
			Error:       fmt.Sprintf("Could not parse JSON: %v", err),
			RawResponse: truncate(raw),
			Issues:      []Issue{},
		}
	}
	// Error/RawResponse only carry extraction failures, never model output.
	resp.Error = ""
	resp.RawResponse = ""
	if resp.Issues == nil {
		resp.Issues = []Issue{}
	}
	return resp
}

func findCandidate(text string) (string, bool) {
	if m := jsonFenceRE.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := genericFenceRE.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := issuesPatternRE.FindString(text); m != "" {
		return m, true
	}
	return matchBraces(text)
}

// matchBraces scans from the first "{" for its balancing "}", tracking
// string literals and escape sequences so braces inside quoted values don't
// count. Unbalanced input is reported as not found, never repaired.
func matchBraces(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escapeNext := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escapeNext {
			escapeNext = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escapeNext = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func truncate(s string) string {
	if len(s) > rawResponseLimit {
		return s[:rawResponseLimit] + "..."
	}
	return s
}
