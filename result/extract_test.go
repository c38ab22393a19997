/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  StructuredResponse
	}{{
		name:  "bare json object",
		input: `{"issues": [], "summary": "Looks good"}`,
		want:  StructuredResponse{Issues: []Issue{}, Summary: "Looks good"},
	}, {
		name: "json fence",
		input: "Here is my review:\n```json\n" +
			`{"issues": [{"severity": "error", "location": "Order.created_at", "issue": "string timestamp", "recommendation": "use google.protobuf.Timestamp", "reference": "AIP-142"}], "summary": "One issue"}` +
			"\n```\nLet me know if you have questions.",
		want: StructuredResponse{
			Issues: []Issue{{
				Severity:       "error",
				Location:       "Order.created_at",
				Issue:          "string timestamp",
				Recommendation: "use google.protobuf.Timestamp",
				Reference:      "AIP-142",
			}},
			Summary: "One issue",
		},
	}, {
		name:  "generic fence with object",
		input: "```\n{\"issues\": [], \"summary\": \"clean\"}\n```",
		want:  StructuredResponse{Issues: []Issue{}, Summary: "clean"},
	}, {
		name: "issues pattern amid prose braces",
		input: `The review follows. {not json}
{"issues": [{"severity": "warning", "location": "User.age", "issue": "int64 for age", "recommendation": "int32", "reference": null}], "summary": "minor"}`,
		want: StructuredResponse{
			Issues: []Issue{{
				Severity:       "warning",
				Location:       "User.age",
				Issue:          "int64 for age",
				Recommendation: "int32",
			}},
			Summary: "minor",
		},
	}, {
		name:  "brace matching with braces inside strings",
		input: `Result: {"issues": [], "summary": "uses {curly} notation and a \" quote"} trailing prose`,
		want:  StructuredResponse{Issues: []Issue{}, Summary: `uses {curly} notation and a " quote`},
	}, {
		name:  "empty input",
		input: "",
		want:  StructuredResponse{Error: "Empty response", Issues: []Issue{}},
	}, {
		name:  "whitespace-only input",
		input: "  \n\t \n",
		want:  StructuredResponse{Error: "Empty response", Issues: []Issue{}},
	}, {
		name:  "no json at all",
		input: "I could not produce a review this time.",
		want: StructuredResponse{
			Error:       "Could not find JSON in response",
			RawResponse: "I could not produce a review this time.",
			Issues:      []Issue{},
		},
	}, {
		name:  "unbalanced braces",
		input: `{"issues": [`,
		want: StructuredResponse{
			Error:       "Could not find JSON in response",
			RawResponse: `{"issues": [`,
			Issues:      []Issue{},
		},
	}, {
		name:  "empty json fence",
		input: "```json\n```",
		want: StructuredResponse{
			Error:       "Could not find JSON in response",
			RawResponse: "```json\n```",
			Issues:      []Issue{},
		},
	}, {
		name:  "missing issues key defaults to empty slice",
		input: `{"summary": "nothing to report"}`,
		want:  StructuredResponse{Issues: []Issue{}, Summary: "nothing to report"},
	}, {
		name:  "json fence wins over later bare object",
		input: "```json\n{\"issues\": [], \"summary\": \"from fence\"}\n```\n{\"issues\": [], \"summary\": \"bare\"}",
		want:  StructuredResponse{Issues: []Issue{}, Summary: "from fence"},
	}, {
		name:  "windows line endings",
		input: "```json\r\n{\"issues\": [], \"summary\": \"crlf\"}\r\n```",
		want:  StructuredResponse{Issues: []Issue{}, Summary: "crlf"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	// Extracting, re-serializing, and extracting again must converge.
	input := "```json\n" + `{"issues": [{"severity": "error", "location": "A.b", "issue": "x", "recommendation": "y", "reference": "AIP-131"}], "summary": "s"}` + "\n```"
	first := Extract(input)
	second := Extract(`{"issues": [{"severity": "error", "location": "A.b", "issue": "x", "recommendation": "y", "reference": "AIP-131"}], "summary": "s"}`)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("extraction not stable (-first +second):\n%s", diff)
	}
}

func TestExtractTruncatesRawResponse(t *testing.T) {
	raw := "no json here " + strings.Repeat("x", 2000)
	got := Extract(raw)
	if got.Error == "" {
		t.Fatal("expected extraction error")
	}
	if want := rawResponseLimit + len("..."); len(got.RawResponse) != want {
		t.Errorf("RawResponse length = %d, want %d", len(got.RawResponse), want)
	}
	if !strings.HasSuffix(got.RawResponse, "...") {
		t.Errorf("RawResponse not marked truncated: %q", got.RawResponse[len(got.RawResponse)-10:])
	}
}

func TestExtractMalformedCandidate(t *testing.T) {
	// A fence that matches strategy one but holds broken JSON reports a
	// parse error rather than trying later strategies.
	input := "```json\n{broken json}\n```\n" + `{"issues": [], "summary": "valid later"}`
	got := Extract(input)
	if !strings.HasPrefix(got.Error, "Could not parse JSON") {
		t.Errorf("Error = %q, want parse failure", got.Error)
	}
	if got.Summary != "" {
		t.Errorf("Summary = %q, want empty", got.Summary)
	}
	if got.RawResponse == "" {
		t.Error("RawResponse should carry the raw text on parse failure")
	}
}

func TestMatchBraces(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantFound bool
	}{{
		name:      "nested objects",
		input:     `prefix {"a": {"b": 1}} suffix`,
		want:      `{"a": {"b": 1}}`,
		wantFound: true,
	}, {
		name:      "brace inside string",
		input:     `{"a": "}"}`,
		want:      `{"a": "}"}`,
		wantFound: true,
	}, {
		name:      "escaped quote inside string",
		input:     `{"a": "say \"hi\" {ok}"}`,
		want:      `{"a": "say \"hi\" {ok}"}`,
		wantFound: true,
	}, {
		name:      "no opening brace",
		input:     "plain text",
		wantFound: false,
	}, {
		name:      "never closes",
		input:     `{"a": 1`,
		wantFound: false,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := matchBraces(tt.input)
			if found != tt.wantFound {
				t.Fatalf("matchBraces() found = %v, want %v", found, tt.wantFound)
			}
			if got != tt.want {
				t.Errorf("matchBraces() = %q, want %q", got, tt.want)
			}
		})
	}
}
