/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"protoreview.dev/reviewer/result"
)

func TestFormatStructuredText(t *testing.T) {
	tests := []struct {
		name     string
		response result.StructuredResponse
		want     []string
		absent   []string
	}{{
		name: "no issues",
		response: result.StructuredResponse{
			Issues:  []result.Issue{},
			Summary: "Proto follows event standards.",
		},
		want: []string{
			"No semantic issues found.",
			"Summary: Proto follows event standards.",
		},
	}, {
		name: "grouped by severity",
		response: result.StructuredResponse{
			Issues: []result.Issue{{
				Severity:       "suggestion",
				Location:       "OrderEvent.note",
				Issue:          "Free-form note field",
				Recommendation: "Document the expected contents",
			}, {
				Severity:       "error",
				Location:       "OrderEvent.create_time",
				Issue:          "Timestamp stored as string",
				Recommendation: "Use google.protobuf.Timestamp",
				Reference:      "AIP-142",
			}},
			Summary: "One blocking issue.",
		},
		want: []string{
			"Found 2 issue(s): 1 error(s), 0 warning(s), 1 suggestion(s)",
			"[ERROR] OrderEvent.create_time",
			"  Issue: Timestamp stored as string",
			"  Recommendation: Use google.protobuf.Timestamp",
			"  Reference: AIP-142",
			"[SUGGESTION] OrderEvent.note",
			"Summary: One blocking issue.",
		},
	}, {
		name: "extraction error with raw response",
		response: result.StructuredResponse{
			Error:       "Could not find JSON in response",
			RawResponse: "The proto looks fine to me.",
		},
		want: []string{
			"Error: Could not find JSON in response",
			"Raw response:",
			"The proto looks fine to me.",
		},
		absent: []string{"No semantic issues found.", "Summary:"},
	}, {
		name: "missing location falls back to unknown",
		response: result.StructuredResponse{
			Issues: []result.Issue{{
				Severity: "warning",
				Issue:    "Ambiguous field name",
			}},
		},
		want: []string{"[WARNING] unknown"},
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := formatStructured(&tc.response, "text")
			require.NoError(t, err)
			for _, want := range tc.want {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, absent := range tc.absent {
				if strings.Contains(got, absent) {
					t.Errorf("output should not contain %q:\n%s", absent, got)
				}
			}
		})
	}
}

func TestFormatStructuredTextErrorsFirst(t *testing.T) {
	got, err := formatStructured(&result.StructuredResponse{
		Issues: []result.Issue{{
			Severity: "suggestion",
			Location: "OrderEvent.note",
		}, {
			Severity: "error",
			Location: "OrderEvent.create_time",
		}},
	}, "text")
	require.NoError(t, err)

	errIdx := strings.Index(got, "[ERROR]")
	sugIdx := strings.Index(got, "[SUGGESTION]")
	require.GreaterOrEqual(t, errIdx, 0)
	require.GreaterOrEqual(t, sugIdx, 0)
	if errIdx > sugIdx {
		t.Errorf("errors should be listed before suggestions:\n%s", got)
	}
}

func TestFormatStructuredJSON(t *testing.T) {
	in := result.StructuredResponse{
		Issues: []result.Issue{{
			Severity:       "error",
			Location:       "OrderEvent.create_time",
			Issue:          "Timestamp stored as string",
			Recommendation: "Use google.protobuf.Timestamp",
			Reference:      "AIP-142",
		}},
		Summary: "One blocking issue.",
	}

	got, err := formatStructured(&in, "json")
	require.NoError(t, err)

	var roundTripped result.StructuredResponse
	require.NoError(t, json.Unmarshal([]byte(got), &roundTripped))
	if diff := cmp.Diff(in, roundTripped); diff != "" {
		t.Errorf("json output mismatch (-want +got):\n%s", diff)
	}
}

func TestReadProtoContentStdin(t *testing.T) {
	got, err := readProtoContent(strings.NewReader("syntax = \"proto3\";"), "-")
	require.NoError(t, err)
	require.Equal(t, "syntax = \"proto3\";", got)
}

func TestReadProtoContentMissingFile(t *testing.T) {
	_, err := readProtoContent(nil, "does/not/exist.proto")
	require.Error(t, err)
	require.Contains(t, err.Error(), "file not found")
}
