/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package validation

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCheckSyntaxEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty string", content: ""},
		{name: "whitespace only", content: "  \n\t\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := CheckSyntax(context.Background(), test.content, DefaultFilename)
			require.False(t, got.Valid)
			if diff := cmp.Diff([]string{"Proto content is empty"}, got.Errors); diff != "" {
				t.Errorf("Errors (-want, +got): %s", diff)
			}
			require.Equal(t, "Proto content is empty", got.ErrorMessage())
		})
	}
}

func TestBasicCheck(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		valid        bool
		wantError    string
		wantWarning  string
	}{{
		name:    "well formed message",
		content: "syntax = \"proto3\";\n\nmessage Order {\n  string order_id = 1;\n}\n",
		valid:   true,
	}, {
		name:      "unclosed brace",
		content:   "message Order {\n  string order_id = 1;\n",
		valid:     false,
		wantError: "input.proto: Unclosed brace (missing 1 closing brace(s))",
	}, {
		name:      "two unclosed braces",
		content:   "message Order {\n  message Line {\n    string sku = 1;\n",
		valid:     false,
		wantError: "input.proto: Unclosed brace (missing 2 closing brace(s))",
	}, {
		name:      "unexpected closing brace",
		content:   "message Order {\n}\n}\n",
		valid:     false,
		wantError: "input.proto:3: Unexpected closing brace",
	}, {
		name:    "braces in comments ignored",
		content: "message Order {\n  // closing } here doesn't count\n  string order_id = 1;\n}\n",
		valid:   true,
	}, {
		name:        "no definitions",
		content:     "syntax = \"proto3\";\npackage orders.v1;\n",
		valid:       true,
		wantWarning: "input.proto: No message, enum, or service definitions found",
	}, {
		name:      "message typo",
		content:   "messge Order {\n  string order_id = 1;\n}\n",
		valid:     false,
		wantError: "input.proto: Possible typo - 'message' misspelled",
	}, {
		name:      "service typo",
		content:   "servcie OrderService {\n}\n",
		valid:     false,
		wantError: "input.proto: Possible typo - 'service' misspelled",
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := basicCheck(test.content, DefaultFilename)
			require.Equal(t, test.valid, got.Valid)
			if test.wantError != "" {
				require.Contains(t, got.Errors, test.wantError)
			}
			if test.wantWarning != "" {
				require.Contains(t, got.Warnings, test.wantWarning)
			}
		})
	}
}

func TestBasicCheckExtraBraceSingleError(t *testing.T) {
	got := basicCheck("message Order {\n}\n}\n", DefaultFilename)
	if diff := cmp.Diff([]string{"input.proto:3: Unexpected closing brace"}, got.Errors); diff != "" {
		t.Errorf("Errors (-want, +got): %s", diff)
	}
}

func TestHasSyntaxDeclaration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{name: "proto3 double quotes", content: `syntax = "proto3";`, want: true},
		{name: "proto3 single quotes", content: `syntax = 'proto3';`, want: true},
		{name: "proto2", content: `syntax = "proto2";`, want: true},
		{name: "missing", content: "message M {}", want: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := hasSyntaxDeclaration(test.content); got != test.want {
				t.Errorf("hasSyntaxDeclaration() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestMissingSyntaxWarning(t *testing.T) {
	got := CheckSyntax(context.Background(), "message Order {\n  string order_id = 1;\n}\n", DefaultFilename)
	require.True(t, len(got.Warnings) >= 1)
	require.True(t, strings.HasPrefix(got.Warnings[0], "Missing syntax declaration."))
}

func TestErrorMessageValid(t *testing.T) {
	require.Empty(t, Result{Valid: true, Errors: []string{"ignored"}}.ErrorMessage())
}
