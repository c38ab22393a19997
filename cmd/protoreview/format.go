/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"protoreview.dev/reviewer/result"
)

// formatStructured renders a structured review for the terminal. The json
// format is the response as-is; the text format groups issues by severity
// with errors first.
func formatStructured(sr *result.StructuredResponse, format string) (string, error) {
	if format == "json" {
		out, err := json.MarshalIndent(sr, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding result: %w", err)
		}
		return string(out), nil
	}

	var lines []string

	if sr.Error != "" {
		lines = append(lines, fmt.Sprintf("Error: %s", sr.Error))
		if sr.RawResponse != "" {
			lines = append(lines, "\nRaw response:", sr.RawResponse)
		}
		return strings.Join(lines, "\n"), nil
	}

	if len(sr.Issues) == 0 {
		lines = append(lines, "No semantic issues found.")
	} else {
		var errs, warns, suggestions []result.Issue
		for _, issue := range sr.Issues {
			switch issue.Severity {
			case "error":
				errs = append(errs, issue)
			case "warning":
				warns = append(warns, issue)
			default:
				suggestions = append(suggestions, issue)
			}
		}

		lines = append(lines, fmt.Sprintf("Found %d issue(s): %d error(s), %d warning(s), %d suggestion(s)",
			len(sr.Issues), len(errs), len(warns), len(suggestions)))
		lines = append(lines, "")

		for _, group := range []struct {
			icon  string
			items []result.Issue
		}{
			{"[ERROR]", errs},
			{"[WARNING]", warns},
			{"[SUGGESTION]", suggestions},
		} {
			for _, item := range group.items {
				location := item.Location
				if location == "" {
					location = "unknown"
				}
				lines = append(lines, fmt.Sprintf("%s %s", group.icon, location))
				lines = append(lines, fmt.Sprintf("  Issue: %s", item.Issue))
				lines = append(lines, fmt.Sprintf("  Recommendation: %s", item.Recommendation))
				if item.Reference != "" {
					lines = append(lines, fmt.Sprintf("  Reference: %s", item.Reference))
				}
				lines = append(lines, "")
			}
		}
	}

	if sr.Summary != "" {
		lines = append(lines, fmt.Sprintf("Summary: %s", sr.Summary))
	}

	return strings.Join(lines, "\n"), nil
}
