/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package prompts holds the system and review prompts sent to the model.
// The texts live in embedded template files so they can be read and edited
// as prose rather than escaped string literals.
package prompts

import (
	"embed"
	"fmt"
	"strings"

	"protoreview.dev/reviewer/promptbuilder"
)

//go:embed templates/*.txt
var templates embed.FS

// Review focuses. Event is the default: most protos flowing through the
// reviewer describe event messages, not REST resources.
const (
	FocusEvent = "event"
	FocusREST  = "rest"
)

var (
	systemEvent = mustLoad("system_event.txt")
	systemREST  = mustLoad("system_rest.txt")

	reviewEvent = promptbuilder.Must(promptbuilder.New(mustLoad("review_event.txt")))
	reviewREST  = promptbuilder.Must(promptbuilder.New(mustLoad("review_rest.txt")))

	structuredSuffix = mustLoad("structured_suffix.txt")
)

func mustLoad(name string) string {
	b, err := templates.ReadFile("templates/" + name)
	if err != nil {
		panic(fmt.Sprintf("missing prompt template %s: %v", name, err))
	}
	return strings.TrimRight(string(b), "\n")
}

// System returns the system prompt for the given review focus. Anything
// other than "rest" gets the event prompt.
func System(focus string) string {
	if strings.EqualFold(focus, FocusREST) {
		return systemREST
	}
	return systemEvent
}

// Review builds the user prompt carrying the proto definition under review.
// When structured is set, the prompt additionally instructs the model to
// finish with a JSON issue report.
func Review(protoContent, focus string, structured bool) (string, error) {
	tmpl := reviewEvent
	if strings.EqualFold(focus, FocusREST) {
		tmpl = reviewREST
	}
	bound, err := tmpl.Bind("proto_content", protoContent)
	if err != nil {
		return "", err
	}
	prompt, err := bound.Build()
	if err != nil {
		return "", fmt.Errorf("building review prompt: %w", err)
	}
	if structured {
		prompt += "\n\n" + structuredSuffix
	}
	return prompt, nil
}
