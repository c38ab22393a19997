/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package validation checks proto file syntax before semantic review, so
// the model always receives well-formed input. It shells out to protoc when
// available and falls back to cheap structural checks when it isn't.
package validation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
)

// DefaultFilename is the virtual filename used in error messages when the
// proto content didn't come from a file.
const DefaultFilename = "input.proto"

const protocTimeout = 10 * time.Second

// Result reports the outcome of a syntax check.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// ErrorMessage flattens the errors into a single message, empty when valid.
func (r Result) ErrorMessage() string {
	if r.Valid {
		return ""
	}
	return strings.Join(r.Errors, "\n")
}

// CheckSyntax validates proto content, using protoc for a full parse when
// it is on PATH. A protoc failure that isn't a syntax error downgrades to
// the basic checks with a warning rather than blocking the review.
func CheckSyntax(ctx context.Context, content, filename string) Result {
	log := clog.FromContext(ctx)

	if strings.TrimSpace(content) == "" {
		return Result{Errors: []string{"Proto content is empty"}}
	}

	var warnings []string
	if !hasSyntaxDeclaration(content) {
		warnings = append(warnings, `Missing syntax declaration. Assuming proto2 (consider adding 'syntax = "proto3";')`)
	}

	if _, err := exec.LookPath("protoc"); err != nil {
		log.Warnf("protoc not found, using basic validation only")
		res := basicCheck(content, filename)
		res.Warnings = append(warnings, res.Warnings...)
		return res
	}

	res, err := runProtoc(ctx, content, filename)
	if err != nil {
		log.Errorf("proto validation error: %v", err)
		res = basicCheck(content, filename)
		res.Warnings = append(res.Warnings, warnings...)
		res.Warnings = append(res.Warnings, fmt.Sprintf("Could not run full syntax validation: %v", err))
		return res
	}

	res.Warnings = append(warnings, res.Warnings...)
	return res
}

// runProtoc writes the content to a temp dir and asks protoc for a
// descriptor set it immediately discards; only the error output matters.
func runProtoc(ctx context.Context, content, filename string) (Result, error) {
	dir, err := os.MkdirTemp("", "protoreview-*")
	if err != nil {
		return Result{}, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return Result{}, fmt.Errorf("writing proto file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, protocTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "protoc",
		"--proto_path="+dir,
		"--descriptor_set_out="+os.DevNull,
		path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Result{Errors: []string{"Proto validation timed out"}}, nil
	}
	if runErr == nil {
		return Result{Valid: true}, nil
	}
	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		return Result{}, fmt.Errorf("running protoc: %w", runErr)
	}

	var res Result
	out := strings.TrimSpace(stderr.String())
	if out == "" {
		res.Errors = append(res.Errors, "Proto syntax validation failed")
		return res, nil
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Hide the temp path so messages reference the virtual filename.
		cleaned := strings.ReplaceAll(line, path, filename)
		cleaned = strings.ReplaceAll(cleaned, dir+"/", "")
		if strings.Contains(strings.ToLower(cleaned), "warning:") {
			res.Warnings = append(res.Warnings, cleaned)
		} else {
			res.Errors = append(res.Errors, cleaned)
		}
	}
	res.Valid = len(res.Errors) == 0
	return res, nil
}

// basicCheck catches the structural mistakes detectable without a parser:
// unbalanced braces, missing definitions, and common keyword typos.
func basicCheck(content, filename string) Result {
	var res Result

	depth := 0
	for i, line := range strings.Split(content, "\n") {
		code, _, _ := strings.Cut(line, "//")
		depth += strings.Count(code, "{") - strings.Count(code, "}")
		if depth < 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("%s:%d: Unexpected closing brace", filename, i+1))
			break
		}
	}
	// A negative depth already produced the per-line error above.
	if depth > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: Unclosed brace (missing %d closing brace(s))", filename, depth))
	}

	if !strings.Contains(content, "message ") &&
		!strings.Contains(content, "enum ") &&
		!strings.Contains(content, "service ") {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: No message, enum, or service definitions found", filename))
	}

	if strings.Contains(content, "messge ") || strings.Contains(content, "mesage ") {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: Possible typo - 'message' misspelled", filename))
	}
	if strings.Contains(content, "servce ") || strings.Contains(content, "servcie ") {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: Possible typo - 'service' misspelled", filename))
	}

	res.Valid = len(res.Errors) == 0
	return res
}

func hasSyntaxDeclaration(content string) bool {
	for _, decl := range []string{
		`syntax = "proto3"`, `syntax = 'proto3'`,
		`syntax = "proto2"`, `syntax = 'proto2'`,
	} {
		if strings.Contains(content, decl) {
			return true
		}
	}
	return false
}
