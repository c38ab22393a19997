/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

// protoreview reviews Protocol Buffer definitions for semantic correctness
// against AIP and organizational standards, and can run the HTTP and MCP
// servers that expose the same review.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errIssuesFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
