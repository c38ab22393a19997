/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"protoreview.dev/reviewer/mcpserver"
)

var (
	mcpHTTP bool
	mcpPort int
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server for IDE integration",
	Long: `Run the MCP server exposing review and standards-lookup tools.

The default transport is stdio, suitable for editor integrations that spawn
the server as a subprocess. Pass --http to serve streamable HTTP instead.`,
	Args: cobra.NoArgs,
	RunE: runMCPCmd,
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpHTTP, "http", false, "Use HTTP transport instead of stdio")
	mcpCmd.Flags().IntVar(&mcpPort, "port", 3000, "Port for HTTP transport (ignored for stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCPCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	base, registry, err := newRegistry(ctx)
	if err != nil {
		return err
	}
	s := mcpserver.New(base, registry)

	if mcpHTTP {
		// Banner goes to stderr so stdout stays clean for clients that
		// misconfigure the transport.
		fmt.Fprintf(os.Stderr, "Starting MCP server on http://localhost:%d\n", mcpPort)
		return s.ServeHTTP(ctx, fmt.Sprintf("0.0.0.0:%d", mcpPort))
	}
	return s.ServeStdio()
}
