/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"protoreview.dev/reviewer/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Run the HTTP review server",
	Long: `Run the HTTP review server.

Configuration comes from the environment (HOST, PORT, ALLOWED_AD_GROUPS);
the --host and --port flags override it when set.`,
	Args: cobra.NoArgs,
	RunE: runServeCmd,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := server.NewConfig(ctx)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	_, registry, err := newRegistry(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Starting server on http://%s:%d\n", cfg.Host, cfg.Port)
	return server.New(cfg, registry).Start(ctx)
}
