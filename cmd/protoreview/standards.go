/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var listAIPsCmd = &cobra.Command{
	Use:   "list-aips",
	Short: "List available AIP standards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		base, _, err := newRegistry(cmd.Context())
		if err != nil {
			return err
		}
		table := newStandardsTable([]string{"AIP", "Title", "Rules"}, cmd.OutOrStdout())
		for _, aip := range base.AIPs() {
			_ = table.Append([]string{
				fmt.Sprintf("AIP-%d", aip.Number),
				aip.Title,
				strconv.Itoa(len(aip.Rules)),
			})
		}
		return table.Render()
	},
}

var lookupAIPCmd = &cobra.Command{
	Use:   "lookup-aip <number>",
	Short: "Look up a specific AIP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid AIP number %q", args[0])
		}
		base, _, err := newRegistry(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), base.AIPSummary(number))
		return nil
	},
}

var listOrgStandardsCmd = &cobra.Command{
	Use:   "list-org-standards",
	Short: "List available organizational standards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		base, _, err := newRegistry(cmd.Context())
		if err != nil {
			return err
		}
		table := newStandardsTable([]string{"ID", "Title", "Applies To"}, cmd.OutOrStdout())
		for _, org := range base.Orgs() {
			_ = table.Append([]string{org.ID, org.Title, org.AppliesTo})
		}
		return table.Render()
	},
}

var lookupOrgStandardCmd = &cobra.Command{
	Use:   "lookup-org-standard <id>",
	Short: "Look up a specific organizational standard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, _, err := newRegistry(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), base.OrgSummary(strings.ToUpper(args[0])))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listAIPsCmd, lookupAIPCmd, listOrgStandardsCmd, lookupOrgStandardCmd)
}

// newStandardsTable builds a markdown table writer with left-aligned cells
// and no row wrapping, so listings paste cleanly into docs and PRs.
func newStandardsTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 100,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
