// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/confighub/cub-console/internal/config"
	"github.com/confighub/cub-console/internal/i18n"
	"github.com/confighub/cub-console/internal/inventory"
	"github.com/confighub/cub-console/internal/logging"
)

func newListCommand() *cobra.Command {
	var (
		src    sourceOptions
		sel    selectionOptions
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the rows the console would show",
		Long: `Print the resources the console would list for a kind, filters and
search, without starting the console.

Examples:
  # Pods that are not ready
  cub-console list --kind Pod -q "status!=Ready"

  # Everything Flux manages on cluster east, as JSON
  cub-console list -f fleet.yaml --filters '{"cluster":["east"],"owner":["Flux"]}' -o json

  # Counts by owner, kind and status
  cub-console list -o summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			logger := logging.FromContext(ctx)

			switch output {
			case "table", "json", "summary":
			default:
				return &exitError{code: 2, err: fmt.Errorf("unknown output format %q (table, json, summary)", output)}
			}
			searches, err := openSearches(cmd)
			if err != nil {
				return err
			}
			active, q, err := sel.parse(searches)
			if err != nil {
				return err
			}
			catalog, err := i18n.Load()
			if err != nil {
				return err
			}

			entries, err := src.loader()(ctx)
			if err != nil {
				return err
			}
			if sel.kind != "" {
				entries = inventory.OfKind(entries, sel.kind)
			}
			rows := inventory.Filter(inventory.Search(entries, q), active, catalog, cfg.Locale)
			logger.Debug("listed resources", "total", len(entries), "shown", len(rows))

			out := cmd.OutOrStdout()
			if output == "summary" {
				return printSummary(out, inventory.NewStats(rows))
			}
			if output == "json" {
				if rows == nil {
					rows = []inventory.Entry{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CLUSTER\tNAMESPACE\tKIND\tNAME\tOWNER\tSTATUS")
			for _, e := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.Cluster, dash(e.Namespace), e.Kind, e.Name, dash(e.Owner), e.Status)
			}
			return w.Flush()
		},
	}

	src.addFlags(cmd)
	sel.addFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json, summary")
	return cmd
}

func printSummary(out io.Writer, stats inventory.Stats) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TOTAL\t%d\n", stats.Total)
	for _, group := range []struct {
		title  string
		counts map[string]int
	}{
		{"OWNER", stats.ByOwner},
		{"KIND", stats.ByKind},
		{"STATUS", stats.ByStatus},
	} {
		fmt.Fprintf(w, "\n%s\tCOUNT\n", group.title)
		for _, k := range slices.Sorted(maps.Keys(group.counts)) {
			fmt.Fprintf(w, "%s\t%d\n", dash(k), group.counts[k])
		}
	}
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
