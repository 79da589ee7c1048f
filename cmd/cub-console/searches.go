// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/confighub/cub-console/internal/config"
	"github.com/confighub/cub-console/internal/logging"
	"github.com/confighub/cub-console/pkg/queries"
)

func newSearchesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "searches",
		Short: "List and manage saved searches",
		Long: `Saved searches are named search expressions. Use one anywhere a
search is accepted by writing @name: the --query flag of browse and list,
or the console's search bar.

Examples:
  cub-console searches
  cub-console searches save shop "namespace=shop" --description "Shop workloads"
  cub-console list -q @shop
  cub-console searches delete shop`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openSearches(cmd)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSOURCE\tQUERY\tDESCRIPTION")
			for _, s := range store.List() {
				fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n", queries.Prefix, s.Name, s.Source, dash(s.Query), s.Description)
			}
			return w.Flush()
		},
	}

	var description string
	save := &cobra.Command{
		Use:   "save NAME QUERY",
		Short: "Save a search, replacing one of the same name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSearches(cmd)
			if err != nil {
				return err
			}
			if err := store.Save(queries.Saved{Name: args[0], Query: args[1], Description: description}); err != nil {
				return &exitError{code: 2, err: err}
			}
			logging.FromContext(cmd.Context()).Info("saved search", "name", args[0], "query", args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s%s\n", queries.Prefix, args[0])
			return nil
		},
	}
	save.Flags().StringVar(&description, "description", "", "what the search finds")

	del := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a user search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSearches(cmd)
			if err != nil {
				return err
			}
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s%s\n", queries.Prefix, args[0])
			return nil
		},
	}

	cmd.AddCommand(save, del)
	return cmd
}

func openSearches(cmd *cobra.Command) (*queries.Store, error) {
	return queries.Open(config.FromContext(cmd.Context()).SearchesFile)
}
