// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"k8s.io/client-go/dynamic"

	"github.com/confighub/cub-console/internal/config"
	"github.com/confighub/cub-console/internal/i18n"
	"github.com/confighub/cub-console/internal/inventory"
	"github.com/confighub/cub-console/internal/logging"
	"github.com/confighub/cub-console/internal/ui/console"
	"github.com/confighub/cub-console/pkg/actions"
	"github.com/confighub/cub-console/pkg/filter"
	"github.com/confighub/cub-console/pkg/queries"
	"github.com/confighub/cub-console/pkg/query"
)

type sourceOptions struct {
	file        string
	cluster     string
	kubeContext string
}

func (o *sourceOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "read resources from a YAML file instead of the cluster")
	cmd.Flags().StringVar(&o.cluster, "cluster", "", "cluster name for resources without one (default: from the kube context name)")
	cmd.Flags().StringVar(&o.kubeContext, "context", "", "kubeconfig context to use")
}

// loader returns the console LoadFunc for the selected source.
func (o *sourceOptions) loader() console.LoadFunc {
	if o.file != "" {
		return func(context.Context) ([]inventory.Entry, error) {
			return loadFile(o.file, o.cluster)
		}
	}
	return func(ctx context.Context) ([]inventory.Entry, error) {
		client, err := newDynamicClient(o.kubeContext)
		if err != nil {
			return nil, err
		}
		cluster := o.cluster
		if cluster == "" {
			cluster = contextCluster(o.kubeContext)
		}
		return loadCluster(ctx, client, cluster)
	}
}

func loadFile(path, cluster string) ([]inventory.Entry, error) {
	objs, err := inventory.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if cluster == "" {
		cluster = "local"
	}
	return inventory.FromObjects(objs, cluster), nil
}

func loadCluster(ctx context.Context, client dynamic.Interface, cluster string) ([]inventory.Entry, error) {
	entries, err := inventory.LoadCluster(ctx, client, cluster, inventory.DefaultResources)
	if err != nil {
		return nil, fmt.Errorf("load cluster %s: %w", cluster, err)
	}
	return entries, nil
}

// selectionOptions are the flags that pick rows: a kind, filters and a
// search.
type selectionOptions struct {
	kind    string
	filters string
	search  string
}

func (o *selectionOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.kind, "kind", "", "start with resources of this kind (e.g. ManagedCluster, Pod)")
	cmd.Flags().StringVar(&o.filters, "filters", "", `filters as JSON, e.g. {"cluster":["east"]}`)
	cmd.Flags().StringVarP(&o.search, "query", "q", "", `search expression, e.g. "kind=Pod status!=Ready"`)
}

// parse decodes the filters and the search, expanding @name from the saved
// searches. Both are usage errors.
func (o *selectionOptions) parse(searches *queries.Store) (filter.Active, *query.Query, error) {
	active, err := filter.Decode(o.filters)
	if err != nil {
		return nil, nil, &exitError{code: 2, err: err}
	}
	q, err := searches.Parse(o.search)
	if err != nil {
		return nil, nil, &exitError{code: 2, err: fmt.Errorf("invalid query: %w", err)}
	}
	return active, q, nil
}

func newBrowseCommand() *cobra.Command {
	var (
		src sourceOptions
		sel selectionOptions
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the resource console (default command)",
		Long: `Open the resource console.

Keys:
  f          filter panel (space/enter toggles, esc or a click outside closes)
  /          search, e.g. kind=Pod status!=Ready or @not-ready
  a, enter   row actions
  b          back to the previous view
  r          reload
  q          quit

Examples:
  # Browse the current kube context
  cub-console browse

  # Browse a saved resource list, starting at the pods of one cluster
  cub-console browse --file fleet.yaml --kind Pod --filters '{"cluster":["east"]}'

  # Start with a search, or a saved one
  cub-console browse -q "owner=Flux OR owner=ArgoCD"
  cub-console browse -q @not-ready`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			logger := logging.FromContext(ctx)

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

			model := console.New(ctx, console.Options{
				Load:           src.loader(),
				Catalog:        catalog,
				Locale:         cfg.Locale,
				ContextPath:    cfg.ContextPath,
				Kind:           sel.kind,
				Active:         active,
				Query:          q,
				Searches:       searches,
				Dispatcher:     actions.NewDispatcher(actions.WithContextPath(cfg.ContextPath), actions.WithLogger(logger)),
				ResizeThrottle: cfg.ResizeThrottle,
				Logger:         logger,
			})

			logger.Info("starting console", "file", src.file, "kind", sel.kind, "query", q.String())
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run console: %w", err)
			}
			return nil
		},
	}

	src.addFlags(cmd)
	sel.addFlags(cmd)
	return cmd
}
