// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/confighub/cub-console/internal/config"
	"github.com/confighub/cub-console/internal/i18n"
	"github.com/confighub/cub-console/internal/inventory"
	"github.com/confighub/cub-console/internal/logging"
	"github.com/confighub/cub-console/pkg/actions"
)

// effectOutput is the JSON form of a resolved action.
type effectOutput struct {
	Action   actions.ActionID `json:"action"`
	Resource string           `json:"resource"`
	Effect   string           `json:"effect"`
	Modal    *actions.Modal   `json:"modal,omitempty"`
	Path     string           `json:"path,omitempty"`
}

func newActionsCommand() *cobra.Command {
	var (
		file string
		kind string
		name string
		id   string
	)

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List row actions or resolve one against a resource",
		Long: `List the row actions and the effect each has.

With --id, the action is resolved against the resource named by --name
in --file and the effect is printed as JSON: the modal the console
would open, or the path it would navigate to.

Examples:
  # Actions offered for pods
  cub-console actions --kind Pod

  # What "view nodes" does for cluster east
  cub-console actions --file fleet.yaml --name east --id table.actions.cluster.view.nodes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			logger := logging.FromContext(ctx)

			catalog, err := i18n.Load()
			if err != nil {
				return err
			}
			dispatcher := actions.NewDispatcher(actions.WithContextPath(cfg.ContextPath), actions.WithLogger(logger))

			if id == "" {
				ids := actions.IDs()
				if kind != "" {
					ids = actions.ForKind(kind)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tLABEL\tEFFECT")
				for _, a := range ids {
					fmt.Fprintf(w, "%s\t%s\t%s\n", a, catalog.T(cfg.Locale, string(a)), describe(dispatcher, a))
				}
				return w.Flush()
			}

			if file == "" || name == "" {
				return &exitError{code: 2, err: fmt.Errorf("--id needs --file and --name")}
			}
			entries, err := loadFile(file, "")
			if err != nil {
				return err
			}
			entry, err := findEntry(entries, kind, name)
			if err != nil {
				return err
			}

			out := effectOutput{
				Action:   actions.ActionID(id),
				Resource: entry.Kind + "/" + entry.Name,
			}
			switch e := dispatcher.Resolve(out.Action, entry.Object, entry.ResourceType()).(type) {
			case actions.OpenModal:
				out.Effect = "open-modal"
				out.Modal = &e.Modal
			case actions.Navigate:
				out.Effect = "navigate"
				out.Path = e.Path
			case actions.NoOp:
				out.Effect = "none"
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file holding the resource")
	cmd.Flags().StringVar(&kind, "kind", "", "resource kind; limits the listing or disambiguates --name")
	cmd.Flags().StringVar(&name, "name", "", "resource name")
	cmd.Flags().StringVar(&id, "id", "", "action id to resolve")
	return cmd
}

// describe summarizes what an action does, independent of the resource.
func describe(d *actions.Dispatcher, id actions.ActionID) string {
	switch e := d.Resolve(id, nil, actions.ResourceType{}).(type) {
	case actions.OpenModal:
		return "modal " + string(e.Modal.Type)
	case actions.Navigate:
		list, _, _ := strings.Cut(e.Path, "?")
		return "navigate " + list
	default:
		return "none"
	}
}

func findEntry(entries []inventory.Entry, kind, name string) (inventory.Entry, error) {
	var found []inventory.Entry
	for _, e := range entries {
		if e.Name == name && (kind == "" || strings.EqualFold(e.Kind, kind)) {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return inventory.Entry{}, fmt.Errorf("resource %q not found", name)
	case 1:
		return found[0], nil
	default:
		return inventory.Entry{}, fmt.Errorf("%d resources are named %q, set --kind", len(found), name)
	}
}
