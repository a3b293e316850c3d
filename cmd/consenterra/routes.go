package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/consenterra/website/internal/nav"
)

type routeTable struct {
	Current string     `yaml:"current"`
	Items   []nav.Item `yaml:"items"`
}

func newRoutesCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the navigation table with active flags for a path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := nav.BuildView(path, nav.MenuState{})

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(routeTable{Current: view.Current, Items: view.Desktop}); err != nil {
				return errors.Wrap(err, "failed to encode routes")
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "/", "current path used to mark active entries")

	return cmd
}
