package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newSiteCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "site <name>",
		Short: "Show a site's languages and routing configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := root.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			languages, err := env.services.Registry.LanguagesFor(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Site", "Languages"})
			t.AppendRow(table.Row{args[0], strings.Join(languages, ", ")})
			t.Render()
			return nil
		},
	}
}
