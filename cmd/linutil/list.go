package main

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

type listedEntry struct {
	Tab         string `json:"tab"`
	Location    string `json:"location"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MultiSelect bool   `json:"multi_select"`
}

func newListCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runnable catalog entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer a.close()

			cat, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}

			var entries []listedEntry
			for _, leaf := range cat.Leaves() {
				entries = append(entries, listedEntry{
					Tab:         leaf.Tab,
					Location:    leaf.Location(),
					Name:        leaf.Entry.Name,
					Description: leaf.Entry.Description,
					MultiSelect: leaf.Entry.Multi(),
				})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := sonic.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			r := lipgloss.NewRenderer(out)
			heading := r.NewStyle().Bold(true)
			muted := r.NewStyle().Foreground(lipgloss.Color("242"))

			location := ""
			for _, e := range entries {
				if e.Location != location {
					location = e.Location
					fmt.Fprintln(out, heading.Render(location))
				}
				line := "  " + e.Name
				if !e.MultiSelect {
					line += muted.Render(" (single only)")
				}
				if e.Description != "" {
					line += muted.Render(" - " + e.Description)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}
