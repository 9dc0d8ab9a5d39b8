package main

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

func newToolsCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools [query]",
		Short: "Describe the runner's tool interface",
		Long:  "List the tools the runner exposes to embedding hosts, ranked by relevance to an optional query.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}
			defer a.close()

			tools := a.registry.FindTools(strings.Join(args, " "), 0)

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := sonic.MarshalIndent(tools, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			for _, t := range tools {
				fmt.Fprintf(out, "%-24s %s\n", t.Tool.ID, t.Tool.Description)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print tool definitions as JSON")
	return cmd
}
