package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

type rootOptions struct {
	catalogDir         string
	configPath         string
	overrideValidation bool
	bypassRoot         bool
	verbose            bool
}

// exitError carries a process exit code without printing anything more.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "linutil",
		Short: "Run Linux utility scripts from a catalog",
		Long: `linutil runs entries from a catalog of shell commands and scripts.

Each run composes the chosen entries into one shell script, runs it on a
pseudo-terminal, streams its output with escape sequences removed, and can
save the captured output to a timestamped log file.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.catalogDir, "catalog", "", "catalog root directory (default $LINUTIL_CATALOG_DIR)")
	flags.StringVar(&opts.configPath, "config", "", "user config file (default $XDG_CONFIG_HOME/linutil/config.toml)")
	flags.BoolVar(&opts.overrideValidation, "override-validation", false, "load script entries without checking their files")
	flags.BoolVar(&opts.bypassRoot, "bypass-root", false, "do not warn when running as root")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRunCmd(opts),
		newListCmd(opts),
		newToolsCmd(opts),
		newVersionCmd(),
	)
	return root
}

func execute(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintf(os.Stderr, "linutil: %v\n", err)
		return 1
	}
	return 0
}
