package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Boo15mario/linutil-gui/internal/providers/terminal"
)

type runOptions struct {
	skipConfirmation bool
	forwardInput     bool
	saveLog          bool
	archive          string
	json             bool
}

// runSummary is printed with --json once the run finishes
type runSummary struct {
	SessionID  string    `json:"session_id"`
	Entries    []string  `json:"entries"`
	Rejected   []string  `json:"rejected,omitempty"`
	Outcome    string    `json:"outcome"`
	ExitCode   int       `json:"exit_code"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`
	OutputLen  int       `json:"output_len"`
	LogPath    string    `json:"log_path,omitempty"`
	Archive    string    `json:"archive_path,omitempty"`
	Error      string    `json:"error,omitempty"`
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [entry names...]",
		Short: "Run catalog entries",
		Long: `Run one or more catalog entries as a single script.

Without names, the entries listed under auto_execute in the user config run.
When several entries are given, entries marked single-only are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntries(cmd, root, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.skipConfirmation, "skip-confirmation", "y", false, "run without asking for confirmation")
	flags.BoolVar(&opts.forwardInput, "input", false, "forward stdin lines to the commands even when stdin is not a terminal")
	flags.BoolVar(&opts.saveLog, "save-log", false, "save the output to a timestamped log file when done")
	flags.StringVar(&opts.archive, "archive", "", "also write a compressed log (gzip or zstd; default $LINUTIL_LOG_COMPRESSION)")
	flags.Lookup("archive").NoOptDefVal = "default"
	flags.BoolVar(&opts.json, "json", false, "print a JSON summary instead of a status line")

	return cmd
}

func runEntries(cmd *cobra.Command, root *rootOptions, opts *runOptions, names []string) error {
	a, err := newApp(root)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cat, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}
	userCfg, err := a.userConfig()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		names = userCfg.AutoExecute
	}
	if len(names) == 0 {
		return fmt.Errorf("no entries given and no auto_execute entries configured")
	}

	sel, err := cat.Select(names)
	if err != nil {
		return err
	}
	stderr := cmd.ErrOrStderr()
	for _, name := range sel.Rejected {
		fmt.Fprintf(stderr, "Skipping %q: it cannot run together with other entries\n", name)
	}
	if len(sel.Actions) == 0 {
		return fmt.Errorf("nothing to run")
	}

	if os.Geteuid() == 0 && !root.bypassRoot {
		fmt.Fprintln(stderr, rootWarning)
	}

	stdin := bufio.NewReader(cmd.InOrStdin())
	if !opts.skipConfirmation && !userCfg.SkipConfirmation {
		if !confirm(stdin, cmd.OutOrStdout(), sel.Names()) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	session, err := a.manager.Run(sel.Actions)
	if err != nil {
		return err
	}

	a.serveStatus(ctx)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)
	go relaySignals(ctx, signals,
		func(sig os.Signal) {
			a.logger.Info("Stopping on signal", zap.String("signal", sig.String()))
			_ = session.Kill()
			fmt.Fprintln(stderr, "Stopping... interrupt again to quit immediately")
		},
		func() { signal.Stop(signals) },
	)

	if opts.forwardInput || isTerminal(cmd.InOrStdin()) {
		go forwardInput(ctx, stdin, session, stderr)
	}

	var sink terminal.Sink = newConsoleSink(cmd.OutOrStdout())
	if opts.json {
		sink = &quietSink{out: cmd.ErrOrStderr()}
	}

	st, err := terminal.Watch(ctx, session, sink, a.cfg.Runner.PollInterval)
	if err != nil {
		return err
	}

	summary := runSummary{
		SessionID:  session.ID,
		Entries:    sel.Names(),
		Rejected:   sel.Rejected,
		Outcome:    st.Outcome.String(),
		ExitCode:   st.ExitCode,
		StartedAt:  st.StartedAt,
		FinishedAt: st.FinishedAt,
		DurationMS: st.Duration().Milliseconds(),
		OutputLen:  session.Info().OutputLen,
	}
	if st.Err != nil {
		summary.Error = st.Err.Error()
	}

	if opts.saveLog {
		path, err := session.SaveLog()
		if err != nil {
			return err
		}
		summary.LogPath = path
		if !opts.json {
			fmt.Fprintf(cmd.OutOrStdout(), "Log saved to %s\n", path)
		}
	}

	if opts.archive != "" {
		compression := terminal.Compression(opts.archive)
		if opts.archive == "default" {
			compression = terminal.Compression(a.cfg.Export.Compression)
			if compression == terminal.CompressionNone {
				compression = terminal.CompressionGzip
			}
		}
		path, err := session.ArchiveLog(compression)
		if err != nil {
			return err
		}
		summary.Archive = path
		if !opts.json {
			fmt.Fprintf(cmd.OutOrStdout(), "Archive saved to %s\n", path)
		}
	}

	if opts.json {
		data, err := sonic.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}

	if st.Outcome != terminal.OutcomeSucceeded {
		return &exitError{code: 1}
	}
	return nil
}

// relaySignals calls stop for the first signal and then release, which hands
// later signals back to their default action so a command that ignores
// SIGTERM cannot trap the user.
func relaySignals(ctx context.Context, signals <-chan os.Signal, stop func(os.Signal), release func()) {
	select {
	case sig := <-signals:
		stop(sig)
		release()
	case <-ctx.Done():
	}
}

// quietSink mirrors output to a secondary stream so stdout stays valid JSON
type quietSink struct {
	out io.Writer
}

func (q *quietSink) Output(text string) {
	fmt.Fprint(q.out, text)
}

func (q *quietSink) Finished(terminal.Status) {}
