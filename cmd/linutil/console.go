package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/Boo15mario/linutil-gui/internal/providers/terminal"
)

const rootWarning = "WARNING: You are running this utility as root!\n" +
	"This means you have full system access and commands can potentially damage your system if used incorrectly.\n" +
	"Please proceed with caution and make sure you understand what each script does before executing it."

// consoleSink prints session output as it arrives and a styled status line
// when the session finishes.
type consoleSink struct {
	mu  sync.Mutex
	out io.Writer

	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func newConsoleSink(out io.Writer) *consoleSink {
	r := lipgloss.NewRenderer(out)
	return &consoleSink{
		out:     out,
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("76")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("242")),
	}
}

func (c *consoleSink) Output(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, text)
}

func (c *consoleSink) Finished(st terminal.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()

	style := c.success
	if st.Outcome != terminal.OutcomeSucceeded {
		style = c.failure
	}

	detail := fmt.Sprintf(" (exit code %d, %s)", st.ExitCode, st.Duration().Round(time.Millisecond))
	fmt.Fprintf(c.out, "\n%s%s\n", style.Render(st.Outcome.Message()), c.muted.Render(detail))
	if st.Err != nil {
		fmt.Fprintf(c.out, "%s\n", c.failure.Render(st.Err.Error()))
	}
}

// confirm asks whether to run names and reads one answer line from in.
func confirm(in *bufio.Reader, out io.Writer, names []string) bool {
	fmt.Fprintf(out, "Run the following command(s)?\n%s\n[y/N]: ", strings.Join(names, ", "))

	answer, err := in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// forwardInput sends each line read from in to the session until in ends,
// ctx is cancelled or the session stops accepting input. A line that cannot
// be delivered is reported on errOut.
func forwardInput(ctx context.Context, in *bufio.Reader, s *terminal.Session, errOut io.Writer) {
	failure := lipgloss.NewRenderer(errOut).NewStyle().Foreground(lipgloss.Color("196"))

	for {
		line, err := in.ReadString('\n')
		if line != "" {
			if ctx.Err() != nil {
				return
			}
			if sendErr := s.SendInput(strings.TrimRight(line, "\r\n")); sendErr != nil {
				fmt.Fprintln(errOut, failure.Render("Input not delivered: "+sendErr.Error()))
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// isTerminal reports whether r is an interactive terminal
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
