package terminal

import (
	"time"

	"github.com/Boo15mario/linutil-gui/internal/infrastructure/monitoring"
	"github.com/Boo15mario/linutil-gui/internal/logging"
)

// Outcome is the completion state of a session's process
type Outcome int32

const (
	OutcomeUnset Outcome = iota
	OutcomeSucceeded
	OutcomeFailed
)

// String returns the outcome name used in logs, metrics and tool results
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "running"
	}
}

// Message returns the status line shown to users
func (o Outcome) Message() string {
	switch o {
	case OutcomeSucceeded:
		return "Finished successfully."
	case OutcomeFailed:
		return "Finished with errors."
	default:
		return "Running..."
	}
}

// Options configures Spawn
type Options struct {
	Shell     string
	Rows      uint16
	Cols      uint16
	ChunkSize int
	// Dir is the working directory of the shell; empty inherits ours.
	Dir string
	// Env holds extra KEY=VALUE entries added to the child environment.
	Env []string
	// DrainTimeout bounds how long Close waits for remaining output.
	DrainTimeout time.Duration

	Exporter *Exporter
	Logger   *logging.Logger
	Metrics  *monitoring.Metrics
}

// DefaultOptions returns the stock 24x80 sh configuration
func DefaultOptions() Options {
	return Options{
		Shell:        "sh",
		Rows:         24,
		Cols:         80,
		ChunkSize:    8192,
		DrainTimeout: 2 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Shell == "" {
		o.Shell = def.Shell
	}
	if o.Rows == 0 {
		o.Rows = def.Rows
	}
	if o.Cols == 0 {
		o.Cols = def.Cols
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = def.ChunkSize
	}
	if o.DrainTimeout <= 0 {
		o.DrainTimeout = def.DrainTimeout
	}
	if o.Exporter == nil {
		o.Exporter = NewExporter("")
	}
	o.Logger = logging.OrNop(o.Logger)
	return o
}

// Status is a point-in-time view of a session
type Status struct {
	Outcome    Outcome
	ExitCode   int
	PID        int
	StartedAt  time.Time
	FinishedAt time.Time
	// Err holds ErrWaitFailed or ErrInternalStateCorrupted when a background
	// task failed; a non-zero exit code alone is not an error.
	Err error
}

// Done reports whether the process has exited
func (s Status) Done() bool {
	return s.Outcome != OutcomeUnset
}

// Duration returns the run time, up to now while still running
func (s Status) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// SessionInfo is the public representation of a session
type SessionInfo struct {
	ID         string    `json:"id"`
	PID        int       `json:"pid"`
	Cols       int       `json:"cols"`
	Rows       int       `json:"rows"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Outcome    string    `json:"outcome"`
	ExitCode   int       `json:"exit_code"`
	OutputLen  int       `json:"output_len"`
	Active     bool      `json:"active"`
	Error      string    `json:"error,omitempty"`
}
