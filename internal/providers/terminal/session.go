package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/creack/pty"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"

	"github.com/Boo15mario/linutil-gui/internal/infrastructure/monitoring"
	"github.com/Boo15mario/linutil-gui/internal/logging"
	"github.com/Boo15mario/linutil-gui/internal/shared/id"
)

// inputQueueSize is how many undelivered input lines a session buffers
const inputQueueSize = 64

// forcedEnv makes child programs emit colour even though nobody renders it;
// the escape filter strips it again but tools behave as on a real terminal.
var forcedEnv = []string{
	"TERM=xterm-256color",
	"COLORTERM=truecolor",
	"FORCE_COLOR=1",
	"NO_COLOR=",
}

// Session is one shell process attached to a pseudo-terminal.
//
// Three goroutines run per session: the reader pumps pty output into the
// output log, the waiter records the exit outcome and the writer delivers
// queued input, so a process that stops reading never blocks callers. The
// output log, the input queue, the kill handle and the status each have
// their own lock and no method holds two of them at once.
type Session struct {
	ID        string
	Script    string
	StartedAt time.Time

	cmd  *exec.Cmd
	ptmx *os.File
	pid  int

	output  *OutputLog
	input   inputCell
	killer  killCell
	size    sizeCell
	status  statusCell
	outcome atomic.Int32

	readerDone chan struct{}
	waitDone   chan struct{}
	closeOnce  sync.Once
	closeErr   error

	opts    Options
	logger  *logging.Logger
	metrics *monitoring.Metrics
	readLog rate.Sometimes
}

type inputCell struct {
	guard
	w     io.Writer
	queue chan string
	// err is the first write failure; later sends report it.
	err error

	closed   atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
}

type killCell struct {
	guard
	kill func() error
}

type sizeCell struct {
	guard
	rows, cols uint16
	closed     bool
}

type statusCell struct {
	guard
	st Status
}

// Spawn starts `<shell> -c script` on a new pty and returns the running
// session. Failure to allocate the pty or start the shell yields
// ErrSpawnFailed and no session.
func Spawn(script string, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	sessionID := id.NewSessionID().String()
	logger := opts.Logger.WithSession(sessionID)

	cmd := exec.Command(opts.Shell, "-c", script)
	cmd.Dir = opts.Dir
	cmd.Env = childEnv(os.Environ(), opts.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: opts.Rows,
		Cols: opts.Cols,
	})
	if err != nil {
		opts.Metrics.RecordSpawnFailure()
		logger.Error("Failed to spawn session", zap.String("shell", opts.Shell), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSpawnFailed, err)
	}

	now := time.Now()
	s := &Session{
		ID:         sessionID,
		Script:     script,
		StartedAt:  now,
		cmd:        cmd,
		ptmx:       ptmx,
		pid:        cmd.Process.Pid,
		output:     NewOutputLog(),
		readerDone: make(chan struct{}),
		waitDone:   make(chan struct{}),
		opts:       opts,
		logger:     logger,
		metrics:    opts.Metrics,
		readLog:    rate.Sometimes{Interval: time.Second},
	}
	s.input.w = ptmx
	s.input.queue = make(chan string, inputQueueSize)
	s.input.stop = make(chan struct{})
	s.killer.kill = s.terminate
	s.size.rows, s.size.cols = opts.Rows, opts.Cols
	s.status.st = Status{PID: s.pid, StartedAt: now}

	s.metrics.RecordSpawn()
	logger.Info("Session spawned",
		zap.Int("pid", s.pid),
		zap.String("shell", opts.Shell),
		zap.Int("script_bytes", len(script)),
	)

	go s.readOutput()
	go s.waitProcess()
	go s.writeInput()

	return s, nil
}

// childEnv returns base without the colour-related variables, then extra,
// then the forced colour settings.
func childEnv(base, extra []string) []string {
	env := make([]string, 0, len(base)+len(extra)+len(forcedEnv))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		switch key {
		case "TERM", "COLORTERM", "FORCE_COLOR", "NO_COLOR":
			continue
		}
		env = append(env, kv)
	}
	env = append(env, extra...)
	return append(env, forcedEnv...)
}

// readOutput is the reader task. It ends on EOF or any read error; after
// the child exits the pty reports EIO, which is the normal way out.
func (s *Session) readOutput() {
	defer close(s.readerDone)
	defer s.recoverTask("reader")

	dec := newChunkDecoder()
	buf := make([]byte, s.opts.ChunkSize)
	total := 0

	for {
		n, err := s.ptmx.Read(buf)
		if n == 0 && err == nil {
			err = io.EOF
		}

		if text := StripANSI(dec.Decode(buf[:n], err != nil)); text != "" {
			if appendErr := s.output.Append(text); appendErr != nil {
				s.recordFailure(appendErr)
				s.logger.Error("Dropping output", zap.Error(appendErr))
				return
			}
			total += len(text)
			s.metrics.AddOutputBytes(len(text))
			s.readLog.Do(func() {
				s.logger.Debug("Output received", zap.Int("bytes_total", total))
			})
		}

		if err != nil {
			s.logger.Debug("Output stream ended",
				zap.Int("bytes_total", total),
				zap.NamedError("cause", fmt.Errorf("%w: %w", ErrStreamClosed, err)),
			)
			return
		}
	}
}

// waitProcess is the wait task: it reaps the child and records the outcome.
func (s *Session) waitProcess() {
	defer close(s.waitDone)
	defer s.recoverTask("wait")

	err := s.cmd.Wait()
	finishedAt := time.Now()
	outcome, code, waitErr := classifyExit(err)

	// Closing input only flips a flag, so nothing here can wait on a
	// blocked pty write before the outcome is recorded.
	s.closeInput()
	s.finish(outcome, code, finishedAt, waitErr)

	_ = s.killer.do(func() error {
		s.killer.kill = nil
		return nil
	})
}

// writeInput is the writer task. It delivers queued input in order and
// stops at the first failed write or when input is closed.
func (s *Session) writeInput() {
	defer s.recoverTask("writer")

	for {
		select {
		case <-s.input.stop:
			return
		case data := <-s.input.queue:
			if _, err := io.WriteString(s.input.w, data); err != nil {
				err = fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
				_ = s.input.do(func() error {
					if s.input.err == nil {
						s.input.err = err
					}
					return nil
				})
				s.metrics.RecordInput("failed")
				s.logger.Warn("Input not delivered", zap.Error(err))
				return
			}
		}
	}
}

func (s *Session) closeInput() {
	s.input.closed.Store(true)
	s.input.stopOnce.Do(func() { close(s.input.stop) })
}

func classifyExit(err error) (Outcome, int, error) {
	if err == nil {
		return OutcomeSucceeded, 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			code = 128 + int(ws.Signal())
		}
		return OutcomeFailed, code, nil
	}

	return OutcomeFailed, -1, fmt.Errorf("%w: %w", ErrWaitFailed, err)
}

// finish records the outcome. Status details are written before the outcome
// flips so a poller that sees completion also sees the exit code.
func (s *Session) finish(outcome Outcome, code int, finishedAt time.Time, err error) {
	if s.Completion() != OutcomeUnset {
		return
	}

	if statusErr := s.status.do(func() error {
		s.status.st.ExitCode = code
		s.status.st.FinishedAt = finishedAt
		if err != nil && s.status.st.Err == nil {
			s.status.st.Err = err
		}
		return nil
	}); statusErr != nil {
		s.logger.Error("Failed to record exit status", zap.Error(statusErr))
	}

	if !s.outcome.CompareAndSwap(int32(OutcomeUnset), int32(outcome)) {
		return
	}

	duration := finishedAt.Sub(s.StartedAt)
	s.metrics.RecordFinish(outcome.String(), duration)

	fields := []zap.Field{
		zap.String("outcome", outcome.String()),
		zap.Int("exit_code", code),
		zap.Duration("duration", duration),
	}
	if err != nil {
		s.logger.Error("Session finished", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Info("Session finished", fields...)
}

// recoverTask keeps a panicking background task from taking the process
// down. The failure is recorded on the session instead.
func (s *Session) recoverTask(task string) {
	r := recover()
	if r == nil {
		return
	}

	err := fmt.Errorf("%w: %s task panicked: %v", ErrInternalStateCorrupted, task, r)
	s.logger.Error("Background task panicked", zap.String("task", task), zap.Any("panic", r))
	s.recordFailure(err)

	if task == "wait" {
		s.finish(OutcomeFailed, -1, time.Now(), err)
	}
}

func (s *Session) recordFailure(err error) {
	_ = s.status.do(func() error {
		if s.status.st.Err == nil {
			s.status.st.Err = err
		}
		return nil
	})
}

// ReadSince returns the output appended after offset and the new offset.
func (s *Session) ReadSince(offset int) (string, int, error) {
	return s.output.ReadSince(offset)
}

// Output returns the full output log
func (s *Session) Output() *OutputLog {
	return s.output
}

// SendInput queues text and a newline for the pty and returns without
// waiting for the write. Once the process has exited, after a failed write,
// or while the queue is full, it returns ErrDeliveryFailed.
func (s *Session) SendInput(text string) error {
	var err error
	if s.input.closed.Load() {
		err = fmt.Errorf("%w: process has exited", ErrDeliveryFailed)
	} else {
		err = s.input.do(func() error {
			if s.input.err != nil {
				return s.input.err
			}
			select {
			case s.input.queue <- text + "\n":
				return nil
			default:
				return fmt.Errorf("%w: %d lines already waiting", ErrDeliveryFailed, inputQueueSize)
			}
		})
	}

	if err != nil {
		s.metrics.RecordInput("failed")
		s.logger.Warn("Input not delivered", zap.Error(err))
		return err
	}
	s.metrics.RecordInput("ok")
	return nil
}

// Kill sends a terminate signal the first time it is called. Later calls,
// and calls after the process exited, do nothing. It does not wait for the
// process to exit; watch Completion for that.
func (s *Session) Kill() error {
	var kill func() error
	if err := s.killer.do(func() error {
		kill, s.killer.kill = s.killer.kill, nil
		return nil
	}); err != nil {
		return err
	}
	if kill == nil {
		return nil
	}

	s.metrics.RecordKill()
	if err := kill(); err != nil {
		s.logger.Warn("Terminate signal failed", zap.Error(err))
		return nil
	}
	s.logger.Info("Terminate signal sent", zap.Int("pid", s.pid))
	return nil
}

func (s *Session) terminate() error {
	if err := s.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return err
	}
	// The shell leads its own session and process group; signal the whole
	// group so children still holding the pty stop too.
	if err := unix.Kill(-s.pid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
		return err
	}
	return nil
}

// Completion returns the outcome without blocking
func (s *Session) Completion() Outcome {
	return Outcome(s.outcome.Load())
}

// Status returns a snapshot of the session state
func (s *Session) Status() (Status, error) {
	var st Status
	err := s.status.do(func() error {
		st = s.status.st
		return nil
	})
	if err != nil {
		return Status{Outcome: s.Completion(), PID: s.pid, StartedAt: s.StartedAt, Err: err}, err
	}
	st.Outcome = s.Completion()
	if !st.Done() {
		st.FinishedAt = time.Time{}
	}
	return st, nil
}

// Resize changes the pty dimensions
func (s *Session) Resize(rows, cols uint16) error {
	if rows == 0 || cols == 0 {
		return fmt.Errorf("invalid pty size %dx%d", rows, cols)
	}
	return s.size.do(func() error {
		if s.size.closed {
			return fmt.Errorf("session is closed: %s", s.ID)
		}
		if err := pty.Setsize(s.ptmx, &pty.Winsize{Rows: rows, Cols: cols}); err != nil {
			return err
		}
		s.size.rows, s.size.cols = rows, cols
		return nil
	})
}

// SaveLog writes the current output to a timestamped log file and returns its path.
func (s *Session) SaveLog() (string, error) {
	content, err := s.output.Snapshot()
	if err != nil {
		return "", err
	}

	path, err := s.opts.Exporter.Write(content)
	if err != nil {
		s.metrics.RecordExport("failed")
		s.logger.Error("Failed to save log", zap.Error(err))
		return "", err
	}

	s.metrics.RecordExport("ok")
	s.logger.Info("Log saved", zap.String("path", path), zap.Int("bytes", len(content)))
	return path, nil
}

// ArchiveLog writes a compressed copy of the current output.
func (s *Session) ArchiveLog(compression Compression) (string, error) {
	content, err := s.output.Snapshot()
	if err != nil {
		return "", err
	}

	path, err := s.opts.Exporter.Archive(content, compression)
	if err != nil {
		s.metrics.RecordExport("failed")
		s.logger.Error("Failed to archive log", zap.String("compression", string(compression)), zap.Error(err))
		return "", err
	}

	s.metrics.RecordExport("ok")
	s.logger.Info("Log archived", zap.String("path", path), zap.String("compression", string(compression)))
	return path, nil
}

// Info returns the public representation of the session
func (s *Session) Info() SessionInfo {
	st, _ := s.Status()
	outputLen, _ := s.output.Len()

	var rows, cols uint16
	_ = s.size.do(func() error {
		rows, cols = s.size.rows, s.size.cols
		return nil
	})

	info := SessionInfo{
		ID:         s.ID,
		PID:        s.pid,
		Rows:       int(rows),
		Cols:       int(cols),
		StartedAt:  s.StartedAt,
		FinishedAt: st.FinishedAt,
		Outcome:    st.Outcome.String(),
		ExitCode:   st.ExitCode,
		OutputLen:  outputLen,
		Active:     !st.Done(),
	}
	if st.Err != nil {
		info.Error = st.Err.Error()
	}
	return info
}

// Exited is closed once the wait task has recorded the outcome
func (s *Session) Exited() <-chan struct{} {
	return s.waitDone
}

// Drained reports whether the reader task has consumed all output
func (s *Session) Drained() bool {
	select {
	case <-s.readerDone:
		return true
	default:
		return false
	}
}

// Close stops the session and releases the pty. A running process is
// killed. Close waits for the wait task, gives the reader up to the drain
// timeout to collect remaining output, then closes the pty master and
// joins the reader. ctx bounds the whole shutdown.
func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		if s.Completion() == OutcomeUnset {
			_ = s.Kill()
		}

		select {
		case <-s.waitDone:
		case <-ctx.Done():
		}

		drain := time.NewTimer(s.opts.DrainTimeout)
		defer drain.Stop()
		select {
		case <-s.readerDone:
		case <-drain.C:
		case <-ctx.Done():
		}

		s.closeInput()
		_ = s.size.do(func() error {
			s.size.closed = true
			return nil
		})

		if err := s.ptmx.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			s.closeErr = err
		}

		select {
		case <-s.readerDone:
		case <-ctx.Done():
			if s.closeErr == nil {
				s.closeErr = ctx.Err()
			}
		}

		s.logger.Debug("Session closed", zap.Error(s.closeErr))
	})
	return s.closeErr
}
