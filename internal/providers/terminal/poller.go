package terminal

import (
	"context"
	"time"
)

// DefaultPollInterval is how often Watch samples a session
const DefaultPollInterval = 50 * time.Millisecond

// Sink receives the output of a watched session
type Sink interface {
	// Output is called with each new piece of output, in order.
	Output(text string)
	// Finished is called once, after the last Output.
	Finished(status Status)
}

// Watch polls s every interval, forwarding new output to sink until the
// process has exited and its output is drained. Output produced right before
// exit may arrive after completion is observed, so Watch keeps reading for
// up to the session's drain timeout before reporting Finished.
//
// When ctx ends first, Watch returns the current status and ctx.Err()
// without calling Finished.
func Watch(ctx context.Context, s *Session, sink Sink, interval time.Duration) (Status, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	offset := 0
	forward := func() error {
		text, next, err := s.ReadSince(offset)
		if err != nil {
			return err
		}
		offset = next
		if text != "" {
			sink.Output(text)
		}
		return nil
	}

	var drainDeadline time.Time
	for {
		select {
		case <-ctx.Done():
			st, _ := s.Status()
			return st, ctx.Err()
		case <-ticker.C:
		}

		if err := forward(); err != nil {
			return Status{}, err
		}
		if s.Completion() == OutcomeUnset {
			continue
		}

		if drainDeadline.IsZero() {
			drainDeadline = time.Now().Add(s.opts.DrainTimeout)
		}
		if !s.Drained() && time.Now().Before(drainDeadline) {
			continue
		}

		if err := forward(); err != nil {
			return Status{}, err
		}
		st, err := s.Status()
		sink.Finished(st)
		return st, err
	}
}
