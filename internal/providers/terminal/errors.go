package terminal

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrSpawnFailed is returned when the pty cannot be allocated or the shell cannot start.
	ErrSpawnFailed = errors.New("spawn failed")
	// ErrWaitFailed is reported through Status when waiting on the child fails at the OS level.
	ErrWaitFailed = errors.New("wait failed")
	// ErrDeliveryFailed is returned when input cannot be written to the pty.
	ErrDeliveryFailed = errors.New("input delivery failed")
	// ErrStreamClosed marks the normal end of the output stream. It never escapes the reader.
	ErrStreamClosed = errors.New("output stream closed")
	// ErrIO is returned when a log export cannot be written.
	ErrIO = errors.New("log export failed")
	// ErrInternalStateCorrupted is returned when a guarded cell was poisoned by a panic.
	ErrInternalStateCorrupted = errors.New("internal state corrupted")
	// ErrSessionNotFound is returned by the manager for unknown session IDs.
	ErrSessionNotFound = errors.New("session not found")
)

// guard is a mutex that poisons itself when a critical section panics.
// Once poisoned every later call fails with ErrInternalStateCorrupted while
// the rest of the session keeps working.
type guard struct {
	mu       sync.Mutex
	poisoned bool
}

func (g *guard) do(fn func() error) (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.poisoned {
		return ErrInternalStateCorrupted
	}

	defer func() {
		if r := recover(); r != nil {
			g.poisoned = true
			err = fmt.Errorf("%w: %v", ErrInternalStateCorrupted, r)
		}
	}()

	return fn()
}

// isPoisoned reports whether a previous critical section panicked
func (g *guard) isPoisoned() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.poisoned
}
