package terminal

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Boo15mario/linutil-gui/internal/types"
)

// Manager tracks running and finished sessions by ID
type Manager struct {
	sessions sync.Map // map[string]*Session
	opts     Options
}

// NewManager creates a session manager; opts is used for every Spawn
func NewManager(opts Options) *Manager {
	return &Manager{opts: opts.withDefaults()}
}

// Run composes actions into one script and spawns it
func (m *Manager) Run(actions []types.Action) (*Session, error) {
	return m.Spawn(ComposeScript(actions))
}

// Spawn starts script in a new session and registers it
func (m *Manager) Spawn(script string) (*Session, error) {
	session, err := Spawn(script, m.opts)
	if err != nil {
		return nil, err
	}
	m.sessions.Store(session.ID, session)
	return session, nil
}

// Get returns a registered session
func (m *Manager) Get(sessionID string) (*Session, error) {
	value, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return value.(*Session), nil
}

// List returns info for all sessions, oldest first
func (m *Manager) List() []SessionInfo {
	sessions := []SessionInfo{}
	m.sessions.Range(func(_, value interface{}) bool {
		sessions = append(sessions, value.(*Session).Info())
		return true
	})

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ID < sessions[j].ID
	})
	return sessions
}

// Remove closes a session and forgets it
func (m *Manager) Remove(ctx context.Context, sessionID string) error {
	value, ok := m.sessions.LoadAndDelete(sessionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return value.(*Session).Close(ctx)
}

// CloseAll closes every session. Sessions close in parallel; the first
// error is returned.
func (m *Manager) CloseAll(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	m.sessions.Range(func(key, value interface{}) bool {
		m.sessions.Delete(key)
		session := value.(*Session)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := session.Close(ctx); err != nil {
				m.opts.Logger.Warn("Failed to close session",
					zap.String("session_id", session.ID),
					zap.Error(err),
				)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
		return true
	})

	wg.Wait()
	return firstErr
}
