// Package id provides ULID-based identifiers for linutil.
//
// IDs are prefixed by kind (run_*) so they read well in logs, and the ULID
// part keeps them sortable by creation time.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID identifies a running process session
type SessionID string

// RunPrefix is the prefix of session IDs
const RunPrefix = "run"

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
	now       func() time.Time
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source
// Useful for testing with deterministic entropy
func NewGeneratorWithEntropy(entropy io.Reader, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		entropy: entropy,
		now:     now,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewSessionID generates a new session ID
func NewSessionID() SessionID {
	return SessionID(Default().GenerateWithPrefix(RunPrefix))
}

func (id SessionID) String() string { return string(id) }

// Timestamp returns the creation time encoded in the session ID
func (id SessionID) Timestamp() (time.Time, error) {
	parsed, err := ParseSessionID(string(id))
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}

// ParseSessionID validates a prefixed session ID and returns its ULID part
func ParseSessionID(s string) (ulid.ULID, error) {
	raw, ok := strings.CutPrefix(s, RunPrefix+"_")
	if !ok {
		return ulid.ULID{}, fmt.Errorf("session id %q: missing %s_ prefix", s, RunPrefix)
	}
	return ulid.Parse(raw)
}
