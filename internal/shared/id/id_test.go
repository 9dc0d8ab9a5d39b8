package id

import (
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUnique(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	assert.NotEqual(t, id1.String(), id2.String())
	assert.Len(t, id1.String(), 26)
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	value := gen.GenerateWithPrefix(RunPrefix)
	require.True(t, strings.HasPrefix(value, "run_"), value)

	parts := strings.Split(value, "_")
	require.Len(t, parts, 2)
	_, err := ParseSessionID(value)
	assert.NoError(t, err)
}

func TestNewSessionID(t *testing.T) {
	sessID := NewSessionID()

	assert.True(t, strings.HasPrefix(sessID.String(), "run_"))
	_, err := ParseSessionID(sessID.String())
	assert.NoError(t, err)
}

func TestSessionIDTimestamp(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	gen := NewGeneratorWithEntropy(rand.New(rand.NewSource(1)), func() time.Time { return fixed })

	sessID := SessionID(gen.GenerateWithPrefix(RunPrefix))
	ts, err := sessID.Timestamp()
	require.NoError(t, err)
	assert.True(t, fixed.Equal(ts), "got %s", ts)
}

func TestParseSessionIDRejectsMissingPrefix(t *testing.T) {
	_, err := ParseSessionID(NewGenerator().Generate().String())
	assert.Error(t, err)

	_, err = ParseSessionID("run_not-a-ulid")
	assert.Error(t, err)
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()
	const workers, perWorker = 8, 100

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				value := gen.GenerateWithPrefix(RunPrefix)
				mu.Lock()
				seen[value] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
