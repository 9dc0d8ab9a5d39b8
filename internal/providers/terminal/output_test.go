package terminal

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputLogReadSince(t *testing.T) {
	log := NewOutputLog()

	text, next, err := log.ReadSince(0)
	require.NoError(t, err)
	assert.Equal(t, "", text)
	assert.Equal(t, 0, next)

	require.NoError(t, log.Append("ab"))
	require.NoError(t, log.Append(""))
	require.NoError(t, log.Append("cd"))

	t.Run("from start", func(t *testing.T) {
		text, next, err := log.ReadSince(0)
		require.NoError(t, err)
		assert.Equal(t, "abcd", text)
		assert.Equal(t, 4, next)
	})

	t.Run("from middle", func(t *testing.T) {
		text, next, err := log.ReadSince(2)
		require.NoError(t, err)
		assert.Equal(t, "cd", text)
		assert.Equal(t, 4, next)
	})

	t.Run("at end", func(t *testing.T) {
		text, next, err := log.ReadSince(4)
		require.NoError(t, err)
		assert.Equal(t, "", text)
		assert.Equal(t, 4, next)
	})

	t.Run("past end keeps offset", func(t *testing.T) {
		text, next, err := log.ReadSince(10)
		require.NoError(t, err)
		assert.Equal(t, "", text)
		assert.Equal(t, 10, next)
	})

	t.Run("negative offset reads all", func(t *testing.T) {
		text, next, err := log.ReadSince(-5)
		require.NoError(t, err)
		assert.Equal(t, "abcd", text)
		assert.Equal(t, 4, next)
	})
}

func TestOutputLogSnapshotAndLen(t *testing.T) {
	log := NewOutputLog()
	require.NoError(t, log.Append("héllo"))

	content, err := log.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "héllo", content)

	n, err := log.Len()
	require.NoError(t, err)
	assert.Equal(t, len("héllo"), n)
}

// Reads chained through returned offsets partition the log: their
// concatenation equals the full content, with nothing lost or repeated.
func TestOutputLogConcurrentReadsPartition(t *testing.T) {
	log := NewOutputLog()

	const writers, lines = 4, 200
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < lines; i++ {
				assert.NoError(t, log.Append(fmt.Sprintf("w%d-%d\n", w, i)))
			}
		}(w)
	}

	stop := make(chan struct{})
	result := make(chan string)
	go func() {
		var collected strings.Builder
		offset := 0
		for {
			select {
			case <-stop:
				text, _, err := log.ReadSince(offset)
				assert.NoError(t, err)
				collected.WriteString(text)
				result <- collected.String()
				return
			default:
			}
			text, next, err := log.ReadSince(offset)
			assert.NoError(t, err)
			collected.WriteString(text)
			offset = next
		}
	}()

	wg.Wait()
	close(stop)
	collected := <-result

	content, err := log.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, content, collected)
	assert.Equal(t, writers*lines, strings.Count(content, "\n"))
}
