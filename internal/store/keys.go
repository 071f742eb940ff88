package store

import (
	"strings"
	"sync"

	"github.com/laneticket/atari-server/internal/domain"
)

const (
	prefixMemo = "memo:"
	keySep     = '#'
)

// keyPool provides reusable byte slices for building database keys.
var keyPool = sync.Pool{
	New: func() any {
		return make([]byte, 0, 128)
	},
}

// buildKey joins prefix and parts with keySep using a pooled buffer.
// Callers MUST call releaseKey when done with the key.
func buildKey(prefix string, parts ...string) []byte {
	buf, _ := keyPool.Get().([]byte)
	buf = append(buf[:0], prefix...)
	for i, p := range parts {
		if i > 0 {
			buf = append(buf, keySep)
		}
		buf = append(buf, p...)
	}
	return buf
}

// releaseKey returns a key buffer to the pool for reuse.
func releaseKey(key []byte) {
	if cap(key) <= 512 {
		keyPool.Put(key[:0])
	}
}

// memoKey is memo:<songId>#<difficulty>#<laneText>.
func memoKey(chart domain.ChartKey, laneText string) []byte {
	return buildKey(prefixMemo, chart.SongID, string(chart.Difficulty), laneText)
}

// chartMemoPrefix covers every memo of one chart. The trailing separator keeps
// song "a" from matching song "ab".
func chartMemoPrefix(chart domain.ChartKey) []byte {
	return append(buildKey(prefixMemo, chart.SongID, string(chart.Difficulty)), keySep)
}

func validKeyPart(s string) bool {
	return s != "" && !strings.ContainsRune(s, keySep)
}
