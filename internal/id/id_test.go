package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		got, err := Generate(PrefixTicket)
		require.NoError(t, err)

		prefix, rest, ok := strings.Cut(got, "-")
		require.True(t, ok)
		assert.Equal(t, PrefixTicket, prefix)
		assert.Len(t, rest, 21)
		assert.False(t, seen[got], "duplicate id %s", got)
		seen[got] = true
	}
}

func TestNewBatchID(t *testing.T) {
	a, b := NewBatchID(), NewBatchID()

	_, err := uuid.Parse(a)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func BenchmarkGenerate(b *testing.B) {
	for b.Loop() {
		_, _ = Generate(PrefixTicket)
	}
}
