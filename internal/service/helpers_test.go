package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laneticket/atari-server/internal/domain"
	"github.com/laneticket/atari-server/internal/ruleset"
	"github.com/laneticket/atari-server/internal/store"
	"github.com/laneticket/atari-server/internal/store/sqlite"
	"github.com/laneticket/atari-server/internal/validation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func boolPtr(b bool) *bool { return &b }

// testRules covers both play sides:
//   - r-hi: scratch side lanes 1 and 2 in any order (priority 5)
//   - r-lo: scratch side starts with 1 (priority 1)
//   - r-7:  scratch side starts with 7 (priority 2)
func testRules() []domain.AtariRule {
	return []domain.AtariRule{
		{
			ID: "r-hi", SongID: "song-a", Difficulty: domain.DifficultyAnother, Title: "Song A",
			URL: "https://example.com/a", Priority: 5,
			Patterns: []domain.SearchPattern{{ScratchSideText: "12", IsScratchSideUnordered: true}},
		},
		{
			ID: "r-lo", SongID: "song-a", Difficulty: domain.DifficultyAnother, Title: "Song A easy",
			URL: "https://example.com/a2", Priority: 1,
			Patterns: []domain.SearchPattern{{ScratchSideText: "1"}},
		},
		{
			ID: "r-7", SongID: "song-b", Difficulty: domain.DifficultyHyper, Title: "Song B",
			URL: "https://example.com/b", Priority: 2,
			Patterns: []domain.SearchPattern{{ScratchSideText: "7"}},
		},
	}
}

func newTestRegistry(t *testing.T, rules []domain.AtariRule) *ruleset.Registry {
	t.Helper()
	reg := ruleset.NewRegistry(testLogger(), ruleset.Options{})
	_, err := reg.Replace(context.Background(), rules)
	require.NoError(t, err)
	return reg
}

func newTestAtariService(t *testing.T) *AtariService {
	t.Helper()
	return NewAtariService(newTestRegistry(t, testRules()), validation.New(), testLogger())
}

func newTestTicketService(t *testing.T) *TicketService {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "tickets.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewTicketService(db, newTestAtariService(t), validation.New(), testLogger())
}

func newTestMemoStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(t.TempDir(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}
