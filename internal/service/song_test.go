package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
	"github.com/laneticket/atari-server/internal/validation"
)

func testSong(songID, title string, d domain.Difficulty, level int) domain.Song {
	return domain.Song{
		ID:          songID + "-" + string(d),
		SongID:      songID,
		Title:       title,
		Version:     30,
		VersionName: "RESIDENT",
		URL:         "https://textage.cc/score/" + songID,
		Difficulty:  d,
		Level:       level,
		Notes:       1200,
		BPM:         domain.BPMRange{Min: 140, Max: 160},
	}
}

// testSongs lines up with testRules: song-a SPA and song-b SPH have rules.
func testSongs() []domain.Song {
	return []domain.Song{
		testSong("song-a", "Song A", domain.DifficultyAnother, 12),
		testSong("song-a", "Song A", domain.DifficultyHyper, 10),
		testSong("song-b", "Song B", domain.DifficultyHyper, 9),
		testSong("song-c", "Other", domain.DifficultyNormal, 4),
	}
}

func newTestSongService(t *testing.T, path string) *SongService {
	t.Helper()
	return NewSongService(path, newTestAtariService(t), validation.New(), testLogger())
}

func songIDs(views []SongView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func TestSongService_Search(t *testing.T) {
	svc := newTestSongService(t, "")
	_, err := svc.Replace(testSongs())
	require.NoError(t, err)

	tests := []struct {
		name  string
		query SongQuery
		want  []string
	}{
		{"no filter", SongQuery{}, []string{"song-c-spn", "song-a-sph", "song-a-spa", "song-b-sph"}},
		{"title", SongQuery{Title: "song"}, []string{"song-a-sph", "song-a-spa", "song-b-sph"}},
		{"difficulty", SongQuery{Difficulties: []domain.Difficulty{domain.DifficultyHyper}}, []string{"song-a-sph", "song-b-sph"}},
		{"level", SongQuery{Levels: []int{4, 12}}, []string{"song-c-spn", "song-a-spa"}},
		{"only with atari", SongQuery{OnlyWithAtari: true}, []string{"song-a-spa", "song-b-sph"}},
		{"combined", SongQuery{Title: "a", OnlyWithAtari: true, Levels: []int{12}}, []string{"song-a-spa"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Search(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, songIDs(res.Songs))
			assert.Equal(t, len(tt.want), res.Total)
		})
	}
}

func TestSongService_Search_RuleCount(t *testing.T) {
	svc := newTestSongService(t, "")
	_, err := svc.Replace(testSongs())
	require.NoError(t, err)

	res, err := svc.Search(context.Background(), SongQuery{Title: "Song A"})
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, v := range res.Songs {
		counts[v.ID] = v.RuleCount
	}
	assert.Equal(t, map[string]int{"song-a-spa": 2, "song-a-sph": 0}, counts)
	assert.Equal(t, svc.Stats().Version, res.Version)
	assert.Equal(t, svc.atari.Snapshot().Version, res.RulesVersion)
}

func TestSongService_Search_Invalid(t *testing.T) {
	svc := newTestSongService(t, "")

	_, err := svc.Search(context.Background(), SongQuery{
		Difficulties: []domain.Difficulty{"dpa"},
		Levels:       []int{0, 13},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	var domainErr *domainerrors.Error
	require.True(t, domainerrors.As(err, &domainErr))
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "difficulty[0]")
	assert.Contains(t, details, "level[0]")
	assert.Contains(t, details, "level[1]")
}

func TestSongService_Summaries(t *testing.T) {
	svc := newTestSongService(t, "")
	_, err := svc.Replace(testSongs())
	require.NoError(t, err)

	sums, err := svc.Summaries(context.Background(), SongQuery{Title: "song"})
	require.NoError(t, err)
	require.Len(t, sums, 2)

	assert.Equal(t, "song-a", sums[0].SongID)
	assert.Contains(t, sums[0].Charts, domain.DifficultyAnother)
	assert.Contains(t, sums[0].Charts, domain.DifficultyHyper)
	assert.Equal(t, "song-b", sums[1].SongID)
}

func TestSongService_Song(t *testing.T) {
	svc := newTestSongService(t, "")
	_, err := svc.Replace(testSongs())
	require.NoError(t, err)

	detail, err := svc.Song(context.Background(), "song-a")
	require.NoError(t, err)
	assert.Equal(t, "Song A", detail.Title)
	require.Len(t, detail.Charts, 2)

	rulesByChart := make(map[domain.Difficulty][]string)
	for _, c := range detail.Charts {
		assert.NotNil(t, c.Rules)
		rulesByChart[c.Difficulty] = ruleIDs(c.Rules)
	}
	assert.Equal(t, []string{"r-hi", "r-lo"}, rulesByChart[domain.DifficultyAnother])
	assert.Empty(t, rulesByChart[domain.DifficultyHyper])

	_, err = svc.Song(context.Background(), "missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestSongService_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.yaml")
	write := func(title string) {
		data := "- id: song-a-spa\n" +
			"  songId: song-a\n" +
			"  title: " + title + "\n" +
			"  version: 30\n" +
			"  url: https://textage.cc/score/a\n" +
			"  difficulty: spa\n" +
			"  level: 12\n" +
			"  notes: 1500\n" +
			"  bpm: {min: 150, max: 150}\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	}
	write("Song A")

	svc := newTestSongService(t, path)
	assert.Equal(t, 0, svc.Stats().Charts)

	stats, changed, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, stats.Charts)
	assert.Equal(t, 1, stats.Songs)

	_, changed, err = svc.Reload(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)

	write("Song A (remix)")
	next, changed, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotEqual(t, stats.Version, next.Version)
	assert.Equal(t, "Song A (remix)", svc.Catalog().Songs[0].Title)
}

func TestSongService_Reload_Errors(t *testing.T) {
	t.Run("no path", func(t *testing.T) {
		_, _, err := newTestSongService(t, "").Reload(context.Background())
		assert.ErrorIs(t, err, domainerrors.ErrUnavailable)
	})

	t.Run("invalid file keeps catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "songs.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"id": "x"}]`), 0o644))

		svc := newTestSongService(t, path)
		_, err := svc.Replace(testSongs())
		require.NoError(t, err)

		_, _, err = svc.Reload(context.Background())
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
		assert.Equal(t, 4, svc.Stats().Charts)
	})
}
