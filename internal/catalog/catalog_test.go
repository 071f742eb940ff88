package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
	"github.com/laneticket/atari-server/internal/ruleset"
)

func song(songID, title string, d domain.Difficulty, level int) domain.Song {
	return domain.Song{
		ID:          songID + "-" + string(d),
		SongID:      songID,
		Title:       title,
		Version:     30,
		VersionName: "RESIDENT",
		URL:         "https://textage.cc/score/" + songID,
		Difficulty:  d,
		Level:       level,
		Notes:       1500,
		BPM:         domain.BPMRange{Min: 150, Max: 150},
	}
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	songs := []domain.Song{
		song("s-gamma", "Gamma", domain.DifficultyAnother, 12),
		song("s-alpha", "alpha", domain.DifficultyLeggendaria, 12),
		song("s-alpha", "alpha", domain.DifficultyHyper, 10),
		song("s-fly", "Ｆｌｙ Ａｂｏｖｅ", domain.DifficultyAnother, 11),
		song("s-beta", "Beta", domain.DifficultyNormal, 5),
	}
	songs[3].VersionName = "EPOLIS"
	c, err := New(songs)
	require.NoError(t, err)
	return c
}

func ids(songs []domain.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = s.ID
	}
	return out
}

func TestNew_SortsByTitleThenDifficulty(t *testing.T) {
	c := testCatalog(t)

	assert.Equal(t, []string{"s-alpha-sph", "s-alpha-spl", "s-beta-spn", "s-fly-spa", "s-gamma-spa"}, ids(c.Songs))
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, 4, c.SongCount())
	assert.Len(t, c.Version, 64)
}

func TestSearch(t *testing.T) {
	c := testCatalog(t)
	withRules := func(k domain.ChartKey) bool {
		return k == domain.ChartKey{SongID: "s-gamma", Difficulty: domain.DifficultyAnother}
	}

	tests := []struct {
		name     string
		query    Query
		hasRules func(domain.ChartKey) bool
		want     []string
	}{
		{"no filter", Query{}, nil, []string{"s-alpha-sph", "s-alpha-spl", "s-beta-spn", "s-fly-spa", "s-gamma-spa"}},
		{"title case-insensitive", Query{Title: "ALPHA"}, nil, []string{"s-alpha-sph", "s-alpha-spl"}},
		{"full-width title", Query{Title: "fly above"}, nil, []string{"s-fly-spa"}},
		{"version", Query{Version: "epo"}, nil, []string{"s-fly-spa"}},
		{"difficulties", Query{Difficulties: []domain.Difficulty{domain.DifficultyAnother}}, nil, []string{"s-fly-spa", "s-gamma-spa"}},
		{"levels", Query{Levels: []int{10, 11}}, nil, []string{"s-alpha-sph", "s-fly-spa"}},
		{"only with atari", Query{OnlyWithAtari: true}, withRules, []string{"s-gamma-spa"}},
		{"only with atari without rules func", Query{OnlyWithAtari: true, Levels: []int{12}}, nil, []string{"s-alpha-spl", "s-gamma-spa"}},
		{"nothing", Query{Title: "zzz"}, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(c.Search(tt.query, tt.hasRules)))
		})
	}
}

func TestChartAndSong(t *testing.T) {
	c := testCatalog(t)

	s, ok := c.Chart(domain.ChartKey{SongID: "s-alpha", Difficulty: domain.DifficultyHyper})
	require.True(t, ok)
	assert.Equal(t, 10, s.Level)

	_, ok = c.Chart(domain.ChartKey{SongID: "s-alpha", Difficulty: domain.DifficultyAnother})
	assert.False(t, ok)

	assert.Equal(t, []string{"s-alpha-sph", "s-alpha-spl"}, ids(c.Song("s-alpha")))
	assert.Nil(t, c.Song("nope"))
}

func TestSummarize(t *testing.T) {
	c := testCatalog(t)

	rows := Summarize(c.Songs)
	require.Len(t, rows, 3, "the normal-only song has no summary difficulty")
	assert.Equal(t, "s-alpha", rows[0].SongID)
	assert.Len(t, rows[0].Charts, 2)
	assert.Equal(t, 12, rows[0].Charts[domain.DifficultyLeggendaria].Level)
	assert.Equal(t, "s-fly", rows[1].SongID)
	assert.Equal(t, "s-gamma", rows[2].SongID)
}

func TestParse(t *testing.T) {
	yamlSongs := `
- id: s1-spa
  songId: s1
  title: Song One
  version: 31
  url: https://textage.cc/score/s1
  difficulty: spa
  level: 12
  notes: 2000
  bpm: {min: 100, max: 200}
`
	songs, err := Parse([]byte(yamlSongs), ruleset.FormatYAML)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "Song One", songs[0].TitleNormalized, "falls back to the title")
	assert.Equal(t, 200.0, songs[0].BPM.Max)
}

func TestParse_Errors(t *testing.T) {
	valid := `{"id": "s1-spa", "songId": "s1", "title": "T", "version": 1, "url": "https://x.example/s1",
	  "difficulty": "spa", "level": 12, "notes": 10, "bpm": {"min": 100, "max": 100}}`

	tests := []struct {
		name  string
		input string
		code  domainerrors.Code
		field string
	}{
		{"empty", "  ", domainerrors.CodeInvalidInput, ""},
		{"not json", "{", domainerrors.CodeInvalidInput, ""},
		{"bad level", `[{"id": "a", "songId": "s", "title": "T", "url": "https://x.example", "difficulty": "spa", "level": 13, "notes": 1, "bpm": {"min": 1, "max": 1}}]`, domainerrors.CodeValidation, "songs[0].level"},
		{"bad difficulty", `[{"id": "a", "songId": "s", "title": "T", "url": "https://x.example", "difficulty": "dpa", "level": 3, "notes": 1, "bpm": {"min": 1, "max": 1}}]`, domainerrors.CodeValidation, "songs[0].difficulty"},
		{"bpm reversed", `[{"id": "a", "songId": "s", "title": "T", "url": "https://x.example", "difficulty": "spa", "level": 3, "notes": 1, "bpm": {"min": 200, "max": 100}}]`, domainerrors.CodeValidation, "songs[0].bpm.max"},
		{"duplicate id", "[" + valid + "," + valid + "]", domainerrors.CodeValidation, "songs[1].id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), ruleset.FormatJSON)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.True(t, domainerrors.As(err, &domainErr))
			assert.Equal(t, tt.code, domainErr.Code)
			if tt.field != "" {
				assert.Contains(t, domainErr.Details, tt.field)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "songs.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`[
	  // comments are allowed in .jsonc
	  {"id": "s1-sph", "songId": "s1", "title": "T", "version": 1, "url": "https://x.example/s1",
	   "difficulty": "sph", "level": 10, "notes": 10, "bpm": {"min": 100, "max": 100}},
	]`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Version, again.Version)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnavailable))
}

func TestEmpty(t *testing.T) {
	c := Empty()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Search(Query{}, nil))
}
