package ruleset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
)

const jsonRules = `[
  {
    "id": "r1",
    "songId": "fly-above",
    "difficulty": "spa",
    "title": "Left stairs",
    "url": "https://example.com/r1",
    "priority": 3,
    "patterns": [
      {"scratchSideText": "12", "isScratchSideUnordered": true, "nonScratchSideText": "", "isNonScratchSideUnordered": false}
    ]
  }
]`

const jsoncRules = `[
  // comments and trailing commas are allowed
  {
    "id": "r1",
    "songId": "fly-above",
    "difficulty": "spa",
    "title": "Left stairs",
    "url": "https://example.com/r1",
    "priority": 3,
    "patterns": [
      {"scratchSideText": "12", "isScratchSideUnordered": true, "nonScratchSideText": "", "isNonScratchSideUnordered": false,},
    ],
  },
]`

const yamlRules = `
- id: r1
  songId: fly-above
  difficulty: spa
  title: Left stairs
  url: https://example.com/r1
  priority: 3
  patterns:
    - scratchSideText: "12"
      isScratchSideUnordered: true
      nonScratchSideText: ""
      isNonScratchSideUnordered: false
`

func TestParse_Formats(t *testing.T) {
	want := []domain.AtariRule{{
		ID:         "r1",
		SongID:     "fly-above",
		Difficulty: domain.DifficultyAnother,
		Title:      "Left stairs",
		URL:        "https://example.com/r1",
		Priority:   3,
		Patterns: []domain.SearchPattern{{
			ScratchSideText:        "12*",
			IsScratchSideUnordered: true,
			NonScratchSideText:     "****",
		}},
	}}

	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"json", jsonRules, FormatJSON},
		{"jsonc", jsoncRules, FormatJSONC},
		{"yaml", yamlRules, FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data), tt.format)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParse_EmptyArray(t *testing.T) {
	rules, err := Parse([]byte("[]"), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"empty", "  \n", FormatJSON},
		{"not json", "{", FormatJSON},
		{"object instead of array", `{"id":"r1"}`, FormatJSON},
		{"yaml mapping", "id: r1", FormatYAML},
		{"unknown format", "[]", Format("toml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
		})
	}
}

func TestParse_ValidationDetails(t *testing.T) {
	data := `[
	  {"id": "ok", "songId": "s", "difficulty": "spa", "title": "t", "url": "https://example.com", "priority": 1, "patterns": []},
	  {"id": "bad", "songId": "s", "difficulty": "dpa", "title": "t", "url": "https://example.com", "priority": 1,
	   "patterns": [{"scratchSideText": "11", "isScratchSideUnordered": false, "nonScratchSideText": "", "isNonScratchSideUnordered": false}]}
	]`

	_, err := Parse([]byte(data), FormatJSON)
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "rules[1].difficulty")
	assert.Contains(t, details, "rules[1].patterns[0].scratchSideText")
	assert.NotContains(t, details, "rules[0].id")
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("rules.json"))
	assert.Equal(t, FormatJSONC, FormatFromPath("/etc/atari/rules.JSONC"))
	assert.Equal(t, FormatYAML, FormatFromPath("rules.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("rules.yaml"))
	assert.Equal(t, FormatJSON, FormatFromPath("rules"))
}

func TestFingerprint(t *testing.T) {
	a, err := Parse([]byte(jsonRules), FormatJSON)
	require.NoError(t, err)
	b, err := Parse([]byte(yamlRules), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.Len(t, Fingerprint(a), 64)

	b[0].Priority++
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
	assert.Equal(t, Fingerprint(nil), Fingerprint([]domain.AtariRule{}))
}
