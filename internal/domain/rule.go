package domain

// Difficulty identifies a single-play chart difficulty.
type Difficulty string

// Chart difficulties.
const (
	DifficultyBeginner    Difficulty = "spb"
	DifficultyNormal      Difficulty = "spn"
	DifficultyHyper       Difficulty = "sph"
	DifficultyAnother     Difficulty = "spa"
	DifficultyLeggendaria Difficulty = "spl"
)

// Difficulties lists every difficulty in display order.
var Difficulties = []Difficulty{
	DifficultyBeginner,
	DifficultyNormal,
	DifficultyHyper,
	DifficultyAnother,
	DifficultyLeggendaria,
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyNormal, DifficultyHyper, DifficultyAnother, DifficultyLeggendaria:
		return true
	default:
		return false
	}
}

// Label returns the upper-case display label (e.g. "SPA").
func (d Difficulty) Label() string {
	b := []byte(d)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// AtariRule declares that certain ticket layouts are favorable for one chart.
// A rule is hit by a ticket when any of its patterns matches.
// Priority is used for ranking only; higher is more significant.
type AtariRule struct {
	ID          string          `json:"id" yaml:"id" validate:"required"`
	SongID      string          `json:"songId" yaml:"songId" validate:"required"`
	Difficulty  Difficulty      `json:"difficulty" yaml:"difficulty" validate:"required,difficulty"`
	Title       string          `json:"title" yaml:"title" validate:"required"`
	URL         string          `json:"url" yaml:"url" validate:"required,url"`
	Priority    int             `json:"priority" yaml:"priority"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Patterns    []SearchPattern `json:"patterns" yaml:"patterns" validate:"dive"`
}

// Chart returns the chart this rule is defined for.
func (r *AtariRule) Chart() ChartKey {
	return ChartKey{SongID: r.SongID, Difficulty: r.Difficulty}
}

// ChartKey identifies one chart: a song at a difficulty.
type ChartKey struct {
	SongID     string     `json:"songId"`
	Difficulty Difficulty `json:"difficulty"`
}

// String returns the "songId#difficulty" form used as a storage key.
func (k ChartKey) String() string {
	return k.SongID + "#" + string(k.Difficulty)
}
