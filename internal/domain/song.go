package domain

// BPMRange is the tempo span of a chart. Min equals Max for constant-tempo charts.
type BPMRange struct {
	Min float64 `json:"min" yaml:"min" validate:"gt=0"`
	Max float64 `json:"max" yaml:"max" validate:"gtefield=Min"`
}

// Song is one chart of the song catalog: a song at a single difficulty.
// ID is unique per chart ("<songId>-<difficulty>"); SongID is shared by all
// difficulties of the song and matches AtariRule.SongID.
type Song struct {
	ID              string     `json:"id" yaml:"id" validate:"required"`
	SongID          string     `json:"songId" yaml:"songId" validate:"required"`
	Title           string     `json:"title" yaml:"title" validate:"required"`
	TitleNormalized string     `json:"titleNormalized,omitempty" yaml:"titleNormalized,omitempty"`
	Artist          string     `json:"artist" yaml:"artist"`
	Genre           string     `json:"genre" yaml:"genre"`
	Version         int        `json:"version" yaml:"version" validate:"min=-1"`
	VersionName     string     `json:"versionName,omitempty" yaml:"versionName,omitempty"`
	URL             string     `json:"url" yaml:"url" validate:"required,url"`
	Difficulty      Difficulty `json:"difficulty" yaml:"difficulty" validate:"required,difficulty"`
	Level           int        `json:"level" yaml:"level" validate:"min=1,max=12"`
	Notes           int        `json:"notes" yaml:"notes" validate:"gt=0"`
	BPM             BPMRange   `json:"bpm" yaml:"bpm"`
}

// Chart returns the chart key shared with the rules of this song and difficulty.
func (s *Song) Chart() ChartKey {
	return ChartKey{SongID: s.SongID, Difficulty: s.Difficulty}
}

// SongSummary collapses the main difficulties of one song into a single row.
type SongSummary struct {
	SongID      string              `json:"songId"`
	Title       string              `json:"title"`
	VersionName string              `json:"versionName,omitempty"`
	Charts      map[Difficulty]Song `json:"charts"`
}
