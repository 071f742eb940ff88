package domain

import "time"

// Memo is a player's note of the lane layout they use for a chart.
type Memo struct {
	SongID     string     `json:"songId"`
	Difficulty Difficulty `json:"difficulty"`
	LaneText   string     `json:"laneText"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Chart returns the chart the memo belongs to.
func (m *Memo) Chart() ChartKey {
	return ChartKey{SongID: m.SongID, Difficulty: m.Difficulty}
}

// Touch updates the UpdatedAt timestamp.
func (m *Memo) Touch() {
	m.UpdatedAt = time.Now()
}
