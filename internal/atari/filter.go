package atari

import (
	"slices"
	"strings"

	"github.com/laneticket/atari-server/internal/domain"
	"github.com/laneticket/atari-server/internal/pattern"
)

// LaneGroup counts how many tickets share one lane layout.
type LaneGroup struct {
	LaneText string `json:"laneText"`
	Count    int    `json:"count"`
}

// FilterTickets keeps the tickets matching p on side, preserving input order.
// A nil matcher uses the default SideMatcher.
func FilterTickets(tickets []domain.Ticket, p domain.SearchPattern, side domain.PlaySide, m pattern.Matcher) []domain.Ticket {
	if m == nil {
		m = pattern.NewSideMatcher(nil)
	}

	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if m.Matches(t, p, side) {
			out = append(out, t)
		}
	}
	return out
}

// GroupByLaneText collapses tickets with identical lane text, sorted by lane text.
func GroupByLaneText(tickets []domain.Ticket) []LaneGroup {
	counts := make(map[string]int, len(tickets))
	for _, t := range tickets {
		counts[t.LaneText]++
	}

	groups := make([]LaneGroup, 0, len(counts))
	for text, n := range counts {
		groups = append(groups, LaneGroup{LaneText: text, Count: n})
	}
	slices.SortFunc(groups, func(a, b LaneGroup) int {
		return strings.Compare(a.LaneText, b.LaneText)
	})
	return groups
}
