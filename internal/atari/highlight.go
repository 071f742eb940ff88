package atari

import "github.com/laneticket/atari-server/internal/domain"

// Tier thresholds. Reaching either the priority or the count threshold is enough.
const (
	GoldMinPriority   = 5
	GoldMinMatches    = 5
	SilverMinPriority = 2
	SilverMinMatches  = 3
)

// Classify maps matched rules to a highlight tier. An empty list yields HighlightNone.
func Classify(matched []domain.AtariRule) domain.HighlightColor {
	if len(matched) == 0 {
		return domain.HighlightNone
	}

	maxPriority := 0
	for _, r := range matched {
		maxPriority = max(maxPriority, r.Priority)
	}
	count := len(matched)

	switch {
	case maxPriority >= GoldMinPriority || count >= GoldMinMatches:
		return domain.HighlightGold
	case maxPriority >= SilverMinPriority || count >= SilverMinMatches:
		return domain.HighlightSilver
	default:
		return domain.HighlightBronze
	}
}
