package domain

// HighlightColor is the visual priority tier derived from a ticket's matches.
// The zero value means no rule matched.
type HighlightColor string

// Highlight tiers.
const (
	HighlightNone   HighlightColor = ""
	HighlightBronze HighlightColor = "bronze"
	HighlightSilver HighlightColor = "silver"
	HighlightGold   HighlightColor = "gold"
)

// Rank orders tiers: gold > silver > bronze > none.
func (c HighlightColor) Rank() int {
	switch c {
	case HighlightGold:
		return 3
	case HighlightSilver:
		return 2
	case HighlightBronze:
		return 1
	default:
		return 0
	}
}
