package domain

// Lengths of the two groups a ticket is split into.
const (
	ScratchSideLanes    = 3
	NonScratchSideLanes = 4
)

// Wildcard matches any lane in a pattern field.
const Wildcard = '*'

// SearchPattern describes a partial, possibly wildcarded layout of a ticket's
// scratch-side and non-scratch-side groups.
//
// Values should be built through pattern.NewSearchPattern so both text fields are
// validated and padded to their full lengths.
type SearchPattern struct {
	ScratchSideText           string `json:"scratchSideText" yaml:"scratchSideText" validate:"max=3,lanes"`
	IsScratchSideUnordered    bool   `json:"isScratchSideUnordered" yaml:"isScratchSideUnordered"`
	NonScratchSideText        string `json:"nonScratchSideText" yaml:"nonScratchSideText" validate:"max=4,lanes"`
	IsNonScratchSideUnordered bool   `json:"isNonScratchSideUnordered" yaml:"isNonScratchSideUnordered"`
}
