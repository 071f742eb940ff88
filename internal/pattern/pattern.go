// Package pattern builds, canonicalizes and evaluates search patterns against lane tickets.
package pattern

import (
	"strings"

	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
	"github.com/laneticket/atari-server/internal/validation"
)

// Form is a pattern as entered by a user: fields may be short and flags may be unset.
type Form struct {
	ScratchSideText           string `json:"scratchSideText,omitempty" validate:"max=3,lanes"`
	IsScratchSideUnordered    *bool  `json:"isScratchSideUnordered,omitempty"`
	NonScratchSideText        string `json:"nonScratchSideText,omitempty" validate:"max=4,lanes"`
	IsNonScratchSideUnordered *bool  `json:"isNonScratchSideUnordered,omitempty"`
}

// Normalize turns a form into a full pattern. Missing flags default to unordered and
// short fields are padded with wildcards.
func Normalize(f Form) (domain.SearchPattern, error) {
	return NewSearchPattern(
		f.ScratchSideText, boolOr(f.IsScratchSideUnordered, true),
		f.NonScratchSideText, boolOr(f.IsNonScratchSideUnordered, true),
	)
}

// NewSearchPattern validates both fields and pads them with '*' to their full lengths.
func NewSearchPattern(scratch string, scratchUnordered bool, nonScratch string, nonScratchUnordered bool) (domain.SearchPattern, error) {
	if err := validation.CheckLaneText(scratch, validation.LaneTextOptions{
		MaxLength:     domain.ScratchSideLanes,
		AllowWildcard: true,
	}); err != nil {
		return domain.SearchPattern{}, domainerrors.ValidationWithDetails("invalid pattern", map[string]string{
			"scratchSideText": err.Error(),
		})
	}
	if err := validation.CheckLaneText(nonScratch, validation.LaneTextOptions{
		MaxLength:     domain.NonScratchSideLanes,
		AllowWildcard: true,
	}); err != nil {
		return domain.SearchPattern{}, domainerrors.ValidationWithDetails("invalid pattern", map[string]string{
			"nonScratchSideText": err.Error(),
		})
	}

	return domain.SearchPattern{
		ScratchSideText:           pad(scratch, domain.ScratchSideLanes),
		IsScratchSideUnordered:    scratchUnordered,
		NonScratchSideText:        pad(nonScratch, domain.NonScratchSideLanes),
		IsNonScratchSideUnordered: nonScratchUnordered,
	}, nil
}

// Canonical re-validates and pads an already decoded pattern, e.g. one read from a rule file.
func Canonical(p domain.SearchPattern) (domain.SearchPattern, error) {
	return NewSearchPattern(p.ScratchSideText, p.IsScratchSideUnordered, p.NonScratchSideText, p.IsNonScratchSideUnordered)
}

// MatchesAll reports whether the pattern accepts every ticket regardless of side.
func MatchesAll(p domain.SearchPattern) bool {
	return isWildcardOnly(p.ScratchSideText) && isWildcardOnly(p.NonScratchSideText)
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(string(domain.Wildcard), n-len(s))
}

func isWildcardOnly(s string) bool {
	return strings.Trim(s, string(domain.Wildcard)) == ""
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
