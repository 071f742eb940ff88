package validation

import (
	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
)

// LaneTextOptions controls CheckLaneText.
type LaneTextOptions struct {
	// MaxLength rejects longer values when non-zero.
	MaxLength int
	// AllowWildcard permits '*' in addition to lanes 1-7.
	AllowWildcard bool
	// RequireFullLength demands exactly MaxLength characters.
	RequireFullLength bool
}

// CheckLaneText validates a lane string: only lanes 1-7 (and '*' when allowed),
// never the same lane twice, and within the configured length.
func CheckLaneText(value string, opts LaneTextOptions) error {
	if opts.MaxLength > 0 && len(value) > opts.MaxLength {
		return domainerrors.Validationf("must not exceed %d characters", opts.MaxLength)
	}

	var seen [8]bool
	for i := range len(value) {
		c := value[i]
		switch {
		case c == domain.Wildcard && opts.AllowWildcard:
			continue
		case c < '1' || c > '7':
			if opts.AllowWildcard {
				return domainerrors.Validation("only lanes 1-7 and * are allowed")
			}
			return domainerrors.Validation("only lanes 1-7 are allowed")
		}
		lane := c - '0'
		if seen[lane] {
			return domainerrors.Validationf("lane %c is repeated", c)
		}
		seen[lane] = true
	}

	if opts.RequireFullLength && len(value) != opts.MaxLength {
		return domainerrors.Validationf("must be exactly %d characters", opts.MaxLength)
	}
	return nil
}
