package pattern

import (
	"strings"

	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
)

// Key is the canonical string form of a search pattern.
// Structurally equal patterns share a key; different patterns never do.
type Key string

const (
	keySeparator  = "|"
	flagOrdered   = "o"
	flagUnordered = "u"
)

// EncodeKey returns the canonical key of p, e.g. "12*|u|4567|o".
// Lane text never contains the separator, so the four fields split back unambiguously.
func EncodeKey(p domain.SearchPattern) Key {
	var b strings.Builder
	b.Grow(len(p.ScratchSideText) + len(p.NonScratchSideText) + 6)
	b.WriteString(p.ScratchSideText)
	b.WriteString(keySeparator)
	b.WriteString(encodeFlag(p.IsScratchSideUnordered))
	b.WriteString(keySeparator)
	b.WriteString(p.NonScratchSideText)
	b.WriteString(keySeparator)
	b.WriteString(encodeFlag(p.IsNonScratchSideUnordered))
	return Key(b.String())
}

// DecodeKey is the inverse of EncodeKey.
// It returns a validation error for strings EncodeKey could not have produced.
func DecodeKey(key Key) (domain.SearchPattern, error) {
	parts := strings.Split(string(key), keySeparator)
	if len(parts) != 4 {
		return domain.SearchPattern{}, domainerrors.Validationf("malformed pattern key %q", key)
	}

	scratchUnordered, ok := decodeFlag(parts[1])
	if !ok {
		return domain.SearchPattern{}, domainerrors.Validationf("malformed scratch flag in pattern key %q", key)
	}
	nonScratchUnordered, ok := decodeFlag(parts[3])
	if !ok {
		return domain.SearchPattern{}, domainerrors.Validationf("malformed non-scratch flag in pattern key %q", key)
	}

	return domain.SearchPattern{
		ScratchSideText:           parts[0],
		IsScratchSideUnordered:    scratchUnordered,
		NonScratchSideText:        parts[2],
		IsNonScratchSideUnordered: nonScratchUnordered,
	}, nil
}

func encodeFlag(unordered bool) string {
	if unordered {
		return flagUnordered
	}
	return flagOrdered
}

func decodeFlag(s string) (unordered, ok bool) {
	switch s {
	case flagUnordered:
		return true, true
	case flagOrdered:
		return false, true
	default:
		return false, false
	}
}
