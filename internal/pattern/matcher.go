package pattern

import (
	"fmt"
	"strings"

	"github.com/laneticket/atari-server/internal/domain"
)

// Matcher decides whether a ticket satisfies a pattern for a play side.
// Implementations must be pure and total: no I/O, no panics on valid input.
type Matcher interface {
	Matches(ticket domain.Ticket, p domain.SearchPattern, side domain.PlaySide) bool
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(ticket domain.Ticket, p domain.SearchPattern, side domain.PlaySide) bool

// Matches calls f.
func (f MatcherFunc) Matches(ticket domain.Ticket, p domain.SearchPattern, side domain.PlaySide) bool {
	return f(ticket, p, side)
}

// Layout names the ticket positions (0-based) that make up each group, in comparison order.
type Layout struct {
	Scratch    [domain.ScratchSideLanes]int
	NonScratch [domain.NonScratchSideLanes]int
}

// Partition maps each play side to its layout.
type Partition map[domain.PlaySide]Layout

// Named partitions selectable through configuration.
const (
	PartitionMirror      = "mirror"
	PartitionShifted     = "shifted"
	DefaultPartitionName = PartitionMirror
)

// MirrorPartition reads the scratch group from the lanes nearest the turntable:
// lanes 1-3 left to right on 1P, lanes 7-5 right to left on 2P.
func MirrorPartition() Partition {
	return Partition{
		domain.Side1P: {Scratch: [3]int{0, 1, 2}, NonScratch: [4]int{3, 4, 5, 6}},
		domain.Side2P: {Scratch: [3]int{6, 5, 4}, NonScratch: [4]int{3, 2, 1, 0}},
	}
}

// ShiftedPartition keeps lane order on both sides and only moves the scratch group
// to the right edge on 2P.
func ShiftedPartition() Partition {
	return Partition{
		domain.Side1P: {Scratch: [3]int{0, 1, 2}, NonScratch: [4]int{3, 4, 5, 6}},
		domain.Side2P: {Scratch: [3]int{4, 5, 6}, NonScratch: [4]int{0, 1, 2, 3}},
	}
}

// PartitionByName resolves a configured partition name.
func PartitionByName(name string) (Partition, error) {
	switch strings.ToLower(name) {
	case "", PartitionMirror:
		return MirrorPartition(), nil
	case PartitionShifted:
		return ShiftedPartition(), nil
	default:
		return nil, fmt.Errorf("unknown lane partition %q (must be %s or %s)", name, PartitionMirror, PartitionShifted)
	}
}

// SideMatcher compares pattern fields against the ticket groups selected by a Partition.
type SideMatcher struct {
	partition Partition
}

// NewSideMatcher creates a matcher over the given partition. A nil partition uses MirrorPartition.
func NewSideMatcher(partition Partition) *SideMatcher {
	if partition == nil {
		partition = MirrorPartition()
	}
	return &SideMatcher{partition: partition}
}

// Matches implements Matcher.
//
// Ordered fields compare position by position with '*' matching any lane. Unordered fields
// compare as multisets: every lane named by the field must appear somewhere in the group,
// and wildcards absorb the rest.
func (m *SideMatcher) Matches(ticket domain.Ticket, p domain.SearchPattern, side domain.PlaySide) bool {
	if MatchesAll(p) {
		return true
	}

	layout, ok := m.partition[side]
	if !ok || len(ticket.LaneText) != domain.TicketLanes {
		return false
	}

	var scratch [domain.ScratchSideLanes]byte
	for i, pos := range layout.Scratch {
		scratch[i] = ticket.LaneText[pos]
	}
	var nonScratch [domain.NonScratchSideLanes]byte
	for i, pos := range layout.NonScratch {
		nonScratch[i] = ticket.LaneText[pos]
	}

	return matchGroup(scratch[:], p.ScratchSideText, p.IsScratchSideUnordered) &&
		matchGroup(nonScratch[:], p.NonScratchSideText, p.IsNonScratchSideUnordered)
}

func matchGroup(group []byte, text string, unordered bool) bool {
	if len(text) > len(group) {
		return false
	}
	if unordered {
		return containsAll(group, text)
	}
	for i := range len(text) {
		if text[i] != domain.Wildcard && text[i] != group[i] {
			return false
		}
	}
	return true
}

// containsAll reports whether every non-wildcard lane of text occurs in group.
// Lanes never repeat within a field, so set inclusion equals multiset inclusion.
func containsAll(group []byte, text string) bool {
	for i := range len(text) {
		if text[i] == domain.Wildcard {
			continue
		}
		found := false
		for _, g := range group {
			if g == text[i] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
