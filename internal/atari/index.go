// Package atari compiles atari rules into an immutable index and answers
// per-ticket and per-chart queries against it.
package atari

import (
	"cmp"
	"slices"

	"github.com/laneticket/atari-server/internal/domain"
	"github.com/laneticket/atari-server/internal/pattern"
)

// Index is the compiled form of a rule set.
// It is never mutated after Build and may be shared by any number of readers.
type Index struct {
	matcher pattern.Matcher

	// buckets are kept in first-appearance order so query output does not depend
	// on map iteration order.
	buckets  []bucket
	byKey    map[pattern.Key]int
	byChart  map[domain.ChartKey][]domain.AtariRule
	charts   []domain.ChartKey
	numRules int
}

// bucket keeps the pattern alongside its key so queries never call pattern.DecodeKey.
type bucket struct {
	key     pattern.Key
	pattern domain.SearchPattern
	rules   []domain.AtariRule
}

// Option configures Build.
type Option func(*Index)

// WithMatcher replaces the default SideMatcher.
func WithMatcher(m pattern.Matcher) Option {
	return func(idx *Index) {
		if m != nil {
			idx.matcher = m
		}
	}
}

// Build compiles rules in a single pass. Every (rule, pattern) pair lands in exactly one
// pattern bucket and every rule in exactly one chart bucket.
func Build(rules []domain.AtariRule, opts ...Option) *Index {
	idx := &Index{
		matcher:  pattern.NewSideMatcher(nil),
		byKey:    make(map[pattern.Key]int),
		byChart:  make(map[domain.ChartKey][]domain.AtariRule),
		numRules: len(rules),
	}
	for _, opt := range opts {
		opt(idx)
	}

	for _, rule := range rules {
		for _, p := range rule.Patterns {
			key := pattern.EncodeKey(p)
			i, ok := idx.byKey[key]
			if !ok {
				i = len(idx.buckets)
				idx.byKey[key] = i
				idx.buckets = append(idx.buckets, bucket{key: key, pattern: p})
			}
			idx.buckets[i].rules = append(idx.buckets[i].rules, rule)
		}

		chart := rule.Chart()
		if _, ok := idx.byChart[chart]; !ok {
			idx.charts = append(idx.charts, chart)
		}
		idx.byChart[chart] = append(idx.byChart[chart], rule)
	}

	return idx
}

// RulesForTicket returns every rule owning a pattern the ticket matches on side,
// highest priority first. Rules tied on priority keep their index order.
// A rule appears once per matching pattern. The result is nil when nothing matches.
func (idx *Index) RulesForTicket(ticket domain.Ticket, side domain.PlaySide) []domain.AtariRule {
	var matched []domain.AtariRule
	for i := range idx.buckets {
		b := &idx.buckets[i]
		if idx.matcher.Matches(ticket, b.pattern, side) {
			matched = append(matched, b.rules...)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	slices.SortStableFunc(matched, byPriorityDesc)
	return matched
}

// RulesForChart returns the rules defined for one chart in rule-set order, or nil.
func (idx *Index) RulesForChart(songID string, difficulty domain.Difficulty) []domain.AtariRule {
	rules := idx.byChart[domain.ChartKey{SongID: songID, Difficulty: difficulty}]
	if len(rules) == 0 {
		return nil
	}
	return slices.Clone(rules)
}

// ColorForTicket classifies the ticket's matches. HighlightNone means no rule matched.
func (idx *Index) ColorForTicket(ticket domain.Ticket, side domain.PlaySide) domain.HighlightColor {
	return Classify(idx.RulesForTicket(ticket, side))
}

// FilterForChart keeps the tickets that hit at least one rule of the chart,
// preserving input order.
func (idx *Index) FilterForChart(tickets []domain.Ticket, chart domain.ChartKey, side domain.PlaySide) []domain.Ticket {
	rules := idx.byChart[chart]
	if len(rules) == 0 {
		return nil
	}

	var out []domain.Ticket
	for _, t := range tickets {
		if hitsAny(idx.matcher, t, rules, side) {
			out = append(out, t)
		}
	}
	return out
}

// Matcher returns the matcher the index evaluates patterns with.
func (idx *Index) Matcher() pattern.Matcher {
	return idx.matcher
}

// PatternKeys lists the distinct pattern keys in first-appearance order.
// It and RulesForPatternKey are for inspecting a built index.
func (idx *Index) PatternKeys() []pattern.Key {
	keys := make([]pattern.Key, len(idx.buckets))
	for i, b := range idx.buckets {
		keys[i] = b.key
	}
	return keys
}

// RulesForPatternKey returns the bucket stored under key, or nil.
func (idx *Index) RulesForPatternKey(key pattern.Key) []domain.AtariRule {
	i, ok := idx.byKey[key]
	if !ok {
		return nil
	}
	return slices.Clone(idx.buckets[i].rules)
}

// Charts lists the charts that have rules, in first-appearance order.
func (idx *Index) Charts() []domain.ChartKey {
	return slices.Clone(idx.charts)
}

// RuleCount is the number of rules the index was built from.
func (idx *Index) RuleCount() int {
	return idx.numRules
}

// PatternCount is the number of distinct patterns.
func (idx *Index) PatternCount() int {
	return len(idx.buckets)
}

func byPriorityDesc(a, b domain.AtariRule) int {
	return cmp.Compare(b.Priority, a.Priority)
}

func hitsAny(m pattern.Matcher, t domain.Ticket, rules []domain.AtariRule, side domain.PlaySide) bool {
	for _, r := range rules {
		for _, p := range r.Patterns {
			if m.Matches(t, p, side) {
				return true
			}
		}
	}
	return false
}
