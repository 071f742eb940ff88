// Package service implements the application operations exposed by the API:
// matching tickets against the active rule set, managing the ticket list and
// chart memos, and searching rules.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/laneticket/atari-server/internal/atari"
	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
	"github.com/laneticket/atari-server/internal/normalize"
	"github.com/laneticket/atari-server/internal/ruleset"
	"github.com/laneticket/atari-server/internal/validation"
)

// MatchResult is the outcome of matching one ticket.
type MatchResult struct {
	Ticket domain.Ticket         `json:"ticket"`
	Rules  []domain.AtariRule    `json:"rules"`
	Color  domain.HighlightColor `json:"color"`
}

// Evaluation is the outcome of matching many tickets against one rule set.
type Evaluation struct {
	Version string        `json:"version"`
	Results []MatchResult `json:"results"`
}

// RuleStats describes the active rule set.
type RuleStats struct {
	Version  string    `json:"version"`
	LoadedAt time.Time `json:"loadedAt"`
	Rules    int       `json:"rules"`
	Patterns int       `json:"patterns"`
	Charts   int       `json:"charts"`
}

// AtariService answers rule queries against the registry's current snapshot.
type AtariService struct {
	registry  *ruleset.Registry
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAtariService creates a new atari service.
func NewAtariService(registry *ruleset.Registry, validator *validation.Validator, logger *slog.Logger) *AtariService {
	return &AtariService{
		registry:  registry,
		validator: validator,
		logger:    logger,
	}
}

// Snapshot returns the rule set currently in effect.
func (s *AtariService) Snapshot() *ruleset.Snapshot {
	return s.registry.Current()
}

// Stats summarizes the active rule set.
func (s *AtariService) Stats() RuleStats {
	return StatsOf(s.registry.Current())
}

// Reload re-reads the rule file.
func (s *AtariService) Reload(ctx context.Context) (RuleStats, bool, error) {
	snap, changed, err := s.registry.Reload(ctx)
	if err != nil {
		return RuleStats{}, false, err
	}
	return StatsOf(snap), changed, nil
}

// RulesForTicket returns the rules a ticket hits on side, highest priority first, and its color.
func (s *AtariService) RulesForTicket(ticket domain.Ticket, side domain.PlaySide) (*MatchResult, error) {
	ticket, err := s.checkTicket(ticket)
	if err != nil {
		return nil, err
	}
	if err := s.checkSide(side); err != nil {
		return nil, err
	}

	res := match(s.registry.Current(), ticket, side)
	return &res, nil
}

// ColorForTicket returns the highlight tier of a ticket on side.
func (s *AtariService) ColorForTicket(ticket domain.Ticket, side domain.PlaySide) (domain.HighlightColor, error) {
	res, err := s.RulesForTicket(ticket, side)
	if err != nil {
		return domain.HighlightNone, err
	}
	return res.Color, nil
}

// RulesForChart returns the rules defined for a chart in rule-set order.
// The result is empty, not an error, when the chart has no rules.
func (s *AtariService) RulesForChart(songID string, difficulty domain.Difficulty) ([]domain.AtariRule, error) {
	if songID == "" {
		return nil, domainerrors.ValidationWithDetails("invalid chart", map[string]string{"songId": "is required"})
	}
	if err := s.validator.ValidateVar("difficulty", string(difficulty), "difficulty"); err != nil {
		return nil, err
	}

	rules := s.registry.Current().Index.RulesForChart(songID, difficulty)
	if rules == nil {
		rules = []domain.AtariRule{}
	}
	return rules, nil
}

// Evaluate matches every ticket against one snapshot in parallel. Results are in input order.
func (s *AtariService) Evaluate(ctx context.Context, tickets []domain.Ticket, side domain.PlaySide) (*Evaluation, error) {
	if err := s.checkSide(side); err != nil {
		return nil, err
	}

	normalized := make([]domain.Ticket, len(tickets))
	details := make(map[string]string)
	for i, t := range tickets {
		nt, err := s.checkTicket(t)
		if err != nil {
			mergeDetails(details, fmt.Sprintf("tickets[%d]", i), err)
			continue
		}
		normalized[i] = nt
	}
	if len(details) > 0 {
		return nil, domainerrors.ValidationWithDetails("invalid tickets", details)
	}

	snap := s.registry.Current()
	results := make([]MatchResult, len(normalized))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, t := range normalized {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = match(snap, t, side)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("evaluated tickets", "count", len(results), "side", side, "version", snap.Version)
	return &Evaluation{Version: snap.Version, Results: results}, nil
}

func (s *AtariService) checkTicket(t domain.Ticket) (domain.Ticket, error) {
	t.LaneText = normalize.LaneText(t.LaneText)
	if err := s.validator.Validate(t); err != nil {
		return t, err
	}
	return t, nil
}

func (s *AtariService) checkSide(side domain.PlaySide) error {
	return s.validator.ValidateVar("side", string(side), "playside")
}

func match(snap *ruleset.Snapshot, t domain.Ticket, side domain.PlaySide) MatchResult {
	rules := snap.Index.RulesForTicket(t, side)
	color := atari.Classify(rules)
	if rules == nil {
		rules = []domain.AtariRule{}
	}
	return MatchResult{Ticket: t, Rules: rules, Color: color}
}

// StatsOf summarizes a snapshot.
func StatsOf(snap *ruleset.Snapshot) RuleStats {
	return RuleStats{
		Version:  snap.Version,
		LoadedAt: snap.LoadedAt,
		Rules:    snap.Index.RuleCount(),
		Patterns: snap.Index.PatternCount(),
		Charts:   len(snap.Index.Charts()),
	}
}

// mergeDetails copies the field errors of err into details under prefix.
// An empty prefix keeps the field names as they are.
func mergeDetails(details map[string]string, prefix string, err error) {
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) {
		if fields, ok := domainErr.Details.(map[string]string); ok {
			for field, msg := range fields {
				if prefix != "" {
					field = prefix + "." + field
				}
				details[field] = msg
			}
			return
		}
	}
	details[prefix] = err.Error()
}
