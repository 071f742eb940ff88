package service

import (
	"context"
	"log/slog"

	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
	"github.com/laneticket/atari-server/internal/ruleset"
	"github.com/laneticket/atari-server/internal/search"
	"github.com/laneticket/atari-server/internal/validation"
)

// RuleSearchService keeps the search index in step with the rule registry and
// runs rule searches.
type RuleSearchService struct {
	index     *search.SearchIndex
	registry  *ruleset.Registry
	validator *validation.Validator
	logger    *slog.Logger
}

// NewRuleSearchService creates the service and subscribes it to registry swaps.
func NewRuleSearchService(index *search.SearchIndex, registry *ruleset.Registry, validator *validation.Validator, logger *slog.Logger) *RuleSearchService {
	s := &RuleSearchService{
		index:     index,
		registry:  registry,
		validator: validator,
		logger:    logger,
	}
	registry.OnSwap(func(ctx context.Context, snap *ruleset.Snapshot) {
		if err := s.sync(ctx, snap); err != nil {
			s.logger.Error("failed to reindex rules", "version", snap.Version, "error", err)
		}
	})
	return s
}

// Sync indexes the registry's current snapshot if the index holds another version.
func (s *RuleSearchService) Sync(ctx context.Context) error {
	return s.sync(ctx, s.registry.Current())
}

func (s *RuleSearchService) sync(ctx context.Context, snap *ruleset.Snapshot) error {
	// A swap hook may run after its request context ended; indexing must still finish.
	return s.index.Sync(context.WithoutCancel(ctx), snap.Version, snap.Rules)
}

// IndexedVersion returns the rule-set version the index was last synced to.
func (s *RuleSearchService) IndexedVersion() (string, error) {
	return s.index.RulesVersion()
}

// Search finds rules by title, song id or description, optionally limited to one difficulty.
func (s *RuleSearchService) Search(ctx context.Context, query string, difficulty domain.Difficulty, limit int) (*search.SearchResult, error) {
	if difficulty != "" {
		if err := s.validator.ValidateVar("difficulty", string(difficulty), "difficulty"); err != nil {
			return nil, err
		}
	}

	res, err := s.index.Search(ctx, search.SearchParams{
		Query:      query,
		Difficulty: difficulty,
		Limit:      limit,
		Highlight:  true,
	})
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "rule search failed")
	}
	return res, nil
}
