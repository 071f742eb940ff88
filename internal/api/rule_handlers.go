package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/laneticket/atari-server/internal/domain"
	"github.com/laneticket/atari-server/internal/search"
	"github.com/laneticket/atari-server/internal/service"
)

func (s *Server) registerRuleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRules",
		Method:      http.MethodGet,
		Path:        "/api/v1/rules",
		Summary:     "List rules",
		Description: "Returns the active rule set and its version",
		Tags:        []string{tagRules},
	}, s.handleListRules)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchRules",
		Method:      http.MethodGet,
		Path:        "/api/v1/rules/search",
		Summary:     "Search rules",
		Description: "Full-text search over rule titles, song ids and descriptions",
		Tags:        []string{tagRules},
	}, s.handleSearchRules)

	huma.Register(s.api, huma.Operation{
		OperationID: "reloadRules",
		Method:      http.MethodPost,
		Path:        "/api/v1/rules/reload",
		Summary:     "Reload rules",
		Description: "Re-reads the rule file and swaps in the new rule set if it changed",
		Tags:        []string{tagRules},
	}, s.handleReloadRules)

	huma.Register(s.api, huma.Operation{
		OperationID: "getChartRules",
		Method:      http.MethodGet,
		Path:        "/api/v1/charts/{songId}/{difficulty}/rules",
		Summary:     "Get chart rules",
		Description: "Returns every rule defined for one chart in definition order",
		Tags:        []string{tagRules},
	}, s.handleGetChartRules)
}

// RuleSetResponse is the active rule set.
type RuleSetResponse struct {
	Stats service.RuleStats  `json:"stats"`
	Rules []domain.AtariRule `json:"rules"`
}

// RuleSetOutput wraps the rule set response for Huma.
type RuleSetOutput struct {
	Body RuleSetResponse
}

func (s *Server) handleListRules(_ context.Context, _ *struct{}) (*RuleSetOutput, error) {
	// Stats and rules must describe the same snapshot.
	snap := s.services.Atari.Snapshot()
	rules := snap.Rules
	if rules == nil {
		rules = []domain.AtariRule{}
	}
	return &RuleSetOutput{
		Body: RuleSetResponse{
			Stats: service.StatsOf(snap),
			Rules: rules,
		},
	}, nil
}

// SearchRulesInput contains parameters for searching rules.
type SearchRulesInput struct {
	Query      string `query:"q" doc:"Search text; empty lists every rule"`
	Difficulty string `query:"difficulty" doc:"Restrict to one difficulty (spb, spn, sph, spa, spl)"`
	Limit      int    `query:"limit" doc:"Maximum hits (default 20, max 100)"`
}

// SearchRulesOutput wraps the search result for Huma.
type SearchRulesOutput struct {
	Body *search.SearchResult
}

func (s *Server) handleSearchRules(ctx context.Context, input *SearchRulesInput) (*SearchRulesOutput, error) {
	res, err := s.services.RuleSearch.Search(ctx, input.Query, domain.Difficulty(input.Difficulty), input.Limit)
	if err != nil {
		return nil, err
	}
	return &SearchRulesOutput{Body: res}, nil
}

// ReloadResponse reports the outcome of a rule reload.
type ReloadResponse struct {
	Changed bool              `json:"changed" doc:"False when the file held the rules already active"`
	Stats   service.RuleStats `json:"stats"`
}

// ReloadOutput wraps the reload response for Huma.
type ReloadOutput struct {
	Body ReloadResponse
}

func (s *Server) handleReloadRules(ctx context.Context, _ *struct{}) (*ReloadOutput, error) {
	stats, changed, err := s.services.Atari.Reload(ctx)
	if err != nil {
		return nil, err
	}
	return &ReloadOutput{Body: ReloadResponse{Changed: changed, Stats: stats}}, nil
}

// ChartPathInput identifies a chart in the path.
type ChartPathInput struct {
	SongID     string `path:"songId" doc:"Song identifier"`
	Difficulty string `path:"difficulty" doc:"Chart difficulty (spb, spn, sph, spa, spl)"`
}

func (in *ChartPathInput) chart() domain.ChartKey {
	return domain.ChartKey{SongID: in.SongID, Difficulty: domain.Difficulty(in.Difficulty)}
}

// ChartRulesResponse lists the rules of one chart.
type ChartRulesResponse struct {
	Chart domain.ChartKey    `json:"chart"`
	Rules []domain.AtariRule `json:"rules"`
}

// ChartRulesOutput wraps the chart rules response for Huma.
type ChartRulesOutput struct {
	Body ChartRulesResponse
}

func (s *Server) handleGetChartRules(_ context.Context, input *ChartPathInput) (*ChartRulesOutput, error) {
	chart := input.chart()
	rules, err := s.services.Atari.RulesForChart(chart.SongID, chart.Difficulty)
	if err != nil {
		return nil, err
	}
	return &ChartRulesOutput{Body: ChartRulesResponse{Chart: chart, Rules: rules}}, nil
}
