package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/laneticket/atari-server/internal/domain"
	"github.com/laneticket/atari-server/internal/normalize"
)

// Result limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// SearchParams configures a rule search.
type SearchParams struct {
	Query      string            // Free text; matched against title, song id and description
	Difficulty domain.Difficulty // Optional exact filter
	Limit      int
	Highlight  bool
}

// SearchResult represents the search results.
type SearchResult struct {
	Query        string    `json:"query"`
	RulesVersion string    `json:"rulesVersion"`
	Total        uint64    `json:"total"`
	TookMs       int64     `json:"tookMs"`
	Hits         []RuleHit `json:"hits"`
}

// RuleHit is one matching rule.
type RuleHit struct {
	RuleID     string            `json:"ruleId"`
	SongID     string            `json:"songId"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Title      string            `json:"title"`
	URL        string            `json:"url"`
	Priority   int               `json:"priority"`
	Score      float64           `json:"score"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a rule search. Hits are ordered by relevance, then by priority.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	params.Limit = min(params.Limit, MaxLimit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, 0, false)
	searchRequest.SortBy([]string{"-_score", "-priority", "_id"})
	searchRequest.Fields = []string{"rule_id", "song_id", "difficulty", "title", "url", "priority"}
	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	version, err := s.index.GetInternal(rulesVersionKey)
	if err != nil {
		return nil, fmt.Errorf("read indexed version: %w", err)
	}

	result := &SearchResult{
		Query:        params.Query,
		RulesVersion: string(version),
		Total:        searchResult.Total,
		TookMs:       searchResult.Took.Milliseconds(),
		Hits:         make([]RuleHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		ruleHit := RuleHit{Score: hit.Score}

		if v, ok := hit.Fields["rule_id"].(string); ok {
			ruleHit.RuleID = v
		}
		if v, ok := hit.Fields["song_id"].(string); ok {
			ruleHit.SongID = v
		}
		if v, ok := hit.Fields["difficulty"].(string); ok {
			ruleHit.Difficulty = domain.Difficulty(v)
		}
		if v, ok := hit.Fields["title"].(string); ok {
			ruleHit.Title = v
		}
		if v, ok := hit.Fields["url"].(string); ok {
			ruleHit.URL = v
		}
		if v, ok := hit.Fields["priority"].(float64); ok {
			ruleHit.Priority = int(v)
		}

		if len(hit.Fragments) > 0 {
			ruleHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					ruleHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, ruleHit)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
//
// A rule matches when the normalized query occurs in its normalized title or song id,
// or when query words match its title or description. Titles that start with the
// query rank above titles that merely contain it.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if key := normalize.SearchText(params.Query); key != "" {
		textQueries := []query.Query{}

		prefixQuery := bleve.NewPrefixQuery(key)
		prefixQuery.SetField("title_key")
		prefixQuery.SetBoost(3.0)
		textQueries = append(textQueries, prefixQuery)

		if literal := stripWildcards(key); literal != "" {
			titleContains := bleve.NewWildcardQuery("*" + literal + "*")
			titleContains.SetField("title_key")
			textQueries = append(textQueries, titleContains)

			songContains := bleve.NewWildcardQuery("*" + literal + "*")
			songContains.SetField("song_key")
			textQueries = append(textQueries, songContains)
		}

		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(2.0)
		textQueries = append(textQueries, titleMatch)

		descMatch := bleve.NewMatchQuery(params.Query)
		descMatch.SetField("description")
		descMatch.SetBoost(0.5)
		textQueries = append(textQueries, descMatch)

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.Difficulty != "" {
		dq := bleve.NewTermQuery(string(params.Difficulty))
		dq.SetField("difficulty")
		queries = append(queries, dq)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}

// stripWildcards removes characters the wildcard query would interpret.
func stripWildcards(s string) string {
	return strings.NewReplacer("*", "", "?", "").Replace(s)
}
