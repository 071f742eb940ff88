package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/laneticket/atari-server/internal/catalog"
	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
	"github.com/laneticket/atari-server/internal/validation"
)

// SongStats describes the loaded song catalog.
type SongStats struct {
	Version  string    `json:"version"`
	LoadedAt time.Time `json:"loadedAt"`
	Songs    int       `json:"songs"`
	Charts   int       `json:"charts"`
}

// SongQuery selects charts from the catalog. Empty fields do not filter.
type SongQuery struct {
	Title         string
	Version       string
	Difficulties  []domain.Difficulty
	Levels        []int
	OnlyWithAtari bool
}

// SongView is a catalog chart with the number of rules defined for it.
type SongView struct {
	domain.Song
	RuleCount int `json:"ruleCount"`
}

// SongSearchResult lists the charts matching a query.
type SongSearchResult struct {
	Version      string     `json:"version"`
	RulesVersion string     `json:"rulesVersion"`
	Songs        []SongView `json:"songs"`
	Total        int        `json:"total"`
}

// ChartDetail is one chart of a song with its rules.
type ChartDetail struct {
	domain.Song
	Rules []domain.AtariRule `json:"rules"`
}

// SongDetail lists every chart of one song.
type SongDetail struct {
	SongID string        `json:"songId"`
	Title  string        `json:"title"`
	Charts []ChartDetail `json:"charts"`
}

// SongService serves the song catalog, annotated with the active rule set.
type SongService struct {
	path      string
	current   atomic.Pointer[catalog.Catalog]
	reloadMu  sync.Mutex
	atari     *AtariService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewSongService creates the service with an empty catalog. path may be empty,
// in which case the catalog stays empty and Reload reports it unavailable.
func NewSongService(path string, atari *AtariService, validator *validation.Validator, logger *slog.Logger) *SongService {
	s := &SongService{
		path:      path,
		atari:     atari,
		validator: validator,
		logger:    logger,
	}
	s.current.Store(catalog.Empty())
	return s
}

// Catalog returns the catalog currently in effect.
func (s *SongService) Catalog() *catalog.Catalog {
	return s.current.Load()
}

// Stats summarizes the loaded catalog.
func (s *SongService) Stats() SongStats {
	return songStatsOf(s.current.Load())
}

// Replace swaps in a catalog built from songs.
func (s *SongService) Replace(songs []domain.Song) (SongStats, error) {
	c, err := catalog.New(songs)
	if err != nil {
		return SongStats{}, err
	}
	s.reloadMu.Lock()
	s.current.Store(c)
	s.reloadMu.Unlock()
	return songStatsOf(c), nil
}

// Reload re-reads the song file. An unchanged file keeps the current catalog.
func (s *SongService) Reload(ctx context.Context) (SongStats, bool, error) {
	if s.path == "" {
		return SongStats{}, false, domainerrors.Unavailable("no song file configured")
	}
	if err := ctx.Err(); err != nil {
		return SongStats{}, false, err
	}

	next, err := catalog.Load(s.path)
	if err != nil {
		return SongStats{}, false, err
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if cur := s.current.Load(); cur.Version == next.Version {
		return songStatsOf(cur), false, nil
	}
	s.current.Store(next)
	s.logger.Info("song catalog loaded",
		"path", s.path,
		"charts", next.Len(),
		"songs", next.SongCount(),
		"version", shortVersion(next.Version),
	)
	return songStatsOf(next), true, nil
}

// Search returns the charts matching q. OnlyWithAtari keeps charts that have at
// least one rule in the active rule set.
func (s *SongService) Search(_ context.Context, q SongQuery) (*SongSearchResult, error) {
	if err := s.checkQuery(q); err != nil {
		return nil, err
	}

	cat := s.current.Load()
	snap := s.atari.Snapshot()
	idx := snap.Index

	songs := cat.Search(q.catalogQuery(), func(k domain.ChartKey) bool {
		return len(idx.RulesForChart(k.SongID, k.Difficulty)) > 0
	})

	views := make([]SongView, len(songs))
	for i, song := range songs {
		views[i] = SongView{
			Song:      song,
			RuleCount: len(idx.RulesForChart(song.SongID, song.Difficulty)),
		}
	}

	return &SongSearchResult{
		Version:      cat.Version,
		RulesVersion: snap.Version,
		Songs:        views,
		Total:        len(views),
	}, nil
}

// Summaries groups the charts matching q into one row per song.
func (s *SongService) Summaries(ctx context.Context, q SongQuery) ([]domain.SongSummary, error) {
	res, err := s.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	songs := make([]domain.Song, len(res.Songs))
	for i, v := range res.Songs {
		songs[i] = v.Song
	}
	return catalog.Summarize(songs), nil
}

// Song returns every chart of a song with the rules defined for each.
func (s *SongService) Song(_ context.Context, songID string) (*SongDetail, error) {
	charts := s.current.Load().Song(songID)
	if len(charts) == 0 {
		return nil, domainerrors.NotFoundf("song %q not found", songID)
	}

	idx := s.atari.Snapshot().Index
	detail := &SongDetail{
		SongID: songID,
		Title:  charts[0].Title,
		Charts: make([]ChartDetail, len(charts)),
	}
	for i, c := range charts {
		rules := idx.RulesForChart(c.SongID, c.Difficulty)
		if rules == nil {
			rules = []domain.AtariRule{}
		}
		detail.Charts[i] = ChartDetail{Song: c, Rules: rules}
	}
	return detail, nil
}

func (s *SongService) checkQuery(q SongQuery) error {
	details := make(map[string]string)
	for i, d := range q.Difficulties {
		name := fmt.Sprintf("difficulty[%d]", i)
		if err := s.validator.ValidateVar(name, string(d), "difficulty"); err != nil {
			mergeDetails(details, "", err)
		}
	}
	for i, l := range q.Levels {
		if l < 1 || l > 12 {
			details[fmt.Sprintf("level[%d]", i)] = "must be between 1 and 12"
		}
	}
	if len(details) > 0 {
		return domainerrors.ValidationWithDetails("invalid song query", details)
	}
	return nil
}

func (q SongQuery) catalogQuery() catalog.Query {
	return catalog.Query{
		Title:         q.Title,
		Version:       q.Version,
		Difficulties:  q.Difficulties,
		Levels:        q.Levels,
		OnlyWithAtari: q.OnlyWithAtari,
	}
}

func songStatsOf(c *catalog.Catalog) SongStats {
	return SongStats{
		Version:  c.Version,
		LoadedAt: c.LoadedAt,
		Songs:    c.SongCount(),
		Charts:   c.Len(),
	}
}

func shortVersion(v string) string {
	if len(v) > 12 {
		return v[:12]
	}
	return v
}
