package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/laneticket/atari-server/internal/domain"
	"github.com/laneticket/atari-server/internal/service"
)

func (s *Server) registerSongRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSongs",
		Method:      http.MethodGet,
		Path:        "/api/v1/songs",
		Summary:     "List songs",
		Description: "Returns catalog charts matching the filters, each with its rule count",
		Tags:        []string{tagSongs},
	}, s.handleListSongs)

	huma.Register(s.api, huma.Operation{
		OperationID: "summarizeSongs",
		Method:      http.MethodGet,
		Path:        "/api/v1/songs/summary",
		Summary:     "Summarize songs",
		Description: "Groups the matching charts into one row per song with its SPH, SPA and SPL charts",
		Tags:        []string{tagSongs},
	}, s.handleSummarizeSongs)

	huma.Register(s.api, huma.Operation{
		OperationID: "reloadSongs",
		Method:      http.MethodPost,
		Path:        "/api/v1/songs/reload",
		Summary:     "Reload songs",
		Description: "Re-reads the song file and swaps in the new catalog if it changed",
		Tags:        []string{tagSongs},
	}, s.handleReloadSongs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSong",
		Method:      http.MethodGet,
		Path:        "/api/v1/songs/{songId}",
		Summary:     "Get song",
		Description: "Returns every chart of a song with the rules defined for each",
		Tags:        []string{tagSongs},
	}, s.handleGetSong)
}

// ListSongsInput contains the catalog filters. Empty filters match everything.
type ListSongsInput struct {
	Title         string   `query:"title" doc:"Title substring, matched case- and width-insensitively"`
	Version       string   `query:"version" doc:"Version name substring"`
	Difficulty    []string `query:"difficulty" doc:"Comma-separated difficulties (spb, spn, sph, spa, spl)"`
	Level         []int    `query:"level" doc:"Comma-separated levels (1-12)"`
	OnlyWithAtari bool     `query:"onlyWithAtari" doc:"Only charts with at least one rule"`
}

func (in *ListSongsInput) query() service.SongQuery {
	q := service.SongQuery{
		Title:         in.Title,
		Version:       in.Version,
		Levels:        in.Level,
		OnlyWithAtari: in.OnlyWithAtari,
	}
	for _, d := range in.Difficulty {
		q.Difficulties = append(q.Difficulties, domain.Difficulty(d))
	}
	return q
}

// ListSongsOutput wraps the song search result for Huma.
type ListSongsOutput struct {
	Body *service.SongSearchResult
}

func (s *Server) handleListSongs(ctx context.Context, input *ListSongsInput) (*ListSongsOutput, error) {
	res, err := s.services.Songs.Search(ctx, input.query())
	if err != nil {
		return nil, err
	}
	return &ListSongsOutput{Body: res}, nil
}

// SongSummaryResponse lists one row per song.
type SongSummaryResponse struct {
	Songs []domain.SongSummary `json:"songs"`
	Total int                  `json:"total"`
}

// SongSummaryOutput wraps the summary response for Huma.
type SongSummaryOutput struct {
	Body SongSummaryResponse
}

func (s *Server) handleSummarizeSongs(ctx context.Context, input *ListSongsInput) (*SongSummaryOutput, error) {
	rows, err := s.services.Songs.Summaries(ctx, input.query())
	if err != nil {
		return nil, err
	}
	return &SongSummaryOutput{Body: SongSummaryResponse{Songs: rows, Total: len(rows)}}, nil
}

// SongReloadResponse reports the outcome of a song catalog reload.
type SongReloadResponse struct {
	Changed bool              `json:"changed" doc:"False when the file held the catalog already loaded"`
	Stats   service.SongStats `json:"stats"`
}

// SongReloadOutput wraps the reload response for Huma.
type SongReloadOutput struct {
	Body SongReloadResponse
}

func (s *Server) handleReloadSongs(ctx context.Context, _ *struct{}) (*SongReloadOutput, error) {
	stats, changed, err := s.services.Songs.Reload(ctx)
	if err != nil {
		return nil, err
	}
	return &SongReloadOutput{Body: SongReloadResponse{Changed: changed, Stats: stats}}, nil
}

// SongPathInput identifies a song in the path.
type SongPathInput struct {
	SongID string `path:"songId" doc:"Song identifier"`
}

// SongOutput wraps a song detail for Huma.
type SongOutput struct {
	Body *service.SongDetail
}

func (s *Server) handleGetSong(ctx context.Context, input *SongPathInput) (*SongOutput, error) {
	detail, err := s.services.Songs.Song(ctx, input.SongID)
	if err != nil {
		return nil, err
	}
	return &SongOutput{Body: detail}, nil
}
