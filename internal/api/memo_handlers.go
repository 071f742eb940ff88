package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/laneticket/atari-server/internal/domain"
	"github.com/laneticket/atari-server/internal/store"
)

func (s *Server) registerMemoRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMemos",
		Method:      http.MethodGet,
		Path:        "/api/v1/memos",
		Summary:     "List memos",
		Description: "Pages through every saved memo in chart order",
		Tags:        []string{tagMemos},
	}, s.handleListMemos)

	huma.Register(s.api, huma.Operation{
		OperationID: "getChartMemos",
		Method:      http.MethodGet,
		Path:        "/api/v1/memos/{songId}/{difficulty}",
		Summary:     "Get chart memos",
		Description: "Returns the lane layouts saved for one chart, oldest first",
		Tags:        []string{tagMemos},
	}, s.handleGetChartMemos)

	huma.Register(s.api, huma.Operation{
		OperationID:   "saveMemo",
		Method:        http.MethodPost,
		Path:          "/api/v1/memos/{songId}/{difficulty}",
		Summary:       "Save memo",
		Description:   "Saves a lane layout for a chart; saving it again refreshes its timestamp",
		Tags:          []string{tagMemos},
		DefaultStatus: http.StatusCreated,
	}, s.handleSaveMemo)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteMemo",
		Method:        http.MethodDelete,
		Path:          "/api/v1/memos/{songId}/{difficulty}/{laneText}",
		Summary:       "Delete memo",
		Description:   "Removes one saved lane layout from a chart",
		Tags:          []string{tagMemos},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteMemo)
}

// ListMemosInput contains pagination parameters for listing memos.
type ListMemosInput struct {
	Limit  int    `query:"limit" doc:"Page size (default 100, max 1000)"`
	Cursor string `query:"cursor" doc:"nextCursor from the previous page"`
}

// ListMemosOutput wraps a memo page for Huma.
type ListMemosOutput struct {
	Body *store.PaginatedResult[domain.Memo]
}

func (s *Server) handleListMemos(ctx context.Context, input *ListMemosInput) (*ListMemosOutput, error) {
	page, err := s.services.Memos.List(ctx, store.PaginationParams{Limit: input.Limit, Cursor: input.Cursor})
	if err != nil {
		return nil, err
	}
	return &ListMemosOutput{Body: page}, nil
}

// ChartMemosResponse lists the memos of one chart.
type ChartMemosResponse struct {
	Chart domain.ChartKey `json:"chart"`
	Memos []domain.Memo   `json:"memos"`
}

// ChartMemosOutput wraps the chart memos response for Huma.
type ChartMemosOutput struct {
	Body ChartMemosResponse
}

func (s *Server) handleGetChartMemos(ctx context.Context, input *ChartPathInput) (*ChartMemosOutput, error) {
	chart := input.chart()
	memos, err := s.services.Memos.ListChart(ctx, chart)
	if err != nil {
		return nil, err
	}
	return &ChartMemosOutput{Body: ChartMemosResponse{Chart: chart, Memos: memos}}, nil
}

// SaveMemoRequest is the request body for saving a memo.
type SaveMemoRequest struct {
	LaneText string `json:"laneText" maxLength:"64" doc:"Lane layout as written by the player"`
}

// SaveMemoInput contains the chart and memo to save.
type SaveMemoInput struct {
	ChartPathInput
	Body SaveMemoRequest
}

// MemoOutput wraps a memo for Huma.
type MemoOutput struct {
	Body *domain.Memo
}

func (s *Server) handleSaveMemo(ctx context.Context, input *SaveMemoInput) (*MemoOutput, error) {
	memo, err := s.services.Memos.Save(ctx, input.chart(), input.Body.LaneText)
	if err != nil {
		return nil, err
	}
	return &MemoOutput{Body: memo}, nil
}

// DeleteMemoInput identifies one memo.
type DeleteMemoInput struct {
	ChartPathInput
	LaneText string `path:"laneText" doc:"Lane layout of the memo"`
}

func (s *Server) handleDeleteMemo(ctx context.Context, input *DeleteMemoInput) (*struct{}, error) {
	if err := s.services.Memos.Delete(ctx, input.chart(), input.LaneText); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
