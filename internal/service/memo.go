package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
	"github.com/laneticket/atari-server/internal/store"
	"github.com/laneticket/atari-server/internal/validation"
)

// MemoStore is the persistence the memo service needs.
type MemoStore interface {
	PutMemo(ctx context.Context, memo *domain.Memo) error
	DeleteMemo(ctx context.Context, chart domain.ChartKey, laneText string) error
	ListChartMemos(ctx context.Context, chart domain.ChartKey) ([]domain.Memo, error)
	ListMemos(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[domain.Memo], error)
}

// MemoService manages the lane layouts a player notes per chart.
type MemoService struct {
	store     MemoStore
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewMemoService creates a new memo service.
func NewMemoService(store MemoStore, validator *validation.Validator, logger *slog.Logger) *MemoService {
	return &MemoService{
		store:     store,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

type memoInput struct {
	SongID     string `json:"songId" validate:"required,max=128"`
	Difficulty string `json:"difficulty" validate:"difficulty"`
	LaneText   string `json:"laneText" validate:"required,max=64"`
}

// Save stores a memo for the chart. Saving the same lane text again refreshes its timestamp.
func (s *MemoService) Save(ctx context.Context, chart domain.ChartKey, laneText string) (*domain.Memo, error) {
	laneText = strings.TrimSpace(laneText)
	if err := s.validator.Validate(memoInput{
		SongID:     chart.SongID,
		Difficulty: string(chart.Difficulty),
		LaneText:   laneText,
	}); err != nil {
		return nil, err
	}

	memo := &domain.Memo{
		SongID:     chart.SongID,
		Difficulty: chart.Difficulty,
		LaneText:   laneText,
		UpdatedAt:  s.now().UTC(),
	}
	if err := s.store.PutMemo(ctx, memo); err != nil {
		return nil, err
	}

	s.logger.Debug("memo saved", "chart", chart.String(), "lane_text", laneText)
	return memo, nil
}

// ListChart returns the memos of one chart, oldest first.
func (s *MemoService) ListChart(ctx context.Context, chart domain.ChartKey) ([]domain.Memo, error) {
	if err := s.checkChart(chart); err != nil {
		return nil, err
	}
	return s.store.ListChartMemos(ctx, chart)
}

// Delete removes one memo.
func (s *MemoService) Delete(ctx context.Context, chart domain.ChartKey, laneText string) error {
	if err := s.checkChart(chart); err != nil {
		return err
	}
	if err := s.store.DeleteMemo(ctx, chart, laneText); err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFoundf("memo %q not found for %s", laneText, chart)
		}
		return err
	}
	return nil
}

// List pages through every memo.
func (s *MemoService) List(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[domain.Memo], error) {
	return s.store.ListMemos(ctx, params)
}

func (s *MemoService) checkChart(chart domain.ChartKey) error {
	if chart.SongID == "" {
		return domainerrors.ValidationWithDetails("invalid chart", map[string]string{"songId": "is required"})
	}
	return s.validator.ValidateVar("difficulty", string(chart.Difficulty), "difficulty")
}
