package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/laneticket/atari-server/internal/domain"
)

// PutMemo creates or overwrites the memo identified by its chart and lane text.
func (s *Store) PutMemo(ctx context.Context, memo *domain.Memo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validMemoKey(memo.Chart(), memo.LaneText) {
		return ErrInvalidInput.WithCause(fmt.Errorf("memo key contains %q", keySep))
	}

	key := memoKey(memo.Chart(), memo.LaneText)
	defer releaseKey(key)

	if err := s.set(key, memo); err != nil {
		return fmt.Errorf("put memo: %w", err)
	}
	return nil
}

// GetMemo returns one memo. Returns ErrNotFound if it does not exist.
func (s *Store) GetMemo(ctx context.Context, chart domain.ChartKey, laneText string) (*domain.Memo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validMemoKey(chart, laneText) {
		return nil, ErrNotFound
	}

	key := memoKey(chart, laneText)
	defer releaseKey(key)

	var memo domain.Memo
	if err := s.get(key, &memo); err != nil {
		return nil, err
	}
	return &memo, nil
}

// DeleteMemo removes one memo. Returns ErrNotFound if it does not exist.
func (s *Store) DeleteMemo(ctx context.Context, chart domain.ChartKey, laneText string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validMemoKey(chart, laneText) {
		return ErrNotFound
	}

	key := memoKey(chart, laneText)
	defer releaseKey(key)
	return s.delete(key)
}

// ListChartMemos returns the memos of one chart, oldest update first.
func (s *Store) ListChartMemos(ctx context.Context, chart domain.ChartKey) ([]domain.Memo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validKeyPart(chart.SongID) {
		return []domain.Memo{}, nil
	}

	prefix := chartMemoPrefix(chart)
	defer releaseKey(prefix)

	memos := []domain.Memo{}
	err := s.scan(prefix, "", func(_ string, val []byte) (bool, error) {
		var m domain.Memo
		if err := json.Unmarshal(val, &m); err != nil {
			return false, fmt.Errorf("decode memo: %w", err)
		}
		memos = append(memos, m)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(memos, func(a, b domain.Memo) int {
		return a.UpdatedAt.Compare(b.UpdatedAt)
	})
	return memos, nil
}

// ListMemos pages through every memo in key order (song id, difficulty, lane text).
func (s *Store) ListMemos(ctx context.Context, params PaginationParams) (*PaginatedResult[domain.Memo], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params.Validate()

	after, err := DecodeCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if after != "" && !strings.HasPrefix(after, prefixMemo) {
		return nil, ErrInvalidInput.WithCause(fmt.Errorf("cursor %q is not a memo key", after))
	}

	result := &PaginatedResult[domain.Memo]{Items: []domain.Memo{}}
	var lastKey string
	err = s.scan([]byte(prefixMemo), after, func(key string, val []byte) (bool, error) {
		if len(result.Items) == params.Limit {
			result.HasMore = true
			return false, nil
		}
		var m domain.Memo
		if err := json.Unmarshal(val, &m); err != nil {
			return false, fmt.Errorf("decode memo: %w", err)
		}
		result.Items = append(result.Items, m)
		lastKey = key
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if result.HasMore {
		result.NextCursor = EncodeCursor(lastKey)
	}
	return result, nil
}

func validMemoKey(chart domain.ChartKey, laneText string) bool {
	return validKeyPart(chart.SongID) && validKeyPart(string(chart.Difficulty)) && validKeyPart(laneText)
}
