package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
)

func newMemo(songID string, d domain.Difficulty, laneText string, at time.Time) *domain.Memo {
	return &domain.Memo{SongID: songID, Difficulty: d, LaneText: laneText, UpdatedAt: at}
}

func TestPutGetMemo(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.PutMemo(ctx, newMemo("song-1", domain.DifficultyAnother, "1234567", at)))

	got, err := s.GetMemo(ctx, domain.ChartKey{SongID: "song-1", Difficulty: domain.DifficultyAnother}, "1234567")
	require.NoError(t, err)
	assert.Equal(t, "1234567", got.LaneText)
	assert.True(t, got.UpdatedAt.Equal(at))

	// Overwrite keeps a single entry.
	require.NoError(t, s.PutMemo(ctx, newMemo("song-1", domain.DifficultyAnother, "1234567", at.Add(time.Hour))))
	memos, err := s.ListChartMemos(ctx, domain.ChartKey{SongID: "song-1", Difficulty: domain.DifficultyAnother})
	require.NoError(t, err)
	require.Len(t, memos, 1)
	assert.True(t, memos[0].UpdatedAt.Equal(at.Add(time.Hour)))
}

func TestGetMemo_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetMemo(context.Background(), domain.ChartKey{SongID: "nope", Difficulty: domain.DifficultyHyper}, "1234567")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPutMemo_RejectsSeparator(t *testing.T) {
	s := setupTestStore(t)

	err := s.PutMemo(context.Background(), newMemo("song#1", domain.DifficultyAnother, "1234567", time.Now()))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestDeleteMemo(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	chart := domain.ChartKey{SongID: "song-1", Difficulty: domain.DifficultyLeggendaria}

	require.NoError(t, s.PutMemo(ctx, newMemo(chart.SongID, chart.Difficulty, "7654321", time.Now())))
	require.NoError(t, s.DeleteMemo(ctx, chart, "7654321"))

	_, err := s.GetMemo(ctx, chart, "7654321")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteMemo(ctx, chart, "7654321"), ErrNotFound)
}

func TestListChartMemos(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.PutMemo(ctx, newMemo("ab", domain.DifficultyAnother, "1234567", base.Add(2*time.Minute))))
	require.NoError(t, s.PutMemo(ctx, newMemo("ab", domain.DifficultyAnother, "7654321", base)))
	require.NoError(t, s.PutMemo(ctx, newMemo("a", domain.DifficultyAnother, "3142576", base)))
	require.NoError(t, s.PutMemo(ctx, newMemo("ab", domain.DifficultyHyper, "3142576", base)))

	memos, err := s.ListChartMemos(ctx, domain.ChartKey{SongID: "ab", Difficulty: domain.DifficultyAnother})
	require.NoError(t, err)
	require.Len(t, memos, 2)
	assert.Equal(t, "7654321", memos[0].LaneText, "oldest first")
	assert.Equal(t, "1234567", memos[1].LaneText)

	memos, err = s.ListChartMemos(ctx, domain.ChartKey{SongID: "a", Difficulty: domain.DifficultyAnother})
	require.NoError(t, err)
	require.Len(t, memos, 1)
	assert.Equal(t, "3142576", memos[0].LaneText)

	memos, err = s.ListChartMemos(ctx, domain.ChartKey{SongID: "missing", Difficulty: domain.DifficultyAnother})
	require.NoError(t, err)
	assert.NotNil(t, memos)
	assert.Empty(t, memos)
}

func TestListMemos_Pagination(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, songID := range []string{"s1", "s2", "s3", "s4", "s5"} {
		require.NoError(t, s.PutMemo(ctx, newMemo(songID, domain.DifficultyAnother, "1234567", time.Now())))
	}

	var seen []string
	params := PaginationParams{Limit: 2}
	for range 10 {
		page, err := s.ListMemos(ctx, params)
		require.NoError(t, err)
		for _, m := range page.Items {
			seen = append(seen, m.SongID)
		}
		if !page.HasMore {
			assert.Empty(t, page.NextCursor)
			break
		}
		require.NotEmpty(t, page.NextCursor)
		params.Cursor = page.NextCursor
	}

	assert.Equal(t, []string{"s1", "s2", "s3", "s4", "s5"}, seen)
}

func TestListMemos_Empty(t *testing.T) {
	s := setupTestStore(t)

	page, err := s.ListMemos(context.Background(), DefaultPaginationParams())
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}

func TestListMemos_ForeignCursor(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.ListMemos(context.Background(), PaginationParams{Cursor: EncodeCursor("ticket:1")})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}
