package repository

import (
	"context"
	"testing"

	"github.com/minjae-ko/gyomucal/internal/db"
	"github.com/minjae-ko/gyomucal/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteDescriptionRepo {
	t.Helper()
	conn, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewSQLiteDescriptionRepo(conn)
}

func TestDescriptionRepo_PutGetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	d := Description{
		EventID:   "event-2025-3-2-예산편성-0",
		Content:   "## 업무 개요\n예산편성 기본계획 수립...",
		Citations: []llm.Citation{{URL: "https://law.go.kr/1", Title: "지방재정법"}},
	}
	require.NoError(t, repo.Put(ctx, d))

	got, err := repo.Get(ctx, d.EventID)
	require.NoError(t, err)
	assert.Equal(t, d.Content, got.Content)
	assert.Equal(t, d.Citations, got.Citations)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestDescriptionRepo_GetMissing(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Get(context.Background(), "user-unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDescriptionRepo_PutReplacesExisting(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, Description{EventID: "user-1", Content: "old"}))
	require.NoError(t, repo.Put(ctx, Description{EventID: "user-1", Content: "new"}))

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Content)
	assert.Empty(t, got.Citations)
}

func TestDescriptionRepo_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, Description{EventID: "user-1", Content: "x"}))
	require.NoError(t, repo.Delete(ctx, "user-1"))
	_, err := repo.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent row is not an error.
	assert.NoError(t, repo.Delete(ctx, "user-1"))
}
