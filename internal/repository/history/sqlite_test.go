package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taichi-iskw/yt-notes/internal/config"
	apperrors "github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/repository/common"
)

func newSQLiteRepo(t *testing.T) Repository {
	ctx := context.Background()
	db, err := config.OpenSQLite(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	require.NoError(t, common.RunSQLiteMigrations(db))

	repo := NewSQLiteRepository(db)
	t.Cleanup(repo.Close)
	return repo
}

func TestSQLiteRepository_UpsertAndGet(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)

	record := sampleRecord("BV1xx411c7mD_p2", now)
	require.NoError(t, repo.Upsert(ctx, record))

	got, err := repo.GetByVideoID(ctx, "BV1xx411c7mD_p2")
	require.NoError(t, err)
	assert.Equal(t, record.Title, got.Title)
	assert.Equal(t, record.Platform, got.Platform)
	assert.Equal(t, record.Status, got.Status)
	require.NotNil(t, got.Part)
	assert.Equal(t, 2, *got.Part)
	assert.True(t, got.HasNativeSubtitle)
	assert.True(t, now.Equal(got.CreatedAt))

	record.Title = "Go 并发（修订）"
	require.NoError(t, repo.Upsert(ctx, record))

	got, err = repo.GetByVideoID(ctx, "BV1xx411c7mD_p2")
	require.NoError(t, err)
	assert.Equal(t, "Go 并发（修订）", got.Title)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteRepository_NotFound(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.GetByVideoID(ctx, "missing")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	err = repo.Delete(ctx, "missing")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	exists, err := repo.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSQLiteRepository_ListOrderAndTrim(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"BV1", "BV2", "BV3", "BV4"} {
		rec := sampleRecord(id, base.Add(time.Duration(i)*time.Minute))
		rec.CollectionID = id
		rec.Part = nil
		require.NoError(t, repo.Upsert(ctx, rec))
	}

	list, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "BV4", list[0].VideoID)
	assert.Equal(t, "BV1", list[3].VideoID)
	assert.Nil(t, list[0].Part)

	page, err := repo.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "BV3", page[0].VideoID)

	removed, err := repo.TrimTo(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	list, err = repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "BV4", list[0].VideoID)
	assert.Equal(t, "BV3", list[1].VideoID)

	cleared, err := repo.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)
}

func TestSQLiteRepository_ListByCollection(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)

	for _, p := range []int{3, 1, 2} {
		part := p
		rec := sampleRecord("BVc_p"+string(rune('0'+p)), now)
		rec.CollectionID = "BVc"
		rec.Part = &part
		require.NoError(t, repo.Upsert(ctx, rec))
	}
	other := sampleRecord("BVother", now)
	other.CollectionID = "BVother"
	require.NoError(t, repo.Upsert(ctx, other))

	parts, err := repo.ListByCollection(ctx, "BVc")
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, "BVc_p1", parts[0].VideoID)
	assert.Equal(t, "BVc_p2", parts[1].VideoID)
	assert.Equal(t, "BVc_p3", parts[2].VideoID)
}

func TestSQLiteRepository_CheckConstraint(t *testing.T) {
	repo := newSQLiteRepo(t)
	rec := sampleRecord("BVbad", time.Now())
	rec.DurationSeconds = -1

	err := repo.Upsert(context.Background(), rec)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidArg, apperrors.CodeOf(err))
}
