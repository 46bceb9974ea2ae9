package history

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taichi-iskw/yt-notes/internal/config"
	apperrors "github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/logger"
	"github.com/Taichi-iskw/yt-notes/internal/model"
	"github.com/Taichi-iskw/yt-notes/internal/repository/common"
	repo "github.com/Taichi-iskw/yt-notes/internal/repository/history"
)

// clock returns successive minutes starting at base
func clock(base time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
}

func newTestService(t *testing.T, maxRecords int) Service {
	ctx := context.Background()
	db, err := config.OpenSQLite(ctx, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	require.NoError(t, common.RunSQLiteMigrations(db))

	r := repo.NewSQLiteRepository(db)
	t.Cleanup(r.Close)

	return NewServiceWithClock(r, maxRecords, clock(time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)), logger.Discard())
}

func result(videoID, collectionID string, part *int) *model.ProcessingResult {
	return &model.ProcessingResult{
		Identity:       model.VideoIdentity{Platform: model.PlatformBilibili, VideoID: videoID, CollectionID: collectionID, Part: part},
		Title:          "title " + videoID,
		SummaryText:    "1. a",
		NotesMarkdown:  "# notes",
		TerminalStatus: model.StageCompleted,
	}
}

func intPtr(i int) *int { return &i }

func TestService_SaveReplacesAndCaps(t *testing.T) {
	svc := newTestService(t, 3)
	ctx := context.Background()

	for _, id := range []string{"BV1", "BV2", "BV3", "BV4"} {
		_, err := svc.Save(ctx, result(id, id, nil))
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "BV4", list[0].VideoID)
	assert.Equal(t, "BV2", list[2].VideoID)

	// Re-saving an existing id replaces it and moves it to the front
	updated := result("BV2", "BV2", nil)
	updated.Title = "updated"
	_, err = svc.Save(ctx, updated)
	require.NoError(t, err)

	list, err = svc.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "BV2", list[0].VideoID)
	assert.Equal(t, "updated", list[0].Title)
}

func TestService_SaveRejectsMissingID(t *testing.T) {
	svc := newTestService(t, 3)
	_, err := svc.Save(context.Background(), &model.ProcessingResult{})
	assert.Equal(t, apperrors.CodeInvalidArg, apperrors.CodeOf(err))
}

func TestService_Groups(t *testing.T) {
	svc := newTestService(t, 10)
	ctx := context.Background()

	_, err := svc.Save(ctx, result("BVc_p2", "BVc", intPtr(2)))
	require.NoError(t, err)
	_, err = svc.Save(ctx, result("BVsolo", "BVsolo", nil))
	require.NoError(t, err)
	_, err = svc.Save(ctx, result("BVc_p1", "BVc", intPtr(1)))
	require.NoError(t, err)

	groups, err := svc.Groups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "BVc", groups[0].CollectionID)
	require.Len(t, groups[0].Records, 2)
	assert.Equal(t, "BVc_p1", groups[0].Records[0].VideoID)
	assert.Equal(t, "BVc_p2", groups[0].Records[1].VideoID)

	assert.Equal(t, "BVsolo", groups[1].CollectionID)
	assert.Len(t, groups[1].Records, 1)
}

func TestService_ImportSkipsExisting(t *testing.T) {
	svc := newTestService(t, 10)
	ctx := context.Background()

	_, err := svc.Save(ctx, result("BV1", "BV1", nil))
	require.NoError(t, err)

	imported, err := svc.Import(ctx, []*model.HistoryRecord{
		{VideoID: "BV1", Title: "dup"},
		{VideoID: "BV2", Title: "new"},
		{VideoID: "BV2", Title: "dup in batch"},
		{VideoID: "", Title: "no id"},
		nil,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	got, err := svc.Get(ctx, "BV1")
	require.NoError(t, err)
	assert.Equal(t, "title BV1", got.Title)

	got, err = svc.Get(ctx, "BV2")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, model.StageCompleted, got.Status)
	assert.Equal(t, model.PlatformBilibili, got.Platform)
}

func TestService_ExportImportJSON(t *testing.T) {
	src := newTestService(t, 10)
	ctx := context.Background()

	for _, id := range []string{"BV1", "BV2"} {
		_, err := src.Save(ctx, result(id, id, nil))
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, src.ExportJSON(ctx, &buf))

	var exported []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))
	assert.Len(t, exported, 2)

	dst := newTestService(t, 10)
	imported, err := dst.ImportJSON(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	_, err = dst.ImportJSON(ctx, strings.NewReader("{not json"))
	assert.Equal(t, apperrors.CodeInvalidArg, apperrors.CodeOf(err))
}

func TestService_ExportEmpty(t *testing.T) {
	svc := newTestService(t, 10)
	records, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestService_DeleteAndClear(t *testing.T) {
	svc := newTestService(t, 10)
	ctx := context.Background()

	for _, id := range []string{"BV1", "BV2", "BV3"} {
		_, err := svc.Save(ctx, result(id, id, nil))
		require.NoError(t, err)
	}

	require.NoError(t, svc.Delete(ctx, "BV2"))
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(svc.Delete(ctx, "BV2")))

	cleared, err := svc.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)
}

func TestService_RepositoryErrorsPropagate(t *testing.T) {
	failing := &mockRepository{
		UpsertFunc: func(ctx context.Context, record *model.HistoryRecord) error {
			return apperrors.New(apperrors.CodeUnavailable, "database is locked")
		},
	}
	svc := NewService(failing, 10, logger.Discard())

	_, err := svc.Save(context.Background(), result("BV1", "BV1", nil))
	assert.Equal(t, apperrors.CodeUnavailable, apperrors.CodeOf(err))
	assert.Equal(t, 0, failing.trimCalls)
}
