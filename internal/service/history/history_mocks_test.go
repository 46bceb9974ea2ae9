package history

import (
	"context"

	"github.com/Taichi-iskw/yt-notes/internal/model"
)

// mockRepository mocks repo.Repository
type mockRepository struct {
	UpsertFunc func(ctx context.Context, record *model.HistoryRecord) error
	ExistsFunc func(ctx context.Context, videoID string) (bool, error)
	trimCalls  int
}

func (m *mockRepository) Upsert(ctx context.Context, record *model.HistoryRecord) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, record)
	}
	return nil
}

func (m *mockRepository) GetByVideoID(ctx context.Context, videoID string) (*model.HistoryRecord, error) {
	return nil, nil
}

func (m *mockRepository) Exists(ctx context.Context, videoID string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, videoID)
	}
	return false, nil
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]*model.HistoryRecord, error) {
	return []*model.HistoryRecord{}, nil
}

func (m *mockRepository) ListByCollection(ctx context.Context, collectionID string) ([]*model.HistoryRecord, error) {
	return []*model.HistoryRecord{}, nil
}

func (m *mockRepository) Count(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *mockRepository) TrimTo(ctx context.Context, keep int) (int64, error) {
	m.trimCalls++
	return 0, nil
}

func (m *mockRepository) Delete(ctx context.Context, videoID string) error {
	return nil
}

func (m *mockRepository) Clear(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockRepository) Close() {}
