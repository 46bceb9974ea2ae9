package history

import (
	"context"

	"github.com/Taichi-iskw/yt-notes/internal/model"
)

// Repository defines operations for HistoryRecord persistence.
// Records are keyed by video id; newer records sort first.
type Repository interface {
	// Upsert replaces the record with the same video id, or inserts it
	Upsert(ctx context.Context, record *model.HistoryRecord) error
	GetByVideoID(ctx context.Context, videoID string) (*model.HistoryRecord, error)
	Exists(ctx context.Context, videoID string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*model.HistoryRecord, error)
	ListByCollection(ctx context.Context, collectionID string) ([]*model.HistoryRecord, error)
	Count(ctx context.Context) (int, error)
	// TrimTo keeps the newest keep records and returns how many were removed
	TrimTo(ctx context.Context, keep int) (int64, error)
	Delete(ctx context.Context, videoID string) error
	Clear(ctx context.Context) (int64, error)
	Close()
}

const columns = "video_id, platform, collection_id, part, title, duration_seconds, has_native_subtitle, " +
	"transcript_text, summary_text, outline_markdown, outline_document, notes_markdown, status, created_at"

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*model.HistoryRecord, error) {
	var r model.HistoryRecord
	err := row.Scan(
		&r.VideoID,
		&r.Platform,
		&r.CollectionID,
		&r.Part,
		&r.Title,
		&r.DurationSeconds,
		&r.HasNativeSubtitle,
		&r.TranscriptText,
		&r.SummaryText,
		&r.OutlineMarkdown,
		&r.OutlineDocument,
		&r.NotesMarkdown,
		&r.Status,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func recordArgs(r *model.HistoryRecord) []any {
	return []any{
		r.VideoID,
		string(r.Platform),
		r.CollectionID,
		r.Part,
		r.Title,
		r.DurationSeconds,
		r.HasNativeSubtitle,
		r.TranscriptText,
		r.SummaryText,
		r.OutlineMarkdown,
		r.OutlineDocument,
		r.NotesMarkdown,
		string(r.Status),
		r.CreatedAt,
	}
}
