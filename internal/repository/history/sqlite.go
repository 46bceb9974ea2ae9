package history

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/model"
	"github.com/Taichi-iskw/yt-notes/internal/repository/common"
)

// sqliteRepository implements Repository using SQLite
type sqliteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a Repository backed by an SQLite database.
// The schema must already be migrated.
func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Upsert(ctx context.Context, record *model.HistoryRecord) error {
	query := `INSERT INTO history_records (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (video_id) DO UPDATE SET
			platform = excluded.platform,
			collection_id = excluded.collection_id,
			part = excluded.part,
			title = excluded.title,
			duration_seconds = excluded.duration_seconds,
			has_native_subtitle = excluded.has_native_subtitle,
			transcript_text = excluded.transcript_text,
			summary_text = excluded.summary_text,
			outline_markdown = excluded.outline_markdown,
			outline_document = excluded.outline_document,
			notes_markdown = excluded.notes_markdown,
			status = excluded.status,
			created_at = excluded.created_at`

	args := recordArgs(record)
	// stored as text, so a single zone keeps the ordering lexical
	args[len(args)-1] = record.CreatedAt.UTC()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return common.HandleSQLiteError(err, "failed to save history record")
	}
	return nil
}

func (r *sqliteRepository) GetByVideoID(ctx context.Context, videoID string) (*model.HistoryRecord, error) {
	query := `SELECT ` + columns + ` FROM history_records WHERE video_id = ?`

	record, err := scanRecord(r.db.QueryRowContext(ctx, query, videoID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "history record not found")
		}
		return nil, common.HandleSQLiteError(err, "failed to get history record")
	}
	return record, nil
}

func (r *sqliteRepository) Exists(ctx context.Context, videoID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM history_records WHERE video_id = ?)`, videoID).Scan(&exists)
	if err != nil {
		return false, common.HandleSQLiteError(err, "failed to check history record")
	}
	return exists, nil
}

func (r *sqliteRepository) List(ctx context.Context, limit, offset int) ([]*model.HistoryRecord, error) {
	query := `SELECT ` + columns + ` FROM history_records ORDER BY created_at DESC, video_id LIMIT ? OFFSET ?`
	return r.query(ctx, "failed to list history records", query, limit, offset)
}

func (r *sqliteRepository) ListByCollection(ctx context.Context, collectionID string) ([]*model.HistoryRecord, error) {
	query := `SELECT ` + columns + ` FROM history_records WHERE collection_id = ? ORDER BY part, created_at DESC`
	return r.query(ctx, "failed to list history records by collection", query, collectionID)
}

func (r *sqliteRepository) query(ctx context.Context, operation, query string, args ...any) ([]*model.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.HandleSQLiteError(err, operation)
	}
	defer rows.Close()

	records := []*model.HistoryRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, common.HandleSQLiteError(err, "failed to scan history record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, common.HandleSQLiteError(err, "failed to iterate history records")
	}
	return records, nil
}

func (r *sqliteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history_records`).Scan(&count); err != nil {
		return 0, common.HandleSQLiteError(err, "failed to count history records")
	}
	return count, nil
}

func (r *sqliteRepository) TrimTo(ctx context.Context, keep int) (int64, error) {
	query := `DELETE FROM history_records WHERE video_id NOT IN (
		SELECT video_id FROM history_records ORDER BY created_at DESC, video_id LIMIT ?)`
	res, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, common.HandleSQLiteError(err, "failed to trim history records")
	}
	return res.RowsAffected()
}

func (r *sqliteRepository) Delete(ctx context.Context, videoID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history_records WHERE video_id = ?`, videoID)
	if err != nil {
		return common.HandleSQLiteError(err, "failed to delete history record")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.HandleSQLiteError(err, "failed to delete history record")
	}
	if n == 0 {
		return apperrors.New(apperrors.CodeNotFound, "history record not found")
	}
	return nil
}

func (r *sqliteRepository) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history_records`)
	if err != nil {
		return 0, common.HandleSQLiteError(err, "failed to clear history records")
	}
	return res.RowsAffected()
}

func (r *sqliteRepository) Close() {
	r.db.Close()
}
