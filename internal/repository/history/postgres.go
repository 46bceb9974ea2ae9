package history

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/model"
	"github.com/Taichi-iskw/yt-notes/internal/repository/common"
)

// Pool interface for abstracting pgx connection pool
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	pool Pool
}

// NewPostgresRepository creates a Repository backed by a pgx pool
func NewPostgresRepository(pool Pool) Repository {
	return &postgresRepository{pool: pool}
}

// Upsert creates or replaces the record for its video id
func (r *postgresRepository) Upsert(ctx context.Context, record *model.HistoryRecord) error {
	sql := `INSERT INTO history_records (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (video_id) DO UPDATE SET
			platform = EXCLUDED.platform,
			collection_id = EXCLUDED.collection_id,
			part = EXCLUDED.part,
			title = EXCLUDED.title,
			duration_seconds = EXCLUDED.duration_seconds,
			has_native_subtitle = EXCLUDED.has_native_subtitle,
			transcript_text = EXCLUDED.transcript_text,
			summary_text = EXCLUDED.summary_text,
			outline_markdown = EXCLUDED.outline_markdown,
			outline_document = EXCLUDED.outline_document,
			notes_markdown = EXCLUDED.notes_markdown,
			status = EXCLUDED.status,
			created_at = EXCLUDED.created_at`

	_, err := r.pool.Exec(ctx, sql, recordArgs(record)...)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to save history record")
	}
	return nil
}

// GetByVideoID retrieves a record by video id
func (r *postgresRepository) GetByVideoID(ctx context.Context, videoID string) (*model.HistoryRecord, error) {
	sql := `SELECT ` + columns + ` FROM history_records WHERE video_id = $1`

	record, err := scanRecord(r.pool.QueryRow(ctx, sql, videoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "history record not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get history record")
	}
	return record, nil
}

// Exists reports whether a record for videoID is stored
func (r *postgresRepository) Exists(ctx context.Context, videoID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM history_records WHERE video_id = $1)`, videoID).Scan(&exists)
	if err != nil {
		return false, common.HandlePostgreSQLError(err, "failed to check history record")
	}
	return exists, nil
}

// List retrieves records newest first with pagination
func (r *postgresRepository) List(ctx context.Context, limit, offset int) ([]*model.HistoryRecord, error) {
	sql := `SELECT ` + columns + ` FROM history_records ORDER BY created_at DESC, video_id LIMIT $1 OFFSET $2`
	return r.query(ctx, "failed to list history records", sql, limit, offset)
}

// ListByCollection retrieves every part of a collection in part order
func (r *postgresRepository) ListByCollection(ctx context.Context, collectionID string) ([]*model.HistoryRecord, error) {
	sql := `SELECT ` + columns + ` FROM history_records WHERE collection_id = $1 ORDER BY part NULLS FIRST, created_at DESC`
	return r.query(ctx, "failed to list history records by collection", sql, collectionID)
}

func (r *postgresRepository) query(ctx context.Context, operation, sql string, args ...any) ([]*model.HistoryRecord, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, operation)
	}
	defer rows.Close()

	records := []*model.HistoryRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan history record")
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate history records")
	}
	return records, nil
}

// Count returns the number of stored records
func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM history_records`).Scan(&count); err != nil {
		return 0, common.HandlePostgreSQLError(err, "failed to count history records")
	}
	return count, nil
}

// TrimTo deletes everything but the newest keep records
func (r *postgresRepository) TrimTo(ctx context.Context, keep int) (int64, error) {
	sql := `DELETE FROM history_records WHERE video_id NOT IN (
		SELECT video_id FROM history_records ORDER BY created_at DESC, video_id LIMIT $1)`
	tag, err := r.pool.Exec(ctx, sql, keep)
	if err != nil {
		return 0, common.HandlePostgreSQLError(err, "failed to trim history records")
	}
	return tag.RowsAffected(), nil
}

// Delete deletes a record by video id
func (r *postgresRepository) Delete(ctx context.Context, videoID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM history_records WHERE video_id = $1`, videoID)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to delete history record")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "history record not found")
	}
	return nil
}

// Clear deletes every record
func (r *postgresRepository) Clear(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM history_records`)
	if err != nil {
		return 0, common.HandlePostgreSQLError(err, "failed to clear history records")
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) Close() {
	r.pool.Close()
}
