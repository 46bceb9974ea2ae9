package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/model"
	repo "github.com/Taichi-iskw/yt-notes/internal/repository/history"
)

// DefaultMaxRecords is used when no cap is configured
const DefaultMaxRecords = 50

// Group is every stored part of one collection
type Group struct {
	CollectionID string                 `json:"collection_id"`
	Title        string                 `json:"title"`
	Records      []*model.HistoryRecord `json:"records"`
	LatestAt     time.Time              `json:"latest_at"`
}

// Service manages processed-video history
type Service interface {
	// Save stores result, replacing any record with the same video id, then trims to the cap
	Save(ctx context.Context, result *model.ProcessingResult) (*model.HistoryRecord, error)
	Get(ctx context.Context, videoID string) (*model.HistoryRecord, error)
	List(ctx context.Context, limit, offset int) ([]*model.HistoryRecord, error)
	Groups(ctx context.Context) ([]*Group, error)
	Delete(ctx context.Context, videoID string) error
	Clear(ctx context.Context) (int64, error)
	// Import adds records whose video id is not stored yet and returns how many were added
	Import(ctx context.Context, records []*model.HistoryRecord) (int, error)
	Export(ctx context.Context) ([]*model.HistoryRecord, error)
	ImportJSON(ctx context.Context, r io.Reader) (int, error)
	ExportJSON(ctx context.Context, w io.Writer) error
}

type service struct {
	repo       repo.Repository
	maxRecords int
	now        func() time.Time
	log        logrus.FieldLogger
}

// NewService creates a history service over repository
func NewService(repository repo.Repository, maxRecords int, log logrus.FieldLogger) Service {
	return NewServiceWithClock(repository, maxRecords, time.Now, log)
}

// NewServiceWithClock creates a history service with a custom time source (for testing)
func NewServiceWithClock(repository repo.Repository, maxRecords int, now func() time.Time, log logrus.FieldLogger) Service {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &service{
		repo:       repository,
		maxRecords: maxRecords,
		now:        now,
		log:        log,
	}
}

func (s *service) Save(ctx context.Context, result *model.ProcessingResult) (*model.HistoryRecord, error) {
	if result == nil || result.Identity.VideoID == "" {
		return nil, errors.New(errors.CodeInvalidArg, "result has no video id")
	}

	record := model.NewHistoryRecord(result)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now()
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	if err := s.trim(ctx); err != nil {
		return nil, err
	}

	s.log.WithField("video_id", record.VideoID).Info("saved history record")
	return record, nil
}

func (s *service) trim(ctx context.Context) error {
	removed, err := s.repo.TrimTo(ctx, s.maxRecords)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.log.WithFields(logrus.Fields{"removed": removed, "max_records": s.maxRecords}).Debug("trimmed history")
	}
	return nil
}

func (s *service) Get(ctx context.Context, videoID string) (*model.HistoryRecord, error) {
	return s.repo.GetByVideoID(ctx, videoID)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]*model.HistoryRecord, error) {
	if limit <= 0 {
		limit = s.maxRecords
	}
	if offset < 0 {
		return nil, errors.New(errors.CodeInvalidArg, "offset must not be negative")
	}
	return s.repo.List(ctx, limit, offset)
}

// Groups buckets the stored records by collection, newest collection first.
// Parts inside a group are ordered by part number.
func (s *service) Groups(ctx context.Context) ([]*Group, error) {
	records, err := s.repo.List(ctx, s.maxRecords, 0)
	if err != nil {
		return nil, err
	}

	byID := map[string]*Group{}
	var groups []*Group
	for _, r := range records {
		key := r.CollectionID
		if key == "" {
			key = r.VideoID
		}
		g, ok := byID[key]
		if !ok {
			g = &Group{CollectionID: key, Title: r.Title, LatestAt: r.CreatedAt}
			byID[key] = g
			groups = append(groups, g)
		}
		g.Records = append(g.Records, r)
		if r.CreatedAt.After(g.LatestAt) {
			g.LatestAt = r.CreatedAt
		}
	}

	for _, g := range groups {
		sort.SliceStable(g.Records, func(i, j int) bool {
			return partNumber(g.Records[i]) < partNumber(g.Records[j])
		})
	}
	return groups, nil
}

func partNumber(r *model.HistoryRecord) int {
	if r.Part == nil {
		return 0
	}
	return *r.Part
}

func (s *service) Delete(ctx context.Context, videoID string) error {
	return s.repo.Delete(ctx, videoID)
}

func (s *service) Clear(ctx context.Context) (int64, error) {
	return s.repo.Clear(ctx)
}

func (s *service) Import(ctx context.Context, records []*model.HistoryRecord) (int, error) {
	imported := 0
	seen := map[string]bool{}

	for _, r := range records {
		if r == nil || r.VideoID == "" || seen[r.VideoID] {
			continue
		}
		seen[r.VideoID] = true

		exists, err := s.repo.Exists(ctx, r.VideoID)
		if err != nil {
			return imported, err
		}
		if exists {
			continue
		}

		r.CreatedAt = s.now()
		if r.Status == "" {
			r.Status = model.StageCompleted
		}
		if r.Platform == "" {
			r.Platform = model.PlatformBilibili
		}
		if err := s.repo.Upsert(ctx, r); err != nil {
			return imported, err
		}
		imported++
	}

	if imported > 0 {
		if err := s.trim(ctx); err != nil {
			return imported, err
		}
	}
	s.log.WithFields(logrus.Fields{"imported": imported, "offered": len(records)}).Info("imported history")
	return imported, nil
}

func (s *service) Export(ctx context.Context) ([]*model.HistoryRecord, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []*model.HistoryRecord{}, nil
	}
	return s.repo.List(ctx, count, 0)
}

func (s *service) ImportJSON(ctx context.Context, r io.Reader) (int, error) {
	var records []*model.HistoryRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, errors.Wrap(err, errors.CodeInvalidArg, "history file is not a JSON array of records")
	}
	return s.Import(ctx, records)
}

func (s *service) ExportJSON(ctx context.Context, w io.Writer) error {
	records, err := s.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to write history export: %w", err)
	}
	return nil
}
