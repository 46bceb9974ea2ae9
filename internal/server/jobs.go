package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/model"
	"github.com/Taichi-iskw/yt-notes/internal/service/fetcher"
	"github.com/Taichi-iskw/yt-notes/internal/service/history"
	"github.com/Taichi-iskw/yt-notes/internal/service/pipeline"
)

// Job is a snapshot of one pipeline run
type Job struct {
	ID        string      `json:"id"`
	URL       string      `json:"url"`
	VideoID   string      `json:"video_id"`
	Stage     model.Stage `json:"stage"`
	Message   string      `json:"message"`
	Percent   int         `json:"percent"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Tracker runs pipelines in the background and keeps their state in memory.
// At most one job per video id is in flight at a time.
type Tracker struct {
	processor pipeline.Processor
	history   history.Service
	baseCtx   context.Context
	sem       chan struct{}
	now       func() time.Time
	log       logrus.FieldLogger

	mu     sync.RWMutex
	jobs   map[string]*Job
	active map[string]string // video id -> job id
	wg     sync.WaitGroup
}

// NewTracker creates a tracker. Jobs that are still queued when baseCtx is
// done fail; jobs already running finish and are saved. history may be nil
// to skip saving results.
func NewTracker(baseCtx context.Context, processor pipeline.Processor, hist history.Service, maxConcurrent int, log logrus.FieldLogger) *Tracker {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Tracker{
		processor: processor,
		history:   hist,
		baseCtx:   baseCtx,
		sem:       make(chan struct{}, maxConcurrent),
		now:       time.Now,
		log:       log,
		jobs:      map[string]*Job{},
		active:    map[string]string{},
	}
}

// Submit starts a job for rawURL. When a job for the same video is still
// running, that job is returned with created=false.
func (t *Tracker) Submit(rawURL string) (job Job, created bool, err error) {
	identity, err := fetcher.ParseIdentity(rawURL)
	if err != nil {
		return Job{}, false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.active[identity.VideoID]; ok {
		return *t.jobs[id], false, nil
	}

	now := t.now()
	j := &Job{
		ID:        uuid.New().String(),
		URL:       rawURL,
		VideoID:   identity.VideoID,
		Stage:     model.StageIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.jobs[j.ID] = j
	t.active[j.VideoID] = j.ID

	t.wg.Add(1)
	go t.run(j.ID, rawURL, identity.VideoID)

	t.log.WithFields(logrus.Fields{"job_id": j.ID, "video_id": j.VideoID}).Info("job submitted")
	return *j, true, nil
}

// Get returns a snapshot of the job with id
func (t *Tracker) Get(id string) (Job, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	j, ok := t.jobs[id]
	if !ok {
		return Job{}, errors.New(errors.CodeNotFound, "job not found")
	}
	return *j, nil
}

// Wait blocks until every submitted job has finished
func (t *Tracker) Wait() {
	t.wg.Wait()
}

func (t *Tracker) run(jobID, rawURL, videoID string) {
	defer t.wg.Done()
	defer t.release(videoID)

	log := t.log.WithFields(logrus.Fields{"job_id": jobID, "video_id": videoID})

	select {
	case t.sem <- struct{}{}:
		defer func() { <-t.sem }()
	case <-t.baseCtx.Done():
		t.update(jobID, func(j *Job) {
			j.Stage = model.StageFailed
			j.Error = "server shutting down"
		})
		return
	}

	// Running jobs outlive shutdown; Shutdown waits for them instead
	ctx := context.WithoutCancel(t.baseCtx)

	var done model.ProgressEvent
	observer := pipeline.ObserverFunc(func(event model.ProgressEvent) {
		// Completed is published once the result is in history
		if event.Stage == model.StageCompleted {
			done = event
			return
		}
		t.update(jobID, func(j *Job) {
			j.Stage = event.Stage
			j.Message = event.Message
			j.Percent = event.Percent
		})
	})

	result, err := t.processor.Process(ctx, rawURL, observer)
	if err != nil {
		t.update(jobID, func(j *Job) {
			j.Stage = model.StageFailed
			j.Error = errors.MessageOf(err)
		})
		log.WithError(err).Warn("job failed")
		return
	}

	if t.history != nil {
		if _, err := t.history.Save(ctx, result); err != nil {
			t.update(jobID, func(j *Job) {
				j.Stage = model.StageFailed
				j.Error = errors.MessageOf(err)
			})
			log.WithError(err).Error("failed to save job result to history")
			return
		}
	}

	if done.Stage == "" {
		done = model.ProgressEvent{Stage: model.StageCompleted, Percent: 100}
	}
	t.update(jobID, func(j *Job) {
		j.Stage = done.Stage
		j.Message = done.Message
		j.Percent = done.Percent
	})
	log.Info("job completed")
}

func (t *Tracker) update(jobID string, fn func(*Job)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if j, ok := t.jobs[jobID]; ok {
		fn(j)
		j.UpdatedAt = t.now()
	}
}

func (t *Tracker) release(videoID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.active, videoID)
}
