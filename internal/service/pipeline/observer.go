package pipeline

import "github.com/Taichi-iskw/yt-notes/internal/model"

// Observer receives progress events synchronously, in order, on the pipeline's goroutine
type Observer interface {
	OnProgress(event model.ProgressEvent)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(event model.ProgressEvent)

// OnProgress calls f(event)
func (f ObserverFunc) OnProgress(event model.ProgressEvent) {
	f(event)
}

// Recorder is an Observer that keeps every event it receives
type Recorder struct {
	Events []model.ProgressEvent
}

// OnProgress appends event
func (r *Recorder) OnProgress(event model.ProgressEvent) {
	r.Events = append(r.Events, event)
}

// Stages returns the stage of each recorded event
func (r *Recorder) Stages() []model.Stage {
	stages := make([]model.Stage, len(r.Events))
	for i, e := range r.Events {
		stages[i] = e.Stage
	}
	return stages
}

// Last returns the most recent event, or an Idle event when nothing was recorded
func (r *Recorder) Last() model.ProgressEvent {
	if len(r.Events) == 0 {
		return model.ProgressEvent{Stage: model.StageIdle}
	}
	return r.Events[len(r.Events)-1]
}

type nopObserver struct{}

func (nopObserver) OnProgress(model.ProgressEvent) {}
