package model

import "fmt"

// Stage is a pipeline lifecycle stage
type Stage string

const (
	StageIdle         Stage = "idle"
	StageFetching     Stage = "fetching"
	StageTranscribing Stage = "transcribing"
	StageAnalyzing    Stage = "analyzing"
	StageCompleted    Stage = "completed"
	StageFailed       Stage = "failed"
)

// Repeating a stage is allowed so a stage can report more than one checkpoint.
var allowedTransitions = map[Stage]map[Stage]bool{
	StageIdle: {
		StageFetching: true,
		StageFailed:   true,
	},
	StageFetching: {
		StageFetching:     true,
		StageTranscribing: true,
		StageFailed:       true,
	},
	StageTranscribing: {
		StageTranscribing: true,
		StageAnalyzing:    true,
		StageFailed:       true,
	},
	StageAnalyzing: {
		StageAnalyzing: true,
		StageCompleted: true,
		StageFailed:    true,
	},
	StageCompleted: {},
	StageFailed:    {},
}

// IsKnown reports whether s is a defined stage
func (s Stage) IsKnown() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is possible
func (s Stage) IsTerminal() bool {
	return s == StageCompleted || s == StageFailed
}

// CanTransition reports whether from -> to is a legal move
func CanTransition(from, to Stage) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// ProgressEvent is a single status update pushed to an observer
type ProgressEvent struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
	Percent int    `json:"percent"`
}

func (e ProgressEvent) String() string {
	return fmt.Sprintf("[%s] %d%% %s", e.Stage, e.Percent, e.Message)
}
