package model

import "time"

// ProcessingResult is the aggregate produced once at pipeline completion.
// It is owned by the caller after Process returns.
type ProcessingResult struct {
	Identity          VideoIdentity `json:"identity"`
	Title             string        `json:"title"`
	DurationSeconds   int           `json:"duration_seconds"`
	HasNativeSubtitle bool          `json:"has_native_subtitle"`
	TranscriptText    string        `json:"transcript_text"`
	SummaryText       string        `json:"summary_text"`
	OutlineMarkdown   string        `json:"outline_markdown"`
	OutlineDocument   string        `json:"outline_document"`
	NotesMarkdown     string        `json:"notes_markdown"`
	TerminalStatus    Stage         `json:"terminal_status"`
	CompletedAt       time.Time     `json:"completed_at"`
}

// HistoryRecord is a persisted processing result
type HistoryRecord struct {
	VideoID           string    `json:"video_id" db:"video_id"`
	Platform          Platform  `json:"platform" db:"platform"`
	CollectionID      string    `json:"collection_id" db:"collection_id"`
	Part              *int      `json:"part,omitempty" db:"part"`
	Title             string    `json:"title" db:"title"`
	DurationSeconds   int       `json:"duration_seconds" db:"duration_seconds"`
	HasNativeSubtitle bool      `json:"has_native_subtitle" db:"has_native_subtitle"`
	TranscriptText    string    `json:"transcript_text" db:"transcript_text"`
	SummaryText       string    `json:"summary_text" db:"summary_text"`
	OutlineMarkdown   string    `json:"outline_markdown" db:"outline_markdown"`
	OutlineDocument   string    `json:"outline_document" db:"outline_document"`
	NotesMarkdown     string    `json:"notes_markdown" db:"notes_markdown"`
	Status            Stage     `json:"status" db:"status"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// Identity rebuilds the video identity of the record
func (h *HistoryRecord) Identity() VideoIdentity {
	return VideoIdentity{
		Platform:     h.Platform,
		VideoID:      h.VideoID,
		CollectionID: h.CollectionID,
		Part:         h.Part,
	}
}

// NewHistoryRecord converts a finished result into a history record
func NewHistoryRecord(r *ProcessingResult) *HistoryRecord {
	return &HistoryRecord{
		VideoID:           r.Identity.VideoID,
		Platform:          r.Identity.Platform,
		CollectionID:      r.Identity.CollectionID,
		Part:              r.Identity.Part,
		Title:             r.Title,
		DurationSeconds:   r.DurationSeconds,
		HasNativeSubtitle: r.HasNativeSubtitle,
		TranscriptText:    r.TranscriptText,
		SummaryText:       r.SummaryText,
		OutlineMarkdown:   r.OutlineMarkdown,
		OutlineDocument:   r.OutlineDocument,
		NotesMarkdown:     r.NotesMarkdown,
		Status:            r.TerminalStatus,
		CreatedAt:         r.CompletedAt,
	}
}
