package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Taichi-iskw/yt-notes/internal/model"
	"github.com/Taichi-iskw/yt-notes/internal/service/formatter"
	"github.com/Taichi-iskw/yt-notes/internal/service/history"
)

// Formatter renders history records for the terminal
type Formatter interface {
	FormatList(records []*model.HistoryRecord) (string, error)
	FormatGroups(groups []*history.Group) (string, error)
	FormatRecord(record *model.HistoryRecord) (string, error)
}

// TextFormatter renders human-readable output
type TextFormatter struct{}

// FormatList renders one line per record
func (f *TextFormatter) FormatList(records []*model.HistoryRecord) (string, error) {
	if len(records) == 0 {
		return "No history records found.\n", nil
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("%-20s %-10s %-9s %-16s %s\n", "VIDEO ID", "PLATFORM", "DURATION", "CREATED", "TITLE"))
	for _, r := range records {
		output.WriteString(fmt.Sprintf("%-20s %-10s %-9s %-16s %s\n",
			r.VideoID,
			r.Platform,
			formatter.FormatDuration(r.DurationSeconds),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			truncateString(r.Title, 60),
		))
	}
	return output.String(), nil
}

// FormatGroups renders records grouped by collection
func (f *TextFormatter) FormatGroups(groups []*history.Group) (string, error) {
	if len(groups) == 0 {
		return "No history records found.\n", nil
	}

	var output strings.Builder
	for _, g := range groups {
		output.WriteString(fmt.Sprintf("%s  %s (%d)\n", g.CollectionID, truncateString(g.Title, 60), len(g.Records)))
		for _, r := range g.Records {
			part := "-"
			if r.Part != nil {
				part = fmt.Sprintf("P%d", *r.Part)
			}
			output.WriteString(fmt.Sprintf("  %-4s %-20s %s\n", part, r.VideoID, formatter.FormatDuration(r.DurationSeconds)))
		}
	}
	return output.String(), nil
}

// FormatRecord renders a record with its summary
func (f *TextFormatter) FormatRecord(r *model.HistoryRecord) (string, error) {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("Video ID: %s\n", r.VideoID))
	output.WriteString(fmt.Sprintf("Title: %s\n", r.Title))
	output.WriteString(fmt.Sprintf("Platform: %s\n", r.Platform))
	output.WriteString(fmt.Sprintf("URL: %s\n", r.Identity().CanonicalURL()))
	output.WriteString(fmt.Sprintf("Duration: %s\n", formatter.FormatDuration(r.DurationSeconds)))
	output.WriteString(fmt.Sprintf("Native Subtitle: %t\n", r.HasNativeSubtitle))
	output.WriteString(fmt.Sprintf("Created: %s\n", r.CreatedAt.Format(time.RFC3339)))
	output.WriteString("\nSummary:\n")
	output.WriteString("========\n")
	output.WriteString(r.SummaryText)
	output.WriteString("\n")

	return output.String(), nil
}

// JSONFormatter renders indented JSON
type JSONFormatter struct{}

func (f *JSONFormatter) marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// FormatList renders records as a JSON array
func (f *JSONFormatter) FormatList(records []*model.HistoryRecord) (string, error) {
	if records == nil {
		records = []*model.HistoryRecord{}
	}
	return f.marshal(records)
}

// FormatGroups renders groups as a JSON array
func (f *JSONFormatter) FormatGroups(groups []*history.Group) (string, error) {
	if groups == nil {
		groups = []*history.Group{}
	}
	return f.marshal(groups)
}

// FormatRecord renders one record as JSON
func (f *JSONFormatter) FormatRecord(r *model.HistoryRecord) (string, error) {
	return f.marshal(r)
}

// NewFormatter returns the formatter for format (text or json)
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "text", "":
		return &TextFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (expected text or json)", format)
	}
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
