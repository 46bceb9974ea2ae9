package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Taichi-iskw/yt-notes/internal/model"
	"github.com/Taichi-iskw/yt-notes/internal/service/formatter"
)

// Output file names
const (
	NotesFile      = "notes.md"
	MindmapFile    = "mindmap.html"
	MermaidFile    = "mindmap.mmd"
	TranscriptFile = "transcript.txt"
)

// File is one named artifact of a processed video
type File struct {
	Name    string
	Content []byte
}

// Files returns the artifacts of record in a stable order.
// Empty artifacts are skipped.
func Files(record *model.HistoryRecord) []File {
	candidates := []File{
		{Name: NotesFile, Content: []byte(record.NotesMarkdown)},
		{Name: MindmapFile, Content: []byte(record.OutlineDocument)},
		{Name: MermaidFile, Content: []byte(mermaid(record.OutlineMarkdown))},
		{Name: TranscriptFile, Content: []byte(record.TranscriptText)},
	}

	files := make([]File, 0, len(candidates))
	for _, f := range candidates {
		if len(f.Content) > 0 {
			files = append(files, f)
		}
	}
	return files
}

func mermaid(outline string) string {
	if outline == "" {
		return ""
	}
	return formatter.RenderMermaid(outline)
}

// WriteZip writes the artifacts of record as a zip archive to w
func WriteZip(w io.Writer, record *model.HistoryRecord) error {
	modified := record.CreatedAt
	if modified.IsZero() {
		modified = time.Now()
	}

	zw := zip.NewWriter(w)
	for _, f := range Files(record) {
		header := &zip.FileHeader{
			Name:     record.VideoID + "/" + f.Name,
			Method:   zip.Deflate,
			Modified: modified,
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to add %s to bundle: %w", f.Name, err)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return fmt.Errorf("failed to write %s to bundle: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish bundle: %w", err)
	}
	return nil
}

// Zip returns the archive bytes for record
func Zip(record *model.HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteZip(&buf, record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDir writes the artifacts of record into dir/{video_id}/ and returns that directory
func WriteDir(dir string, record *model.HistoryRecord) (string, error) {
	target := filepath.Join(dir, record.VideoID)
	if err := os.MkdirAll(target, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, f := range Files(record) {
		path := filepath.Join(target, f.Name)
		if err := os.WriteFile(path, f.Content, 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return target, nil
}

// WriteZipFile writes the archive to dir/{video_id}.zip and returns its path
func WriteZipFile(dir string, record *model.HistoryRecord) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, record.VideoID+".zip")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create bundle file: %w", err)
	}
	defer file.Close()

	if err := WriteZip(file, record); err != nil {
		return "", err
	}
	return path, nil
}
