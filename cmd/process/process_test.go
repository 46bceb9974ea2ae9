package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/model"
	"github.com/Taichi-iskw/yt-notes/internal/service/history"
	"github.com/Taichi-iskw/yt-notes/internal/service/pipeline"
)

// mockProcessor mocks pipeline.Processor
type mockProcessor struct {
	ProcessFunc func(ctx context.Context, rawURL string, observer pipeline.Observer) (*model.ProcessingResult, error)
}

func (m *mockProcessor) Process(ctx context.Context, rawURL string, observer pipeline.Observer) (*model.ProcessingResult, error) {
	return m.ProcessFunc(ctx, rawURL, observer)
}

// mockHistory mocks history.Service; only Save is used by the process command
type mockHistory struct {
	history.Service
	saved []*model.ProcessingResult
}

func (m *mockHistory) Save(ctx context.Context, result *model.ProcessingResult) (*model.HistoryRecord, error) {
	m.saved = append(m.saved, result)
	return model.NewHistoryRecord(result), nil
}

type mockUploader struct {
	UploadFunc func(ctx context.Context, record *model.HistoryRecord) (string, error)
}

func (m *mockUploader) Upload(ctx context.Context, record *model.HistoryRecord) (string, error) {
	return m.UploadFunc(ctx, record)
}

// mockDependencies mocks Dependencies
type mockDependencies struct {
	processor  pipeline.Processor
	history    *mockHistory
	uploader   Uploader
	outputDir  string
	historyErr error
}

func (m *mockDependencies) Processor(ctx context.Context) (pipeline.Processor, error) {
	return m.processor, nil
}

func (m *mockDependencies) History(ctx context.Context) (history.Service, func(), error) {
	if m.historyErr != nil {
		return nil, nil, m.historyErr
	}
	return m.history, func() {}, nil
}

func (m *mockDependencies) Uploader(ctx context.Context) (Uploader, error) {
	if m.uploader == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "storage.s3.bucket is not set")
	}
	return m.uploader, nil
}

func (m *mockDependencies) OutputDir() string {
	return m.outputDir
}

func completedResult() *model.ProcessingResult {
	return &model.ProcessingResult{
		Identity:        model.VideoIdentity{Platform: model.PlatformBilibili, VideoID: "BV1xx411c7mD", CollectionID: "BV1xx411c7mD"},
		Title:           "Sample",
		TranscriptText:  "hello",
		OutlineMarkdown: "- Root",
		OutlineDocument: "<html></html>",
		NotesMarkdown:   "# Sample",
		TerminalStatus:  model.StageCompleted,
	}
}

func succeeding() *mockProcessor {
	return &mockProcessor{
		ProcessFunc: func(ctx context.Context, rawURL string, observer pipeline.Observer) (*model.ProcessingResult, error) {
			observer.OnProgress(model.ProgressEvent{Stage: model.StageFetching, Message: "正在获取视频信息...", Percent: 5})
			observer.OnProgress(model.ProgressEvent{Stage: model.StageCompleted, Message: "处理完成！", Percent: 100})
			return completedResult(), nil
		},
	}
}

func TestProcessCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		setupDeps   func(*mockDependencies)
		wantErr     bool
		checkResult func(t *testing.T, deps *mockDependencies, output string)
	}{
		{
			name: "writes notes and saves history",
			args: []string{"--plain", "https://www.bilibili.com/video/BV1xx411c7mD"},
			checkResult: func(t *testing.T, deps *mockDependencies, output string) {
				assert.Contains(t, output, "[fetching] 5% 正在获取视频信息...")
				assert.Contains(t, output, "[completed] 100% 处理完成！")

				notes, err := os.ReadFile(filepath.Join(deps.outputDir, "BV1xx411c7mD", "notes.md"))
				require.NoError(t, err)
				assert.Equal(t, "# Sample", string(notes))
				assert.FileExists(t, filepath.Join(deps.outputDir, "BV1xx411c7mD", "mindmap.html"))
				assert.FileExists(t, filepath.Join(deps.outputDir, "BV1xx411c7mD", "transcript.txt"))
				assert.NoFileExists(t, filepath.Join(deps.outputDir, "BV1xx411c7mD.zip"))

				assert.Len(t, deps.history.saved, 1)
			},
		},
		{
			name: "bundle without saving",
			args: []string{"--plain", "--bundle", "--save=false", "https://www.bilibili.com/video/BV1xx411c7mD"},
			checkResult: func(t *testing.T, deps *mockDependencies, output string) {
				assert.FileExists(t, filepath.Join(deps.outputDir, "BV1xx411c7mD.zip"))
				assert.Empty(t, deps.history.saved)
			},
		},
		{
			name: "upload",
			args: []string{"--plain", "--upload", "--save=false", "https://www.bilibili.com/video/BV1xx411c7mD"},
			setupDeps: func(d *mockDependencies) {
				d.uploader = &mockUploader{
					UploadFunc: func(ctx context.Context, record *model.HistoryRecord) (string, error) {
						return "notes/" + record.VideoID + ".zip", nil
					},
				}
			},
			checkResult: func(t *testing.T, deps *mockDependencies, output string) {
				assert.Contains(t, output, "Uploaded:   notes/BV1xx411c7mD.zip")
			},
		},
		{
			name:    "upload without storage configured",
			args:    []string{"--plain", "--upload", "https://www.bilibili.com/video/BV1xx411c7mD"},
			wantErr: true,
		},
		{
			name: "pipeline failure",
			args: []string{"--plain", "https://www.bilibili.com/"},
			setupDeps: func(d *mockDependencies) {
				d.processor = &mockProcessor{
					ProcessFunc: func(ctx context.Context, rawURL string, observer pipeline.Observer) (*model.ProcessingResult, error) {
						return nil, apperrors.New(apperrors.CodeInvalidArg, "no video identifier (BV/av) found in url")
					},
				}
			},
			wantErr: true,
		},
		{
			name: "history unavailable",
			args: []string{"--plain", "https://www.bilibili.com/video/BV1xx411c7mD"},
			setupDeps: func(d *mockDependencies) {
				d.historyErr = errors.New("database is locked")
			},
			wantErr: true,
		},
		{
			name:    "missing url",
			args:    []string{"--plain"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := &mockDependencies{
				processor: succeeding(),
				history:   &mockHistory{},
				outputDir: t.TempDir(),
			}
			if tt.setupDeps != nil {
				tt.setupDeps(deps)
			}

			cmd := NewProcessCommand(deps)
			var buf bytes.Buffer
			cmd.SetOut(&buf)
			cmd.SetErr(&buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.checkResult != nil {
				tt.checkResult(t, deps, buf.String())
			}
		})
	}
}

func TestProcessCommandTimeout(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantDeadline bool
	}{
		{
			name:         "no deadline by default",
			args:         []string{"--plain", "https://www.bilibili.com/video/BV1xx411c7mD"},
			wantDeadline: false,
		},
		{
			name:         "zero disables the deadline",
			args:         []string{"--plain", "--timeout", "0", "https://www.bilibili.com/video/BV1xx411c7mD"},
			wantDeadline: false,
		},
		{
			name:         "positive timeout sets a deadline",
			args:         []string{"--plain", "--timeout", "2h", "https://www.bilibili.com/video/BV1xx411c7mD"},
			wantDeadline: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				hasDeadline bool
				ctxErr      error
			)
			deps := &mockDependencies{
				processor: &mockProcessor{
					ProcessFunc: func(ctx context.Context, rawURL string, observer pipeline.Observer) (*model.ProcessingResult, error) {
						_, hasDeadline = ctx.Deadline()
						ctxErr = ctx.Err()
						return completedResult(), nil
					},
				},
				history:   &mockHistory{},
				outputDir: t.TempDir(),
			}

			cmd := NewProcessCommand(deps)
			var buf bytes.Buffer
			cmd.SetOut(&buf)
			cmd.SetErr(&buf)
			cmd.SetArgs(tt.args)

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.wantDeadline, hasDeadline)
			assert.NoError(t, ctxErr)
		})
	}
}

func TestProgressModel(t *testing.T) {
	cancelled := false
	m := newProgressModel("https://b23.tv/x", func() { cancelled = true })

	next, _ := m.Update(progressMsg{Stage: model.StageTranscribing, Message: "正在转录音频...", Percent: 40})
	m = next.(progressModel)
	assert.Equal(t, 40, m.event.Percent)
	assert.Contains(t, m.View(), "transcribing")
	assert.Contains(t, m.View(), "正在转录音频...")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(progressModel)
	assert.True(t, cancelled)
	assert.False(t, m.done)

	next, cmd := m.Update(doneMsg{err: errors.New("boom")})
	m = next.(progressModel)
	assert.True(t, m.done)
	assert.NotNil(t, cmd)
}
