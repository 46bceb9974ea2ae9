package process

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Taichi-iskw/yt-notes/internal/model"
	"github.com/Taichi-iskw/yt-notes/internal/service/pipeline"
)

const maxBarWidth = 60

var (
	viewTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	viewStageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	viewMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	viewErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	viewOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

type progressMsg model.ProgressEvent

type doneMsg struct{ err error }

type progressModel struct {
	url    string
	bar    progress.Model
	event  model.ProgressEvent
	done   bool
	err    error
	cancel context.CancelFunc
}

func newProgressModel(url string, cancel context.CancelFunc) progressModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = maxBarWidth
	return progressModel{
		url:    url,
		bar:    bar,
		event:  model.ProgressEvent{Stage: model.StageIdle},
		cancel: cancel,
	}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, maxBarWidth)
		return m, nil

	case tea.KeyMsg:
		// The pipeline notices cancellation and reports Failed; keep rendering until then
		if msg.String() == "ctrl+c" {
			m.cancel()
		}
		return m, nil

	case progressMsg:
		m.event = model.ProgressEvent(msg)
		return m, m.bar.SetPercent(float64(msg.Percent) / 100)

	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder
	b.WriteString(viewTitleStyle.Render("ytnotes") + " " + viewMutedStyle.Render(m.url) + "\n\n")

	if m.done {
		if m.err != nil {
			b.WriteString(viewErrorStyle.Render(m.event.Message) + "\n")
		} else {
			b.WriteString(viewOKStyle.Render(m.event.Message) + "\n")
		}
		return b.String()
	}

	b.WriteString(m.bar.ViewAs(float64(m.event.Percent)/100) + "\n")
	b.WriteString(viewStageStyle.Render(string(m.event.Stage)) + "  " + viewMutedStyle.Render(m.event.Message) + "\n")
	return b.String()
}

// runWithView runs the pipeline on its own goroutine and renders its events as a progress bar
func runWithView(ctx context.Context, cancel context.CancelFunc, processor pipeline.Processor, rawURL string, out io.Writer) (*model.ProcessingResult, error) {
	program := tea.NewProgram(newProgressModel(rawURL, cancel), tea.WithOutput(out))

	var (
		result *model.ProcessingResult
		err    error
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		result, err = processor.Process(ctx, rawURL, pipeline.ObserverFunc(func(event model.ProgressEvent) {
			program.Send(progressMsg(event))
		}))
		program.Send(doneMsg{err: err})
	}()

	if _, runErr := program.Run(); runErr != nil {
		cancel()
		<-finished
		if err != nil {
			return nil, err
		}
		return nil, runErr
	}

	<-finished
	return result, err
}
