package common

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CmdRunner is interface for executing external commands
type CmdRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// realCmdRunner implements CmdRunner using os/exec
type realCmdRunner struct{}

// NewCmdRunner creates a new CmdRunner
func NewCmdRunner() CmdRunner {
	return &realCmdRunner{}
}

// Run executes the command and returns stdout.
// On failure the trimmed stderr is folded into the error so callers can match on it.
func (r *realCmdRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s failed: %w", name, err)
		}
		return nil, fmt.Errorf("%s failed: %w: %s", name, err, msg)
	}
	return stdout.Bytes(), nil
}

// Dependency is an external binary the pipeline shells out to
type Dependency struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// RequiredBinaries lists the tools used by fetch and metered transcription
var RequiredBinaries = []string{"yt-dlp", "ffmpeg", "ffprobe"}

// DependencyStatus reports which of the given binaries are on PATH
func DependencyStatus(names ...string) []Dependency {
	report := make([]Dependency, 0, len(names))
	for _, name := range names {
		dep := Dependency{Name: name}
		if path, err := exec.LookPath(name); err == nil {
			dep.Found = true
			dep.Path = path
		}
		report = append(report, dep)
	}
	return report
}

// CheckDependencies returns an error naming the first missing binary
func CheckDependencies(names ...string) error {
	for _, dep := range DependencyStatus(names...) {
		if !dep.Found {
			return fmt.Errorf("missing dependency: %s is not installed or not on PATH", dep.Name)
		}
	}
	return nil
}
