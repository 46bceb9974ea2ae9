package common

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealCmdRunner_Run(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	runner := NewCmdRunner()

	out, err := runner.Run(context.Background(), "sh", "-c", "printf hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	_, err = runner.Run(context.Background(), "sh", "-c", "echo 'ERROR: Video unavailable' >&2; exit 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sh failed")
	assert.Contains(t, err.Error(), "Video unavailable")
}

func TestDependencyStatus(t *testing.T) {
	report := DependencyStatus("definitely-not-a-real-binary-xyz")
	require.Len(t, report, 1)
	assert.False(t, report[0].Found)
	assert.Empty(t, report[0].Path)

	err := CheckDependencies("definitely-not-a-real-binary-xyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-real-binary-xyz")
}
