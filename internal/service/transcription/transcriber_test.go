package transcription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taichi-iskw/yt-notes/internal/config"
	"github.com/Taichi-iskw/yt-notes/internal/logger"
)

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default().Transcription

	tr, err := NewFromConfig(cfg, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, &UnmeteredClient{}, tr)

	cfg.Mode = config.ModeMetered
	cfg.Metered.APIKey = "sk"
	tr, err = NewFromConfig(cfg, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, &meteredTranscriber{}, tr)

	cfg.Mode = config.ModeLocal
	tr, err = NewFromConfig(cfg, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, &localTranscriber{}, tr)

	cfg.Mode = "carrier-pigeon"
	_, err = NewFromConfig(cfg, logger.Discard())
	assert.Error(t, err)
}
