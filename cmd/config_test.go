package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Taichi-iskw/yt-notes/internal/config"
)

func TestMask(t *testing.T) {
	tests := []struct {
		secret string
		want   string
	}{
		{"", "<unset>"},
		{"short", "****"},
		{"sk-1234567890abcd", "sk-1****abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, mask(tt.secret))
		})
	}
}

func TestPrintConfig(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKey = "sk-1234567890abcd"
	cfg.Storage.S3.Bucket = "notes"

	var buf bytes.Buffer
	printConfig(&buf, cfg)

	output := buf.String()
	assert.Contains(t, output, "gpt-4o-mini")
	assert.Contains(t, output, "sk-1****abcd")
	assert.NotContains(t, output, "sk-1234567890abcd")
	assert.Contains(t, output, "Service URL: http://localhost:8000")
	assert.Contains(t, output, "S3: bucket notes")
}

func TestRunDoctor_TranscriptionHealth(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "healthy",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"ok"}`))
			},
			want: "✅ whisper",
		},
		{
			name: "unhealthy",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			want: "❌ whisper",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			cfg := config.Default()
			cfg.LLM.APIKey = "sk-test"
			cfg.Transcription.Unmetered.URL = server.URL

			var buf bytes.Buffer
			runDoctor(context.Background(), &buf, cfg)

			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "✅ config   valid")
		})
	}
}
