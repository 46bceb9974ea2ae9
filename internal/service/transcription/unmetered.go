package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Taichi-iskw/yt-notes/internal/errors"
)

// Segment is one timed piece of a detailed transcription
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// DetailedResult is the response of /transcribe/detail
type DetailedResult struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// transcribeResponse is the shared response envelope of the service
type transcribeResponse struct {
	Success  bool      `json:"success"`
	Text     string    `json:"text"`
	Error    string    `json:"error"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// UnmeteredClient talks to a self-hosted transcription service that accepts audio of any length
type UnmeteredClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewUnmeteredClient creates a client for the service at baseURL
func NewUnmeteredClient(baseURL string) *UnmeteredClient {
	return &UnmeteredClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Transcribe uploads the audio file to /transcribe and returns the text
func (c *UnmeteredClient) Transcribe(ctx context.Context, audioPath string, language string) (string, error) {
	resp, err := c.upload(ctx, "/transcribe", audioPath, language)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// TranscribeDetailed uploads the audio file to /transcribe/detail and returns timed segments
func (c *UnmeteredClient) TranscribeDetailed(ctx context.Context, audioPath string, language string) (*DetailedResult, error) {
	resp, err := c.upload(ctx, "/transcribe/detail", audioPath, language)
	if err != nil {
		return nil, err
	}
	return &DetailedResult{Text: resp.Text, Language: resp.Language, Segments: resp.Segments}, nil
}

// TranscribeURL asks the service to fetch and transcribe a remote media URL itself
func (c *UnmeteredClient) TranscribeURL(ctx context.Context, mediaURL string, language string) (string, error) {
	body, err := json.Marshal(map[string]string{"url": mediaURL, "language": language})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to encode request").WithKind(ErrTranscription)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe/url", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to build request").WithKind(ErrTranscription)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Health checks GET / for {"status":"ok"}
func (c *UnmeteredClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to build request").WithKind(ErrServiceUnavailable)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CodeUnavailable, "cannot connect to transcription service").WithKind(ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	var status struct {
		Status string `json:"status"`
	}
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&status) != nil || status.Status != "ok" {
		return errors.New(errors.CodeRejected, fmt.Sprintf("transcription service unhealthy (status %d)", resp.StatusCode)).WithKind(ErrServiceUnavailable)
	}
	return nil
}

func (c *UnmeteredClient) upload(ctx context.Context, path, audioPath, language string) (*transcribeResponse, error) {
	if audioPath == "" {
		return nil, errors.New(errors.CodeInvalidArg, "audio path is required").WithKind(ErrTranscription)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to open audio file").WithKind(ErrTranscription)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to build multipart body").WithKind(ErrTranscription)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to read audio file").WithKind(ErrTranscription)
	}
	if err := writer.WriteField("language", language); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to build multipart body").WithKind(ErrTranscription)
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to build multipart body").WithKind(ErrTranscription)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to build request").WithKind(ErrTranscription)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

// do sends the request and applies the service's failure rules
func (c *UnmeteredClient) do(req *http.Request) (*transcribeResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable,
			fmt.Sprintf("cannot connect to transcription service at %s", c.baseURL)).WithKind(ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "failed to read transcription response").WithKind(ErrTranscription)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.CodeRejected,
			fmt.Sprintf("transcription service returned status %d: %s", resp.StatusCode, truncate(string(data), 200))).WithKind(ErrTranscription)
	}

	var result transcribeResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, errors.CodeRejected, "failed to parse transcription response").WithKind(ErrTranscription)
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "unknown error"
		}
		return nil, errors.New(errors.CodeRejected, "transcription failed: "+msg).WithKind(ErrTranscription)
	}

	return &result, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
