package recognize

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
	"time"

	"github.com/avast/retry-go"
)

// WhisperClient implements Transcriber against an OpenAI-compatible
// /audio/transcriptions endpoint. The transcribed text feeds the same
// recognition contract as typed input.
type WhisperClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// NewWhisperClient creates a transcription client.
func NewWhisperClient(cfg Config) (*WhisperClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("transcription API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "whisper-1"
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &WhisperClient{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Transcribe uploads the audio file and returns the transcribed text.
func (c *WhisperClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	var body []byte
	err = retry.Do(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", bytes.NewReader(buf.Bytes()))
			if reqErr != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", reqErr))
			}
			req.Header.Set("Content-Type", writer.FormDataContentType())
			req.Header.Set("Authorization", "Bearer "+c.apiKey)

			resp, doErr := c.httpClient.Do(req)
			if doErr != nil {
				return fmt.Errorf("request failed: %w", doErr)
			}
			defer func() { _ = resp.Body.Close() }()

			body, reqErr = io.ReadAll(resp.Body)
			if reqErr != nil {
				return fmt.Errorf("failed to read response: %w", reqErr)
			}

			switch {
			case resp.StatusCode == http.StatusOK:
				return nil
			case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
				return fmt.Errorf("transcription API error (status %d): %s", resp.StatusCode, string(body))
			default:
				return retry.Unrecoverable(fmt.Errorf("transcription API error (status %d): %s", resp.StatusCode, string(body)))
			}
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}

	var response struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if response.Text == "" {
		return "", fmt.Errorf("empty transcription returned")
	}

	return strings.TrimSpace(response.Text), nil
}
