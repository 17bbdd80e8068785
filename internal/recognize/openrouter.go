package recognize

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/shopspring/decimal"

	"expenselog/internal/currency"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterClient implements Recognizer against an OpenRouter
// compatible chat completions endpoint. Any transport or parse failure
// falls back to the keyword parser, so recognition itself never fails
// outright.
type OpenRouterClient struct {
	httpClient *http.Client
	fallback   *FallbackParser
	apiKey     string
	model      string
	baseURL    string
}

// NewOpenRouterClient creates a recognition client. The fallback parser
// must not be nil.
func NewOpenRouterClient(cfg Config, fallback *FallbackParser) (*OpenRouterClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("recognition API key is required")
	}
	if fallback == nil {
		return nil, fmt.Errorf("fallback parser is required")
	}

	model := cfg.Model
	if model == "" {
		model = "google/gemini-pro"
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &OpenRouterClient{
		apiKey:   cfg.APIKey,
		model:    model,
		baseURL:  baseURL,
		fallback: fallback,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// RecognizeExpense extracts structured expense data from text.
func (c *OpenRouterClient) RecognizeExpense(ctx context.Context, text, language string) (*Result, error) {
	result, err := c.recognize(ctx, text, language)
	if err != nil {
		slog.Warn("recognition request failed, using fallback parser", "error", err)
		return c.fallback.Parse(text), nil
	}
	return result, nil
}

func (c *OpenRouterClient) recognize(ctx context.Context, text, language string) (*Result, error) {
	requestBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildPrompt(text, language, c.fallback.CategorySlugs())},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var body []byte
	err = retry.Do(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", strings.NewReader(string(jsonBody)))
			if reqErr != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", reqErr))
			}
			req.Header.Set("Content-Type", "application/json")
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
				return fmt.Errorf("recognition API error (status %d): %s", resp.StatusCode, string(body))
			default:
				return retry.Unrecoverable(fmt.Errorf("recognition API error (status %d): %s", resp.StatusCode, string(body)))
			}
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no completion choices returned")
	}

	return c.parseResult(response.Choices[0].Message.Content)
}

// parseResult extracts the expense fields from the model output.
func (c *OpenRouterClient) parseResult(content string) (*Result, error) {
	var jsonResp struct {
		Amount      *float64 `json:"amount"`
		Currency    *string  `json:"currency"`
		Category    *string  `json:"category"`
		Description *string  `json:"description"`
		Date        *string  `json:"date"`
	}

	content = cleanMarkdownWrapper(content)
	if err := json.Unmarshal([]byte(content), &jsonResp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if jsonResp.Amount == nil || *jsonResp.Amount <= 0 {
		return nil, fmt.Errorf("no positive amount found in response")
	}

	result := &Result{
		Amount: decimal.NewFromFloat(*jsonResp.Amount),
		Date:   time.Now(),
	}
	if jsonResp.Currency != nil {
		result.Currency = currency.Normalize(*jsonResp.Currency)
	}
	if jsonResp.Category != nil {
		result.CategoryID = c.fallback.MatchCategory(*jsonResp.Category)
	}
	if jsonResp.Description != nil {
		result.Description = *jsonResp.Description
	}
	if jsonResp.Date != nil {
		if parsed, err := time.Parse(time.RFC3339, *jsonResp.Date); err == nil {
			result.Date = parsed
		} else if parsed, err := time.Parse("2006-01-02", *jsonResp.Date); err == nil {
			result.Date = parsed
		}
	}

	return result, nil
}

// chatResponse is the subset of the chat completions response we use.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}
