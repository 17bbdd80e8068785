package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/shopspring/decimal"
)

const defaultRatesURL = "https://open.er-api.com/v6/latest"

// cacheTTL bounds how stale a cached rate table may get.
const cacheTTL = time.Hour

// RateClient fetches exchange rates over HTTP and caches them in
// memory for an hour per base currency.
type RateClient struct {
	httpClient *http.Client
	baseURL    string

	mu    sync.Mutex
	cache map[string]cachedRates
}

type cachedRates struct {
	fetchedAt time.Time
	rates     map[string]decimal.Decimal
}

// NewRateClient creates an exchange-rate client. An empty baseURL uses
// the public open.er-api.com endpoint.
func NewRateClient(baseURL string) *RateClient {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultRatesURL
	}
	return &RateClient{
		baseURL: baseURL,
		cache:   make(map[string]cachedRates),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Rates returns the rate table for the given base currency, from cache
// when fresh.
func (c *RateClient) Rates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	base = strings.ToUpper(base)
	if base == "" {
		return nil, fmt.Errorf("base currency is required")
	}

	c.mu.Lock()
	if cached, ok := c.cache[base]; ok && time.Since(cached.fetchedAt) < cacheTTL {
		c.mu.Unlock()
		return cached.rates, nil
	}
	c.mu.Unlock()

	rates, err := c.fetch(ctx, base)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[base] = cachedRates{rates: rates, fetchedAt: time.Now()}
	c.mu.Unlock()

	return rates, nil
}

// Convert converts an amount between currencies using the current rate
// table. Same-currency conversion returns the amount unchanged without
// a network call.
func (c *RateClient) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return amount, nil
	}

	rates, err := c.Rates(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}

	rate, ok := rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate from %s to %s", from, to)
	}
	return amount.Mul(rate), nil
}

func (c *RateClient) fetch(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	var body []byte
	err := retry.Do(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+base, nil)
			if reqErr != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", reqErr))
			}

			resp, doErr := c.httpClient.Do(req)
			if doErr != nil {
				return fmt.Errorf("request failed: %w", doErr)
			}
			defer func() { _ = resp.Body.Close() }()

			body, reqErr = io.ReadAll(resp.Body)
			if reqErr != nil {
				return fmt.Errorf("failed to read response: %w", reqErr)
			}

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("rates API error (status %d): %s", resp.StatusCode, string(body))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	var response struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse rates response: %w", err)
	}
	if len(response.Rates) == 0 {
		return nil, fmt.Errorf("empty rate table returned for %s", base)
	}

	rates := make(map[string]decimal.Decimal, len(response.Rates))
	for code, rate := range response.Rates {
		rates[strings.ToUpper(code)] = decimal.NewFromFloat(rate)
	}
	return rates, nil
}
