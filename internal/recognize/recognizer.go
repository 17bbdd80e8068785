// Package recognize extracts structured expense data from free text
// and recorded audio. The primary path is an OpenRouter-compatible
// chat completions endpoint; a keyword parser covers the offline and
// failure cases.
package recognize

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Result is a recognized expense. The ledger treats it exactly like a
// manually entered one: same validation, same write path.
type Result struct {
	Date        time.Time
	Currency    string
	CategoryID  string
	Description string
	Amount      decimal.Decimal
}

// Recognizer extracts a Result from a free-text expense description.
type Recognizer interface {
	RecognizeExpense(ctx context.Context, text, language string) (*Result, error)
}

// Transcriber converts recorded audio into text for recognition.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Config holds the settings shared by the HTTP-backed services.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}
