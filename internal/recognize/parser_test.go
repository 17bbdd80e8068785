package recognize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackParserParse(t *testing.T) {
	parser := NewFallbackParser("USD")

	tests := []struct {
		name         string
		text         string
		wantAmount   string
		wantCurrency string
		wantCategory string
		wantDesc     string
	}{
		{
			name:         "simple amount with keyword",
			text:         "coffee 4.50",
			wantAmount:   "4.50",
			wantCurrency: "USD",
			wantCategory: "food",
			wantDesc:     "coffee",
		},
		{
			name:         "comma decimal separator",
			text:         "taxi 12,30",
			wantAmount:   "12.30",
			wantCurrency: "USD",
			wantCategory: "transport",
			wantDesc:     "taxi",
		},
		{
			name:         "currency detected from symbol",
			text:         "lunch 15€",
			wantAmount:   "15",
			wantCurrency: "EUR",
			wantCategory: "food",
			wantDesc:     "lunch €",
		},
		{
			name:         "no amount",
			text:         "netflix subscription",
			wantAmount:   "0",
			wantCurrency: "USD",
			wantCategory: "subscriptions",
			wantDesc:     "netflix subscription",
		},
		{
			name:         "no category match",
			text:         "mystery purchase 7",
			wantAmount:   "7",
			wantCurrency: "USD",
			wantCategory: "",
			wantDesc:     "mystery purchase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parser.Parse(tt.text)
			require.NotNil(t, result)

			assert.True(t, result.Amount.Equal(decimal.RequireFromString(tt.wantAmount)),
				"amount: got %s", result.Amount)
			assert.Equal(t, tt.wantCurrency, result.Currency)
			assert.Equal(t, tt.wantCategory, result.CategoryID)
			assert.Equal(t, tt.wantDesc, result.Description)
			assert.False(t, result.Date.IsZero())
		})
	}
}

func TestFallbackParserDefaultCurrency(t *testing.T) {
	parser := NewFallbackParser("EUR")
	result := parser.Parse("groceries 30")
	assert.Equal(t, "EUR", result.Currency)

	// Empty default falls back to USD.
	parser = NewFallbackParser("")
	result = parser.Parse("groceries 30")
	assert.Equal(t, "USD", result.Currency)
}

func TestMatchCategory(t *testing.T) {
	parser := NewFallbackParser("USD")

	tests := []struct {
		text string
		want string
	}{
		{"dinner with friends", "food"},
		{"UBER to the airport", "transport"},
		{"monthly rent", "home"},
		{"pharmacy run", "health"},
		{"spotify premium", "subscriptions"},
		{"cinema tickets", "entertainment"},
		{"gift for mom", "family"},
		{"client meeting expenses", "business"},
		{"something unrelated", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parser.MatchCategory(tt.text), "text: %s", tt.text)
	}
}

func TestCategorySlugs(t *testing.T) {
	parser := NewFallbackParser("USD")

	slugs := parser.CategorySlugs()
	assert.Len(t, slugs, 8)
	assert.Contains(t, slugs, "food")

	// The returned slice is a copy.
	slugs[0] = "mutated"
	assert.Equal(t, "food", parser.CategorySlugs()[0])
}
