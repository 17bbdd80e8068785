package recognize

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"expenselog/internal/currency"
)

var amountPattern = regexp.MustCompile(`\d+(\s*[.,]\s*\d+)?`)

// categoryKeywords maps default category slugs to the keywords that
// select them in free text.
var categoryKeywords = map[string][]string{
	"food":          {"food", "groceries", "restaurant", "cafe", "lunch", "dinner", "breakfast", "coffee"},
	"transport":     {"transport", "taxi", "metro", "bus", "gas", "fuel", "uber", "fare"},
	"home":          {"home", "rent", "apartment", "repair", "furniture", "utilities"},
	"health":        {"health", "medicine", "doctor", "hospital", "pharmacy", "dentist"},
	"subscriptions": {"subscription", "netflix", "spotify", "apple", "google"},
	"entertainment": {"entertainment", "cinema", "movie", "theater", "concert", "games"},
	"family":        {"family", "kids", "gift", "school", "kindergarten"},
	"business":      {"business", "work", "office", "trip", "client"},
}

// categorySlugOrder keeps matching deterministic.
var categorySlugOrder = []string{
	"food", "transport", "home", "health",
	"subscriptions", "entertainment", "family", "business",
}

// FallbackParser performs best-effort keyword extraction when the
// recognition endpoint is unreachable or returns garbage. It never
// fails; unknowable fields come back zero-valued.
type FallbackParser struct {
	defaultCurrency string
}

// NewFallbackParser creates a parser that applies the given currency
// when none can be detected from the text.
func NewFallbackParser(defaultCurrency string) *FallbackParser {
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	return &FallbackParser{defaultCurrency: defaultCurrency}
}

// Parse extracts an expense from free text.
func (p *FallbackParser) Parse(text string) *Result {
	result := &Result{
		Currency: p.defaultCurrency,
		Date:     time.Now(),
	}

	amountMatch := amountPattern.FindString(text)
	if amountMatch != "" {
		normalized := strings.ReplaceAll(amountMatch, " ", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
		if amount, err := decimal.NewFromString(normalized); err == nil {
			result.Amount = amount
		}
	}

	if detected := currency.DetectFromText(text); detected != "" {
		result.Currency = detected
	}

	result.CategoryID = p.MatchCategory(text)

	// Whatever is not the amount serves as the description.
	description := text
	if amountMatch != "" {
		description = strings.Replace(description, amountMatch, "", 1)
	}
	result.Description = strings.Join(strings.Fields(description), " ")

	return result
}

// MatchCategory returns the default category slug whose keywords appear
// in the text, or empty when nothing matches.
func (p *FallbackParser) MatchCategory(text string) string {
	lower := strings.ToLower(text)
	for _, slug := range categorySlugOrder {
		if slug == lower {
			return slug
		}
		for _, keyword := range categoryKeywords[slug] {
			if strings.Contains(lower, keyword) {
				return slug
			}
		}
	}
	return ""
}

// CategorySlugs lists the known default category slugs.
func (p *FallbackParser) CategorySlugs() []string {
	out := make([]string, len(categorySlugOrder))
	copy(out, categorySlugOrder)
	return out
}
