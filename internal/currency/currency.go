// Package currency provides symbol lookup, currency detection and a
// cached exchange-rate client. The ledger itself never converts:
// amounts are stored in whatever currency the user entered.
package currency

import "strings"

// symbols maps ISO currency codes to display symbols.
var symbols = map[string]string{
	"RUB": "₽",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"AUD": "A$",
	"CAD": "C$",
	"CHF": "Fr",
	"INR": "₹",
	"KRW": "₩",
	"TRY": "₺",
	"BRL": "R$",
	"MXN": "Mex$",
	"PLN": "zł",
	"SEK": "kr",
	"ZAR": "R",
}

// languageToCurrency maps language/country codes to their default
// currency.
var languageToCurrency = map[string]string{
	"ru": "RUB",
	"en": "USD",
	"us": "USD",
	"gb": "GBP",
	"de": "EUR",
	"fr": "EUR",
	"it": "EUR",
	"es": "EUR",
	"jp": "JPY",
	"cn": "CNY",
	"au": "AUD",
	"ca": "CAD",
	"ch": "CHF",
	"in": "INR",
	"kr": "KRW",
	"tr": "TRY",
	"br": "BRL",
	"mx": "MXN",
	"pl": "PLN",
	"se": "SEK",
	"za": "ZAR",
}

// textKeywords maps currency codes to the symbols and words that
// identify them in free text.
var textKeywords = map[string][]string{
	"USD": {"$", "usd", "dollar", "bucks"},
	"EUR": {"€", "eur", "euro"},
	"GBP": {"£", "gbp", "pound", "sterling"},
	"RUB": {"₽", "rub", "ruble", "rouble"},
	"JPY": {"¥", "jpy", "yen"},
	"INR": {"₹", "inr", "rupee"},
}

// detectOrder keeps DetectFromText deterministic when a text mentions
// several currencies; the first match wins.
var detectOrder = []string{"USD", "EUR", "GBP", "RUB", "JPY", "INR"}

// Symbol returns the display symbol for a currency code, or the code
// itself when no symbol is known.
func Symbol(code string) string {
	if code == "" {
		return "$"
	}
	if sym, ok := symbols[strings.ToUpper(code)]; ok {
		return sym
	}
	return code
}

// Normalize maps a model- or user-supplied currency token to an ISO
// code where possible, passing unknown tokens through unchanged.
func Normalize(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	upper := strings.ToUpper(token)
	if _, ok := symbols[upper]; ok {
		return upper
	}
	if detected := DetectFromText(token); detected != "" {
		return detected
	}
	return token
}

// DetectByLanguage returns the default currency for a locale tag such
// as "en-US" or "ru". Unknown locales default to USD.
func DetectByLanguage(tag string) string {
	if tag == "" {
		return "USD"
	}

	parts := strings.FieldsFunc(strings.ToLower(tag), func(r rune) bool {
		return r == '-' || r == '_'
	})
	langCode := parts[0]
	countryCode := langCode
	if len(parts) > 1 {
		countryCode = parts[1]
	}

	// Country beats language: "en-GB" is GBP, not USD.
	if code, ok := languageToCurrency[countryCode]; ok {
		return code
	}
	if code, ok := languageToCurrency[langCode]; ok {
		return code
	}
	return "USD"
}

// DetectFromText scans free text for currency symbols or keywords and
// returns the matching code, or empty when nothing matches.
func DetectFromText(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	for _, code := range detectOrder {
		for _, keyword := range textKeywords[code] {
			if strings.Contains(lower, keyword) {
				return code
			}
		}
	}
	return ""
}
