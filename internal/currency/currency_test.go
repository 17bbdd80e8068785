package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbol(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"USD", "$"},
		{"usd", "$"},
		{"EUR", "€"},
		{"RUB", "₽"},
		{"", "$"},
		{"XYZ", "XYZ"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Symbol(tt.code), "code: %q", tt.code)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"USD", "USD"},
		{"eur", "EUR"},
		{" gbp ", "GBP"},
		{"€", "EUR"},
		{"dollars", "USD"},
		{"", ""},
		{"XYZ", "XYZ"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.token), "token: %q", tt.token)
	}
}

func TestDetectByLanguage(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"ru", "RUB"},
		{"ru-RU", "RUB"},
		{"en", "USD"},
		{"en-US", "USD"},
		{"en-GB", "GBP"},
		{"en_GB", "GBP"},
		{"de-DE", "EUR"},
		{"", "USD"},
		{"xx-YY", "USD"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectByLanguage(tt.tag), "tag: %q", tt.tag)
	}
}

func TestDetectFromText(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"coffee 4.50$", "USD"},
		{"lunch for 15 euro", "EUR"},
		{"paid 20 pounds", "GBP"},
		{"такси 300₽", "RUB"},
		{"5000 yen for dinner", "JPY"},
		{"groceries 30", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFromText(tt.text), "text: %q", tt.text)
	}
}
