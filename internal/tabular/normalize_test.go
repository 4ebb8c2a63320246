package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain lowercase", input: "date", expected: "date"},
		{name: "uppercase", input: "Date", expected: "date"},
		{name: "accented french header", input: "Variation journalière", expected: "variation_journaliere"},
		{name: "accent variants", input: "Clôture", expected: "cloture"},
		{name: "cedilla", input: "Aperçu", expected: "apercu"},
		{name: "percent sign", input: "Variation %", expected: "variation"},
		{name: "parentheses", input: "RSI (14)", expected: "rsi_14"},
		{name: "multiple separators collapse", input: "MM  --  200", expected: "mm_200"},
		{name: "leading and trailing junk", input: "  __close__  ", expected: "close"},
		{name: "mixed punctuation", input: "Prix / Close", expected: "prix_close"},
		{name: "empty string", input: "", expected: ""},
		{name: "only punctuation", input: "***", expected: ""},
		{name: "digits preserved", input: "MM50", expected: "mm50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	inputs := []string{
		"Variation journalière",
		"RSI (14 jours)",
		"Clôture ajustée",
		"  Date  ",
		"mm_200",
	}

	for _, in := range inputs {
		once := NormalizeName(in)
		assert.Equal(t, once, NormalizeName(once), "normalizing %q twice must be stable", in)
	}
}
