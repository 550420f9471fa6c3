package extract

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func TestComparisonExtractor_TotalsPair(t *testing.T) {
	tmpDir := t.TempDir()
	extractor := NewComparisonExtractor("EUR")

	tests := []struct {
		name   string
		content string
		source string
		target string
		ok     bool
	}{
		{
			name:    "plain totals row",
			content: "| TOTAL COSTS | 1,000.00 EUR | 800.00 EUR |\n",
			source:  "1000",
			target:  "800",
			ok:      true,
		},
		{
			name: "row inside a markdown table",
			content: "# Cost diff\n\n" +
				"| Service | November | December | Change |\n" +
				"|---------|----------|----------|--------|\n" +
				"| Compute | 5,000.00 EUR | 1,000.00 EUR | -4,000.00 EUR |\n" +
				"| TOTAL COSTS | 9,499.42 EUR | 1,620.68 EUR | -7,878.74 EUR |\n",
			source: "9499.42",
			target: "1620.68",
			ok:     true,
		},
		{
			name:    "irregular whitespace",
			content: "|TOTAL COSTS|   123.45 EUR   |67.89 EUR|",
			source:  "123.45",
			target:  "67.89",
			ok:      true,
		},
		{
			name:    "first matching row wins",
			content: "| TOTAL COSTS | 10.00 EUR | 20.00 EUR |\n| TOTAL COSTS | 30.00 EUR | 40.00 EUR |\n",
			source:  "10",
			target:  "20",
			ok:      true,
		},
		{
			name:    "label missing",
			content: "| GRAND TOTAL | 1,000.00 EUR | 800.00 EUR |\n",
			ok:      false,
		},
		{
			name:    "wrong currency code",
			content: "| TOTAL COSTS | 1,000.00 USD | 800.00 USD |\n",
			ok:      false,
		},
		{
			name:    "one decimal place does not match",
			content: "| TOTAL COSTS | 1,000.0 EUR | 800.0 EUR |\n",
			ok:      false,
		},
		{
			name:    "second figure missing",
			content: "| TOTAL COSTS | 1,000.00 EUR |\n",
			ok:      false,
		},
		{
			name:    "empty file",
			content: "",
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tmpDir, tt.name+".txt", tt.content)

			source, target, ok := extractor.TotalsPair(path)
			if ok != tt.ok {
				t.Fatalf("TotalsPair() ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if !source.Equal(decimal.RequireFromString(tt.source)) {
				t.Errorf("source = %s, want %s", source.String(), tt.source)
			}
			if !target.Equal(decimal.RequireFromString(tt.target)) {
				t.Errorf("target = %s, want %s", target.String(), tt.target)
			}
		})
	}
}

func TestComparisonExtractor_TotalsPairMissingFile(t *testing.T) {
	extractor := NewComparisonExtractor("EUR")

	if _, _, ok := extractor.TotalsPair(filepath.Join(t.TempDir(), "absent.txt")); ok {
		t.Error("expected missing file to be unavailable")
	}
}

func TestComparisonExtractor_CustomCurrency(t *testing.T) {
	tmpDir := t.TempDir()
	extractor := NewComparisonExtractor("SEK")

	path := writeFile(t, tmpDir, "diff.txt", "| TOTAL COSTS | 1,500.00 SEK | 1,250.00 SEK |\n")

	source, target, ok := extractor.TotalsPair(path)
	if !ok {
		t.Fatal("expected SEK totals row to match")
	}
	if !source.Equal(decimal.RequireFromString("1500")) || !target.Equal(decimal.RequireFromString("1250")) {
		t.Errorf("got %s / %s, want 1500 / 1250", source.String(), target.String())
	}
}

func TestComparisonExtractor_DefaultCurrency(t *testing.T) {
	extractor := NewComparisonExtractor("")
	if extractor.Currency() != "EUR" {
		t.Errorf("default currency = %s, want EUR", extractor.Currency())
	}
}
