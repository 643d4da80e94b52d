package taskgen

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// AttachmentGenerator generates attachment content with the given random source.
type AttachmentGenerator func(r *rand.Rand) (mime string, content []byte, err error)

// DefaultAttachmentGenerators returns the built-in attachment generators.
func DefaultAttachmentGenerators() map[string]AttachmentGenerator {
	return map[string]AttachmentGenerator{
		"sales-csv":      SalesCSV,
		"markdown-doc":   MarkdownDoc,
		"currency-rates": CurrencyRates,
	}
}

var salesProducts = []string{"Widget A", "Widget B", "Widget C", "Widget D", "Widget E"}

// SalesCSV generates a `product,sales` CSV.
func SalesCSV(r *rand.Rand) (string, []byte, error) {
	lines := []string{"product,sales"}
	for _, p := range salesProducts {
		sales := uniform(r, 100, 1000, 2)
		lines = append(lines, p+","+strconv.FormatFloat(sales, 'f', -1, 64))
	}
	return "text/csv", []byte(strings.Join(lines, "\n")), nil
}

var markdownTitles = []string{"Introduction", "Overview", "Getting Started", "User Guide"}

const markdownBody = "This is a sample markdown document generated for testing.\n" +
	"\n" +
	"## Features\n" +
	"\n" +
	"- **Bold text** for emphasis\n" +
	"- *Italic text* for subtle emphasis\n" +
	"- `Code snippets` inline\n" +
	"\n" +
	"## Code Block\n" +
	"\n" +
	"```python\n" +
	"def hello_world():\n" +
	"    print(\"Hello, World!\")\n" +
	"    return True\n" +
	"```\n" +
	"\n" +
	"## Lists\n" +
	"\n" +
	"1. First item\n" +
	"2. Second item\n" +
	"3. Third item\n" +
	"\n" +
	"## Conclusion\n" +
	"\n" +
	"This demonstrates markdown rendering capabilities.\n"

// MarkdownDoc generates a markdown document with a random title.
func MarkdownDoc(r *rand.Rand) (string, []byte, error) {
	title := markdownTitles[r.IntN(len(markdownTitles))]
	content := fmt.Sprintf("# %s\n\n%s", title, markdownBody)
	return "text/markdown", []byte(content), nil
}

type currencyRates struct {
	USD float64 `json:"USD"`
	EUR float64 `json:"EUR"`
	GBP float64 `json:"GBP"`
	JPY float64 `json:"JPY"`
	INR float64 `json:"INR"`
}

// CurrencyRates generates a JSON object of USD based conversion rates.
func CurrencyRates(r *rand.Rand) (string, []byte, error) {
	rates := currencyRates{
		USD: 1.0,
		EUR: uniform(r, 0.85, 0.95, 4),
		GBP: uniform(r, 0.75, 0.85, 4),
		JPY: uniform(r, 110, 150, 4),
		INR: uniform(r, 70, 85, 4),
	}
	content, err := json.MarshalIndent(rates, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("could not marshal rates: %w", err)
	}
	return "application/json", content, nil
}

func uniform(r *rand.Rand, lo, hi float64, decimals int) float64 {
	v := lo + r.Float64()*(hi-lo)
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
