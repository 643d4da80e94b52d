package taskgen_test

import (
	"encoding/json"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudraneel05/TDSProject1/internal/taskgen"
)

func testRand() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestSalesCSV(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	mime, content, err := taskgen.SalesCSV(testRand())
	require.NoError(err)
	assert.Equal("text/csv", mime)

	lines := strings.Split(string(content), "\n")
	require.Len(lines, 6)
	assert.Equal("product,sales", lines[0])
	for i, line := range lines[1:] {
		product, sales, ok := strings.Cut(line, ",")
		require.True(ok)
		assert.Equal("Widget "+string(rune('A'+i)), product)

		v, err := strconv.ParseFloat(sales, 64)
		require.NoError(err)
		assert.GreaterOrEqual(v, 100.0)
		assert.LessOrEqual(v, 1000.0)
	}
}

func TestMarkdownDoc(t *testing.T) {
	mime, content, err := taskgen.MarkdownDoc(testRand())
	require.NoError(t, err)
	assert.Equal(t, "text/markdown", mime)
	assert.Regexp(t, `^# (Introduction|Overview|Getting Started|User Guide)\n`, string(content))
	assert.Contains(t, string(content), "## Conclusion")
}

func TestCurrencyRates(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	mime, content, err := taskgen.CurrencyRates(testRand())
	require.NoError(err)
	assert.Equal("application/json", mime)

	var rates map[string]float64
	require.NoError(json.Unmarshal(content, &rates))
	assert.Equal(1.0, rates["USD"])
	assert.InDelta(0.9, rates["EUR"], 0.05)
	assert.InDelta(0.8, rates["GBP"], 0.05)
	assert.InDelta(130, rates["JPY"], 20)
	assert.InDelta(77.5, rates["INR"], 7.5)
}
