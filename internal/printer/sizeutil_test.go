package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := map[string]struct {
		input int64
		exp   string
	}{
		"zero bytes": {
			input: 0,
			exp:   "0 B",
		},
		"negative bytes should return zero": {
			input: -100,
			exp:   "0 B",
		},
		"small bytes": {
			input: 512,
			exp:   "512 B",
		},
		"one kilobyte": {
			input: 1024,
			exp:   "1.0 KB",
		},
		"a typical csv attachment": {
			input: 1536,
			exp:   "1.5 KB",
		},
		"megabytes": {
			input: 2 * 1024 * 1024,
			exp:   "2.0 MB",
		},
		"sizes above gigabytes stay in gigabytes": {
			input: 3 * 1024 * 1024 * 1024 * 1024,
			exp:   "3072.0 GB",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, FormatBytes(test.input))
		})
	}
}
