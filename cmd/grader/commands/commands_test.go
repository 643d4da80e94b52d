package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudraneel05/TDSProject1/internal/printer"
)

func TestRootFSPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := map[string]struct {
		path   string
		expOut string
	}{
		"An empty path should stay empty.": {
			path:   "",
			expOut: "",
		},
		"An absolute path should lose the leading slash.": {
			path:   "/etc/grader/roster.yaml",
			expOut: "etc/grader/roster.yaml",
		},
		"A relative path should be resolved from the working directory.": {
			path:   "roster.csv",
			expOut: filepath.ToSlash(filepath.Join(wd, "roster.csv"))[1:],
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := rootFSPath(test.path)
			require.NoError(t, err)
			assert.Equal(t, test.expOut, got)
		})
	}
}

func TestRootCommandPrinter(t *testing.T) {
	var buf bytes.Buffer
	root := RootCommand{Stdout: &buf}

	assert.IsType(t, &printer.JSONPrinter{}, root.printer(formatJSON))
	assert.IsType(t, &printer.TablePrinter{}, root.printer(formatTable))
	assert.IsType(t, &printer.TablePrinter{}, root.printer(""))
}

func TestRootCommandLoadRosterRequiresFile(t *testing.T) {
	root := RootCommand{}

	_, err := root.loadRoster(t.Context(), "")
	assert.Error(t, err)
}

func TestRootCommandLoadRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`participants:
  - email: a@example.com
    endpoint: http://a.example.com/api/build
    secret: s1
`), 0o600))

	root := RootCommand{}
	participants, err := root.loadRoster(t.Context(), path)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, "a@example.com", participants[0].Identity)
}
