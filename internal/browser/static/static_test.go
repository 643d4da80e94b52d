package static_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudraneel05/TDSProject1/internal/browser"
	"github.com/samudraneel05/TDSProject1/internal/browser/static"
)

const testPage = `<!doctype html>
<html>
<head>
  <title> Sales Summary 4242 </title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/css/bootstrap.min.css">
  <script src="https://cdn.jsdelivr.net/npm/marked/marked.min.js"></script>
</head>
<body><div id="total-sales">123.45</div></body>
</html>`

func TestBrowser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(testPage))
	}))
	defer srv.Close()

	b, err := static.NewBrowser(static.BrowserConfig{})
	require.NoError(t, err)

	ctx := context.Background()

	_, err = b.Open(ctx, srv.URL+"/missing")
	assert.ErrorIs(t, err, browser.ErrNotAccessible)

	p, err := b.Open(ctx, srv.URL+"/")
	require.NoError(t, err)
	defer p.Close()

	title, err := p.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sales Summary 4242", title)

	tests := map[string]struct {
		selector string
		exp      bool
		expErr   bool
	}{
		"An existing id should be found.":            {selector: browser.IDSelector("total-sales"), exp: true},
		"A missing id should not be found.":          {selector: browser.IDSelector("product-sales")},
		"A stylesheet asset should be found.":        {selector: browser.AssetSelector("bootstrap"), exp: true},
		"A script asset should be found.":            {selector: browser.AssetSelector("marked"), exp: true},
		"A missing asset should not be found.":       {selector: browser.AssetSelector("highlight")},
		"An invalid selector should return an error.": {selector: "[[", expErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := p.HasElement(ctx, test.selector)
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.exp, got)
		})
	}
}
