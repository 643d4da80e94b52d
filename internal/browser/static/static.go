package static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/samudraneel05/TDSProject1/internal/browser"
	"github.com/samudraneel05/TDSProject1/internal/log"
)

const maxDocumentSize = 10 << 20

// BrowserConfig is the configuration of the static browser.
type BrowserConfig struct {
	HTTPClient *http.Client
	Logger     log.Logger
}

func (c *BrowserConfig) defaults() error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "browser.Static"})
	return nil
}

// Browser loads pages over HTTP and queries the served HTML. Scripts are not executed,
// so only the markup as published is inspected.
type Browser struct {
	httpClient *http.Client
	logger     log.Logger
}

// NewBrowser returns a new static browser.
func NewBrowser(cfg BrowserConfig) (*Browser, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Browser{httpClient: cfg.HTTPClient, logger: cfg.Logger}, nil
}

func (b *Browser) Open(ctx context.Context, url string) (browser.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", browser.ErrNotAccessible, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, browser.ErrNotAccessible)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("could not parse document: %w", err)
	}

	b.logger.Debugf("Loaded %s", url)
	return &page{doc: doc}, nil
}

type page struct {
	doc *goquery.Document
}

func (p *page) Title(_ context.Context) (string, error) {
	return strings.TrimSpace(p.doc.Find("title").First().Text()), nil
}

func (p *page) HasElement(_ context.Context, selector string) (bool, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return false, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return p.doc.FindMatcher(sel).Length() > 0, nil
}

func (p *page) Close() error { return nil }
