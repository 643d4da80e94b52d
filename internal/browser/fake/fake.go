package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/samudraneel05/TDSProject1/internal/browser"
)

// Page is a fake loaded page.
type Page struct {
	Title string
	// Selectors are the CSS selectors present in the page.
	Selectors []string
	// Errs makes HasElement fail for a selector.
	Errs map[string]error
}

// Browser is an in-memory browser for tests.
type Browser struct {
	// Pages by URL.
	Pages map[string]Page
	// OpenErrs are returned, in order, by the first Open calls of a URL.
	OpenErrs map[string][]error

	mu    sync.Mutex
	opens map[string]int
}

// Opens returns how many times a URL was opened.
func (b *Browser) Opens(url string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opens[url]
}

func (b *Browser) Open(ctx context.Context, url string) (browser.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.opens == nil {
		b.opens = map[string]int{}
	}
	n := b.opens[url]
	b.opens[url]++

	if errs := b.OpenErrs[url]; n < len(errs) && errs[n] != nil {
		return nil, errs[n]
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, ok := b.Pages[url]
	if !ok {
		return nil, fmt.Errorf("status 404: %w", browser.ErrNotAccessible)
	}
	return &page{p: p}, nil
}

type page struct {
	p Page
}

func (p *page) Title(context.Context) (string, error) { return p.p.Title, nil }

func (p *page) HasElement(_ context.Context, selector string) (bool, error) {
	if err := p.p.Errs[selector]; err != nil {
		return false, err
	}
	for _, s := range p.p.Selectors {
		if s == selector {
			return true, nil
		}
	}
	return false, nil
}

func (p *page) Close() error { return nil }
