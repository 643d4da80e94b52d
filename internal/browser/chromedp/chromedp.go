package chromedp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/samudraneel05/TDSProject1/internal/browser"
	"github.com/samudraneel05/TDSProject1/internal/log"
)

// BrowserConfig is the configuration of the headless Chrome browser.
type BrowserConfig struct {
	// ExecPath is the Chrome binary, found on the PATH when empty.
	ExecPath string
	// NoSandbox disables the Chrome sandbox, required when running as root in containers.
	NoSandbox bool
	Logger    log.Logger
}

func (c *BrowserConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "browser.Chromedp"})
	return nil
}

// Browser is a headless Chrome browser, every opened page is a new tab.
type Browser struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	closeOnce     sync.Once
	logger        log.Logger
}

// NewBrowser starts a headless Chrome, it must be closed when not needed anymore.
func NewBrowser(ctx context.Context, cfg BrowserConfig) (*Browser, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	// The browser lifecycle is bound to Close, not to the caller context.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(cfg.Logger.Debugf))

	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("could not start browser: %w", err)
	}

	cfg.Logger.Debugf("Headless browser started")

	return &Browser{
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		logger:        cfg.Logger,
	}, nil
}

// Open opens the URL in a new tab.
func (b *Browser) Open(ctx context.Context, url string) (browser.Page, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.browserCtx)

	// Creating the tab has no deadline, canceling a tab context while it is being
	// created would close the browser.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		return nil, fmt.Errorf("could not open tab: %w", err)
	}

	navCtx, releaseNav := navContext(ctx, tabCtx)
	resp, err := chromedp.RunResponse(navCtx, chromedp.Navigate(url))
	releaseNav()
	if err != nil {
		cancelTab()
		return nil, fmt.Errorf("%w: %w", browser.ErrNotAccessible, err)
	}
	if resp == nil || resp.Status != http.StatusOK {
		cancelTab()
		status := int64(0)
		if resp != nil {
			status = resp.Status
		}
		return nil, fmt.Errorf("status %d: %w", status, browser.ErrNotAccessible)
	}

	b.logger.Debugf("Loaded %s", url)
	return &page{ctx: tabCtx, cancel: cancelTab}, nil
}

// navContext returns a child of the tab context that ends with the caller context and
// its deadline. The returned release func must always be called.
func navContext(ctx, tabCtx context.Context) (context.Context, context.CancelFunc) {
	var navCtx context.Context
	var cancel context.CancelFunc
	if deadline, ok := ctx.Deadline(); ok {
		navCtx, cancel = context.WithDeadline(tabCtx, deadline)
	} else {
		navCtx, cancel = context.WithCancel(tabCtx)
	}

	stop := context.AfterFunc(ctx, cancel)
	return navCtx, func() {
		stop()
		cancel()
	}
}

// Close stops the browser.
func (b *Browser) Close() error {
	var err error
	b.closeOnce.Do(func() {
		err = chromedp.Cancel(b.browserCtx)
		b.cancelBrowser()
		b.cancelAlloc()
	})
	return err
}

type page struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (p *page) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (p *page) Title(ctx context.Context) (string, error) {
	var title string
	if err := p.run(ctx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("could not get title: %w", err)
	}
	return title, nil
}

func (p *page) HasElement(ctx context.Context, selector string) (bool, error) {
	quoted, err := json.Marshal(selector)
	if err != nil {
		return false, fmt.Errorf("could not encode selector: %w", err)
	}

	var found bool
	expr := fmt.Sprintf("document.querySelector(%s) !== null", quoted)
	if err := p.run(ctx, chromedp.Evaluate(expr, &found)); err != nil {
		return false, fmt.Errorf("could not query %q: %w", selector, err)
	}
	return found, nil
}

func (p *page) Close() error {
	p.cancel()
	return nil
}
