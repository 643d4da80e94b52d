package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrNotAccessible is returned when a page could not be loaded successfully.
	ErrNotAccessible = errors.New("page not accessible")
	// ErrUnavailable is returned when the browser itself can't be used.
	ErrUnavailable = errors.New("browser unavailable")
)

// Browser opens pages for behavioral inspection.
type Browser interface {
	// Open navigates to the URL, the context bounds the navigation. A non 200 document
	// response is an ErrNotAccessible error.
	Open(ctx context.Context, url string) (Page, error)
}

// Page is a loaded page.
type Page interface {
	Title(ctx context.Context) (string, error)
	// HasElement returns true when at least one element matches the CSS selector.
	HasElement(ctx context.Context, selector string) (bool, error)
	Close() error
}

// IDSelector returns the CSS selector of the element with the id.
func IDSelector(id string) string {
	return "[id=" + strconv.Quote(id) + "]"
}

// AssetSelector returns the CSS selector of the scripts and stylesheets whose URL
// contains the asset name.
func AssetSelector(asset string) string {
	q := strconv.Quote(asset)
	return "script[src*=" + q + "], link[href*=" + q + "]"
}

// Unavailable returns a browser that fails every Open with ErrUnavailable and the
// reason, used when the real browser could not be started.
func Unavailable(reason error) Browser {
	return unavailable{reason: reason}
}

type unavailable struct {
	reason error
}

func (u unavailable) Open(context.Context, string) (Page, error) {
	return nil, fmt.Errorf("%w: %w", ErrUnavailable, u.reason)
}
