package evaluate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samudraneel05/TDSProject1/internal/browser"
	"github.com/samudraneel05/TDSProject1/internal/model"
)

// checkBehavior opens the published site and runs the task checks against it.
func (s *Service) checkBehavior(ctx context.Context, pagesURL string, checks []model.Check) []model.CheckOutcome {
	outcomes := make([]model.CheckOutcome, 0, len(checks))
	if len(checks) == 0 {
		return outcomes
	}

	page, err := s.openPage(ctx, pagesURL)
	if err != nil {
		reason := "Page not accessible"
		if errors.Is(err, browser.ErrUnavailable) {
			reason = "Browser error"
		}
		for _, c := range checks {
			outcomes = append(outcomes, model.CheckOutcome{Check: c.Text, Reason: reason, Logs: err.Error()})
		}
		return outcomes
	}
	defer page.Close()

	for _, c := range checks {
		o, err := s.runCheck(ctx, page, c)
		if err != nil {
			o = model.CheckOutcome{Check: c.Text, Reason: "Error running check", Logs: err.Error()}
		}
		outcomes = append(outcomes, o)
	}

	return outcomes
}

// openPage opens the page retrying failed navigations.
func (s *Service) openPage(ctx context.Context, url string) (browser.Page, error) {
	var lastErr error
	for attempt := 0; attempt < s.navAttempts; attempt++ {
		page, err := s.open(ctx, url)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if errors.Is(err, browser.ErrUnavailable) {
			break
		}

		if attempt < s.navAttempts-1 {
			s.logger.Warningf("Attempt %d to open %s failed, retrying in %s: %s", attempt+1, url, s.navPause, err)
			s.sleep(ctx, s.navPause)
		}
	}

	return nil, lastErr
}

func (s *Service) open(ctx context.Context, url string) (browser.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, s.navTimeout)
	defer cancel()
	return s.browser.Open(ctx, url)
}

func (s *Service) runCheck(ctx context.Context, page browser.Page, c model.Check) (model.CheckOutcome, error) {
	o := model.CheckOutcome{Check: c.Text}

	switch c.Kind {
	case model.CheckKindTitle:
		title, err := page.Title(ctx)
		if err != nil {
			return o, err
		}
		o.Logs = "Title: " + title
		if strings.Contains(title, c.Target) {
			o.Score, o.Reason = 1, "Title matches"
		} else {
			o.Reason = "Title mismatch"
		}

	case model.CheckKindScript:
		found, err := page.HasElement(ctx, browser.AssetSelector(c.Target))
		if err != nil {
			return o, err
		}
		if found {
			o.Score, o.Reason, o.Logs = 1, c.Target+" found", "Script loaded"
		} else {
			o.Reason, o.Logs = c.Target+" not found", "Script missing"
		}

	case model.CheckKindElement:
		found, err := page.HasElement(ctx, browser.IDSelector(c.Target))
		if err != nil {
			return o, err
		}
		if found {
			o.Score, o.Reason, o.Logs = 1, fmt.Sprintf("Element #%s found", c.Target), "Element exists"
		} else {
			o.Reason, o.Logs = fmt.Sprintf("Element #%s not found", c.Target), "Element missing"
		}

	case model.CheckKindDelegated:
		o.Score, o.Reason, o.Logs = 1, "Checked separately", "Validated by the repository checks"

	case model.CheckKindGeneric:
		o.Score, o.Reason, o.Logs = 1, "Generic check passed", "No specific validation"

	default:
		return o, fmt.Errorf("unknown check kind %q", c.Kind)
	}

	return o, nil
}
