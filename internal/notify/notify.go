package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samudraneel05/TDSProject1/internal/log"
)

const (
	defaultMaxRetries = 5
	requestTimeout    = 30 * time.Second
)

// DispatcherConfig is the configuration of the notification dispatcher.
type DispatcherConfig struct {
	// MaxRetries is the total number of delivery attempts, defaults to 5.
	MaxRetries int
	HTTPClient *http.Client
	// Sleep waits between attempts, defaults to a context aware time based sleep.
	Sleep  func(ctx context.Context, d time.Duration)
	Logger log.Logger
}

func (c *DispatcherConfig) defaults() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries can't be negative")
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: requestTimeout}
	}
	if c.Sleep == nil {
		c.Sleep = sleep
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "notify.Dispatcher"})
	return nil
}

// Dispatcher delivers submission notifications with exponential backoff.
type Dispatcher struct {
	maxRetries int
	httpCli    *http.Client
	sleep      func(ctx context.Context, d time.Duration)
	logger     log.Logger
}

// NewDispatcher returns a new notification dispatcher.
func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Dispatcher{
		maxRetries: cfg.MaxRetries,
		httpCli:    cfg.HTTPClient,
		sleep:      cfg.Sleep,
		logger:     cfg.Logger,
	}, nil
}

// Payload is the notification body.
type Payload struct {
	Email     string `json:"email"`
	Task      string `json:"task"`
	Round     int    `json:"round"`
	Nonce     string `json:"nonce"`
	RepoURL   string `json:"repo_url"`
	CommitSHA string `json:"commit_sha"`
	PagesURL  string `json:"pages_url"`
}

// Outcome is the result of a notification.
type Outcome struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code,omitempty"`
	Response   string `json:"response,omitempty"`
	// Attempt is the 1-based attempt that succeeded.
	Attempt int `json:"attempt,omitempty"`
	// Attempts is the number of attempts done when all of them failed.
	Attempts int `json:"attempts,omitempty"`
}

// Notify posts the payload until a 200 response is received or the attempts are
// exhausted. The wait before retrying attempt n (0-based) is 2^n seconds. Failures are
// reported in the outcome, never as an error.
func (d *Dispatcher) Notify(ctx context.Context, url string, p Payload) Outcome {
	logger := d.logger.WithValues(log.Kv{"identity": p.Email, "task": p.Task, "round": p.Round})

	body, err := json.Marshal(p)
	if err != nil {
		logger.Errorf("Could not marshal payload: %s", err)
		return Outcome{Success: false, Attempts: 0}
	}

	for attempt := 0; attempt < d.maxRetries; attempt++ {
		logger.Infof("Notifying evaluation API (attempt %d/%d)", attempt+1, d.maxRetries)

		statusCode, response, err := d.post(ctx, url, body)
		switch {
		case err != nil:
			logger.Warningf("Request failed: %s", err)
		case statusCode == http.StatusOK:
			logger.Infof("Successfully notified evaluation API")
			return Outcome{Success: true, StatusCode: statusCode, Response: response, Attempt: attempt + 1}
		default:
			logger.Warningf("Received status %d: %s", statusCode, response)
		}

		if attempt < d.maxRetries-1 {
			delay := time.Duration(1<<attempt) * time.Second
			logger.Infof("Retrying in %s", delay)
			d.sleep(ctx, delay)
		}
	}

	logger.Errorf("Failed to notify evaluation API after %d attempts", d.maxRetries)
	return Outcome{Success: false, Attempts: d.maxRetries}
}

func (d *Dispatcher) post(ctx context.Context, url string, body []byte) (int, string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpCli.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", fmt.Errorf("could not read response: %w", err)
	}

	return resp.StatusCode, string(data), nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
