package hosting

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samudraneel05/TDSProject1/internal/log"
	"github.com/samudraneel05/TDSProject1/internal/model"
)

// DefaultRawBaseURL is the GitHub raw content base URL.
const DefaultRawBaseURL = "https://raw.githubusercontent.com"

const (
	fetchTimeout = 10 * time.Second
	maxFileSize  = 5 << 20
)

// Host reads files of a submitted repository at a commit.
type Host interface {
	// RawFile returns the HTTP status and body of a file at a commit. The error is
	// only set when the request could not be done.
	RawFile(ctx context.Context, repoURL, commitSHA, path string) (status int, body []byte, err error)
	// PagesURL returns the published site URL of a repository.
	PagesURL(repoURL string) (string, error)
}

// GitHubConfig configures the GitHub host.
type GitHubConfig struct {
	// RawBaseURL is the raw content base URL, defaults to raw.githubusercontent.com.
	RawBaseURL string
	HTTPClient *http.Client
	Logger     log.Logger
}

func (c *GitHubConfig) defaults() error {
	if c.RawBaseURL == "" {
		c.RawBaseURL = DefaultRawBaseURL
	}
	c.RawBaseURL = strings.TrimSuffix(c.RawBaseURL, "/")
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: fetchTimeout}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "hosting.GitHub"})
	return nil
}

// GitHub implements Host for GitHub repositories.
type GitHub struct {
	rawBaseURL string
	httpClient *http.Client
	logger     log.Logger
}

// NewGitHub creates a new GitHub host.
func NewGitHub(cfg GitHubConfig) (*GitHub, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &GitHub{
		rawBaseURL: cfg.RawBaseURL,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}, nil
}

// RawFile fetches the raw content of a file at a commit.
func (g *GitHub) RawFile(ctx context.Context, repoURL, commitSHA, path string) (int, []byte, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return 0, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/%s/%s/%s/%s", g.rawBaseURL, owner, repo, url.PathEscape(commitSHA), strings.TrimPrefix(path, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("could not create request: %w", err)
	}

	g.logger.Debugf("Fetching %s", u)
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("could not fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("could not read %s: %w", path, err)
	}

	return resp.StatusCode, body, nil
}

// PagesURL returns the GitHub Pages URL of a repository.
func (g *GitHub) PagesURL(repoURL string) (string, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.github.io/%s/", owner, repo), nil
}

// ParseRepoURL returns the owner and name of a GitHub repository URL.
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	u, err := url.Parse(strings.TrimSpace(repoURL))
	if err != nil {
		return "", "", fmt.Errorf("invalid repository URL %q: %w", repoURL, model.ErrNotValid)
	}
	if u.Host != "github.com" && u.Host != "www.github.com" {
		return "", "", fmt.Errorf("repository URL %q is not a GitHub URL: %w", repoURL, model.ErrNotValid)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository URL %q must contain owner and name: %w", repoURL, model.ErrNotValid)
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
