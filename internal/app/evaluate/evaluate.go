package evaluate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samudraneel05/TDSProject1/internal/browser"
	"github.com/samudraneel05/TDSProject1/internal/hosting"
	"github.com/samudraneel05/TDSProject1/internal/llm"
	"github.com/samudraneel05/TDSProject1/internal/log"
	"github.com/samudraneel05/TDSProject1/internal/model"
	"github.com/samudraneel05/TDSProject1/internal/storage"
)

const (
	defaultNavigationAttempts = 3
	defaultNavigationPause    = 5 * time.Second
	defaultNavigationTimeout  = 15 * time.Second
)

// ServiceConfig is the configuration for the evaluate service.
type ServiceConfig struct {
	Repository storage.Repository
	Host       hosting.Host
	LLM        llm.Client
	Browser    browser.Browser

	// NavigationAttempts is the number of times the published site is opened before
	// giving up, defaults to 3.
	NavigationAttempts int
	// NavigationPause is the wait between navigation attempts, defaults to 5s.
	NavigationPause time.Duration
	// NavigationTimeout bounds every navigation attempt, defaults to 15s.
	NavigationTimeout time.Duration
	Sleep             func(ctx context.Context, d time.Duration)
	Logger            log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Host == nil {
		return fmt.Errorf("host is required")
	}
	if c.LLM == nil {
		return fmt.Errorf("LLM client is required")
	}
	if c.Browser == nil {
		return fmt.Errorf("browser is required")
	}
	if c.NavigationAttempts <= 0 {
		c.NavigationAttempts = defaultNavigationAttempts
	}
	if c.NavigationPause <= 0 {
		c.NavigationPause = defaultNavigationPause
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = defaultNavigationTimeout
	}
	if c.Sleep == nil {
		c.Sleep = sleep
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Evaluate"})
	return nil
}

// Service grades submissions.
type Service struct {
	repo        storage.Repository
	host        hosting.Host
	llm         llm.Client
	browser     browser.Browser
	navAttempts int
	navPause    time.Duration
	navTimeout  time.Duration
	sleep       func(ctx context.Context, d time.Duration)
	logger      log.Logger
}

// NewService creates a new evaluate service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:        cfg.Repository,
		host:        cfg.Host,
		llm:         cfg.LLM,
		browser:     cfg.Browser,
		navAttempts: cfg.NavigationAttempts,
		navPause:    cfg.NavigationPause,
		navTimeout:  cfg.NavigationTimeout,
		sleep:       cfg.Sleep,
		logger:      cfg.Logger,
	}, nil
}

// Request is an evaluation request.
type Request struct {
	// Round limits the evaluation to a round, 0 evaluates every round.
	Round int
}

// Report is the outcome of an evaluation run.
type Report struct {
	Evaluated   int
	Skipped     int
	MissingTask int
}

// Run grades every submission that has no results yet. The results of a submission are
// stored all together, so a submission is either fully graded or not graded at all.
func (s *Service) Run(ctx context.Context, req Request) (*Report, error) {
	subs, err := s.repo.ListSubmissionsByRound(ctx, req.Round)
	if err != nil {
		return nil, fmt.Errorf("could not list submissions: %w", err)
	}

	s.logger.Infof("Found %d submissions to evaluate", len(subs))

	report := &Report{}
	for _, sub := range subs {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		logger := s.logger.WithValues(log.Kv{"identity": sub.Identity, "task": sub.TaskID, "round": sub.Round})

		count, err := s.repo.CountResults(ctx, sub.Identity, sub.TaskID, sub.Round)
		if err != nil {
			return report, fmt.Errorf("could not count results: %w", err)
		}
		if count > 0 {
			logger.Infof("Skipping, already evaluated")
			report.Skipped++
			continue
		}

		task, err := s.repo.GetTask(ctx, sub.Identity, sub.TaskID, sub.Round)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warningf("No task found for submission")
				report.MissingTask++
				continue
			}
			return report, fmt.Errorf("could not get task: %w", err)
		}

		results := s.evaluate(ctx, sub, *task)
		if err := s.repo.AppendResults(ctx, results); err != nil {
			return report, fmt.Errorf("could not store results: %w", err)
		}

		score := 0
		for _, r := range results {
			score += r.Score
		}
		logger.Infof("Evaluation complete: %d/%d checks passed", score, len(results))
		report.Evaluated++
	}

	s.logger.Infof("All evaluations complete: %d evaluated, %d skipped, %d without task", report.Evaluated, report.Skipped, report.MissingTask)

	return report, nil
}

func (s *Service) evaluate(ctx context.Context, sub model.Submission, task model.Task) []model.Result {
	results := []model.Result{
		model.NewResult(sub, model.CheckFamilyLicense, s.checkLicense(ctx, sub)),
		model.NewResult(sub, model.CheckFamilyReadme, s.checkReadme(ctx, sub)),
		model.NewResult(sub, model.CheckFamilyCode, s.checkCode(ctx, sub)),
	}
	for _, o := range s.checkBehavior(ctx, sub.PagesURL, task.Checks) {
		results = append(results, model.NewResult(sub, model.CheckFamilyBehavior, o))
	}
	return results
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
