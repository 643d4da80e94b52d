package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samudraneel05/TDSProject1/internal/log"
	"github.com/samudraneel05/TDSProject1/internal/model"
	"github.com/samudraneel05/TDSProject1/internal/storage"
)

// ErrNoMatchingTask is returned when a submission does not answer any issued task.
var ErrNoMatchingTask = fmt.Errorf("no matching task found: %w", model.ErrNotValid)

// ServiceConfig is the configuration for the intake service.
type ServiceConfig struct {
	Repository storage.Repository
	Clock      func() time.Time
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Intake"})
	return nil
}

// Service accepts submissions for issued tasks.
type Service struct {
	repo   storage.Repository
	clock  func() time.Time
	logger log.Logger
}

// NewService creates a new intake service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		clock:  cfg.Clock,
		logger: cfg.Logger,
	}, nil
}

// SubmitRequest is a participant submission.
type SubmitRequest struct {
	Email     string
	Task      string
	Round     int
	Nonce     string
	RepoURL   string
	CommitSHA string
	PagesURL  string
}

// SubmitStatus tells if a submission was new or replaced an earlier one.
type SubmitStatus string

const (
	SubmitStatusReceived SubmitStatus = "received"
	SubmitStatusUpdated  SubmitStatus = "updated"
)

// SubmitResult is the result of an accepted submission.
type SubmitResult struct {
	Status    SubmitStatus
	Timestamp time.Time
}

// Submit accepts a submission when it matches exactly an issued task. Submitting again
// for the same task replaces the artifact locators.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	now := s.clock().UTC()
	sub := model.Submission{
		Identity:  req.Email,
		TaskID:    req.Task,
		Round:     req.Round,
		Nonce:     req.Nonce,
		RepoURL:   req.RepoURL,
		CommitSHA: req.CommitSHA,
		PagesURL:  req.PagesURL,
		UpdatedAt: now,
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	_, err := s.repo.GetTaskByKey(ctx, sub.Key())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Warningf("No matching task found for %s (%s round %d)", sub.Identity, sub.TaskID, sub.Round)
			return nil, ErrNoMatchingTask
		}
		return nil, fmt.Errorf("could not get task: %w", err)
	}

	created, err := s.repo.UpsertSubmission(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("could not store submission: %w", err)
	}

	status := SubmitStatusUpdated
	if created {
		status = SubmitStatusReceived
	}
	s.logger.Infof("Submission %s for %s (%s round %d)", status, sub.Identity, sub.TaskID, sub.Round)

	return &SubmitResult{Status: status, Timestamp: now}, nil
}

// List returns all the submissions, most recent first.
func (s *Service) List(ctx context.Context) ([]model.Submission, error) {
	subs, err := s.repo.ListSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list submissions: %w", err)
	}
	return subs, nil
}
