package distribute

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/samudraneel05/TDSProject1/internal/log"
	"github.com/samudraneel05/TDSProject1/internal/model"
	"github.com/samudraneel05/TDSProject1/internal/storage"
	"github.com/samudraneel05/TDSProject1/internal/taskgen"
)

const (
	seedTimeBucketLayout = "2006-01-02-15"
	deliveryTimeout      = 30 * time.Second
)

// TaskGenerator generates the task of a seed.
type TaskGenerator interface {
	Generate(seed string, round int, family string) (*model.GeneratedTask, error)
}

// ServiceConfig is the configuration for the distribute service.
type ServiceConfig struct {
	Generator  TaskGenerator
	Repository storage.Repository
	// CallbackURL is the submission URL sent to participants as `evaluation_url`.
	CallbackURL string
	HTTPClient  *http.Client
	Clock       func() time.Time
	NonceFunc   func() (string, error)
	Logger      log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Generator == nil {
		return fmt.Errorf("generator is required")
	}
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.CallbackURL == "" {
		return fmt.Errorf("callback URL is required")
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: deliveryTimeout}
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.NonceFunc == nil {
		c.NonceFunc = func() (string, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Distribute"})
	return nil
}

// Service distributes tasks to participants.
type Service struct {
	gen         TaskGenerator
	repo        storage.Repository
	callbackURL string
	httpCli     *http.Client
	clock       func() time.Time
	nonce       func() (string, error)
	logger      log.Logger
}

// NewService creates a new distribute service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		gen:         cfg.Generator,
		repo:        cfg.Repository,
		callbackURL: cfg.CallbackURL,
		httpCli:     cfg.HTTPClient,
		clock:       cfg.Clock,
		nonce:       cfg.NonceFunc,
		logger:      cfg.Logger,
	}, nil
}

// Request is a distribution request.
type Request struct {
	Round int
	// Participants are the targets of the first round. Later rounds target the
	// participants that submitted in the previous round.
	Participants []model.Participant
}

// Delivery is a task delivery attempt.
type Delivery struct {
	Identity   string
	TaskID     string
	Nonce      string
	StatusCode int
}

// Failure is a participant that could not be served.
type Failure struct {
	Identity string
	Reason   string
}

// Report is the outcome of a distribution run.
type Report struct {
	Round      int
	Deliveries []Delivery
	Skipped    []string
	Failed     []Failure
}

type target struct {
	participant model.Participant
	family      string
}

// Run distributes the tasks of a round. Participants that already have a task for the
// round are skipped, so running it again only serves the missing ones.
func (s *Service) Run(ctx context.Context, req Request) (*Report, error) {
	if req.Round < 1 {
		return nil, fmt.Errorf("invalid round %d: %w", req.Round, model.ErrNotValid)
	}

	report := &Report{Round: req.Round}

	var targets []target
	if req.Round == 1 {
		for _, p := range req.Participants {
			targets = append(targets, target{participant: p})
		}
	} else {
		ts, failed, err := s.previousRoundTargets(ctx, req.Round-1)
		if err != nil {
			return nil, err
		}
		targets = ts
		report.Failed = append(report.Failed, failed...)
	}

	s.logger.Infof("Distributing round %d to %d participants", req.Round, len(targets))

	for _, t := range targets {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		identity := t.participant.Identity
		logger := s.logger.WithValues(log.Kv{"identity": identity})

		_, err := s.repo.GetParticipantTask(ctx, identity, req.Round)
		if err == nil {
			logger.Infof("Skipping, round %d already sent", req.Round)
			report.Skipped = append(report.Skipped, identity)
			continue
		}
		if !errors.Is(err, model.ErrNotFound) {
			return report, fmt.Errorf("could not check existing task of %s: %w", identity, err)
		}

		if err := t.participant.Validate(); err != nil {
			logger.Warningf("Invalid participant: %s", err)
			report.Failed = append(report.Failed, Failure{Identity: identity, Reason: err.Error()})
			continue
		}

		d, err := s.distribute(ctx, req.Round, t)
		if err != nil {
			if errors.Is(err, model.ErrGeneration) {
				logger.Errorf("Could not generate task: %s", err)
				report.Failed = append(report.Failed, Failure{Identity: identity, Reason: err.Error()})
				continue
			}
			return report, err
		}
		report.Deliveries = append(report.Deliveries, *d)
	}

	s.logger.Infof("Round %d distribution complete: %d sent, %d skipped, %d failed", req.Round, len(report.Deliveries), len(report.Skipped), len(report.Failed))

	return report, nil
}

// previousRoundTargets returns the participants that submitted in a round, recovering
// their endpoint, secret and template family from the task they answered.
func (s *Service) previousRoundTargets(ctx context.Context, round int) ([]target, []Failure, error) {
	subs, err := s.repo.ListSubmissionsByRound(ctx, round)
	if err != nil {
		return nil, nil, fmt.Errorf("could not list round %d submissions: %w", round, err)
	}

	var targets []target
	var unresolved []string
	resolved := map[string]bool{}
	for _, sub := range subs {
		if resolved[sub.Identity] {
			continue
		}

		task, err := s.repo.GetTask(ctx, sub.Identity, sub.TaskID, round)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				s.logger.Warningf("No round %d task found for %s submission %s", round, sub.Identity, sub.TaskID)
				unresolved = append(unresolved, sub.Identity)
				continue
			}
			return nil, nil, fmt.Errorf("could not get round %d task of %s: %w", round, sub.Identity, err)
		}

		resolved[sub.Identity] = true
		targets = append(targets, target{
			participant: model.Participant{Identity: task.Identity, Endpoint: task.Endpoint, Secret: task.Secret},
			family:      task.TemplateID,
		})
	}

	// An identity fails only when none of its submissions matches a task.
	var failed []Failure
	reported := map[string]bool{}
	for _, identity := range unresolved {
		if resolved[identity] || reported[identity] {
			continue
		}
		reported[identity] = true
		failed = append(failed, Failure{Identity: identity, Reason: fmt.Sprintf("no round %d task found", round)})
	}

	return targets, failed, nil
}

func (s *Service) distribute(ctx context.Context, round int, t target) (*Delivery, error) {
	p := t.participant
	seed := fmt.Sprintf("%s:%s", p.Identity, s.clock().UTC().Format(seedTimeBucketLayout))

	gen, err := s.gen.Generate(seed, round, t.family)
	if err != nil {
		return nil, fmt.Errorf("could not generate task for %s: %w", p.Identity, err)
	}

	nonce, err := s.nonce()
	if err != nil {
		return nil, fmt.Errorf("could not create nonce: %w", err)
	}

	task := model.Task{
		ID:          ulid.Make().String(),
		Identity:    p.Identity,
		TaskID:      taskgen.TaskID(gen.TemplateID, gen.Brief, gen.Attachments),
		TemplateID:  gen.TemplateID,
		Round:       round,
		Nonce:       nonce,
		Brief:       gen.Brief,
		Checks:      gen.Checks,
		Attachments: gen.Attachments,
		CallbackURL: s.callbackURL,
		Endpoint:    p.Endpoint,
		Secret:      p.Secret,
		CreatedAt:   s.clock().UTC(),
	}

	// Stored before sending, a crash after the delivery must not issue a second task.
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("could not store task of %s: %w", p.Identity, err)
	}

	statusCode := s.deliver(ctx, task)

	if err := s.repo.SetTaskStatusCode(ctx, task.ID, statusCode); err != nil {
		return nil, fmt.Errorf("could not store delivery status of %s: %w", p.Identity, err)
	}

	return &Delivery{Identity: task.Identity, TaskID: task.TaskID, Nonce: task.Nonce, StatusCode: statusCode}, nil
}

type taskPayload struct {
	Email         string              `json:"email"`
	Secret        string              `json:"secret"`
	Task          string              `json:"task"`
	Round         int                 `json:"round"`
	Nonce         string              `json:"nonce"`
	Brief         string              `json:"brief"`
	Checks        []string            `json:"checks"`
	EvaluationURL string              `json:"evaluation_url"`
	Attachments   []attachmentPayload `json:"attachments"`
}

type attachmentPayload struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// deliver posts the task to the participant endpoint and returns the response status
// code, 0 when the request could not be done.
func (s *Service) deliver(ctx context.Context, t model.Task) int {
	logger := s.logger.WithValues(log.Kv{"identity": t.Identity, "task": t.TaskID})

	payload := taskPayload{
		Email:         t.Identity,
		Secret:        t.Secret,
		Task:          t.TaskID,
		Round:         t.Round,
		Nonce:         t.Nonce,
		Brief:         t.Brief,
		Checks:        t.CheckTexts(),
		EvaluationURL: t.CallbackURL,
		Attachments:   make([]attachmentPayload, 0, len(t.Attachments)),
	}
	for _, a := range t.Attachments {
		payload.Attachments = append(payload.Attachments, attachmentPayload{Name: a.Name, URL: a.URL})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Errorf("Could not marshal task payload: %s", err)
		return 0
	}

	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(body))
	if err != nil {
		logger.Errorf("Could not create request: %s", err)
		return 0
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Infof("Sending round %d task", t.Round)
	resp, err := s.httpCli.Do(req)
	if err != nil {
		logger.Warningf("Request failed: %s", err)
		return 0
	}
	defer resp.Body.Close()

	logger.Infof("Response: %d", resp.StatusCode)
	return resp.StatusCode
}
