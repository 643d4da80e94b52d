package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/samudraneel05/TDSProject1/internal/log"
	"github.com/samudraneel05/TDSProject1/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
// Slices keep insertion order, which is the store enumeration order.
type Repository struct {
	tasks       []model.Task
	submissions []model.Submission
	results     []model.Result
	mu          sync.RWMutex
	logger      log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{logger: cfg.Logger}, nil
}

// CreateTask stores a newly issued task.
func (r *Repository) CreateTask(ctx context.Context, t model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" || t.Nonce == "" {
		return fmt.Errorf("task id and nonce are required: %w", model.ErrNotValid)
	}
	for _, existing := range r.tasks {
		if existing.ID == t.ID || existing.Nonce == t.Nonce {
			return fmt.Errorf("task %s: %w", t.ID, model.ErrAlreadyExists)
		}
	}

	r.tasks = append(r.tasks, copyTask(t))
	r.logger.Debugf("Created task in repository: %s (%s round %d)", t.TaskID, t.Identity, t.Round)
	return nil
}

// SetTaskStatusCode records the delivery status code of a task.
func (r *Repository) SetTaskStatusCode(ctx context.Context, id string, statusCode int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID == id {
			sc := statusCode
			r.tasks[i].StatusCode = &sc
			return nil
		}
	}
	return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
}

// GetTaskByKey returns the task matching exactly the key.
func (r *Repository) GetTaskByKey(ctx context.Context, key model.TaskKey) (*model.Task, error) {
	return r.findTask(func(t model.Task) bool { return t.Key() == key },
		fmt.Errorf("task %s for %s round %d: %w", key.TaskID, key.Identity, key.Round, model.ErrNotFound))
}

// GetTask returns the first task issued to an identity for a task ID and round.
func (r *Repository) GetTask(ctx context.Context, identity, taskID string, round int) (*model.Task, error) {
	return r.findTask(func(t model.Task) bool { return t.Identity == identity && t.TaskID == taskID && t.Round == round },
		fmt.Errorf("task %s for %s round %d: %w", taskID, identity, round, model.ErrNotFound))
}

// GetParticipantTask returns the first task issued to an identity in a round.
func (r *Repository) GetParticipantTask(ctx context.Context, identity string, round int) (*model.Task, error) {
	return r.findTask(func(t model.Task) bool { return t.Identity == identity && t.Round == round },
		fmt.Errorf("task for %s round %d: %w", identity, round, model.ErrNotFound))
}

func (r *Repository) findTask(match func(model.Task) bool, notFound error) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tasks {
		if match(t) {
			tc := copyTask(t)
			return &tc, nil
		}
	}
	return nil, notFound
}

// UpsertSubmission inserts or updates a submission by its key.
func (r *Repository) UpsertSubmission(ctx context.Context, s model.Submission) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := s.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	for i, existing := range r.submissions {
		if existing.Key() == s.Key() {
			r.submissions[i].RepoURL = s.RepoURL
			r.submissions[i].CommitSHA = s.CommitSHA
			r.submissions[i].PagesURL = s.PagesURL
			r.submissions[i].UpdatedAt = now
			return false, nil
		}
	}

	if s.ID == "" {
		s.ID = ulid.Make().String()
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	r.submissions = append(r.submissions, s)
	return true, nil
}

// ListSubmissions returns all submissions, most recent first. Updates in the same
// second are ordered by newest insertion first, like the SQLite repository.
func (r *Repository) ListSubmissions(ctx context.Context) ([]model.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	submissions := make([]model.Submission, 0, len(r.submissions))
	for i := len(r.submissions) - 1; i >= 0; i-- {
		submissions = append(submissions, r.submissions[i])
	}
	sort.SliceStable(submissions, func(i, j int) bool {
		return submissions[i].UpdatedAt.Unix() > submissions[j].UpdatedAt.Unix()
	})
	return submissions, nil
}

// ListSubmissionsByRound returns the submissions of a round in insertion order, round 0
// returns all of them.
func (r *Repository) ListSubmissionsByRound(ctx context.Context, round int) ([]model.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var submissions []model.Submission
	for _, s := range r.submissions {
		if round <= 0 || s.Round == round {
			submissions = append(submissions, s)
		}
	}
	return submissions, nil
}

// CountResults returns the number of results stored for a submission.
func (r *Repository) CountResults(ctx context.Context, identity, taskID string, round int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, res := range r.results {
		if res.Identity == identity && res.TaskID == taskID && res.Round == round {
			count++
		}
	}
	return count, nil
}

// AppendResults stores all the results.
func (r *Repository) AppendResults(ctx context.Context, results []model.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, res := range results {
		if res.ID == "" {
			res.ID = ulid.Make().String()
		}
		if res.CreatedAt.IsZero() {
			res.CreatedAt = now
		}
		r.results = append(r.results, res)
	}
	r.logger.Debugf("Appended %d results", len(results))
	return nil
}

// ListResults returns all the results, most recent first.
func (r *Repository) ListResults(ctx context.Context) ([]model.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]model.Result, len(r.results))
	copy(results, r.results)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func copyTask(t model.Task) model.Task {
	t.Checks = append([]model.Check(nil), t.Checks...)
	t.Attachments = append([]model.Attachment(nil), t.Attachments...)
	if t.StatusCode != nil {
		sc := *t.StatusCode
		t.StatusCode = &sc
	}
	return t
}
