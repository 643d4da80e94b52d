package storage

import (
	"context"

	"github.com/samudraneel05/TDSProject1/internal/model"
)

// TaskRepository is the interface for issued task persistence.
type TaskRepository interface {
	CreateTask(ctx context.Context, t model.Task) error
	// SetTaskStatusCode records the delivery result, the only mutable field of a task.
	SetTaskStatusCode(ctx context.Context, id string, statusCode int) error
	// GetTaskByKey returns the task that exactly matches the key.
	GetTaskByKey(ctx context.Context, key model.TaskKey) (*model.Task, error)
	// GetTask returns the task issued to an identity for a task ID and round.
	GetTask(ctx context.Context, identity, taskID string, round int) (*model.Task, error)
	// GetParticipantTask returns the first task issued to an identity in a round.
	GetParticipantTask(ctx context.Context, identity string, round int) (*model.Task, error)
}

// SubmissionRepository is the interface for submission persistence.
type SubmissionRepository interface {
	// UpsertSubmission inserts the submission or updates the artifact locators of an
	// existing one with the same key. Returns true when a new row was created.
	UpsertSubmission(ctx context.Context, s model.Submission) (created bool, err error)
	// ListSubmissions returns all submissions, most recent first.
	ListSubmissions(ctx context.Context) ([]model.Submission, error)
	// ListSubmissionsByRound returns the submissions of a round in store order, round 0
	// returns the submissions of every round.
	ListSubmissionsByRound(ctx context.Context, round int) ([]model.Submission, error)
}

// ResultRepository is the interface for evaluation result persistence.
type ResultRepository interface {
	// CountResults returns the number of results of a submission.
	CountResults(ctx context.Context, identity, taskID string, round int) (int, error)
	// AppendResults stores all the results atomically.
	AppendResults(ctx context.Context, results []model.Result) error
	// ListResults returns all the results, most recent first.
	ListResults(ctx context.Context) ([]model.Result, error)
}

// Repository is the full persistence interface.
type Repository interface {
	TaskRepository
	SubmissionRepository
	ResultRepository
}
