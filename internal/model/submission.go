package model

import (
	"fmt"
	"time"
)

// Submission is the artifact location a participant reported for a task.
type Submission struct {
	ID        string
	Identity  string
	TaskID    string
	Round     int
	Nonce     string
	RepoURL   string
	CommitSHA string
	PagesURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key returns the task key this submission claims to answer.
func (s Submission) Key() TaskKey {
	return TaskKey{Identity: s.Identity, TaskID: s.TaskID, Round: s.Round, Nonce: s.Nonce}
}

// Validate validates the submission has all the required fields.
func (s Submission) Validate() error {
	missing := []string{}
	if s.Identity == "" {
		missing = append(missing, "email")
	}
	if s.TaskID == "" {
		missing = append(missing, "task")
	}
	if s.Round <= 0 {
		missing = append(missing, "round")
	}
	if s.Nonce == "" {
		missing = append(missing, "nonce")
	}
	if s.RepoURL == "" {
		missing = append(missing, "repo_url")
	}
	if s.CommitSHA == "" {
		missing = append(missing, "commit_sha")
	}
	if s.PagesURL == "" {
		missing = append(missing, "pages_url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields %v: %w", missing, ErrNotValid)
	}
	return nil
}
