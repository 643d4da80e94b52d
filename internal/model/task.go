package model

import (
	"fmt"
	"strings"
	"time"
)

// Participant is a roster entry that can receive tasks.
type Participant struct {
	Identity string
	Endpoint string
	Secret   string
}

// Validate validates the participant.
func (p Participant) Validate() error {
	if p.Identity == "" {
		return fmt.Errorf("identity is required: %w", ErrNotValid)
	}
	if p.Endpoint == "" {
		return fmt.Errorf("endpoint is required: %w", ErrNotValid)
	}
	if !strings.HasPrefix(p.Endpoint, "http://") && !strings.HasPrefix(p.Endpoint, "https://") {
		return fmt.Errorf("endpoint %q must be an http(s) URL: %w", p.Endpoint, ErrNotValid)
	}
	return nil
}

// Attachment is a file shipped with a task, its URL is a self describing data URI.
type Attachment struct {
	Name string
	URL  string
}

// Task is an issued challenge. Only StatusCode changes after creation.
type Task struct {
	ID          string
	Identity    string
	TaskID      string
	TemplateID  string
	Round       int
	Nonce       string
	Brief       string
	Checks      []Check
	Attachments []Attachment
	CallbackURL string
	Endpoint    string
	Secret      string
	CreatedAt   time.Time

	// StatusCode is the delivery HTTP status, nil until delivery has been attempted
	// and 0 when the delivery failed at the network level.
	StatusCode *int
}

// Key returns the key that binds submissions to this task.
func (t Task) Key() TaskKey {
	return TaskKey{Identity: t.Identity, TaskID: t.TaskID, Round: t.Round, Nonce: t.Nonce}
}

// CheckTexts returns the human readable check list as sent to participants.
func (t Task) CheckTexts() []string {
	texts := make([]string, 0, len(t.Checks))
	for _, c := range t.Checks {
		texts = append(texts, c.Text)
	}
	return texts
}

// TaskKey is the exact tuple a submission must match to be accepted.
type TaskKey struct {
	Identity string
	TaskID   string
	Round    int
	Nonce    string
}

// GeneratedTask is the deterministic output of the task generator for a seed.
type GeneratedTask struct {
	TemplateID  string
	Brief       string
	Checks      []Check
	Attachments []Attachment
}
