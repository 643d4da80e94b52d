package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samudraneel05/TDSProject1/internal/model"
)

// JSON column types, private to the storage layer.

type checkJSON struct {
	Text   string `json:"text"`
	Kind   string `json:"kind"`
	Target string `json:"target,omitempty"`
}

type attachmentJSON struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

const taskColumns = `
	id, identity, task_id, template_id, round, nonce,
	brief, checks, attachments,
	callback_url, endpoint, secret,
	status_code, created_at
`

// CreateTask stores a newly issued task.
func (r *Repository) CreateTask(ctx context.Context, t model.Task) error {
	if t.ID == "" || t.Nonce == "" {
		return fmt.Errorf("task id and nonce are required: %w", model.ErrNotValid)
	}

	checks := make([]checkJSON, 0, len(t.Checks))
	for _, c := range t.Checks {
		checks = append(checks, checkJSON{Text: c.Text, Kind: string(c.Kind), Target: c.Target})
	}
	checksData, err := json.Marshal(checks)
	if err != nil {
		return fmt.Errorf("could not marshal checks: %w", err)
	}

	attachments := make([]attachmentJSON, 0, len(t.Attachments))
	for _, a := range t.Attachments {
		attachments = append(attachments, attachmentJSON{Name: a.Name, URL: a.URL})
	}
	attachmentsData, err := json.Marshal(attachments)
	if err != nil {
		return fmt.Errorf("could not marshal attachments: %w", err)
	}

	var statusCode *int64
	if t.StatusCode != nil {
		sc := int64(*t.StatusCode)
		statusCode = &sc
	}

	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.Identity,
		t.TaskID,
		t.TemplateID,
		t.Round,
		t.Nonce,
		t.Brief,
		string(checksData),
		string(attachmentsData),
		t.CallbackURL,
		t.Endpoint,
		t.Secret,
		statusCode,
		t.CreatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err, "tasks") {
			return fmt.Errorf("task %s: %w", t.ID, model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert task: %w", err)
	}

	r.logger.Debugf("Created task in repository: %s (%s round %d)", t.TaskID, t.Identity, t.Round)
	return nil
}

// SetTaskStatusCode records the delivery status code of a task.
func (r *Repository) SetTaskStatusCode(ctx context.Context, id string, statusCode int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tasks SET status_code = ? WHERE id = ?`, statusCode, id)
	if err != nil {
		return fmt.Errorf("could not update task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	return nil
}

// GetTaskByKey returns the task matching exactly the key.
func (r *Repository) GetTaskByKey(ctx context.Context, key model.TaskKey) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE identity = ? AND task_id = ? AND round = ? AND nonce = ?`
	t, err := r.scanTask(r.db.QueryRowContext(ctx, query, key.Identity, key.TaskID, key.Round, key.Nonce))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s for %s round %d: %w", key.TaskID, key.Identity, key.Round, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query task: %w", err)
	}
	return t, nil
}

// GetTask returns the first task issued to an identity for a task ID and round.
func (r *Repository) GetTask(ctx context.Context, identity, taskID string, round int) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE identity = ? AND task_id = ? AND round = ? ORDER BY created_at ASC, id ASC LIMIT 1`
	t, err := r.scanTask(r.db.QueryRowContext(ctx, query, identity, taskID, round))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s for %s round %d: %w", taskID, identity, round, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query task: %w", err)
	}
	return t, nil
}

// GetParticipantTask returns the first task issued to an identity in a round.
func (r *Repository) GetParticipantTask(ctx context.Context, identity string, round int) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE identity = ? AND round = ? ORDER BY created_at ASC, id ASC LIMIT 1`
	t, err := r.scanTask(r.db.QueryRowContext(ctx, query, identity, round))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task for %s round %d: %w", identity, round, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query task: %w", err)
	}
	return t, nil
}

func (r *Repository) scanTask(s scanner) (*model.Task, error) {
	var t model.Task
	var checksData, attachmentsData string
	var statusCode sql.NullInt64
	var createdAt int64

	err := s.Scan(
		&t.ID,
		&t.Identity,
		&t.TaskID,
		&t.TemplateID,
		&t.Round,
		&t.Nonce,
		&t.Brief,
		&checksData,
		&attachmentsData,
		&t.CallbackURL,
		&t.Endpoint,
		&t.Secret,
		&statusCode,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	var checks []checkJSON
	if err := json.Unmarshal([]byte(checksData), &checks); err != nil {
		return nil, fmt.Errorf("could not unmarshal checks of task %s: %w", t.ID, err)
	}
	t.Checks = make([]model.Check, 0, len(checks))
	for _, c := range checks {
		t.Checks = append(t.Checks, model.Check{Text: c.Text, Kind: model.CheckKind(c.Kind), Target: c.Target})
	}

	var attachments []attachmentJSON
	if err := json.Unmarshal([]byte(attachmentsData), &attachments); err != nil {
		return nil, fmt.Errorf("could not unmarshal attachments of task %s: %w", t.ID, err)
	}
	t.Attachments = make([]model.Attachment, 0, len(attachments))
	for _, a := range attachments {
		t.Attachments = append(t.Attachments, model.Attachment{Name: a.Name, URL: a.URL})
	}

	if statusCode.Valid {
		sc := int(statusCode.Int64)
		t.StatusCode = &sc
	}
	t.CreatedAt = timeFromUnix(createdAt)

	return &t, nil
}
