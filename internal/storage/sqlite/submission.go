package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/samudraneel05/TDSProject1/internal/model"
)

const submissionColumns = `
	id, identity, task_id, round, nonce,
	repo_url, commit_sha, pages_url,
	created_at, updated_at
`

// UpsertSubmission inserts a submission or updates the artifact locators and timestamp of
// the existing one with the same (identity, task, round, nonce) key.
func (r *Repository) UpsertSubmission(ctx context.Context, s model.Submission) (created bool, err error) {
	now := s.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // Rollback is safe to call after Commit

	var existingID string
	query := `SELECT id FROM submissions WHERE identity = ? AND task_id = ? AND round = ? AND nonce = ?`
	err = tx.QueryRowContext(ctx, query, s.Identity, s.TaskID, s.Round, s.Nonce).Scan(&existingID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id := s.ID
		if id == "" {
			id = ulid.Make().String()
		}
		insert := `INSERT INTO submissions (` + submissionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err = tx.ExecContext(ctx, insert,
			id, s.Identity, s.TaskID, s.Round, s.Nonce,
			s.RepoURL, s.CommitSHA, s.PagesURL,
			now.Unix(), now.Unix(),
		)
		if err != nil {
			return false, fmt.Errorf("could not insert submission: %w", err)
		}
		created = true
	case err != nil:
		return false, fmt.Errorf("could not query submission: %w", err)
	default:
		update := `UPDATE submissions SET repo_url = ?, commit_sha = ?, pages_url = ?, updated_at = ? WHERE id = ?`
		_, err = tx.ExecContext(ctx, update, s.RepoURL, s.CommitSHA, s.PagesURL, now.Unix(), existingID)
		if err != nil {
			return false, fmt.Errorf("could not update submission: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Upserted submission for %s task %s round %d (created: %t)", s.Identity, s.TaskID, s.Round, created)
	return created, nil
}

// ListSubmissions returns all submissions, most recent first.
func (r *Repository) ListSubmissions(ctx context.Context) ([]model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions ORDER BY updated_at DESC, id DESC`
	return r.querySubmissions(ctx, query)
}

// ListSubmissionsByRound returns the submissions of a round in insertion order, round 0
// returns all of them.
func (r *Repository) ListSubmissionsByRound(ctx context.Context, round int) ([]model.Submission, error) {
	if round <= 0 {
		return r.querySubmissions(ctx, `SELECT `+submissionColumns+` FROM submissions ORDER BY id ASC`)
	}
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE round = ? ORDER BY id ASC`
	return r.querySubmissions(ctx, query, round)
}

func (r *Repository) querySubmissions(ctx context.Context, query string, args ...any) ([]model.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []model.Submission
	for rows.Next() {
		var s model.Submission
		var createdAt, updatedAt int64
		err := rows.Scan(
			&s.ID, &s.Identity, &s.TaskID, &s.Round, &s.Nonce,
			&s.RepoURL, &s.CommitSHA, &s.PagesURL,
			&createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		s.CreatedAt = timeFromUnix(createdAt)
		s.UpdatedAt = timeFromUnix(updatedAt)
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return submissions, nil
}
