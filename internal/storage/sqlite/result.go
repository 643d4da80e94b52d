package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/samudraneel05/TDSProject1/internal/model"
)

// CountResults returns the number of results stored for a submission.
func (r *Repository) CountResults(ctx context.Context, identity, taskID string, round int) (int, error) {
	query := `SELECT COUNT(*) FROM results WHERE identity = ? AND task_id = ? AND round = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, identity, taskID, round).Scan(&count); err != nil {
		return 0, fmt.Errorf("could not count results: %w", err)
	}
	return count, nil
}

// AppendResults stores all the results in a single transaction.
func (r *Repository) AppendResults(ctx context.Context, results []model.Result) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // Rollback is safe to call after Commit

	insertQuery := `
		INSERT INTO results (
			id, identity, task_id, round,
			repo_url, commit_sha, pages_url,
			family, check_name, score, reason, logs,
			created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("could not prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, res := range results {
		id := res.ID
		if id == "" {
			id = ulid.Make().String()
		}
		createdAt := res.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}

		_, err := stmt.ExecContext(ctx,
			id, res.Identity, res.TaskID, res.Round,
			res.RepoURL, res.CommitSHA, res.PagesURL,
			string(res.Family), res.Check, res.Score, res.Reason, res.Logs,
			createdAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("could not insert result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Appended %d results", len(results))
	return nil
}

// ListResults returns all the results, most recent first.
func (r *Repository) ListResults(ctx context.Context) ([]model.Result, error) {
	query := `
		SELECT
			id, identity, task_id, round,
			repo_url, commit_sha, pages_url,
			family, check_name, score, reason, logs,
			created_at
		FROM results
		ORDER BY created_at DESC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query results: %w", err)
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		var res model.Result
		var family string
		var createdAt int64
		err := rows.Scan(
			&res.ID, &res.Identity, &res.TaskID, &res.Round,
			&res.RepoURL, &res.CommitSHA, &res.PagesURL,
			&family, &res.Check, &res.Score, &res.Reason, &res.Logs,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		res.Family = model.CheckFamily(family)
		res.CreatedAt = timeFromUnix(createdAt)
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}
