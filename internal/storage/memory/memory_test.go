package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samudraneel05/TDSProject1/internal/model"
	"github.com/samudraneel05/TDSProject1/internal/storage"
	"github.com/samudraneel05/TDSProject1/internal/storage/memory"
)

var _ storage.Repository = (*memory.Repository)(nil)

func TestRepositoryTasks(t *testing.T) {
	ctx := context.Background()
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)

	task := model.Task{ID: "id-1", Identity: "a@example.com", TaskID: "t-1", Round: 1, Nonce: "n-1", Checks: []model.Check{{Text: "x", Kind: model.CheckKindGeneric}}}
	require.NoError(t, repo.CreateTask(ctx, task))

	err = repo.CreateTask(ctx, model.Task{ID: "id-2", Identity: "b@example.com", TaskID: "t-2", Round: 1, Nonce: "n-1"})
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	got, err := repo.GetTaskByKey(ctx, task.Key())
	require.NoError(t, err)
	got.Checks[0].Text = "mutated"

	require.NoError(t, repo.SetTaskStatusCode(ctx, "id-1", 200))
	got, err = repo.GetTask(ctx, "a@example.com", "t-1", 1)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Checks[0].Text, "returned tasks should be copies")
	require.NotNil(t, got.StatusCode)
	assert.Equal(t, 200, *got.StatusCode)

	_, err = repo.GetParticipantTask(ctx, "a@example.com", 2)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepositorySubmissionsAndResults(t *testing.T) {
	ctx := context.Background()
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)

	old := model.Submission{Identity: "a@example.com", TaskID: "t-1", Round: 1, Nonce: "n-1", UpdatedAt: time.Now().Add(-time.Hour)}
	created, err := repo.UpsertSubmission(ctx, old)
	require.NoError(t, err)
	assert.True(t, created)

	recent := model.Submission{Identity: "b@example.com", TaskID: "t-2", Round: 1, Nonce: "n-2", UpdatedAt: time.Now()}
	_, err = repo.UpsertSubmission(ctx, recent)
	require.NoError(t, err)

	old.CommitSHA = "new"
	old.UpdatedAt = time.Now().Add(time.Minute)
	created, err = repo.UpsertSubmission(ctx, old)
	require.NoError(t, err)
	assert.False(t, created)

	all, err := repo.ListSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a@example.com", all[0].Identity)
	assert.Equal(t, "new", all[0].CommitSHA)

	require.NoError(t, repo.AppendResults(ctx, []model.Result{{Identity: "a@example.com", TaskID: "t-1", Round: 1, Check: "MIT License"}}))
	count, err := repo.CountResults(ctx, "a@example.com", "t-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRepositoryListSubmissionsTies(t *testing.T) {
	ctx := context.Background()
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)

	at := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)
	for i, identity := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := repo.UpsertSubmission(ctx, model.Submission{
			Identity:  identity,
			TaskID:    "t-1",
			Round:     1,
			Nonce:     identity,
			UpdatedAt: at.Add(time.Duration(i) * time.Millisecond),
		})
		require.NoError(t, err)
	}

	all, err := repo.ListSubmissions(ctx)
	require.NoError(t, err)

	got := []string{}
	for _, s := range all {
		got = append(got, s.Identity)
	}
	assert.Equal(t, []string{"c@example.com", "b@example.com", "a@example.com"}, got)
}
