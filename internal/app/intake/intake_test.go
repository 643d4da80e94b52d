package intake_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/samudraneel05/TDSProject1/internal/app/intake"
	"github.com/samudraneel05/TDSProject1/internal/model"
	"github.com/samudraneel05/TDSProject1/internal/storage/memory"
	"github.com/samudraneel05/TDSProject1/internal/storage/storagemock"
)

func validRequest() intake.SubmitRequest {
	return intake.SubmitRequest{
		Email:     "a@example.com",
		Task:      "sum-of-sales-1a2b3",
		Round:     1,
		Nonce:     "n-1",
		RepoURL:   "https://github.com/a/app",
		CommitSHA: "abc",
		PagesURL:  "https://a.github.io/app/",
	}
}

func newRepoWithTask(t *testing.T) *memory.Repository {
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)
	require.NoError(t, repo.CreateTask(context.Background(), model.Task{
		ID: "t1", Identity: "a@example.com", TaskID: "sum-of-sales-1a2b3", Round: 1, Nonce: "n-1",
	}))
	return repo
}

func TestServiceSubmit(t *testing.T) {
	tests := map[string]struct {
		req       func() intake.SubmitRequest
		expErr    error
		expStatus intake.SubmitStatus
	}{
		"A submission matching a task should be received.": {
			req:       validRequest,
			expStatus: intake.SubmitStatusReceived,
		},
		"A submission with a wrong nonce should be rejected.": {
			req: func() intake.SubmitRequest {
				r := validRequest()
				r.Nonce = "n-x"
				return r
			},
			expErr: model.ErrNotValid,
		},
		"A submission for another round should be rejected.": {
			req: func() intake.SubmitRequest {
				r := validRequest()
				r.Round = 2
				return r
			},
			expErr: model.ErrNotValid,
		},
		"A submission with missing fields should be rejected.": {
			req: func() intake.SubmitRequest {
				r := validRequest()
				r.PagesURL = ""
				return r
			},
			expErr: model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			ctx := context.Background()

			repo := newRepoWithTask(t)
			svc, err := intake.NewService(intake.ServiceConfig{Repository: repo})
			require.NoError(err)

			res, err := svc.Submit(ctx, test.req())
			subs, lerr := svc.List(ctx)
			require.NoError(lerr)

			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
				assert.Empty(subs, "rejected submissions should not be stored")
				return
			}
			require.NoError(err)
			assert.Equal(test.expStatus, res.Status)
			assert.Len(subs, 1)
		})
	}
}

func TestServiceSubmitIdempotent(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	svc, err := intake.NewService(intake.ServiceConfig{
		Repository: newRepoWithTask(t),
		Clock: func() time.Time {
			now = now.Add(time.Minute)
			return now
		},
	})
	require.NoError(err)

	res, err := svc.Submit(ctx, validRequest())
	require.NoError(err)
	assert.Equal(intake.SubmitStatusReceived, res.Status)

	req := validRequest()
	req.CommitSHA = "def"
	res, err = svc.Submit(ctx, req)
	require.NoError(err)
	assert.Equal(intake.SubmitStatusUpdated, res.Status)

	subs, err := svc.List(ctx)
	require.NoError(err)
	require.Len(subs, 1)
	assert.Equal("def", subs[0].CommitSHA)
}

func TestServiceSubmitStoreError(t *testing.T) {
	repo := &storagemock.MockRepository{}
	repo.On("GetTaskByKey", mock.Anything, mock.Anything).Return(&model.Task{}, nil)
	repo.On("UpsertSubmission", mock.Anything, mock.Anything).Return(false, assert.AnError)

	svc, err := intake.NewService(intake.ServiceConfig{Repository: repo})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), validRequest())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, model.ErrNotValid)
}
