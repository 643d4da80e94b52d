package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/samudraneel05/TDSProject1/internal/model"
	"github.com/samudraneel05/TDSProject1/internal/storage"
)

var _ storage.Repository = (*MockRepository)(nil)

// MockRepository is a testify mock of storage.Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateTask(ctx context.Context, t model.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockRepository) SetTaskStatusCode(ctx context.Context, id string, statusCode int) error {
	args := m.Called(ctx, id, statusCode)
	return args.Error(0)
}

func (m *MockRepository) GetTaskByKey(ctx context.Context, key model.TaskKey) (*model.Task, error) {
	args := m.Called(ctx, key)
	t, _ := args.Get(0).(*model.Task)
	return t, args.Error(1)
}

func (m *MockRepository) GetTask(ctx context.Context, identity, taskID string, round int) (*model.Task, error) {
	args := m.Called(ctx, identity, taskID, round)
	t, _ := args.Get(0).(*model.Task)
	return t, args.Error(1)
}

func (m *MockRepository) GetParticipantTask(ctx context.Context, identity string, round int) (*model.Task, error) {
	args := m.Called(ctx, identity, round)
	t, _ := args.Get(0).(*model.Task)
	return t, args.Error(1)
}

func (m *MockRepository) UpsertSubmission(ctx context.Context, s model.Submission) (bool, error) {
	args := m.Called(ctx, s)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListSubmissions(ctx context.Context) ([]model.Submission, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]model.Submission)
	return s, args.Error(1)
}

func (m *MockRepository) ListSubmissionsByRound(ctx context.Context, round int) ([]model.Submission, error) {
	args := m.Called(ctx, round)
	s, _ := args.Get(0).([]model.Submission)
	return s, args.Error(1)
}

func (m *MockRepository) CountResults(ctx context.Context, identity, taskID string, round int) (int, error) {
	args := m.Called(ctx, identity, taskID, round)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) AppendResults(ctx context.Context, results []model.Result) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

func (m *MockRepository) ListResults(ctx context.Context) ([]model.Result, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]model.Result)
	return r, args.Error(1)
}
