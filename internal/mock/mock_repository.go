// Package mock holds testify/mock doubles for the repository interfaces.
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hepqca/qca/pkg/model"
)

// MockRunRepository is a mock implementation of the RunRepository interface.
type MockRunRepository struct {
	mock.Mock
}

// CreateRun mocks the CreateRun method.
func (m *MockRunRepository) CreateRun(ctx context.Context, run *model.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

// GetRunByRunID mocks the GetRunByRunID method.
func (m *MockRunRepository) GetRunByRunID(ctx context.Context, runID string) (*model.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

// UpdateRunStatus mocks the UpdateRunStatus method.
func (m *MockRunRepository) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus, info string) error {
	args := m.Called(ctx, runID, status, info)
	return args.Error(0)
}

// SaveReport mocks the SaveReport method.
func (m *MockRunRepository) SaveReport(ctx context.Context, runID string, report []byte) error {
	args := m.Called(ctx, runID, report)
	return args.Error(0)
}

// ListRecentRuns mocks the ListRecentRuns method.
func (m *MockRunRepository) ListRecentRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Run), args.Error(1)
}

// ExpectCreateRun sets up an expectation for CreateRun.
func (m *MockRunRepository) ExpectCreateRun(err error) *mock.Call {
	return m.On("CreateRun", mock.Anything, mock.Anything).Return(err)
}

// ExpectUpdateRunStatus sets up an expectation for UpdateRunStatus.
func (m *MockRunRepository) ExpectUpdateRunStatus(runID string, status model.RunStatus, err error) *mock.Call {
	return m.On("UpdateRunStatus", mock.Anything, runID, status, mock.Anything).Return(err)
}

// ExpectSaveReport sets up an expectation for SaveReport.
func (m *MockRunRepository) ExpectSaveReport(runID string, err error) *mock.Call {
	return m.On("SaveReport", mock.Anything, runID, mock.Anything).Return(err)
}
