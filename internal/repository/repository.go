package repository

import (
	"context"
	"errors"

	"github.com/hepqca/qca/pkg/model"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("run not found")

// RunRepository defines the interface for pipeline-run persistence.
type RunRepository interface {
	// CreateRun inserts a new run record.
	CreateRun(ctx context.Context, run *model.Run) error

	// GetRunByRunID retrieves a run by its run_id.
	GetRunByRunID(ctx context.Context, runID string) (*model.Run, error)

	// UpdateRunStatus updates a run's status and status info.
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus, info string) error

	// SaveReport attaches the evaluation report to a completed run.
	SaveReport(ctx context.Context, runID string, report []byte) error

	// ListRecentRuns retrieves the most recently created runs.
	ListRecentRuns(ctx context.Context, limit int) ([]*model.Run, error)
}
