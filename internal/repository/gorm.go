package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hepqca/qca/pkg/model"
	"gorm.io/gorm"
)

// GormRunRepository implements RunRepository using GORM.
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GormRunRepository.
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// CreateRun inserts a new run record.
func (r *GormRunRepository) CreateRun(ctx context.Context, run *model.Run) error {
	configJSON, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal run config: %w", err)
	}

	record := &RunRecord{
		RunID:        run.RunID,
		Status:       string(run.Status),
		StatusInfo:   run.StatusInfo,
		ConfigParams: configJSON,
		BeginTime:    run.BeginTime,
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	run.ID = record.ID
	run.CreateTime = record.CreateTime
	return nil
}

// GetRunByRunID retrieves a run by its run_id.
func (r *GormRunRepository) GetRunByRunID(ctx context.Context, runID string) (*model.Run, error) {
	var record RunRecord

	err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return record.ToModel(), nil
}

// UpdateRunStatus updates a run's status and status info.
func (r *GormRunRepository) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus, info string) error {
	updates := map[string]interface{}{
		"status":      string(status),
		"status_info": info,
	}
	if status == model.RunStatusCompleted || status == model.RunStatusFailed {
		updates["end_time"] = time.Now()
	}

	result := r.db.WithContext(ctx).
		Model(&RunRecord{}).
		Where("run_id = ?", runID).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update run status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, runID)
	}

	return nil
}

// SaveReport attaches the evaluation report to a completed run.
func (r *GormRunRepository) SaveReport(ctx context.Context, runID string, report []byte) error {
	result := r.db.WithContext(ctx).
		Model(&RunRecord{}).
		Where("run_id = ?", runID).
		Update("report", JSONField(report))

	if result.Error != nil {
		return fmt.Errorf("failed to save report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, runID)
	}

	return nil
}

// ListRecentRuns retrieves the most recently created runs.
func (r *GormRunRepository) ListRecentRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	var records []RunRecord

	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*model.Run, len(records))
	for i, rec := range records {
		runs[i] = rec.ToModel()
	}

	return runs, nil
}
