// Package repository provides database persistence for pipeline run records.
package repository

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/hepqca/qca/pkg/model"
)

// RunRecord represents the qca_runs table.
type RunRecord struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	RunID        string     `gorm:"column:run_id;type:varchar(64);uniqueIndex"`
	Status       string     `gorm:"column:status;type:varchar(32)"`
	StatusInfo   string     `gorm:"column:status_info;type:text"`
	ConfigParams JSONField  `gorm:"column:config_params;type:json"`
	Report       JSONField  `gorm:"column:report;type:json"`
	CreateTime   time.Time  `gorm:"column:create_time;autoCreateTime"`
	BeginTime    *time.Time `gorm:"column:begin_time"`
	EndTime      *time.Time `gorm:"column:end_time"`
}

// TableName returns the table name for RunRecord.
func (RunRecord) TableName() string {
	return "qca_runs"
}

// ToModel converts RunRecord to model.Run.
func (r *RunRecord) ToModel() *model.Run {
	run := &model.Run{
		ID:         r.ID,
		RunID:      r.RunID,
		Status:     model.RunStatus(r.Status),
		StatusInfo: r.StatusInfo,
		CreateTime: r.CreateTime,
		BeginTime:  r.BeginTime,
		EndTime:    r.EndTime,
	}

	if r.ConfigParams != nil {
		_ = json.Unmarshal(r.ConfigParams, &run.Config)
	}
	if r.Report != nil {
		run.Report = json.RawMessage(r.Report)
	}

	return run
}

// JSONField is a custom type for handling JSON fields in GORM.
type JSONField []byte

// Value implements driver.Valuer interface.
func (j JSONField) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner interface.
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = []byte(v)
		return nil
	default:
		return errors.New("unsupported type for JSONField")
	}
}

// MarshalJSON implements json.Marshaler interface.
func (j JSONField) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (j *JSONField) UnmarshalJSON(data []byte) error {
	if data == nil || string(data) == "null" {
		*j = nil
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}
