package entity

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// SweepStatus is the lifecycle state of a staleness sweep run.
type SweepStatus string

const (
	SweepStatusRunning   SweepStatus = "RUNNING"
	SweepStatusCompleted SweepStatus = "COMPLETED"
	SweepStatusFailed    SweepStatus = "FAILED"
)

// SweepRun records one execution of the staleness sweeper.
type SweepRun struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Status        SweepStatus    `gorm:"not null" json:"status"`
	StartedAt     time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt   sql.NullTime   `json:"completed_at"`
	Stats         datatypes.JSON `gorm:"type:jsonb" json:"stats"`
	FailedSymbols pq.StringArray `gorm:"type:text[]" json:"failed_symbols"`
	ErrorMessage  sql.NullString `json:"error_message"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (SweepRun) TableName() string {
	return "sweep_runs"
}
