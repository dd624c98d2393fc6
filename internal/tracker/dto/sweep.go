package dto

import (
	"database/sql"
	"encoding/json"
	"time"
)

// SweepReport summarizes one staleness sweep run.
type SweepReport struct {
	StartedAt     time.Time `json:"started_at"`
	Scanned       int       `json:"scanned"`
	Refreshed     int       `json:"refreshed"`
	Failed        int       `json:"failed"`
	FailedSymbols []string  `json:"failed_symbols,omitempty"`
	Skipped       bool      `json:"skipped,omitempty"`
	Duration      string    `json:"duration"`
}

// SweepRunResponse is the API representation of a recorded sweep run.
type SweepRunResponse struct {
	ID            uint            `json:"id"`
	Status        string          `json:"status"`
	StartedAt     time.Time       `json:"started_at"`
	CompletedAt   sql.NullTime    `json:"completed_at" swaggertype:"string" format:"date-time"`
	Stats         json.RawMessage `json:"stats,omitempty" swaggertype:"object"`
	FailedSymbols []string        `json:"failed_symbols,omitempty"`
	ErrorMessage  string          `json:"error_message,omitempty"`
}
