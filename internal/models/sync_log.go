package models

import (
	"time"

	"gorm.io/datatypes"
)

type SyncStatus string

const (
	SyncSucceeded SyncStatus = "succeeded"
	SyncFailed    SyncStatus = "failed"
	SyncSkipped   SyncStatus = "skipped"
)

// SyncLog records the outcome of one reconciliation run for one student.
type SyncLog struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"student_id" gorm:"index;not null;size:36"`
	Handle    string `json:"handle" gorm:"size:64"`

	Status SyncStatus `json:"status" gorm:"not null;size:16"`
	Error  *string    `json:"error" gorm:"size:1000"`

	// Detail holds per-run counts and the fetched profile snapshot.
	Detail datatypes.JSON `json:"detail" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (SyncLog) TableName() string {
	return "sync_logs"
}

// SyncDetail is the shape serialized into SyncLog.Detail.
type SyncDetail struct {
	ContestCount    int  `json:"contest_count"`
	SubmissionCount int  `json:"submission_count"`
	CurrentRating   int  `json:"current_rating"`
	MaxRating       int  `json:"max_rating"`
	ReminderSent    bool `json:"reminder_sent,omitempty"`
}
