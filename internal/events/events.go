package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types published by the sync pipeline.
const (
	TypeStudentSynced     = "student.synced"
	TypeStudentSyncFailed = "student.sync_failed"
	TypeReminderSent      = "reminder.sent"
)

// Source identifies this service on every published event.
const Source = "progress-service"

// Event is the envelope for everything published on the event topic.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent stamps an envelope around payload data.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    Source,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// StudentSyncedEvent is the payload of TypeStudentSynced.
type StudentSyncedEvent struct {
	StudentID       string `json:"student_id"`
	Handle          string `json:"handle"`
	ContestCount    int    `json:"contest_count"`
	SubmissionCount int    `json:"submission_count"`
	CurrentRating   int    `json:"current_rating"`
	MaxRating       int    `json:"max_rating"`
}

// StudentSyncFailedEvent is the payload of TypeStudentSyncFailed.
type StudentSyncFailedEvent struct {
	StudentID string `json:"student_id,omitempty"`
	Handle    string `json:"handle"`
	Reason    string `json:"reason"`
}

// ReminderSentEvent is the payload of TypeReminderSent.
type ReminderSentEvent struct {
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
	Reminders int    `json:"reminders"`
}
