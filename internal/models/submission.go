package models

import (
	"time"
)

// VerdictOK is the Codeforces verdict for an accepted submission.
const VerdictOK = "OK"

// Submission is one submission attempt mirrored from Codeforces.
// Same full-replace lifecycle as ContestHistory.
type Submission struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"studentId" gorm:"index;not null;size:36"`

	ProblemName   string    `json:"problemName" gorm:"not null;size:255"`
	ProblemRating *int      `json:"problemRating"`
	Verdict       string    `json:"verdict" gorm:"size:64"`
	Timestamp     time.Time `json:"timestamp" gorm:"index"`
	IsSolved      bool      `json:"isSolved" gorm:"default:false"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Submission) TableName() string {
	return "submissions"
}
