package models

import (
	"time"
)

// ContestHistory is one contest participation mirrored from Codeforces.
// The whole set for a student is replaced on every sync; RatingChange is
// always recomputed locally, never taken from the source payload.
type ContestHistory struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"studentId" gorm:"index;not null;size:36"`

	ContestID    int       `json:"contestId" gorm:"not null"`
	ContestName  string    `json:"contestName" gorm:"not null;size:255"`
	Rank         int       `json:"rank"`
	OldRating    int       `json:"oldRating"`
	NewRating    int       `json:"newRating"`
	RatingChange int       `json:"ratingChange"`
	Date         time.Time `json:"date"`

	CreatedAt time.Time `json:"createdAt"`
}

func (ContestHistory) TableName() string {
	return "contest_histories"
}
