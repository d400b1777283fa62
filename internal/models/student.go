package models

import (
	"time"
)

type Student struct {
	ID               string `json:"id" gorm:"primaryKey;size:36"`
	Name             string `json:"name" gorm:"not null;size:100"`
	Email            string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Phone            string `json:"phone" gorm:"size:32"`
	CodeforcesHandle string `json:"codeforcesHandle" gorm:"uniqueIndex;not null;size:64"`

	CurrentRating int `json:"currentRating" gorm:"default:0"`
	MaxRating     int `json:"maxRating" gorm:"default:0"`

	EmailRemindersEnabled bool       `json:"emailRemindersEnabled" gorm:"default:true"`
	InactiveReminders     int        `json:"inactiveReminders" gorm:"default:0"`
	LastSyncedAt          *time.Time `json:"lastSyncedAt"`

	ContestHistories []ContestHistory `json:"contestHistory,omitempty" gorm:"foreignKey:StudentID"`
	Submissions      []Submission     `json:"submissions,omitempty" gorm:"foreignKey:StudentID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Student) TableName() string {
	return "students"
}
