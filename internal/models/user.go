package models

import (
	"time"
)

// User is an account holder of the dashboard, distinct from Student.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	Username string `json:"username" gorm:"not null;size:100"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password string `json:"-" gorm:"not null;size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
