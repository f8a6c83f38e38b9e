package models

import (
	"time"
)

// User defines the student model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id"`                              // Unique identifier for the user record
	StudentID   string     `json:"studentId" db:"student_id"`               // Student's external identifier, natural key
	Name        string     `json:"name" db:"name"`                          // Display name
	Department  string     `json:"department" db:"department"`              // Department the student belongs to
	Password    string     `json:"-" db:"password"`                         // Hashed password (excluded from JSON)
	Choices     []string   `json:"choices" db:"choices"`                    // Ordered company choices; nil means no submission yet
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`               // Timestamp when the user was created
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"` // Timestamp of the last login (nullable)
}

// HasChoices reports whether the student has submitted a choice list.
func (u *User) HasChoices() bool {
	return len(u.Choices) > 0
}
