package models

import (
	"time"
)

// CompanyChoice is one company-side preference entry curated by an admin:
// a company and its ranked list of student identifiers.
type CompanyChoice struct {
	Company     string   `json:"company"`
	Preferences []string `json:"preferences"`
}

// Admin defines the admin model based on the 'admins' table
type Admin struct {
	ID             int64           `json:"id" db:"id"`
	Username       string          `json:"username" db:"username"`
	Password       string          `json:"-" db:"password"`
	CompanyChoices []CompanyChoice `json:"companyChoices" db:"company_choices"` // nil means nothing curated yet
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	LastLoginAt    *time.Time      `json:"lastLoginAt,omitempty" db:"last_login_at"`
}
