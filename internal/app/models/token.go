package models

import "time"

// AuthToken is one issued session token based on the 'auth_tokens' table.
// A token identifies exactly one principal until its row is deleted.
type AuthToken struct {
	ID            int64         `json:"id" db:"id"`
	Token         string        `json:"token" db:"token"`
	PrincipalKind PrincipalKind `json:"principalKind" db:"principal_kind"`
	PrincipalID   int64         `json:"principalId" db:"principal_id"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
}
