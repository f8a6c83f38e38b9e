package models

// PrincipalKind distinguishes the two authenticated identities.
type PrincipalKind string

const (
	// PrincipalStudent is a signed-up student account.
	PrincipalStudent PrincipalKind = "STUDENT"
	// PrincipalAdmin is a pre-provisioned admin account.
	PrincipalAdmin PrincipalKind = "ADMIN"
)
