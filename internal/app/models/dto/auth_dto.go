package dto

// SignUpRequest represents a student registration submission. The sign-up
// form posts urlencoded fields; JSON clients use the same names.
type SignUpRequest struct {
	StudentID  string `form:"studentid" json:"studentid" binding:"required"`
	Name       string `form:"name" json:"name" binding:"required"`
	Department string `form:"department" json:"department" binding:"required"`
	Password   string `form:"password" json:"password" binding:"required,min=6"`
}

// SignInRequest represents student login credentials
type SignInRequest struct {
	StudentID string `form:"studentid" json:"studentid" binding:"required"`
	Password  string `form:"password" json:"password" binding:"required"`
}

// AdminSignInRequest represents admin login credentials
type AdminSignInRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// TokenResponse carries the issued session token. The same token is also set
// on the x-auth (student) or admin-auth (admin) response header.
type TokenResponse struct {
	Token string `json:"token"`
}
