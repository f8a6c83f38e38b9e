package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idil/placematch/internal/app/models/dto"
	"github.com/idil/placematch/internal/app/services"
	"github.com/idil/placematch/internal/pkg/apperrors"
	"github.com/idil/placematch/internal/pkg/auth"
)

// Context keys set by the auth gates for downstream handlers.
const (
	ContextStudent      = "student"
	ContextAdmin        = "admin"
	ContextSessionToken = "sessionToken"
)

// Legacy token transport headers. Login responses set them and old clients
// send them back instead of a standard Authorization header.
const (
	StudentTokenHeader = "x-auth"
	AdminTokenHeader   = "admin-auth"
)

// AuthMiddleware provides the two session gates. They are not
// interchangeable: an admin token never opens a student route and vice versa.
type AuthMiddleware struct {
	authService services.AuthService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// StudentAuth resolves a student session token and attaches the student to
// the request context. Unresolvable tokens short-circuit the request.
func (m *AuthMiddleware) StudentAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, StudentTokenHeader)
		if token == "" {
			abortUnauthenticated(c, "Authentication token missing")
			return
		}

		student, err := m.authService.ResolveStudent(c.Request.Context(), token)
		if err != nil {
			abortAuthFailure(c, err)
			return
		}

		c.Set(ContextStudent, student)
		c.Set(ContextSessionToken, token)
		c.Next()
	}
}

// AdminAuth resolves an admin session token and attaches the admin to the
// request context.
func (m *AuthMiddleware) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, AdminTokenHeader)
		if token == "" {
			abortUnauthenticated(c, "Authentication token missing")
			return
		}

		admin, err := m.authService.ResolveAdmin(c.Request.Context(), token)
		if err != nil {
			abortAuthFailure(c, err)
			return
		}

		c.Set(ContextAdmin, admin)
		c.Set(ContextSessionToken, token)
		c.Next()
	}
}

// extractToken finds the bearer credential: path parameter first (the
// original transport), then the legacy header, then a standard
// Authorization header.
func extractToken(c *gin.Context, legacyHeader string) string {
	if token := c.Param("token"); token != "" {
		return token
	}
	if token := c.GetHeader(legacyHeader); token != "" {
		return token
	}
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		token, err := auth.ExtractBearerToken(authHeader)
		if err == nil {
			return token
		}
	}
	return ""
}

func abortUnauthenticated(c *gin.Context, details string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	errorDetail = errorDetail.WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

func abortAuthFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound), errors.Is(err, apperrors.ErrAdminNotFound):
		// Resolved token but the principal record is gone.
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Account no longer exists")
		c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(errorDetail))
	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed")
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
	}
}
