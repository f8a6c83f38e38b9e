// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/idil/placematch/internal/app/models/dto"
	"github.com/idil/placematch/internal/app/services"
	"github.com/idil/placematch/internal/middleware"
)

// AuthController handles sign-up, sign-in and logout for students.
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Home serves the landing payload. The HTML shell is served statically;
// this endpoint only tells clients where to go.
func (c *AuthController) Home(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: gin.H{
			"service": "placematch",
			"signup":  "/signup",
			"signin":  "/signin",
		},
	})
}

// SignUp handles student registration.
// Creates the account, issues the first session token and returns it in the
// x-auth response header alongside a studentid echo header.
func (c *AuthController) SignUp(ctx *gin.Context) {
	var req dto.SignUpRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid sign-up request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	user, token, err := c.authService.RegisterStudent(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("studentID", req.StudentID).Msg("Sign-up failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header(middleware.StudentTokenHeader, token)
	ctx.Header("studentid", user.StudentID)
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: user})
}

// SignIn handles student login.
// A fresh token is issued on every login; previously issued tokens stay
// valid until revoked.
func (c *AuthController) SignIn(ctx *gin.Context) {
	var req dto.SignInRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	user, token, err := c.authService.LoginStudent(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Str("studentID", req.StudentID).Msg("Sign-in failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header(middleware.StudentTokenHeader, token)
	ctx.Header("studentid", user.StudentID)
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: user})
}

// Logout revokes the session token the request authenticated with.
func (c *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextSessionToken)

	if err := c.authService.RevokeStudentToken(ctx.Request.Context(), token); err != nil {
		c.logger.Error().Err(err).Msg("Failed to revoke student token")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Logged out"}})
}
