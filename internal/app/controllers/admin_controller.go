package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/idil/placematch/internal/app/models"
	"github.com/idil/placematch/internal/app/models/dto"
	"github.com/idil/placematch/internal/app/services"
	"github.com/idil/placematch/internal/middleware"
)

// AdminController handles admin login, the dashboard aggregations and the
// curated company-side data.
type AdminController struct {
	authService  services.AuthService
	adminService services.AdminService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(authService services.AuthService, adminService services.AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		authService:  authService,
		adminService: adminService,
		logger:       logger,
	}
}

// Home serves the admin sign-in page data.
func (c *AdminController) Home(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: gin.H{"service": "placematch admin", "signin": "/admin"},
	})
}

// SignIn handles admin login. The token travels back in the admin-auth
// response header alongside a username echo header.
func (c *AdminController) SignIn(ctx *gin.Context) {
	var req dto.AdminSignInRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	admin, token, err := c.authService.LoginAdmin(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Str("username", req.Username).Msg("Admin sign-in failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header(middleware.AdminTokenHeader, token)
	ctx.Header("username", admin.Username)
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.TokenResponse{Token: token}})
}

// Dashboard serves both aggregation tables.
func (c *AdminController) Dashboard(ctx *gin.Context) {
	admin := ctx.MustGet(middleware.ContextAdmin).(*models.Admin)

	dashboard, err := c.adminService.BuildDashboard(ctx.Request.Context(), admin)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build admin dashboard")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dashboard})
}

// UpdateCompanyChoices replaces the admin's curated company-side data wholesale.
func (c *AdminController) UpdateCompanyChoices(ctx *gin.Context) {
	admin := ctx.MustGet(middleware.ContextAdmin).(*models.Admin)

	var req dto.UpdateCompanyChoicesRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.adminService.UpdateCompanyChoices(ctx.Request.Context(), admin.ID, req.CompanyChoices); err != nil {
		c.logger.Warn().Err(err).Int64("adminID", admin.ID).Msg("Company choices update rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Company choices saved"}})
}

// Logout revokes the admin session token the request authenticated with.
func (c *AdminController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextSessionToken)

	if err := c.authService.RevokeAdminToken(ctx.Request.Context(), token); err != nil {
		c.logger.Error().Err(err).Msg("Failed to revoke admin token")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Logged out"}})
}
