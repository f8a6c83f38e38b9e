package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/idil/placematch/internal/app/models/dto"
	"github.com/idil/placematch/internal/app/services"
	"github.com/idil/placematch/internal/middleware"
)

// CatalogController exposes the company catalog.
type CatalogController struct {
	catalogService services.CatalogService
	logger         zerolog.Logger
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService services.CatalogService, logger zerolog.Logger) *CatalogController {
	return &CatalogController{catalogService: catalogService, logger: logger}
}

// List returns the catalog company names in alphabetical order.
func (c *CatalogController) List(ctx *gin.Context) {
	companies, err := c.catalogService.LoadCatalog(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to load company catalog")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: gin.H{"companies": companies}})
}

// Add registers a new company in the catalog. Admin only.
func (c *CatalogController) Add(ctx *gin.Context) {
	var req dto.AddCompanyRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	company, err := c.catalogService.AddCompany(ctx.Request.Context(), req.Name)
	if err != nil {
		c.logger.Warn().Str("name", req.Name).Err(err).Msg("Company creation rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: company})
}
