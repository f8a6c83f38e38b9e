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

// SorterController feeds the placement sorter with the combined student and
// company data set.
type SorterController struct {
	sorterService services.SorterService
	logger        zerolog.Logger
}

// NewSorterController creates a new SorterController
func NewSorterController(sorterService services.SorterService, logger zerolog.Logger) *SorterController {
	return &SorterController{sorterService: sorterService, logger: logger}
}

// Page serves the sorter page data for an authenticated admin.
func (c *SorterController) Page(ctx *gin.Context) {
	admin := ctx.MustGet(middleware.ContextAdmin).(*models.Admin)

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: gin.H{"username": admin.Username, "feed": "/fetchSorterData"},
	})
}

// FetchData returns the sorter payload. The body is the payload object
// itself, not wrapped in the usual envelope, because the sorter consumes
// studentsArray and companyChoices as top-level keys.
func (c *SorterController) FetchData(ctx *gin.Context) {
	admin := ctx.MustGet(middleware.ContextAdmin).(*models.Admin)

	payload, err := c.sorterService.BuildPayload(ctx.Request.Context(), admin)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build sorter payload")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, payload)
}
