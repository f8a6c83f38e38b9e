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

// ProfileController handles the student profile view and choice submission.
type ProfileController struct {
	catalogService services.CatalogService
	choiceService  services.ChoiceService
	logger         zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(catalogService services.CatalogService, choiceService services.ChoiceService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{
		catalogService: catalogService,
		choiceService:  choiceService,
		logger:         logger,
	}
}

// Redirect sends the client to its token-bearing profile path, the transport
// convention inherited from the original frontend. Without a token header
// there is nothing to redirect to, so the client goes back home.
func (c *ProfileController) Redirect(ctx *gin.Context) {
	token := ctx.GetHeader(middleware.StudentTokenHeader)
	if token == "" {
		ctx.Redirect(http.StatusFound, "/")
		return
	}
	ctx.Redirect(http.StatusFound, "/profile/"+token)
}

// GetProfile serves the profile page data: the student's record, their
// current submission and the catalog to rank.
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	student := ctx.MustGet(middleware.ContextStudent).(*models.User)

	companyList, err := c.catalogService.LoadCatalog(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to load company catalog")
		middleware.HandleAPIError(ctx, err)
		return
	}

	choices := student.Choices
	if choices == nil {
		choices = []string{}
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ProfilePage{
			StudentID:   student.StudentID,
			Name:        student.Name,
			Department:  student.Department,
			Choices:     choices,
			CompanyList: companyList,
		},
	})
}

// SubmitChoices records the student's ranked company list, replacing any
// previous submission.
func (c *ProfileController) SubmitChoices(ctx *gin.Context) {
	student := ctx.MustGet(middleware.ContextStudent).(*models.User)

	var req dto.SubmitChoicesRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.choiceService.SubmitChoices(ctx.Request.Context(), student.ID, req.Choices); err != nil {
		c.logger.Warn().Err(err).Str("studentID", student.StudentID).Msg("Choice submission rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Choices saved"}})
}
