package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/idil/placematch/internal/app/controllers"
	"github.com/idil/placematch/internal/app/models/dto"
	"github.com/idil/placematch/internal/middleware"
)

// SetupRouter configures all application routes. The paths are served at the
// root so existing clients keep working unchanged.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	profileController *controllers.ProfileController,
	adminController *controllers.AdminController,
	catalogController *controllers.CatalogController,
	sorterController *controllers.SorterController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// --- Public student routes ---
	router.GET("/", authController.Home)
	router.POST("/signup", authController.SignUp)
	router.POST("/signin", authController.SignIn)

	// Company catalog (public read)
	router.GET("/companies", catalogController.List)

	// --- Student session routes ---
	// /profile without a token redirects based on the x-auth header so the
	// legacy client entry point keeps working.
	router.GET("/profile", profileController.Redirect)

	profile := router.Group("/profile")
	profile.Use(authMiddleware.StudentAuth())
	{
		profile.GET("/:token", profileController.GetProfile)
		profile.POST("/:token", profileController.SubmitChoices)
	}

	logout := router.Group("/logout")
	logout.Use(authMiddleware.StudentAuth())
	{
		logout.DELETE("", authController.Logout)
	}

	// --- Admin routes ---
	router.GET("/admin", adminController.Home)
	router.POST("/admin", adminController.SignIn)

	admin := router.Group("/admin")
	admin.Use(authMiddleware.AdminAuth())
	{
		admin.GET("/:token", adminController.Dashboard)
		admin.POST("/update", adminController.UpdateCompanyChoices)
		admin.POST("/companies", catalogController.Add)
		admin.GET("/sorter/:token", sorterController.Page)
		admin.DELETE("/logout", adminController.Logout)
	}

	sorterFeed := router.Group("/fetchSorterData")
	sorterFeed.Use(authMiddleware.AdminAuth())
	{
		sorterFeed.GET("", sorterController.FetchData)
	}

	// Health check endpoint (public)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
