package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/idil/placematch/internal/app/controllers"
	appMigrations "github.com/idil/placematch/internal/app/migrations"
	appRepos "github.com/idil/placematch/internal/app/repositories"
	appRoutes "github.com/idil/placematch/internal/app/routes"
	appServices "github.com/idil/placematch/internal/app/services"
	"github.com/idil/placematch/internal/config"
	"github.com/idil/placematch/internal/db"
	appMiddleware "github.com/idil/placematch/internal/middleware"
	pkgAuth "github.com/idil/placematch/internal/pkg/auth"
	"github.com/idil/placematch/internal/pkg/logger"
	"github.com/idil/placematch/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       appServices.AuthService
	ChoiceService     appServices.ChoiceService
	CatalogService    appServices.CatalogService
	AdminService      appServices.AdminService
	SorterService     appServices.SorterService
	AuthController    *appControllers.AuthController
	ProfileController *appControllers.ProfileController
	AdminController   *appControllers.AdminController
	CatalogController *appControllers.CatalogController
	SorterController  *appControllers.SorterController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	TokenService      *pkgAuth.TokenService
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg, lgr); err != nil {
		// Seeding problems are logged but never block startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.TokenService = pkgAuth.NewTokenService(pkgAuth.TokenConfig{
		SecretKey: cfg.Auth.TokenSecret,
		Issuer:    cfg.Auth.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.AdminRepository,
		deps.Repos.TokenRepository,
		deps.TokenService,
		lgr,
	)

	deps.CatalogService = appServices.NewCatalogService(deps.Repos.CompanyRepository, lgr)
	deps.ChoiceService = appServices.NewChoiceService(deps.Repos.UserRepository, deps.Repos.CompanyRepository, lgr)
	deps.AdminService = appServices.NewAdminService(
		deps.Repos.UserRepository,
		deps.Repos.AdminRepository,
		deps.Repos.CompanyRepository,
		lgr,
	)
	deps.SorterService = appServices.NewSorterService(deps.Repos.UserRepository, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.Logger)
	deps.ProfileController = appControllers.NewProfileController(deps.CatalogService, deps.ChoiceService, deps.Logger)
	deps.AdminController = appControllers.NewAdminController(deps.AuthService, deps.AdminService, deps.Logger)
	deps.CatalogController = appControllers.NewCatalogController(deps.CatalogService, deps.Logger)
	deps.SorterController = appControllers.NewSorterController(deps.SorterService, deps.Logger)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ProfileController,
		deps.AdminController,
		deps.CatalogController,
		deps.SorterController,
		deps.AuthMiddleware,
	)

	return router
}
