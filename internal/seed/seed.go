package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/idil/placematch/internal/app/models"
	appRepos "github.com/idil/placematch/internal/app/repositories"
	"github.com/idil/placematch/internal/config"
	"github.com/idil/placematch/internal/pkg/apperrors"
	"github.com/idil/placematch/internal/pkg/auth"
)

// defaultCompanies is the initial placement catalog. Admins can extend it at
// runtime.
var defaultCompanies = []string{
	"Arcelik",
	"Aselsan",
	"Ford Otosan",
	"Havelsan",
	"Siemens",
	"Tofas",
	"Turkcell",
	"Vestel",
}

// CreateDefaultData creates the default admin account and the initial company
// catalog if they don't exist. Errors are collected so a partial failure does
// not block startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	adminRepo := appRepos.NewAdminRepository(dbPool)
	companyRepo := appRepos.NewCompanyRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (admin account, company catalog)...")
	var finalErr error

	// --- Company catalog --- //
	for _, name := range defaultCompanies {
		_, err := companyRepo.Create(ctx, &appModels.Company{Name: name})
		if err != nil && !errors.Is(err, apperrors.ErrCompanyAlreadyExists) {
			lgr.Error().Err(err).Str("company", name).Msg("Error creating default company")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Default admin account --- //
	if cfg.Seed.AdminPassword == "" {
		lgr.Info().Msg("No seed admin password configured, skipping admin creation")
		return finalErr
	}

	_, err := adminRepo.GetByUsername(ctx, cfg.Seed.AdminUsername)
	if err == nil {
		lgr.Info().Msg("Admin account already exists, skipping creation")
		return finalErr
	}
	if !errors.Is(err, apperrors.ErrAdminNotFound) {
		lgr.Error().Err(err).Msg("Error checking if admin account exists")
		return errors.Join(finalErr, err)
	}

	hashedPassword, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return errors.Join(finalErr, err)
	}

	admin := &appModels.Admin{
		Username: cfg.Seed.AdminUsername,
		Password: hashedPassword,
	}

	adminID, err := adminRepo.CreateAdmin(ctx, admin)
	if err != nil && !errors.Is(err, apperrors.ErrUsernameExists) {
		lgr.Error().Err(err).Msg("Error creating default admin account")
		finalErr = errors.Join(finalErr, err)
	} else if err == nil {
		lgr.Info().Int64("adminID", adminID).Msg("Default admin account created")
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
