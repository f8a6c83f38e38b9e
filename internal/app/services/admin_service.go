package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/idil/placematch/internal/app/models"
	"github.com/idil/placematch/internal/app/models/dto"
	"github.com/idil/placematch/internal/app/repositories"
	"github.com/idil/placematch/internal/pkg/apperrors"
)

// adminService implements AdminService.
type adminService struct {
	userRepo    repositories.IUserRepository
	adminRepo   repositories.IAdminRepository
	companyRepo repositories.ICompanyRepository
	logger      zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo repositories.IUserRepository,
	adminRepo repositories.IAdminRepository,
	companyRepo repositories.ICompanyRepository,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		adminRepo:   adminRepo,
		companyRepo: companyRepo,
		logger:      logger,
	}
}

// BuildStudentChoicesTable produces one row per student who has submitted
// choices. Students with no submission are skipped, never an error; an empty
// store yields an empty table.
func (s *adminService) BuildStudentChoicesTable(ctx context.Context) ([]dto.StudentChoicesRow, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading students for aggregation: %w", err)
	}

	rows := []dto.StudentChoicesRow{}
	for _, user := range users {
		if !user.HasChoices() {
			continue
		}
		rows = append(rows, dto.StudentChoicesRow{
			StudentID:  user.StudentID,
			Name:       user.Name,
			Department: user.Department,
			Choices:    user.Choices,
		})
	}

	return rows, nil
}

// BuildDashboard compiles both aggregation tables for the admin dashboard.
// A missing company-choices document renders as an empty table.
func (s *adminService) BuildDashboard(ctx context.Context, admin *models.Admin) (*dto.AdminDashboard, error) {
	studentTable, err := s.BuildStudentChoicesTable(ctx)
	if err != nil {
		return nil, err
	}

	companyTable := admin.CompanyChoices
	if companyTable == nil {
		companyTable = []models.CompanyChoice{}
	}

	return &dto.AdminDashboard{
		StudentChoicesTable: studentTable,
		CompanyChoicesTable: companyTable,
	}, nil
}

// UpdateCompanyChoices replaces the admin's curated company-side data. Every
// entry must reference a catalog company.
func (s *adminService) UpdateCompanyChoices(ctx context.Context, adminID int64, choices []models.CompanyChoice) error {
	if len(choices) == 0 {
		return apperrors.NewValidationError("company choices must not be empty")
	}

	companies, err := s.companyRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("error loading catalog for validation: %w", err)
	}
	catalog := make(map[string]struct{}, len(companies))
	for _, company := range companies {
		catalog[company.Name] = struct{}{}
	}

	seen := make(map[string]struct{}, len(choices))
	for _, entry := range choices {
		name := strings.TrimSpace(entry.Company)
		if name == "" {
			return apperrors.NewValidationError("company name must not be empty")
		}
		if _, ok := catalog[name]; !ok {
			return apperrors.NewCustomError(apperrors.ErrUnknownCompany,
				fmt.Sprintf("%q is not in the company catalog", name))
		}
		if _, dup := seen[name]; dup {
			return apperrors.NewValidationError(fmt.Sprintf("%q appears more than once", name))
		}
		seen[name] = struct{}{}
	}

	if err := s.adminRepo.UpdateCompanyChoices(ctx, adminID, choices); err != nil {
		return err
	}

	s.logger.Info().Int64("adminID", adminID).Int("entries", len(choices)).Msg("Company choices updated")
	return nil
}
