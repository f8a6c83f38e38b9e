package services

import (
	"context"

	"github.com/idil/placematch/internal/app/models"
	"github.com/idil/placematch/internal/app/models/dto"
)

// AuthService covers the credential store and session lifecycle for both
// principal kinds.
type AuthService interface {
	RegisterStudent(ctx context.Context, req *dto.SignUpRequest) (*models.User, string, error)
	LoginStudent(ctx context.Context, req *dto.SignInRequest) (*models.User, string, error)
	LoginAdmin(ctx context.Context, req *dto.AdminSignInRequest) (*models.Admin, string, error)
	ResolveStudent(ctx context.Context, token string) (*models.User, error)
	ResolveAdmin(ctx context.Context, token string) (*models.Admin, error)
	RevokeStudentToken(ctx context.Context, token string) error
	RevokeAdminToken(ctx context.Context, token string) error
}

// ChoiceService records a student's ranked company choices.
type ChoiceService interface {
	SubmitChoices(ctx context.Context, userID int64, choices []string) error
}

// CatalogService supplies the list of companies students can choose among.
type CatalogService interface {
	LoadCatalog(ctx context.Context) ([]string, error)
	AddCompany(ctx context.Context, name string) (*models.Company, error)
}

// AdminService compiles the dashboard aggregations and maintains the
// admin-curated company-side data.
type AdminService interface {
	BuildStudentChoicesTable(ctx context.Context) ([]dto.StudentChoicesRow, error)
	BuildDashboard(ctx context.Context, admin *models.Admin) (*dto.AdminDashboard, error)
	UpdateCompanyChoices(ctx context.Context, adminID int64, choices []models.CompanyChoice) error
}

// SorterService assembles the data package consumed by the external matching
// computation. It performs no matching itself.
type SorterService interface {
	BuildPayload(ctx context.Context, admin *models.Admin) (*dto.SorterPayload, error)
}
