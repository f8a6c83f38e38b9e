package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idil/placematch/internal/app/models"
)

// IUserRepository defines the interface for student-record database operations
type IUserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	UpdateChoices(ctx context.Context, userID int64, choices []string) error
	UpdateLastLogin(ctx context.Context, userID int64) error
}

// IAdminRepository defines the interface for admin-record database operations
type IAdminRepository interface {
	CreateAdmin(ctx context.Context, admin *models.Admin) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	UpdateCompanyChoices(ctx context.Context, adminID int64, choices []models.CompanyChoice) error
	UpdateLastLogin(ctx context.Context, adminID int64) error
}

// ITokenRepository defines the interface for session-token database operations
type ITokenRepository interface {
	Insert(ctx context.Context, token string, kind models.PrincipalKind, principalID int64) error
	Resolve(ctx context.Context, token string, kind models.PrincipalKind) (int64, error)
	Delete(ctx context.Context, token string, kind models.PrincipalKind) error
}

// ICompanyRepository defines the interface for catalog database operations
type ICompanyRepository interface {
	Create(ctx context.Context, company *models.Company) (int64, error)
	GetAll(ctx context.Context) ([]*models.Company, error)
}

// Repositories bundles all repository instances for dependency wiring
type Repositories struct {
	UserRepository    *UserRepository
	AdminRepository   *AdminRepository
	TokenRepository   *TokenRepository
	CompanyRepository *CompanyRepository
}

// NewRepositories creates all repositories over a shared connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db),
		AdminRepository:   NewAdminRepository(db),
		TokenRepository:   NewTokenRepository(db),
		CompanyRepository: NewCompanyRepository(db),
	}
}
