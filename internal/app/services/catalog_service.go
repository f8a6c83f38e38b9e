package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/idil/placematch/internal/app/models"
	"github.com/idil/placematch/internal/app/repositories"
	"github.com/idil/placematch/internal/pkg/apperrors"
)

// catalogService implements CatalogService over the company repository.
type catalogService struct {
	companyRepo repositories.ICompanyRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(companyRepo repositories.ICompanyRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		companyRepo: companyRepo,
		logger:      logger,
	}
}

// LoadCatalog returns the current list of company names available for selection.
func (s *catalogService) LoadCatalog(ctx context.Context) ([]string, error) {
	companies, err := s.companyRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(companies))
	for _, company := range companies {
		names = append(names, company.Name)
	}
	return names, nil
}

// AddCompany appends a company to the catalog.
func (s *catalogService) AddCompany(ctx context.Context, name string) (*models.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("company name is required")
	}

	company := &models.Company{Name: name}
	id, err := s.companyRepo.Create(ctx, company)
	if err != nil {
		return nil, err
	}
	company.ID = id

	s.logger.Info().Str("name", name).Int64("companyID", id).Msg("Company added to catalog")
	return company, nil
}
