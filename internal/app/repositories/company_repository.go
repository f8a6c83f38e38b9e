package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idil/placematch/internal/app/models"
	"github.com/idil/placematch/internal/pkg/apperrors"
	"github.com/idil/placematch/internal/pkg/dberrors"
	"github.com/idil/placematch/internal/pkg/logger"
)

// CompanyRepository handles catalog database operations
type CompanyRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create adds a company to the catalog
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) (int64, error) {
	sql, args, err := r.sb.Insert("companies").
		Columns("name", "created_at").
		Values(company.Name, time.Now()).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create company SQL")
		return 0, fmt.Errorf("failed to build create company query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return 0, apperrors.ErrCompanyAlreadyExists
		}
		logger.Error().Err(err).Str("name", company.Name).Msg("Error executing create company query")
		return 0, fmt.Errorf("error creating company: %w", err)
	}

	return id, nil
}

// GetAll retrieves the full catalog ordered by name
func (r *CompanyRepository) GetAll(ctx context.Context) ([]*models.Company, error) {
	sql, args, err := r.sb.Select("id", "name", "created_at").
		From("companies").
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get all companies SQL")
		return nil, fmt.Errorf("failed to build get all companies query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all companies query")
		return nil, fmt.Errorf("error querying companies: %w", err)
	}
	defer rows.Close()

	companies := []*models.Company{}
	for rows.Next() {
		company := &models.Company{}
		if err := rows.Scan(&company.ID, &company.Name, &company.CreatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning company row")
			return nil, fmt.Errorf("error scanning company row: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}

	return companies, nil
}
