package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idil/placematch/internal/app/models"
	"github.com/idil/placematch/internal/pkg/apperrors"
	"github.com/idil/placematch/internal/pkg/dberrors"
	"github.com/idil/placematch/internal/pkg/logger"
)

// AdminRepository handles admin-record database operations
type AdminRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateAdmin creates a new admin record. Admin accounts are provisioned at
// startup, not through a public route.
func (r *AdminRepository) CreateAdmin(ctx context.Context, admin *models.Admin) (int64, error) {
	sql, args, err := r.sb.Insert("admins").
		Columns("username", "password", "created_at").
		Values(admin.Username, admin.Password, time.Now()).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create admin SQL")
		return 0, fmt.Errorf("failed to build create admin query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return 0, apperrors.ErrUsernameExists
		}
		logger.Error().Err(err).Str("username", admin.Username).Msg("Error executing create admin query")
		return 0, fmt.Errorf("error creating admin: %w", err)
	}

	return id, nil
}

// GetByID retrieves an admin by internal ID
func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	sql, args, err := r.sb.Select(adminColumns()...).
		From("admins").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get admin by ID SQL")
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	return scanAdminRow(r.db.QueryRow(ctx, sql, args...), fmt.Sprintf("id=%d", id))
}

// GetByUsername retrieves an admin by username
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	sql, args, err := r.sb.Select(adminColumns()...).
		From("admins").
		Where(squirrel.Eq{"username": username}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get admin by username SQL")
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	return scanAdminRow(r.db.QueryRow(ctx, sql, args...), "username="+username)
}

// UpdateCompanyChoices replaces the admin's curated company-side data wholesale.
func (r *AdminRepository) UpdateCompanyChoices(ctx context.Context, adminID int64, choices []models.CompanyChoice) error {
	payload, err := json.Marshal(choices)
	if err != nil {
		return fmt.Errorf("failed to encode company choices: %w", err)
	}

	sql, args, err := r.sb.Update("admins").
		Set("company_choices", payload).
		Where(squirrel.Eq{"id": adminID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update company choices SQL")
		return fmt.Errorf("failed to build update company choices query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("adminID", adminID).Msg("Error executing update company choices query")
		return fmt.Errorf("error updating company choices: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAdminNotFound
	}

	return nil
}

// UpdateLastLogin updates the last login time
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, adminID int64) error {
	sql, args, err := r.sb.Update("admins").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": adminID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("adminID", adminID).Msg("Error updating admin last login")
		return fmt.Errorf("error updating admin last login: %w", err)
	}

	return nil
}

func adminColumns() []string {
	return []string{"id", "username", "password", "company_choices", "created_at", "last_login_at"}
}

func scanAdminRow(row pgx.Row, key string) (*models.Admin, error) {
	admin := &models.Admin{}
	var choicesRaw []byte
	err := row.Scan(&admin.ID, &admin.Username, &admin.Password, &choicesRaw,
		&admin.CreatedAt, &admin.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		logger.Error().Err(err).Str("key", key).Msg("Error scanning admin row")
		return nil, fmt.Errorf("error getting admin: %w", err)
	}

	if len(choicesRaw) > 0 {
		if err := json.Unmarshal(choicesRaw, &admin.CompanyChoices); err != nil {
			return nil, fmt.Errorf("failed to decode stored company choices: %w", err)
		}
	}

	return admin, nil
}
