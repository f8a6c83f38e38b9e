package repositories

import (
	"context"
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

// TokenRepository handles session-token database operations. Each issued
// token is one row, so issuing is a single atomic insert rather than a
// read-modify-write of a token list on the principal record.
type TokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert records a newly issued token for a principal.
func (r *TokenRepository) Insert(ctx context.Context, token string, kind models.PrincipalKind, principalID int64) error {
	sql, args, err := r.sb.Insert("auth_tokens").
		Columns("token", "principal_kind", "principal_id", "created_at").
		Values(token, string(kind), principalID, time.Now()).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building insert token SQL")
		return fmt.Errorf("failed to build insert token query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "auth_tokens_token_key") {
			// Tokens carry a fresh UUID so this should never fire.
			logger.Warn().Str("kind", string(kind)).Msg("Attempted to insert duplicate token")
			return apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Str("kind", string(kind)).Int64("principalID", principalID).Msg("Error executing insert token query")
		return fmt.Errorf("error inserting token: %w", err)
	}

	return nil
}

// Resolve finds the principal a token belongs to. The kind is part of the
// lookup: a student token never resolves an admin session and vice versa.
func (r *TokenRepository) Resolve(ctx context.Context, token string, kind models.PrincipalKind) (int64, error) {
	sql, args, err := r.sb.Select("id", "token", "principal_kind", "principal_id", "created_at").
		From("auth_tokens").
		Where(squirrel.Eq{"token": token, "principal_kind": string(kind)}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building resolve token SQL")
		return 0, fmt.Errorf("failed to build resolve token query: %w", err)
	}

	row := models.AuthToken{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&row.ID, &row.Token, &row.PrincipalKind, &row.PrincipalID, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrTokenNotFound
		}
		logger.Error().Err(err).Msg("Error scanning token row")
		return 0, fmt.Errorf("error resolving token: %w", err)
	}

	return row.PrincipalID, nil
}

// Delete removes an issued token. Deleting a token that is already gone is
// not an error; revocation is idempotent.
func (r *TokenRepository) Delete(ctx context.Context, token string, kind models.PrincipalKind) error {
	sql, args, err := r.sb.Delete("auth_tokens").
		Where(squirrel.Eq{"token": token, "principal_kind": string(kind)}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building delete token SQL")
		return fmt.Errorf("failed to build delete token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Msg("Error executing delete token query")
		return fmt.Errorf("error deleting token: %w", err)
	}

	return nil
}
