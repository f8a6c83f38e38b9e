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

// UserRepository handles student-record database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateUser creates a new student record with no choices and no tokens.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	sql, args, err := r.sb.Insert("users").
		Columns("student_id", "name", "department", "password", "created_at").
		Values(user.StudentID, user.Name, user.Department, user.Password, time.Now()).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return 0, apperrors.ErrIdentifierExists
		}
		logger.Error().Err(err).Str("studentID", user.StudentID).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

// GetByID retrieves a student record by internal ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns()...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get user by ID SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	return r.scanUserRow(r.db.QueryRow(ctx, sql, args...), fmt.Sprintf("id=%d", id))
}

// GetByStudentID retrieves a student record by the external student identifier
func (r *UserRepository) GetByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns()...).
		From("users").
		Where(squirrel.Eq{"student_id": studentID}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get user by student ID SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	return r.scanUserRow(r.db.QueryRow(ctx, sql, args...), "studentID="+studentID)
}

// GetAll retrieves all student records ordered by student identifier
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	sql, args, err := r.sb.Select(userColumns()...).
		From("users").
		OrderBy("student_id ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get all users SQL")
		return nil, fmt.Errorf("failed to build get all users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all users query")
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning user row")
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// UpdateChoices replaces the student's stored choice list wholesale.
func (r *UserRepository) UpdateChoices(ctx context.Context, userID int64, choices []string) error {
	payload, err := json.Marshal(choices)
	if err != nil {
		return fmt.Errorf("failed to encode choices: %w", err)
	}

	sql, args, err := r.sb.Update("users").
		Set("choices", payload).
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update choices SQL")
		return fmt.Errorf("failed to build update choices query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update choices query")
		return fmt.Errorf("error updating choices: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("users").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating last login")
		return fmt.Errorf("error updating last login: %w", err)
	}

	return nil
}

func userColumns() []string {
	return []string{"id", "student_id", "name", "department", "password", "choices", "created_at", "last_login_at"}
}

// scanUser reads one user row, decoding the choices document when present.
func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	var choicesRaw []byte
	err := row.Scan(&user.ID, &user.StudentID, &user.Name, &user.Department,
		&user.Password, &choicesRaw, &user.CreatedAt, &user.LastLoginAt)
	if err != nil {
		return nil, err
	}

	if len(choicesRaw) > 0 {
		if err := json.Unmarshal(choicesRaw, &user.Choices); err != nil {
			return nil, fmt.Errorf("failed to decode stored choices: %w", err)
		}
	}

	return user, nil
}

func (r *UserRepository) scanUserRow(row pgx.Row, key string) (*models.User, error) {
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("key", key).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}
