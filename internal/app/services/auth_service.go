package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/idil/placematch/internal/app/models"
	"github.com/idil/placematch/internal/app/models/dto"
	"github.com/idil/placematch/internal/app/repositories"
	"github.com/idil/placematch/internal/pkg/apperrors"
	"github.com/idil/placematch/internal/pkg/auth"
)

// authService implements AuthService over the user, admin and token repositories.
type authService struct {
	userRepo  repositories.IUserRepository
	adminRepo repositories.IAdminRepository
	tokenRepo repositories.ITokenRepository
	tokens    *auth.TokenService
	logger    zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	adminRepo repositories.IAdminRepository,
	tokenRepo repositories.ITokenRepository,
	tokens *auth.TokenService,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		adminRepo: adminRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		logger:    logger,
	}
}

// validateSignUp checks the sign-up fields the original form enforced.
func (s *authService) validateSignUp(req *dto.SignUpRequest) error {
	if strings.TrimSpace(req.StudentID) == "" {
		return apperrors.NewValidationError("student ID is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name is required")
	}
	if strings.TrimSpace(req.Department) == "" {
		return apperrors.NewValidationError("department is required")
	}
	if len(req.Password) < 6 {
		return apperrors.NewValidationError("password must be at least 6 characters long")
	}
	return nil
}

// RegisterStudent creates a student account and issues its first session token.
func (s *authService) RegisterStudent(ctx context.Context, req *dto.SignUpRequest) (*models.User, string, error) {
	if err := s.validateSignUp(req); err != nil {
		return nil, "", err
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		StudentID:  strings.TrimSpace(req.StudentID),
		Name:       strings.TrimSpace(req.Name),
		Department: strings.TrimSpace(req.Department),
		Password:   hashedPassword,
	}

	// The unique index on student_id is the duplicate gate; racing
	// registrations cannot both succeed.
	userID, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, "", err
	}
	user.ID = userID

	token, err := s.issueToken(ctx, models.PrincipalStudent, userID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("studentID", user.StudentID).Int64("userID", userID).Msg("Student registered")
	return user, token, nil
}

// LoginStudent verifies credentials and issues a fresh token. A missing
// record and a wrong password are indistinguishable to the caller.
func (s *authService) LoginStudent(ctx context.Context, req *dto.SignInRequest) (*models.User, string, error) {
	user, err := s.userRepo.GetByStudentID(ctx, req.StudentID)
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, models.PrincipalStudent, user.ID)
	if err != nil {
		return nil, "", err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Could not update last login")
	}

	return user, token, nil
}

// LoginAdmin verifies admin credentials and issues a fresh admin token.
func (s *authService) LoginAdmin(ctx context.Context, req *dto.AdminSignInRequest) (*models.Admin, string, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(admin.Password, req.Password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, models.PrincipalAdmin, admin.ID)
	if err != nil {
		return nil, "", err
	}

	if err := s.adminRepo.UpdateLastLogin(ctx, admin.ID); err != nil {
		s.logger.Warn().Err(err).Int64("adminID", admin.ID).Msg("Could not update admin last login")
	}

	return admin, token, nil
}

// ResolveStudent maps a token back to the student that issued it.
func (s *authService) ResolveStudent(ctx context.Context, token string) (*models.User, error) {
	principalID, err := s.resolve(ctx, token, models.PrincipalStudent)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, principalID)
	if err != nil {
		// Token row survived its principal; treat the principal as gone,
		// not the session as forged.
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error loading student for token: %w", err)
	}

	return user, nil
}

// ResolveAdmin maps a token back to the admin that issued it.
func (s *authService) ResolveAdmin(ctx context.Context, token string) (*models.Admin, error) {
	principalID, err := s.resolve(ctx, token, models.PrincipalAdmin)
	if err != nil {
		return nil, err
	}

	admin, err := s.adminRepo.GetByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminNotFound) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("error loading admin for token: %w", err)
	}

	return admin, nil
}

// RevokeStudentToken removes a student session token. Idempotent.
func (s *authService) RevokeStudentToken(ctx context.Context, token string) error {
	return s.tokenRepo.Delete(ctx, token, models.PrincipalStudent)
}

// RevokeAdminToken removes an admin session token. Idempotent.
func (s *authService) RevokeAdminToken(ctx context.Context, token string) error {
	return s.tokenRepo.Delete(ctx, token, models.PrincipalAdmin)
}

// issueToken signs a fresh token and records it. The insert is the atomic
// unit; there is no token-list read-modify-write to race against.
func (s *authService) issueToken(ctx context.Context, kind models.PrincipalKind, principalID int64) (string, error) {
	token, err := s.tokens.Generate(principalID, string(kind))
	if err != nil {
		return "", fmt.Errorf("token generation error: %w", err)
	}

	if err := s.tokenRepo.Insert(ctx, token, kind, principalID); err != nil {
		return "", fmt.Errorf("token saving error: %w", err)
	}

	return token, nil
}

// resolve validates the token signature, checks the kind claim and looks the
// token up in the store. A revoked token fails here no matter how valid its
// signature still is.
func (s *authService) resolve(ctx context.Context, token string, kind models.PrincipalKind) (int64, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return 0, apperrors.ErrTokenInvalid
	}
	if claims.Kind != string(kind) {
		return 0, apperrors.ErrTokenInvalid
	}

	principalID, err := s.tokenRepo.Resolve(ctx, token, kind)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return 0, apperrors.ErrTokenNotFound
		}
		return 0, fmt.Errorf("token lookup error: %w", err)
	}
	if principalID != claims.PrincipalID {
		return 0, apperrors.ErrTokenInvalid
	}

	return principalID, nil
}
