package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/idil/placematch/internal/app/repositories"
	"github.com/idil/placematch/internal/pkg/apperrors"
)

// choiceService implements ChoiceService.
type choiceService struct {
	userRepo    repositories.IUserRepository
	companyRepo repositories.ICompanyRepository
	logger      zerolog.Logger
}

// NewChoiceService creates a new ChoiceService
func NewChoiceService(userRepo repositories.IUserRepository, companyRepo repositories.ICompanyRepository, logger zerolog.Logger) ChoiceService {
	return &choiceService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		logger:      logger,
	}
}

// SubmitChoices replaces the student's stored choice list with the given
// ordered list. Every entry must name a catalog company and appear only once;
// the previous submission is overwritten wholesale. Two concurrent
// submissions from the same student race to a last-write-wins outcome.
func (s *choiceService) SubmitChoices(ctx context.Context, userID int64, choices []string) error {
	cleaned := make([]string, 0, len(choices))
	for _, choice := range choices {
		choice = strings.TrimSpace(choice)
		if choice == "" {
			return apperrors.NewValidationError("choices must not contain empty entries")
		}
		cleaned = append(cleaned, choice)
	}
	if len(cleaned) == 0 {
		return apperrors.NewValidationError("at least one choice is required")
	}

	companies, err := s.companyRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("error loading catalog for validation: %w", err)
	}
	catalog := make(map[string]struct{}, len(companies))
	for _, company := range companies {
		catalog[company.Name] = struct{}{}
	}

	seen := make(map[string]struct{}, len(cleaned))
	for _, choice := range cleaned {
		if _, ok := catalog[choice]; !ok {
			return apperrors.NewCustomError(apperrors.ErrUnknownCompany,
				fmt.Sprintf("%q is not in the company catalog", choice))
		}
		if _, dup := seen[choice]; dup {
			return apperrors.NewValidationError(fmt.Sprintf("%q appears more than once", choice))
		}
		seen[choice] = struct{}{}
	}

	if err := s.userRepo.UpdateChoices(ctx, userID, cleaned); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", userID).Int("count", len(cleaned)).Msg("Choices submitted")
	return nil
}
