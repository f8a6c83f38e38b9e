package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/idil/placematch/internal/app/models"
	"github.com/idil/placematch/internal/app/models/dto"
	"github.com/idil/placematch/internal/app/repositories"
)

// sorterService implements SorterService. It is a read-side aggregation
// boundary: the matching computation that consumes the payload runs outside
// this process.
type sorterService struct {
	userRepo repositories.IUserRepository
	logger   zerolog.Logger
}

// NewSorterService creates a new SorterService
func NewSorterService(userRepo repositories.IUserRepository, logger zerolog.Logger) SorterService {
	return &sorterService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// BuildPayload composes every submitted student choice list with the admin's
// current company-side data into the feed handed to the sorter.
func (s *sorterService) BuildPayload(ctx context.Context, admin *models.Admin) (*dto.SorterPayload, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading students for sorter payload: %w", err)
	}

	students := []dto.SorterStudent{}
	for _, user := range users {
		if !user.HasChoices() {
			continue
		}
		students = append(students, dto.SorterStudent{
			StudentID:  user.StudentID,
			Name:       user.Name,
			Department: user.Department,
			Choices:    user.Choices,
		})
	}

	companyChoices := admin.CompanyChoices
	if companyChoices == nil {
		companyChoices = []models.CompanyChoice{}
	}

	s.logger.Debug().Int("students", len(students)).Int("companies", len(companyChoices)).Msg("Sorter payload assembled")

	return &dto.SorterPayload{
		StudentsArray:  students,
		CompanyChoices: companyChoices,
	}, nil
}
