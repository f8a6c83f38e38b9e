package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idil/placematch/internal/app/models"
	"github.com/idil/placematch/internal/pkg/apperrors"
)

func newChoiceFixture(t *testing.T) (ChoiceService, *memUserRepo, int64) {
	t.Helper()
	userRepo := newMemUserRepo()
	companyRepo := newMemCompanyRepo("Aselsan", "Havelsan", "Siemens")
	service := NewChoiceService(userRepo, companyRepo, zerolog.Nop())

	userID, err := userRepo.CreateUser(context.Background(), &models.User{
		StudentID:  "20240001",
		Name:       "Ayse Yilmaz",
		Department: "Computer Engineering",
		Password:   "hashed",
	})
	require.NoError(t, err)
	return service, userRepo, userID
}

func TestSubmitChoices(t *testing.T) {
	service, userRepo, userID := newChoiceFixture(t)
	ctx := context.Background()

	err := service.SubmitChoices(ctx, userID, []string{"Siemens", "Aselsan"})
	require.NoError(t, err)

	user, err := userRepo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Siemens", "Aselsan"}, user.Choices)
}

func TestSubmitChoices_OverwritesWholesale(t *testing.T) {
	service, userRepo, userID := newChoiceFixture(t)
	ctx := context.Background()

	require.NoError(t, service.SubmitChoices(ctx, userID, []string{"Siemens", "Aselsan"}))
	require.NoError(t, service.SubmitChoices(ctx, userID, []string{"Havelsan"}))

	user, err := userRepo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Havelsan"}, user.Choices)
}

func TestSubmitChoices_UnknownCompany(t *testing.T) {
	service, userRepo, userID := newChoiceFixture(t)
	ctx := context.Background()

	require.NoError(t, service.SubmitChoices(ctx, userID, []string{"Siemens"}))

	err := service.SubmitChoices(ctx, userID, []string{"Siemens", "Acme Corp"})
	assert.ErrorIs(t, err, apperrors.ErrUnknownCompany)
	assert.Contains(t, err.Error(), "Acme Corp")

	// Rejected submission leaves the stored list untouched
	user, err := userRepo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Siemens"}, user.Choices)
}

func TestSubmitChoices_DuplicateEntry(t *testing.T) {
	service, _, userID := newChoiceFixture(t)

	err := service.SubmitChoices(context.Background(), userID, []string{"Siemens", "Siemens"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSubmitChoices_EmptyInput(t *testing.T) {
	service, _, userID := newChoiceFixture(t)
	ctx := context.Background()

	err := service.SubmitChoices(ctx, userID, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = service.SubmitChoices(ctx, userID, []string{"Siemens", "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSubmitChoices_TrimsWhitespace(t *testing.T) {
	service, userRepo, userID := newChoiceFixture(t)
	ctx := context.Background()

	require.NoError(t, service.SubmitChoices(ctx, userID, []string{" Siemens ", "Aselsan"}))

	user, err := userRepo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Siemens", "Aselsan"}, user.Choices)
}

func TestSubmitChoices_UnknownStudent(t *testing.T) {
	service, _, _ := newChoiceFixture(t)

	err := service.SubmitChoices(context.Background(), 9999, []string{"Siemens"})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}
