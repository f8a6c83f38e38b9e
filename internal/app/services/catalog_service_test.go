package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idil/placematch/internal/pkg/apperrors"
)

func TestLoadCatalog(t *testing.T) {
	service := NewCatalogService(newMemCompanyRepo("Siemens", "Aselsan"), zerolog.Nop())

	names, err := service.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Aselsan", "Siemens"}, names)
}

func TestAddCompany(t *testing.T) {
	service := NewCatalogService(newMemCompanyRepo(), zerolog.Nop())
	ctx := context.Background()

	company, err := service.AddCompany(ctx, "  Vestel ")
	require.NoError(t, err)
	assert.Equal(t, "Vestel", company.Name)
	assert.NotZero(t, company.ID)

	names, err := service.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vestel"}, names)
}

func TestAddCompany_Duplicate(t *testing.T) {
	service := NewCatalogService(newMemCompanyRepo("Vestel"), zerolog.Nop())

	_, err := service.AddCompany(context.Background(), "Vestel")
	assert.ErrorIs(t, err, apperrors.ErrCompanyAlreadyExists)
}

func TestAddCompany_EmptyName(t *testing.T) {
	service := NewCatalogService(newMemCompanyRepo(), zerolog.Nop())

	_, err := service.AddCompany(context.Background(), "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
