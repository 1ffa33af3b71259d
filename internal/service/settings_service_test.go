package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invopay/internal/domain"
	"invopay/internal/service"
	"invopay/mocks"
)

func TestSettingsService_Save(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	svc := service.NewSettingsService(repo)

	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Settings")).Return(nil)

	settings, err := svc.Save(context.Background(), service.UpdateSettingsInput{
		BusinessName:   "Acme Studio",
		BusinessEmail:  "billing@acme.test",
		DefaultTaxRate: d("8.25"),
		AccentColor:    "#3B82F6",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Studio", settings.BusinessName)
	assert.Equal(t, "8.25", settings.DefaultTaxRate.String())
	repo.AssertExpectations(t)
}

func TestSettingsService_Save_TaxRateOutOfRange(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	svc := service.NewSettingsService(repo)

	_, err := svc.Save(context.Background(), service.UpdateSettingsInput{
		BusinessName:   "Acme Studio",
		BusinessEmail:  "billing@acme.test",
		DefaultTaxRate: d("101"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSettingsService_Get_NotFound(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	svc := service.NewSettingsService(repo)

	repo.On("Get", mock.Anything).Return(nil, domain.ErrNotFound)

	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
