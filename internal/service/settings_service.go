package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"invopay/internal/domain"
	"invopay/internal/port"
)

// UpdateSettingsInput is the DTO for saving the business profile.
type UpdateSettingsInput struct {
	BusinessName    string          `json:"business_name" binding:"required"`
	BusinessEmail   string          `json:"business_email" binding:"required"`
	BusinessAddress string          `json:"business_address"`
	BusinessPhone   string          `json:"business_phone"`
	BusinessWebsite string          `json:"business_website"`
	BusinessLogo    string          `json:"business_logo"`
	DefaultTaxRate  decimal.Decimal `json:"default_tax_rate"`
	AccentColor     string          `json:"accent_color"`
}

// SettingsService defines the business profile contract.
type SettingsService interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, input UpdateSettingsInput) (*domain.Settings, error)
}

type settingsService struct {
	repo port.SettingsRepository
}

// NewSettingsService creates a new SettingsService implementation.
func NewSettingsService(repo port.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*domain.Settings, error) {
	return s.repo.Get(ctx)
}

func (s *settingsService) Save(ctx context.Context, input UpdateSettingsInput) (*domain.Settings, error) {
	if input.DefaultTaxRate.IsNegative() || input.DefaultTaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: default tax rate %s outside [0, 100]", domain.ErrInvalidAmount, input.DefaultTaxRate)
	}

	settings := &domain.Settings{
		BusinessName:    input.BusinessName,
		BusinessEmail:   input.BusinessEmail,
		BusinessAddress: input.BusinessAddress,
		BusinessPhone:   input.BusinessPhone,
		BusinessWebsite: input.BusinessWebsite,
		BusinessLogo:    input.BusinessLogo,
		DefaultTaxRate:  input.DefaultTaxRate,
		AccentColor:     input.AccentColor,
	}
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
