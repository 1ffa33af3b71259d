package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invopay/internal/domain"
	"invopay/internal/port"
)

type settingsRepo struct {
	db *sqlx.DB
}

// NewSettingsRepo creates a new PostgreSQL-backed SettingsRepository.
func NewSettingsRepo(db *sqlx.DB) port.SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	var s domain.Settings
	err := r.db.GetContext(ctx, &s, "SELECT * FROM settings ORDER BY created_at LIMIT 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("settingsRepo.Get: %w", err)
	}
	return &s, nil
}

// Upsert writes the singleton row, creating it on first save.
func (r *settingsRepo) Upsert(ctx context.Context, s *domain.Settings) error {
	now := time.Now().UTC()

	existing, err := r.Get(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if existing == nil {
		s.ID = uuid.New()
		s.CreatedAt = now
		s.UpdatedAt = now
		query := `INSERT INTO settings
			(id, business_name, business_email, business_address, business_phone,
			 business_website, business_logo, default_tax_rate, accent_color,
			 created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		_, err := r.db.ExecContext(ctx, query,
			s.ID, s.BusinessName, s.BusinessEmail, s.BusinessAddress, s.BusinessPhone,
			s.BusinessWebsite, s.BusinessLogo, s.DefaultTaxRate, s.AccentColor,
			s.CreatedAt, s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("settingsRepo.Upsert insert: %w", err)
		}
		return nil
	}

	s.ID = existing.ID
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = now
	query := `UPDATE settings SET
		business_name = $1, business_email = $2, business_address = $3,
		business_phone = $4, business_website = $5, business_logo = $6,
		default_tax_rate = $7, accent_color = $8, updated_at = $9
		WHERE id = $10`
	_, err = r.db.ExecContext(ctx, query,
		s.BusinessName, s.BusinessEmail, s.BusinessAddress,
		s.BusinessPhone, s.BusinessWebsite, s.BusinessLogo,
		s.DefaultTaxRate, s.AccentColor, s.UpdatedAt, s.ID)
	if err != nil {
		return fmt.Errorf("settingsRepo.Upsert update: %w", err)
	}
	return nil
}
