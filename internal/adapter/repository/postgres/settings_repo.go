package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/infrastructure/postgres/generated"
)

// SettingsRepository implements usecase.SettingsRepository.
type SettingsRepository struct {
	queries *generated.Queries
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db generated.DBTX) *SettingsRepository {
	return &SettingsRepository{
		queries: generated.New(db),
	}
}

// Get returns the company's settings. A company without a settings row gets
// empty settings.
func (r *SettingsRepository) Get(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	retained, err := r.queries.GetRetainedEarningsAccount(ctx, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.CompanySettings{CompanyID: companyID}, nil
		}
		return nil, err
	}

	return &domain.CompanySettings{
		CompanyID:                 companyID,
		RetainedEarningsAccountID: textPtr(retained),
	}, nil
}
