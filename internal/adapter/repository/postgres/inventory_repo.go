package postgres

import (
	"context"

	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/infrastructure/postgres/generated"
	"github.com/openbooks/yearend/internal/usecase"
)

// InventoryRepository implements usecase.InventoryRepository.
type InventoryRepository struct{}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

// ReassignFiscalYear moves the company's records with the given status from
// one fiscal year to another.
func (r *InventoryRepository) ReassignFiscalYear(ctx context.Context, tx usecase.Transaction, companyID, fromYearID, toYearID string, status domain.InventoryStatus) (int64, error) {
	return txQueries(tx).ReassignInventoryFiscalYear(ctx, generated.ReassignInventoryFiscalYearParams{
		ToYearID:   toYearID,
		CompanyID:  companyID,
		FromYearID: fromYearID,
		Status:     string(status),
	})
}
