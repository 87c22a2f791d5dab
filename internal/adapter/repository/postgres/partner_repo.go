package postgres

import (
	"context"

	"github.com/openbooks/yearend/internal/infrastructure/postgres/generated"
)

// PartnerRepository implements usecase.PartnerRepository.
type PartnerRepository struct {
	queries *generated.Queries
}

// NewPartnerRepository creates a new PartnerRepository.
func NewPartnerRepository(db generated.DBTX) *PartnerRepository {
	return &PartnerRepository{
		queries: generated.New(db),
	}
}

// CountCustomers counts the company's customers.
func (r *PartnerRepository) CountCustomers(ctx context.Context, companyID string) (int64, error) {
	return r.queries.CountCustomersByCompany(ctx, companyID)
}

// CountSuppliers counts the company's suppliers.
func (r *PartnerRepository) CountSuppliers(ctx context.Context, companyID string) (int64, error) {
	return r.queries.CountSuppliersByCompany(ctx, companyID)
}
