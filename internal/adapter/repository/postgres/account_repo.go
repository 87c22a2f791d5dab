package postgres

import (
	"context"

	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/infrastructure/postgres/generated"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(db),
	}
}

// ListByCompany lists the company's chart of accounts ordered by code.
func (r *AccountRepository) ListByCompany(ctx context.Context, companyID string) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccountsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.ID,
		CompanyID: row.CompanyID,
		Code:      row.Code,
		Name:      row.Name,
		Type:      domain.AccountType(row.Type),
		ParentID:  textPtr(row.ParentID),
		IsSystem:  row.IsSystem,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
