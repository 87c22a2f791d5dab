package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/infrastructure/postgres/generated"
	"github.com/openbooks/yearend/internal/usecase"
)

// FiscalYearRepository implements usecase.FiscalYearRepository.
type FiscalYearRepository struct {
	queries *generated.Queries
}

// NewFiscalYearRepository creates a new FiscalYearRepository.
func NewFiscalYearRepository(db generated.DBTX) *FiscalYearRepository {
	return &FiscalYearRepository{
		queries: generated.New(db),
	}
}

// Create inserts a fiscal year.
func (r *FiscalYearRepository) Create(ctx context.Context, tx usecase.Transaction, fy *domain.FiscalYear) error {
	err := txQueries(tx).CreateFiscalYear(ctx, generated.CreateFiscalYearParams{
		ID:                    fy.ID,
		CompanyID:             fy.CompanyID,
		Name:                  fy.Name,
		StartDate:             dateToPg(fy.StartDate),
		EndDate:               dateToPg(fy.EndDate),
		Status:                string(fy.Status),
		IsCurrent:             fy.IsCurrent,
		OpeningBalanceEntryID: optionalText(fy.OpeningBalanceEntryID),
		ClosingBalanceEntryID: optionalText(fy.ClosingBalanceEntryID),
		ClosedAt:              optionalTimestamptz(fy.ClosedAt),
		ClosedBy:              optionalText(fy.ClosedBy),
		Notes:                 fy.Notes,
		CreatedAt:             timeToPgTimestamptz(fy.CreatedAt),
		UpdatedAt:             timeToPgTimestamptz(fy.UpdatedAt),
	})
	return mapFiscalYearWriteError(err)
}

// GetByID retrieves a fiscal year by ID.
func (r *FiscalYearRepository) GetByID(ctx context.Context, id string) (*domain.FiscalYear, error) {
	row, err := r.queries.GetFiscalYearByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFiscalYearNotFound
		}
		return nil, err
	}

	return rowToFiscalYear(row), nil
}

// GetByIDForUpdate retrieves a fiscal year by ID with a FOR UPDATE lock.
func (r *FiscalYearRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.FiscalYear, error) {
	row, err := txQueries(tx).GetFiscalYearByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFiscalYearNotFound
		}
		return nil, err
	}

	return rowToFiscalYear(row), nil
}

// GetCurrent retrieves the company's current fiscal year.
func (r *FiscalYearRepository) GetCurrent(ctx context.Context, companyID string) (*domain.FiscalYear, error) {
	row, err := r.queries.GetCurrentFiscalYear(ctx, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFiscalYearNotFound
		}
		return nil, err
	}

	return rowToFiscalYear(row), nil
}

// ListByCompany lists fiscal years newest first.
func (r *FiscalYearRepository) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*domain.FiscalYear, error) {
	rows, err := r.queries.ListFiscalYearsByCompany(ctx, generated.ListFiscalYearsByCompanyParams{
		CompanyID: companyID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	years := make([]*domain.FiscalYear, 0, len(rows))
	for _, row := range rows {
		years = append(years, rowToFiscalYear(row))
	}

	return years, nil
}

// FindOverlapping returns the company's years sharing a day with [start, end].
func (r *FiscalYearRepository) FindOverlapping(ctx context.Context, tx usecase.Transaction, companyID string, start, end time.Time, excludeID string) ([]*domain.FiscalYear, error) {
	rows, err := txQueries(tx).FindOverlappingFiscalYears(ctx, generated.FindOverlappingFiscalYearsParams{
		CompanyID: companyID,
		StartDate: dateToPg(start),
		EndDate:   dateToPg(end),
		ExcludeID: excludeID,
	})
	if err != nil {
		return nil, err
	}

	years := make([]*domain.FiscalYear, 0, len(rows))
	for _, row := range rows {
		years = append(years, rowToFiscalYear(row))
	}

	return years, nil
}

// UnsetCurrent clears the current flag on every year of the company.
func (r *FiscalYearRepository) UnsetCurrent(ctx context.Context, tx usecase.Transaction, companyID string, updatedAt time.Time) error {
	return txQueries(tx).UnsetCurrentFiscalYear(ctx, generated.UnsetCurrentFiscalYearParams{
		CompanyID: companyID,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

// Update writes the mutable columns of a fiscal year.
func (r *FiscalYearRepository) Update(ctx context.Context, tx usecase.Transaction, fy *domain.FiscalYear) error {
	n, err := txQueries(tx).UpdateFiscalYear(ctx, generated.UpdateFiscalYearParams{
		ID:                    fy.ID,
		Name:                  fy.Name,
		Status:                string(fy.Status),
		IsCurrent:             fy.IsCurrent,
		OpeningBalanceEntryID: optionalText(fy.OpeningBalanceEntryID),
		ClosingBalanceEntryID: optionalText(fy.ClosingBalanceEntryID),
		ClosedAt:              optionalTimestamptz(fy.ClosedAt),
		ClosedBy:              optionalText(fy.ClosedBy),
		Notes:                 fy.Notes,
		UpdatedAt:             timeToPgTimestamptz(fy.UpdatedAt),
	})
	if err != nil {
		return mapFiscalYearWriteError(err)
	}
	if n == 0 {
		return domain.ErrFiscalYearNotFound
	}
	return nil
}

// Delete removes a fiscal year.
func (r *FiscalYearRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	n, err := txQueries(tx).DeleteFiscalYear(ctx, id)
	if err != nil {
		if pgCode(err) == pgErrForeignKey {
			if pgTable(err) == "inventory" {
				return domain.ErrFiscalYearHasInventory
			}
			return domain.ErrFiscalYearHasEntries
		}
		return err
	}
	if n == 0 {
		return domain.ErrFiscalYearNotFound
	}
	return nil
}

func mapFiscalYearWriteError(err error) error {
	switch pgCode(err) {
	case "":
		return err
	case pgErrExclusionViolation:
		return fmt.Errorf("%w: %w", domain.ErrFiscalYearOverlap, err)
	case pgErrUniqueViolation:
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	default:
		return err
	}
}

func rowToFiscalYear(row generated.FiscalYear) *domain.FiscalYear {
	return &domain.FiscalYear{
		ID:                    row.ID,
		CompanyID:             row.CompanyID,
		Name:                  row.Name,
		StartDate:             pgToDate(row.StartDate),
		EndDate:               pgToDate(row.EndDate),
		Status:                domain.FiscalYearStatus(row.Status),
		IsCurrent:             row.IsCurrent,
		OpeningBalanceEntryID: textPtr(row.OpeningBalanceEntryID),
		ClosingBalanceEntryID: textPtr(row.ClosingBalanceEntryID),
		ClosedAt:              timestamptzPtr(row.ClosedAt),
		ClosedBy:              textPtr(row.ClosedBy),
		Notes:                 row.Notes,
		CreatedAt:             row.CreatedAt.Time,
		UpdatedAt:             row.UpdatedAt.Time,
	}
}
