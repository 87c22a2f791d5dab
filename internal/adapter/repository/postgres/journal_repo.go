package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/infrastructure/postgres/generated"
	"github.com/openbooks/yearend/internal/usecase"
)

// JournalRepository implements usecase.JournalRepository and
// usecase.LedgerReader.
type JournalRepository struct {
	queries *generated.Queries
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(db generated.DBTX) *JournalRepository {
	return &JournalRepository{
		queries: generated.New(db),
	}
}

// CreateEntry inserts an entry header and its lines.
func (r *JournalRepository) CreateEntry(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	queries := txQueries(tx)

	err := queries.CreateJournalEntry(ctx, generated.CreateJournalEntryParams{
		ID:            entry.ID,
		CompanyID:     entry.CompanyID,
		FiscalYearID:  entry.FiscalYearID,
		Description:   entry.Description,
		EntryDate:     dateToPg(entry.EntryDate),
		TotalDebit:    decimalToNumeric(entry.TotalDebit),
		TotalCredit:   decimalToNumeric(entry.TotalCredit),
		IsPosted:      entry.IsPosted,
		ReferenceType: string(entry.ReferenceType),
		CreatedBy:     entry.CreatedBy,
		CreatedAt:     timeToPgTimestamptz(entry.CreatedAt),
	})
	if err != nil {
		return err
	}

	for _, line := range entry.Lines {
		err := queries.CreateJournalLine(ctx, generated.CreateJournalLineParams{
			ID:             line.ID,
			JournalEntryID: entry.ID,
			AccountID:      line.AccountID,
			Debit:          decimalToNumeric(line.Debit),
			Credit:         decimalToNumeric(line.Credit),
			Description:    line.Description,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// DeleteEntry deletes an entry; its lines go with it.
func (r *JournalRepository) DeleteEntry(ctx context.Context, tx usecase.Transaction, id string) error {
	n, err := txQueries(tx).DeleteJournalEntry(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrJournalEntryNotFound
	}
	return nil
}

// CountByFiscalYear counts the entries tagged with a fiscal year.
func (r *JournalRepository) CountByFiscalYear(ctx context.Context, tx usecase.Transaction, fiscalYearID string) (int64, error) {
	return txQueries(tx).CountJournalEntriesByFiscalYear(ctx, fiscalYearID)
}

// PostedLines returns posted lines of the company inside window.
func (r *JournalRepository) PostedLines(ctx context.Context, companyID string, window domain.DateWindow) ([]domain.LedgerLine, error) {
	var from pgtype.Date
	if window.From != nil {
		from = dateToPg(*window.From)
	}

	excluded := make([]string, 0, len(window.ExcludeReferences))
	for _, ref := range window.ExcludeReferences {
		excluded = append(excluded, string(ref))
	}

	rows, err := r.queries.ListPostedLines(ctx, generated.ListPostedLinesParams{
		CompanyID: companyID,
		ToDate:    dateToPg(window.To),
		FromDate:  from,
		Excluded:  excluded,
	})
	if err != nil {
		return nil, err
	}

	lines := make([]domain.LedgerLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, domain.LedgerLine{
			EntryID:       row.EntryID,
			EntryDate:     pgToDate(row.EntryDate),
			ReferenceType: domain.ReferenceType(row.ReferenceType),
			AccountID:     row.AccountID,
			Debit:         numericToDecimal(row.Debit),
			Credit:        numericToDecimal(row.Credit),
		})
	}

	return lines, nil
}

// TrialBalance sums every posted debit and credit of the company.
func (r *JournalRepository) TrialBalance(ctx context.Context, companyID string) (decimal.Decimal, decimal.Decimal, error) {
	row, err := r.queries.TrialBalance(ctx, companyID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(row.TotalDebit), numericToDecimal(row.TotalCredit), nil
}
