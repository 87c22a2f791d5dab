package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/openbooks/yearend/internal/domain"
)

func TestJournalRepositoryCreateEntryWritesLines(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("INSERT INTO journal_entries").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec("INSERT INTO journal_lines").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec("INSERT INTO journal_lines").WillReturnResult(pgxmock.NewResult("INSERT", 1))

	amount := decimal.NewFromInt(6000)
	entry := &domain.JournalEntry{
		ID:            "je-1",
		CompanyID:     "co-1",
		FiscalYearID:  "fy-2024",
		EntryDate:     time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		TotalDebit:    amount,
		TotalCredit:   amount,
		IsPosted:      true,
		ReferenceType: domain.ReferenceClosing,
		Lines: []domain.JournalLine{
			{ID: "jl-1", AccountID: "acc-4001", Debit: amount, Credit: decimal.Zero},
			{ID: "jl-2", AccountID: "acc-3301", Debit: decimal.Zero, Credit: amount},
		},
	}

	if err := NewJournalRepository(pool).CreateEntry(context.Background(), tx, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, pool)
}

func TestJournalRepositoryDeleteMissingEntry(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("DELETE FROM journal_entries").
		WithArgs("je-404").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewJournalRepository(pool).DeleteEntry(context.Background(), tx, "je-404")
	if !errors.Is(err, domain.ErrJournalEntryNotFound) {
		t.Fatalf("expected ErrJournalEntryNotFound, got %v", err)
	}
}

func TestJournalRepositoryTrialBalance(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("SELECT (.+) FROM journal_lines").
		WithArgs("co-1").
		WillReturnRows(pgxmock.NewRows([]string{"total_debit", "total_credit"}).
			AddRow(decimalToNumeric(decimal.RequireFromString("1250.50")), decimalToNumeric(decimal.RequireFromString("1250.50"))))

	debit, credit, err := NewJournalRepository(pool).TrialBalance(context.Background(), "co-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !debit.Equal(decimal.RequireFromString("1250.5")) || !debit.Equal(credit) {
		t.Errorf("expected 1250.5/1250.5, got %s/%s", debit, credit)
	}

	assertExpectations(t, pool)
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "29000", "0.01", "-4000.25"} {
		d := decimal.RequireFromString(s)
		if got := numericToDecimal(decimalToNumeric(d)); !got.Equal(d) {
			t.Errorf("%s: got %s", s, got)
		}
	}
	if !numericToDecimal(pgtype.Numeric{}).IsZero() {
		t.Error("invalid numeric must read as zero")
	}
}
