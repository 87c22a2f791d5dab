package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testYear() *FiscalYear {
	return &FiscalYear{
		ID:        "fy-2024",
		CompanyID: "co-1",
		Name:      "FY2024",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:    FiscalYearStatusOpen,
	}
}

func closingInput(balances Balances) ClosingInput {
	chart := testChart()
	return ClosingInput{
		FiscalYear:       testYear(),
		Balances:         balances,
		RevenueAccounts:  chart.OfType(AccountTypeRevenue),
		ExpenseAccounts:  chart.OfType(AccountTypeExpenses),
		RetainedEarnings: chart["retained"],
		CreatedBy:        "user-1",
	}
}

func lineFor(t *testing.T, e *JournalEntry, accountID string) JournalLine {
	t.Helper()
	for _, l := range e.Lines {
		if l.AccountID == accountID {
			return l
		}
	}
	t.Fatalf("no line for account %s", accountID)
	return JournalLine{}
}

func assertLine(t *testing.T, l JournalLine, debit, credit int64) {
	t.Helper()
	if !l.Debit.Equal(d(debit)) || !l.Credit.Equal(d(credit)) {
		t.Errorf("line %s = D%s/C%s, want D%d/C%d", l.AccountID, l.Debit, l.Credit, debit, credit)
	}
}

func TestBuildClosingEntry_Profit(t *testing.T) {
	entry, err := BuildClosingEntry(closingInput(Balances{"sales": d(10000), "rent": d(4000)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil {
		t.Fatal("expected closing entry")
	}

	if len(entry.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(entry.Lines))
	}
	assertLine(t, lineFor(t, entry, "sales"), 10000, 0)
	assertLine(t, lineFor(t, entry, "rent"), 0, 4000)
	assertLine(t, lineFor(t, entry, "retained"), 0, 6000)

	if !entry.TotalDebit.Equal(d(10000)) || !entry.TotalCredit.Equal(d(10000)) {
		t.Errorf("totals D%s/C%s, want 10000/10000", entry.TotalDebit, entry.TotalCredit)
	}
	if entry.ReferenceType != ReferenceClosing {
		t.Errorf("reference type = %s", entry.ReferenceType)
	}
	if !entry.EntryDate.Equal(testYear().EndDate) {
		t.Errorf("entry date = %s, want year end", entry.EntryDate)
	}
	if !entry.IsPosted {
		t.Error("closing entry must be posted")
	}
}

func TestBuildClosingEntry_Loss(t *testing.T) {
	entry, err := BuildClosingEntry(closingInput(Balances{"sales": d(1000), "rent": d(2500)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertLine(t, lineFor(t, entry, "sales"), 1000, 0)
	assertLine(t, lineFor(t, entry, "rent"), 0, 2500)
	assertLine(t, lineFor(t, entry, "retained"), 1500, 0)

	if !entry.TotalDebit.Equal(entry.TotalCredit) {
		t.Errorf("unbalanced: D%s C%s", entry.TotalDebit, entry.TotalCredit)
	}
}

func TestBuildClosingEntry_BreakEvenHasNoPlugLine(t *testing.T) {
	entry, err := BuildClosingEntry(closingInput(Balances{"sales": d(700), "rent": d(700)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entry.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(entry.Lines))
	}
	for _, l := range entry.Lines {
		if l.AccountID == "retained" {
			t.Fatal("break-even close should not touch retained earnings")
		}
	}
}

func TestBuildClosingEntry_NoActivity(t *testing.T) {
	entry, err := BuildClosingEntry(closingInput(Balances{"cash": d(100)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected no entry, got %+v", entry)
	}
}

func TestBuildClosingEntry_ContraBalancesZeroedOnOppositeSide(t *testing.T) {
	entry, err := BuildClosingEntry(closingInput(Balances{"sales": d(-200), "rent": d(-50)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertLine(t, lineFor(t, entry, "sales"), 0, 200)
	assertLine(t, lineFor(t, entry, "rent"), 50, 0)
	assertLine(t, lineFor(t, entry, "retained"), 150, 0)
}

func TestBuildClosingEntry_MissingRetainedEarnings(t *testing.T) {
	in := closingInput(Balances{"sales": d(100)})
	in.RetainedEarnings = nil

	_, err := BuildClosingEntry(in)
	if !errors.Is(err, ErrRetainedEarningsNotConfigured) {
		t.Fatalf("expected ErrRetainedEarningsNotConfigured, got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
}

func TestBuildClosingEntry_AlwaysBalanced(t *testing.T) {
	cases := []Balances{
		{"sales": decimal.RequireFromString("1234.56"), "rent": decimal.RequireFromString("0.01")},
		{"sales": decimal.RequireFromString("0.10"), "rent": decimal.RequireFromString("0.20")},
		{"sales": decimal.RequireFromString("99999999.99")},
		{"rent": decimal.RequireFromString("33.33")},
	}

	for _, balances := range cases {
		entry, err := BuildClosingEntry(closingInput(balances))
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", balances, err)
		}
		debit, credit := SumLines(entry.Lines)
		if !debit.Equal(credit) {
			t.Errorf("unbalanced entry for %v: D%s C%s", balances, debit, credit)
		}
	}
}
