package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func nextYear() *FiscalYear {
	return &FiscalYear{
		ID:        "fy-2025",
		CompanyID: "co-1",
		Name:      "FY2025",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:    FiscalYearStatusOpen,
	}
}

func openingInput(balances Balances, priorNet decimal.Decimal) OpeningInput {
	chart := testChart()
	return OpeningInput{
		FiscalYear:           nextYear(),
		Balances:             balances,
		BalanceSheetAccounts: chart.OfType(AccountTypeAssets, AccountTypeLiabilities, AccountTypeEquity),
		RetainedEarnings:     chart["retained"],
		PriorNetIncome:       priorNet,
		CreatedBy:            "user-1",
	}
}

func TestBuildOpeningEntry_CarriesBalanceSheetWithPriorIncome(t *testing.T) {
	balances := Balances{
		"cash":    d(50000),
		"payable": d(20000),
		"capital": d(24000),
		"sales":   d(10000),
		"rent":    d(4000),
	}

	entry, err := BuildOpeningEntry(openingInput(balances, d(6000)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertLine(t, lineFor(t, entry, "cash"), 50000, 0)
	assertLine(t, lineFor(t, entry, "payable"), 0, 20000)
	assertLine(t, lineFor(t, entry, "capital"), 0, 24000)
	assertLine(t, lineFor(t, entry, "retained"), 0, 6000)

	for _, l := range entry.Lines {
		if l.AccountID == "sales" || l.AccountID == "rent" {
			t.Fatalf("temporary account %s must not be carried", l.AccountID)
		}
	}

	if !entry.TotalDebit.Equal(d(50000)) || !entry.TotalCredit.Equal(d(50000)) {
		t.Errorf("totals D%s/C%s, want 50000/50000", entry.TotalDebit, entry.TotalCredit)
	}
	if entry.ReferenceType != ReferenceOpening {
		t.Errorf("reference type = %s", entry.ReferenceType)
	}
	if !entry.EntryDate.Equal(nextYear().StartDate) {
		t.Errorf("entry date = %s, want target start", entry.EntryDate)
	}
}

func TestBuildOpeningEntry_RetainedEarningsAddsToExistingBalance(t *testing.T) {
	balances := Balances{
		"cash":     d(13000),
		"retained": d(5000),
		"capital":  d(5000),
	}

	entry, err := BuildOpeningEntry(openingInput(balances, d(3000)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertLine(t, lineFor(t, entry, "retained"), 0, 8000)
}

func TestBuildOpeningEntry_NegativeBalancesFlipSides(t *testing.T) {
	balances := Balances{
		"cash":     d(-300),
		"payable":  d(-500),
		"retained": d(200),
	}

	entry, err := BuildOpeningEntry(openingInput(balances, decimal.Zero))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertLine(t, lineFor(t, entry, "cash"), 0, 300)
	assertLine(t, lineFor(t, entry, "payable"), 500, 0)
	assertLine(t, lineFor(t, entry, "retained"), 0, 200)
}

func TestBuildOpeningEntry_NothingToCarry(t *testing.T) {
	entry, err := BuildOpeningEntry(openingInput(Balances{"sales": d(10)}, decimal.Zero))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry, got %+v", entry)
	}
}

func TestBuildOpeningEntry_UnbalancedInputRejected(t *testing.T) {
	_, err := BuildOpeningEntry(openingInput(Balances{"cash": d(100), "payable": d(40)}, decimal.Zero))
	if !errors.Is(err, ErrUnbalancedEntry) {
		t.Fatalf("expected ErrUnbalancedEntry, got %v", err)
	}
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected invariant violation kind, got %v", err)
	}
}

func TestBuildOpeningEntry_PriorIncomeNeedsRetainedEarnings(t *testing.T) {
	in := openingInput(Balances{"cash": d(100)}, d(100))
	in.RetainedEarnings = nil

	_, err := BuildOpeningEntry(in)
	if !errors.Is(err, ErrRetainedEarningsNotConfigured) {
		t.Fatalf("expected ErrRetainedEarningsNotConfigured, got %v", err)
	}
}
