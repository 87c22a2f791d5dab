package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/usecase"
	"github.com/openbooks/yearend/internal/usecase/mocks"
)

const company = "co-1"

var fixedNow = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

type fixture struct {
	store   *mocks.Store
	locker  *mocks.MockLocker
	idGen   *mocks.MockIDGenerator
	years   *usecase.FiscalYearUseCase
	carry   *usecase.CarryForwardUseCase
	entries int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := mocks.NewStore()
	for _, acc := range []*domain.Account{
		{ID: "acc-1001", CompanyID: company, Code: "1001", Name: "Cash", Type: domain.AccountTypeAssets},
		{ID: "acc-2001", CompanyID: company, Code: "2001", Name: "Payables", Type: domain.AccountTypeLiabilities},
		{ID: "acc-3101", CompanyID: company, Code: "3101", Name: "Capital", Type: domain.AccountTypeEquity},
		{ID: "acc-3301", CompanyID: company, Code: "3301", Name: "Retained earnings", Type: domain.AccountTypeEquity},
		{ID: "acc-4001", CompanyID: company, Code: "4001", Name: "Sales", Type: domain.AccountTypeRevenue},
		{ID: "acc-5001", CompanyID: company, Code: "5001", Name: "Rent", Type: domain.AccountTypeExpenses},
	} {
		store.AddAccount(acc)
	}
	store.SetRetainedEarnings(company, "acc-3301")

	f := &fixture{
		store:  store,
		locker: mocks.NewMockLocker(),
		idGen:  mocks.NewMockIDGenerator(),
	}
	opts := usecase.Options{Now: func() time.Time { return fixedNow }}
	f.years = usecase.NewFiscalYearUseCase(store, store.Repositories(), f.locker, nil, f.idGen, nil, zerolog.Nop(), opts)
	f.carry = usecase.NewCarryForwardUseCase(store, store.Repositories(), f.locker, nil, f.idGen, nil, zerolog.Nop(), opts)
	return f
}

func (f *fixture) addYear(id string, year int, status domain.FiscalYearStatus, current bool) *domain.FiscalYear {
	fy := &domain.FiscalYear{
		ID:        id,
		CompanyID: company,
		Name:      "FY" + id[len(id)-4:],
		StartDate: date(year, time.January, 1),
		EndDate:   date(year, time.December, 31),
		Status:    status,
		IsCurrent: current,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
	f.store.AddYear(fy)
	return fy
}

// post stores a posted two-line entry debiting one account and crediting another.
func (f *fixture) post(fyID string, at time.Time, ref domain.ReferenceType, debitAcc, creditAcc string, amount int64) {
	f.entries++
	id := fmt.Sprintf("seed-%d", f.entries)
	f.store.Post(&domain.JournalEntry{
		ID:            id,
		CompanyID:     company,
		FiscalYearID:  fyID,
		EntryDate:     at,
		TotalDebit:    dec(amount),
		TotalCredit:   dec(amount),
		IsPosted:      true,
		ReferenceType: ref,
		Lines: []domain.JournalLine{
			{ID: id + "-d", JournalEntryID: id, AccountID: debitAcc, Debit: dec(amount), Credit: decimal.Zero},
			{ID: id + "-c", JournalEntryID: id, AccountID: creditAcc, Debit: decimal.Zero, Credit: dec(amount)},
		},
	})
}

// seed2024 books a year with capital 20000, sales 10000, rent 4000 and a
// payable of 3000. Net income is 6000 and cash ends at 29000.
func (f *fixture) seed2024() *domain.FiscalYear {
	fy := f.addYear("fy-2024", 2024, domain.FiscalYearStatusOpen, true)
	f.post(fy.ID, date(2024, time.January, 2), domain.ReferenceInitialBalance, "acc-1001", "acc-3101", 20000)
	f.post(fy.ID, date(2024, time.March, 1), domain.ReferenceSale, "acc-1001", "acc-4001", 10000)
	f.post(fy.ID, date(2024, time.April, 1), domain.ReferenceManual, "acc-5001", "acc-1001", 4000)
	f.post(fy.ID, date(2024, time.June, 1), domain.ReferencePurchase, "acc-1001", "acc-2001", 3000)
	return fy
}

func (f *fixture) openInput(previous *string, carry bool) usecase.OpenNewFiscalYearInput {
	return usecase.OpenNewFiscalYearInput{
		CompanyID:        company,
		Name:             "FY2025",
		StartDate:        date(2025, time.January, 1),
		EndDate:          date(2025, time.December, 31),
		PreviousYearID:   previous,
		AutoCarryForward: carry,
		CreatedBy:        "user-1",
	}
}

func lineAmounts(entry *domain.JournalEntry) map[string][2]string {
	out := make(map[string][2]string, len(entry.Lines))
	for _, l := range entry.Lines {
		out[l.AccountID] = [2]string{l.Debit.String(), l.Credit.String()}
	}
	return out
}

func ptr(s string) *string { return &s }

var bg = context.Background()
