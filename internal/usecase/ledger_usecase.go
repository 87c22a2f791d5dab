package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/openbooks/yearend/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")
)

// AccountBalance is the balance of one account in a report.
type AccountBalance struct {
	Account *domain.Account
	Balance decimal.Decimal
}

// BalanceReport lists account balances over a window with the resulting income.
type BalanceReport struct {
	Accounts []AccountBalance
	Income   domain.IncomeSummary
}

// ConsistencyReport is the outcome of a trial balance check.
type ConsistencyReport struct {
	Balanced    bool
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// LedgerUseCase handles ledger-wide read operations.
type LedgerUseCase struct {
	ledger   LedgerReader
	accounts AccountRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledger LedgerReader, accounts AccountRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledger:   ledger,
		accounts: accounts,
	}
}

// Balances aggregates posted lines inside the window per account. Opening
// entries count only when the window starts on their date. Accounts with a
// zero balance are left out.
func (uc *LedgerUseCase) Balances(ctx context.Context, companyID string, window domain.DateWindow) (*BalanceReport, error) {
	if window.From != nil && window.To.Before(*window.From) {
		return nil, domain.ErrInvalidDateRange
	}

	accounts, err := uc.accounts.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, domain.FetchError("list accounts", err)
	}
	chart := domain.NewAccountIndex(accounts)

	if window.From == nil {
		window.ExcludeReferences = append(window.ExcludeReferences, domain.ReferenceOpening)
	}
	lines, err := uc.ledger.PostedLines(ctx, companyID, window)
	if err != nil {
		return nil, domain.FetchError("read posted lines", err)
	}
	balances := domain.AggregateBalances(domain.WithoutCarriedForward(lines, window), chart)

	report := &BalanceReport{Income: domain.ComputeIncome(balances, chart)}
	for _, acc := range chart.OfType(
		domain.AccountTypeAssets,
		domain.AccountTypeLiabilities,
		domain.AccountTypeEquity,
		domain.AccountTypeRevenue,
		domain.AccountTypeExpenses,
	) {
		b := balances.Of(acc.ID)
		if b.IsZero() {
			continue
		}
		report.Accounts = append(report.Accounts, AccountBalance{Account: acc, Balance: b})
	}

	return report, nil
}

// CheckConsistency verifies that posted debits equal posted credits.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context, companyID string) (*ConsistencyReport, error) {
	debit, credit, err := uc.ledger.TrialBalance(ctx, companyID)
	if err != nil {
		return nil, domain.FetchError("trial balance", err)
	}

	report := &ConsistencyReport{
		Balanced:    debit.Equal(credit),
		TotalDebit:  debit,
		TotalCredit: credit,
	}
	if !report.Balanced {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
