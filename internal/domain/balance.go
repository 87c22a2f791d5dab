package domain

import "github.com/shopspring/decimal"

// Balances maps account IDs to natural-positive balances: debit-normal
// accounts are positive when debit-heavy, credit-normal accounts when
// credit-heavy.
type Balances map[string]decimal.Decimal

// Of returns the balance of an account, zero when absent.
func (b Balances) Of(accountID string) decimal.Decimal {
	if v, ok := b[accountID]; ok {
		return v
	}
	return decimal.Zero
}

// AggregateBalances folds ledger lines into per-account balances using the
// sign convention of each account's type. Lines for unknown accounts are
// skipped.
func AggregateBalances(lines []LedgerLine, accounts AccountIndex) Balances {
	balances := make(Balances)

	for _, line := range lines {
		acc, ok := accounts[line.AccountID]
		if !ok {
			continue
		}

		var delta decimal.Decimal
		if acc.Type.IsCreditNormal() {
			delta = line.Credit.Sub(line.Debit)
		} else {
			delta = line.Debit.Sub(line.Credit)
		}

		balances[line.AccountID] = balances.Of(line.AccountID).Add(delta)
	}

	return balances
}

// IncomeSummary is the result of the income calculation for a period.
type IncomeSummary struct {
	TotalRevenue  decimal.Decimal
	TotalExpenses decimal.Decimal
	NetIncome     decimal.Decimal
}

// ComputeIncome derives net income from revenue and expense balances.
// A negative NetIncome is a net loss. Balances are summed with their sign, so
// a contra balance nets against its group.
func ComputeIncome(balances Balances, accounts AccountIndex) IncomeSummary {
	summary := IncomeSummary{
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for id, acc := range accounts {
		switch acc.Type {
		case AccountTypeRevenue:
			summary.TotalRevenue = summary.TotalRevenue.Add(balances.Of(id))
		case AccountTypeExpenses:
			summary.TotalExpenses = summary.TotalExpenses.Add(balances.Of(id))
		}
	}

	summary.NetIncome = summary.TotalRevenue.Sub(summary.TotalExpenses)

	return summary
}

// WithoutCarriedForward drops opening-entry lines that restate postings the
// window already reads. An opening entry is kept only when the window starts
// on the entry's date.
func WithoutCarriedForward(lines []LedgerLine, window DateWindow) []LedgerLine {
	out := lines[:0:0]
	for _, line := range lines {
		if line.ReferenceType == ReferenceOpening &&
			(window.From == nil || !truncateDay(line.EntryDate).Equal(truncateDay(*window.From))) {
			continue
		}
		out = append(out, line)
	}
	return out
}
