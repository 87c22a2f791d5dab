package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ClosingInput holds what is needed to zero the temporary accounts of a year.
type ClosingInput struct {
	FiscalYear       *FiscalYear
	Balances         Balances
	RevenueAccounts  []*Account
	ExpenseAccounts  []*Account
	RetainedEarnings *Account
	CreatedBy        string
}

// BuildClosingEntry builds the entry that moves revenue and expense balances
// into retained earnings. It returns nil when no temporary account carries a
// balance; closing such a year needs no entry.
func BuildClosingEntry(in ClosingInput) (*JournalEntry, error) {
	fy := in.FiscalYear

	var lines []JournalLine
	net := decimal.Zero

	for _, group := range [][]*Account{in.RevenueAccounts, in.ExpenseAccounts} {
		for _, acc := range group {
			balance := in.Balances.Of(acc.ID)
			if balance.IsZero() {
				continue
			}

			if acc.Type == AccountTypeRevenue {
				net = net.Add(balance)
			} else {
				net = net.Sub(balance)
			}

			debit, credit := debitCreditFor(acc.Type, balance, true)
			lines = append(lines, JournalLine{
				AccountID:   acc.ID,
				Debit:       debit,
				Credit:      credit,
				Description: fmt.Sprintf("Close %s %s", acc.Code, acc.Name),
			})
		}
	}

	if len(lines) == 0 {
		return nil, nil
	}

	if !net.IsZero() {
		if in.RetainedEarnings == nil {
			return nil, ErrRetainedEarningsNotConfigured
		}

		debit, credit := decimal.Zero, decimal.Zero
		if net.IsNegative() {
			debit = net.Abs()
		} else {
			credit = net
		}

		lines = append(lines, JournalLine{
			AccountID:   in.RetainedEarnings.ID,
			Debit:       debit,
			Credit:      credit,
			Description: "Net income to retained earnings",
		})
	}

	entry := &JournalEntry{
		CompanyID:     fy.CompanyID,
		FiscalYearID:  fy.ID,
		Description:   fmt.Sprintf("Closing entry for %s", fy.Name),
		EntryDate:     fy.EndDate,
		IsPosted:      true,
		ReferenceType: ReferenceClosing,
		CreatedBy:     in.CreatedBy,
		Lines:         lines,
	}

	if err := entry.Seal(); err != nil {
		return nil, err
	}

	return entry, nil
}
