package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OpeningInput holds what is needed to carry balances into a new year.
// Balances are cumulative through the previous year's end date and
// PriorNetIncome is profit or loss not yet closed into retained earnings.
type OpeningInput struct {
	FiscalYear           *FiscalYear
	Balances             Balances
	BalanceSheetAccounts []*Account
	RetainedEarnings     *Account
	PriorNetIncome       decimal.Decimal
	CreatedBy            string
}

// BuildOpeningEntry builds the carry-forward entry for the balance sheet.
// It returns nil when every balance-sheet account nets to zero.
func BuildOpeningEntry(in OpeningInput) (*JournalEntry, error) {
	fy := in.FiscalYear

	carried := make(Balances, len(in.BalanceSheetAccounts)+1)
	for _, acc := range in.BalanceSheetAccounts {
		if !acc.Type.IsBalanceSheet() {
			continue
		}
		carried[acc.ID] = in.Balances.Of(acc.ID)
	}

	accounts := in.BalanceSheetAccounts
	if !in.PriorNetIncome.IsZero() {
		if in.RetainedEarnings == nil {
			return nil, ErrRetainedEarningsNotConfigured
		}
		re := in.RetainedEarnings
		if _, seen := carried[re.ID]; !seen {
			carried[re.ID] = in.Balances.Of(re.ID)
			accounts = append(append([]*Account{}, accounts...), re)
		}
		carried[re.ID] = carried[re.ID].Add(in.PriorNetIncome)
	}

	var lines []JournalLine
	for _, acc := range accounts {
		balance, ok := carried[acc.ID]
		if !ok || balance.IsZero() {
			continue
		}
		delete(carried, acc.ID)

		debit, credit := debitCreditFor(acc.Type, balance, false)
		lines = append(lines, JournalLine{
			AccountID:   acc.ID,
			Debit:       debit,
			Credit:      credit,
			Description: fmt.Sprintf("Opening balance %s %s", acc.Code, acc.Name),
		})
	}

	if len(lines) == 0 {
		return nil, nil
	}

	entry := &JournalEntry{
		CompanyID:     fy.CompanyID,
		FiscalYearID:  fy.ID,
		Description:   fmt.Sprintf("Opening balances for %s", fy.Name),
		EntryDate:     fy.StartDate,
		IsPosted:      true,
		ReferenceType: ReferenceOpening,
		CreatedBy:     in.CreatedBy,
		Lines:         lines,
	}

	if err := entry.Seal(); err != nil {
		return nil, err
	}

	return entry, nil
}
