package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceType tags the origin of a journal entry.
type ReferenceType string

const (
	ReferenceOpening                ReferenceType = "opening"
	ReferenceClosing                ReferenceType = "closing"
	ReferenceSale                   ReferenceType = "sale"
	ReferencePurchase               ReferenceType = "purchase"
	ReferenceCustomerBalanceForward ReferenceType = "customer_balance_forward"
	ReferenceSupplierBalanceForward ReferenceType = "supplier_balance_forward"
	ReferenceInitialBalance         ReferenceType = "initial_balance"
	ReferenceManual                 ReferenceType = "manual"
)

// JournalEntry is a double-entry posting with its lines.
type JournalEntry struct {
	ID            string
	CompanyID     string
	FiscalYearID  string
	Description   string
	EntryDate     time.Time
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
	IsPosted      bool
	ReferenceType ReferenceType
	CreatedBy     string
	CreatedAt     time.Time
	Lines         []JournalLine
}

// JournalLine is one debit or credit of an entry.
type JournalLine struct {
	ID             string
	JournalEntryID string
	AccountID      string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	Description    string
}

// LedgerLine is a posted line joined to its entry header.
type LedgerLine struct {
	EntryID       string
	EntryDate     time.Time
	ReferenceType ReferenceType
	AccountID     string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
}

// SumLines returns the debit and credit column totals.
func SumLines(lines []JournalLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// Seal recomputes the header totals from the lines and validates the entry.
func (e *JournalEntry) Seal() error {
	e.TotalDebit, e.TotalCredit = SumLines(e.Lines)
	return e.Validate()
}

// Validate enforces the balance invariant at header and line level.
func (e *JournalEntry) Validate() error {
	if len(e.Lines) < 2 {
		return ErrTooFewLines
	}

	for _, l := range e.Lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return ErrNegativeLineAmount
		}
	}

	debit, credit := SumLines(e.Lines)
	if !debit.Equal(e.TotalDebit) || !credit.Equal(e.TotalCredit) {
		return ErrUnbalancedEntry
	}
	if !e.TotalDebit.Equal(e.TotalCredit) {
		return ErrUnbalancedEntry
	}

	return nil
}

// AssignIDs sets the entry ID on the entry and each line, generating line IDs.
func (e *JournalEntry) AssignIDs(entryID string, gen func() string) {
	e.ID = entryID
	for i := range e.Lines {
		e.Lines[i].ID = gen()
		e.Lines[i].JournalEntryID = entryID
	}
}

// debitCreditFor turns a natural-positive balance into a line that moves the
// account by that amount on its normal side (or the opposite side when reverse).
func debitCreditFor(t AccountType, balance decimal.Decimal, reverse bool) (debit, credit decimal.Decimal) {
	debitSide := !t.IsCreditNormal()
	if balance.IsNegative() {
		debitSide = !debitSide
	}
	if reverse {
		debitSide = !debitSide
	}

	amount := balance.Abs()
	if debitSide {
		return amount, decimal.Zero
	}
	return decimal.Zero, amount
}
