package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/openbooks/yearend/internal/domain"
)

// CloseOutcome is the result of closing a fiscal year.
type CloseOutcome struct {
	FiscalYear   *domain.FiscalYear
	ClosingEntry *domain.JournalEntry
	Income       domain.IncomeSummary
}

// OpenOutcome is the result of opening a new fiscal year.
type OpenOutcome struct {
	FiscalYear     *domain.FiscalYear
	OpeningEntry   *domain.JournalEntry
	InventoryCount int64
}

// RefreshOutcome is the result of regenerating carry-forward balances.
type RefreshOutcome struct {
	FiscalYear      *domain.FiscalYear
	OpeningEntry    *domain.JournalEntry
	ReplacedEntryID *string
	InventoryCount  int64
	CustomerCount   int64
	SupplierCount   int64
}

// CloseFiscalYearResult is the tagged result of Close.
type CloseFiscalYearResult struct {
	Success        bool             `json:"success"`
	ClosingEntryID *string          `json:"closing_entry_id,omitempty"`
	NetIncome      *decimal.Decimal `json:"net_income,omitempty"`
	Error          string           `json:"error,omitempty"`
	Err            error            `json:"-"`
}

// OpenNewFiscalYearResult is the tagged result of OpenNew.
type OpenNewFiscalYearResult struct {
	Success        bool    `json:"success"`
	FiscalYearID   *string `json:"fiscal_year_id,omitempty"`
	OpeningEntryID *string `json:"opening_entry_id,omitempty"`
	InventoryCount int64   `json:"inventory_count,omitempty"`
	Error          string  `json:"error,omitempty"`
	Err            error   `json:"-"`
}

// CarryForwardInventoryResult is the tagged result of CarryForwardInventory.
type CarryForwardInventoryResult struct {
	Success bool   `json:"success"`
	Count   *int64 `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
	Err     error  `json:"-"`
}

// RefreshCarryForwardResult is the tagged result of RefreshAllCarryForwardBalances.
type RefreshCarryForwardResult struct {
	Success                bool    `json:"success"`
	OpeningBalancesUpdated bool    `json:"opening_balances_updated"`
	OpeningEntryID         *string `json:"opening_entry_id,omitempty"`
	InventoryCount         *int64  `json:"inventory_count,omitempty"`
	CustomerCount          int64   `json:"customer_count"`
	SupplierCount          int64   `json:"supplier_count"`
	Error                  string  `json:"error,omitempty"`
	Err                    error   `json:"-"`
}

func entryID(entry *domain.JournalEntry) *string {
	if entry == nil {
		return nil
	}
	id := entry.ID
	return &id
}

func closeResult(out *CloseOutcome, err error) CloseFiscalYearResult {
	if err != nil {
		return CloseFiscalYearResult{Error: err.Error(), Err: err}
	}
	net := out.Income.NetIncome
	return CloseFiscalYearResult{
		Success:        true,
		ClosingEntryID: entryID(out.ClosingEntry),
		NetIncome:      &net,
	}
}

func openResult(out *OpenOutcome, err error) OpenNewFiscalYearResult {
	if err != nil {
		return OpenNewFiscalYearResult{Error: err.Error(), Err: err}
	}
	id := out.FiscalYear.ID
	return OpenNewFiscalYearResult{
		Success:        true,
		FiscalYearID:   &id,
		OpeningEntryID: entryID(out.OpeningEntry),
		InventoryCount: out.InventoryCount,
	}
}

func inventoryResult(count int64, err error) CarryForwardInventoryResult {
	if err != nil {
		return CarryForwardInventoryResult{Error: err.Error(), Err: err}
	}
	return CarryForwardInventoryResult{Success: true, Count: &count}
}

func refreshResult(out *RefreshOutcome, err error) RefreshCarryForwardResult {
	if err != nil {
		return RefreshCarryForwardResult{Error: err.Error(), Err: err}
	}
	count := out.InventoryCount
	return RefreshCarryForwardResult{
		Success:                true,
		OpeningBalancesUpdated: out.OpeningEntry != nil || out.ReplacedEntryID != nil,
		OpeningEntryID:         entryID(out.OpeningEntry),
		InventoryCount:         &count,
		CustomerCount:          out.CustomerCount,
		SupplierCount:          out.SupplierCount,
	}
}
