package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryStatus is the availability of an inventory record.
type InventoryStatus string

const (
	InventoryStatusAvailable InventoryStatus = "available"
	InventoryStatusReserved  InventoryStatus = "reserved"
	InventoryStatusSold      InventoryStatus = "sold"
	InventoryStatusDamaged   InventoryStatus = "damaged"
)

// InventoryRecord is a stock record tagged with the fiscal year it belongs to.
type InventoryRecord struct {
	ID           string
	CompanyID    string
	FiscalYearID string
	ProductID    string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	Status       InventoryStatus
	UpdatedAt    time.Time
}

// CompanySettings holds per-company accounting configuration.
type CompanySettings struct {
	CompanyID                 string
	RetainedEarningsAccountID *string
}
