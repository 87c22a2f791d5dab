package domain

import "time"

// Event types
const (
	EventTypeFiscalYearCreated      = "fiscal_year.created"
	EventTypeFiscalYearClosed       = "fiscal_year.closed"
	EventTypeFiscalYearReopened     = "fiscal_year.reopened"
	EventTypeFiscalYearOpened       = "fiscal_year.opened"
	EventTypeFiscalYearDeleted      = "fiscal_year.deleted"
	EventTypeCarryForwardRefreshed  = "fiscal_year.carry_forward_refreshed"
	EventTypeInventoryCarriedFwd    = "inventory.carried_forward"
	EventTypeCurrentFiscalYearMoved = "fiscal_year.current_changed"
)

// Aggregate types
const (
	AggregateTypeFiscalYear = "fiscal_year"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// FiscalYearClosedEvent payload
type FiscalYearClosedEvent struct {
	FiscalYearID   string  `json:"fiscal_year_id"`
	CompanyID      string  `json:"company_id"`
	ClosingEntryID *string `json:"closing_entry_id,omitempty"`
	NetIncome      string  `json:"net_income"`
	ClosedBy       string  `json:"closed_by"`
}

// FiscalYearOpenedEvent payload
type FiscalYearOpenedEvent struct {
	FiscalYearID     string  `json:"fiscal_year_id"`
	CompanyID        string  `json:"company_id"`
	PreviousYearID   *string `json:"previous_year_id,omitempty"`
	OpeningEntryID   *string `json:"opening_entry_id,omitempty"`
	AutoCarryForward bool    `json:"auto_carry_forward"`
}

// CarryForwardRefreshedEvent payload
type CarryForwardRefreshedEvent struct {
	FiscalYearID      string  `json:"fiscal_year_id"`
	PreviousYearID    string  `json:"previous_year_id"`
	CompanyID         string  `json:"company_id"`
	OpeningEntryID    *string `json:"opening_entry_id,omitempty"`
	ReplacedEntryID   *string `json:"replaced_entry_id,omitempty"`
	OpeningLines      int     `json:"opening_lines"`
	InventoryRecords  int64   `json:"inventory_records"`
	OpeningTotalDebit string  `json:"opening_total_debit"`
}

// NewOutboxEvent builds an unpublished fiscal-year event from a payload struct.
func NewOutboxEvent(id, fiscalYearID, eventType string, payload any, at time.Time) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   fiscalYearID,
		AggregateType: AggregateTypeFiscalYear,
		EventType:     eventType,
		Payload:       MarshalState(payload),
		CreatedAt:     at,
	}
}
