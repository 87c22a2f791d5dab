package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for compliance and debugging
type AuditLog struct {
	ID           string
	CompanyID    string
	UserID       string // Who performed the action
	Action       AuditAction
	ResourceType string
	ResourceID   string
	RequestID    string
	BeforeState  JSON
	AfterState   JSON
	Status       AuditStatus
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionFiscalYearCreate     AuditAction = "fiscal_year.create"
	AuditActionFiscalYearSetCurrent AuditAction = "fiscal_year.set_current"
	AuditActionFiscalYearClose      AuditAction = "fiscal_year.close"
	AuditActionFiscalYearReopen     AuditAction = "fiscal_year.reopen"
	AuditActionFiscalYearOpen       AuditAction = "fiscal_year.open"
	AuditActionFiscalYearDelete     AuditAction = "fiscal_year.delete"
	AuditActionFiscalYearRefresh    AuditAction = "fiscal_year.refresh"
	AuditActionInventoryCarry       AuditAction = "inventory.carry_forward"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

const ResourceTypeFiscalYear = "fiscal_year"

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	CompanyID    string
	Action       AuditAction
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}
