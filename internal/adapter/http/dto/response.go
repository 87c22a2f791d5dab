package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/usecase"
)

// FiscalYearResponse represents a fiscal year in API responses.
type FiscalYearResponse struct {
	ID                    string     `json:"id"`
	CompanyID             string     `json:"company_id"`
	Name                  string     `json:"name"`
	StartDate             string     `json:"start_date"`
	EndDate               string     `json:"end_date"`
	Status                string     `json:"status"`
	IsCurrent             bool       `json:"is_current"`
	OpeningBalanceEntryID *string    `json:"opening_balance_entry_id,omitempty"`
	ClosingBalanceEntryID *string    `json:"closing_balance_entry_id,omitempty"`
	ClosedAt              *time.Time `json:"closed_at,omitempty"`
	ClosedBy              *string    `json:"closed_by,omitempty"`
	Notes                 string     `json:"notes,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// FiscalYearFromDomain converts a domain fiscal year to a response.
func FiscalYearFromDomain(fy *domain.FiscalYear) *FiscalYearResponse {
	return &FiscalYearResponse{
		ID:                    fy.ID,
		CompanyID:             fy.CompanyID,
		Name:                  fy.Name,
		StartDate:             fy.StartDate.Format(DateLayout),
		EndDate:               fy.EndDate.Format(DateLayout),
		Status:                string(fy.Status),
		IsCurrent:             fy.IsCurrent,
		OpeningBalanceEntryID: fy.OpeningBalanceEntryID,
		ClosingBalanceEntryID: fy.ClosingBalanceEntryID,
		ClosedAt:              fy.ClosedAt,
		ClosedBy:              fy.ClosedBy,
		Notes:                 fy.Notes,
		CreatedAt:             fy.CreatedAt,
		UpdatedAt:             fy.UpdatedAt,
	}
}

// FiscalYearsFromDomain converts domain fiscal years to responses.
func FiscalYearsFromDomain(years []*domain.FiscalYear) []*FiscalYearResponse {
	result := make([]*FiscalYearResponse, len(years))
	for i, fy := range years {
		result[i] = FiscalYearFromDomain(fy)
	}
	return result
}

// AccountBalanceResponse is one row of a balance report.
type AccountBalanceResponse struct {
	AccountID string          `json:"account_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
}

// BalanceReportResponse represents account balances over a date window.
type BalanceReportResponse struct {
	From          *string                  `json:"from,omitempty"`
	To            string                   `json:"to"`
	Accounts      []AccountBalanceResponse `json:"accounts"`
	TotalRevenue  decimal.Decimal          `json:"total_revenue"`
	TotalExpenses decimal.Decimal          `json:"total_expenses"`
	NetIncome     decimal.Decimal          `json:"net_income"`
}

// BalanceReportFromUseCase converts a balance report to a response.
func BalanceReportFromUseCase(window domain.DateWindow, report *usecase.BalanceReport) *BalanceReportResponse {
	resp := &BalanceReportResponse{
		To:            window.To.Format(DateLayout),
		Accounts:      make([]AccountBalanceResponse, 0, len(report.Accounts)),
		TotalRevenue:  report.Income.TotalRevenue,
		TotalExpenses: report.Income.TotalExpenses,
		NetIncome:     report.Income.NetIncome,
	}
	if window.From != nil {
		from := window.From.Format(DateLayout)
		resp.From = &from
	}
	for _, ab := range report.Accounts {
		resp.Accounts = append(resp.Accounts, AccountBalanceResponse{
			AccountID: ab.Account.ID,
			Code:      ab.Account.Code,
			Name:      ab.Account.Name,
			Type:      string(ab.Account.Type),
			Balance:   ab.Balance,
		})
	}
	return resp
}

// ConsistencyResponse reports the trial balance check.
type ConsistencyResponse struct {
	Status      string          `json:"status"`
	Consistent  bool            `json:"consistent"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// ConsistencyFromUseCase converts a consistency report to a response.
func ConsistencyFromUseCase(report *usecase.ConsistencyReport) *ConsistencyResponse {
	status := "consistent"
	if !report.Balanced {
		status = "inconsistent"
	}
	return &ConsistencyResponse{
		Status:      status,
		Consistent:  report.Balanced,
		TotalDebit:  report.TotalDebit,
		TotalCredit: report.TotalCredit,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
