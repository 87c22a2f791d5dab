package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/usecase"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

var validate = validator.New()

// Validate checks the `validate` tags of req. Failures wrap
// domain.ErrInvalidInput and name every offending field.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, ", "))
}

// ParseDate parses a DateLayout date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must look like %s", domain.ErrInvalidInput, s, DateLayout)
	}
	return t, nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	from, err := ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// CreateFiscalYearRequest represents a request to create a fiscal year.
type CreateFiscalYearRequest struct {
	Name      string `json:"name"       validate:"required,max=100"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   validate:"required,datetime=2006-01-02"`
	Notes     string `json:"notes"      validate:"max=1000"`
	IsCurrent bool   `json:"is_current"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateFiscalYearRequest) ToUseCaseInput(companyID, createdBy string) (usecase.CreateFiscalYearInput, error) {
	start, end, err := parseRange(r.StartDate, r.EndDate)
	if err != nil {
		return usecase.CreateFiscalYearInput{}, err
	}
	return usecase.CreateFiscalYearInput{
		CompanyID: companyID,
		Name:      r.Name,
		StartDate: start,
		EndDate:   end,
		Notes:     r.Notes,
		IsCurrent: r.IsCurrent,
		CreatedBy: createdBy,
	}, nil
}

// OpenFiscalYearRequest represents a request to open the next fiscal year.
type OpenFiscalYearRequest struct {
	Name             string  `json:"name"                       validate:"required,max=100"`
	StartDate        string  `json:"start_date"                 validate:"required,datetime=2006-01-02"`
	EndDate          string  `json:"end_date"                   validate:"required,datetime=2006-01-02"`
	Notes            string  `json:"notes"                      validate:"max=1000"`
	PreviousYearID   *string `json:"previous_year_id,omitempty" validate:"omitempty,min=1"`
	AutoCarryForward bool    `json:"auto_carry_forward"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenFiscalYearRequest) ToUseCaseInput(companyID, createdBy string) (usecase.OpenNewFiscalYearInput, error) {
	start, end, err := parseRange(r.StartDate, r.EndDate)
	if err != nil {
		return usecase.OpenNewFiscalYearInput{}, err
	}
	return usecase.OpenNewFiscalYearInput{
		CompanyID:        companyID,
		Name:             r.Name,
		StartDate:        start,
		EndDate:          end,
		Notes:            r.Notes,
		PreviousYearID:   r.PreviousYearID,
		AutoCarryForward: r.AutoCarryForward,
		CreatedBy:        createdBy,
	}, nil
}

// ReopenFiscalYearRequest represents a request to reopen a closed year.
type ReopenFiscalYearRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// RefreshCarryForwardRequest names the year whose balances are carried.
type RefreshCarryForwardRequest struct {
	PreviousYearID string `json:"previous_year_id" validate:"required"`
}

// CarryForwardInventoryRequest represents a request to move inventory
// between fiscal years.
type CarryForwardInventoryRequest struct {
	FromYearID string `json:"from_year_id" validate:"required"`
	ToYearID   string `json:"to_year_id"   validate:"required,nefield=FromYearID"`
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
