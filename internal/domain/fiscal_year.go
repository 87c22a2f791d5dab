package domain

import (
	"fmt"
	"strings"
	"time"
)

// FiscalYearStatus is the lifecycle state of a fiscal year.
type FiscalYearStatus string

const (
	FiscalYearStatusOpen   FiscalYearStatus = "open"
	FiscalYearStatusClosed FiscalYearStatus = "closed"
)

// FiscalYear is an accounting period of a company.
type FiscalYear struct {
	ID                    string
	CompanyID             string
	Name                  string
	StartDate             time.Time
	EndDate               time.Time
	Status                FiscalYearStatus
	IsCurrent             bool
	OpeningBalanceEntryID *string
	ClosingBalanceEntryID *string
	ClosedAt              *time.Time
	ClosedBy              *string
	Notes                 string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Validate checks the static invariants of a fiscal year.
func (fy *FiscalYear) Validate() error {
	if strings.TrimSpace(fy.CompanyID) == "" {
		return fmt.Errorf("%w: company id required", ErrInvalidFiscalYear)
	}
	if err := ValidateFiscalYearName(fy.Name); err != nil {
		return err
	}
	if fy.StartDate.IsZero() || fy.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end date required", ErrInvalidFiscalYear)
	}
	if !fy.EndDate.After(fy.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// IsOpen reports whether the year accepts postings.
func (fy *FiscalYear) IsOpen() bool {
	return fy.Status == FiscalYearStatusOpen
}

// CanClose checks the close transition.
func (fy *FiscalYear) CanClose() error {
	if fy.Status == FiscalYearStatusClosed {
		return ErrFiscalYearClosed
	}
	return nil
}

// CanSetCurrent checks that the year may be designated current.
func (fy *FiscalYear) CanSetCurrent() error {
	if !fy.IsOpen() {
		return ErrFiscalYearNotOpen
	}
	return nil
}

// CanDelete checks the delete transition. Entry count is checked by the caller.
func (fy *FiscalYear) CanDelete(entryCount int64) error {
	if !fy.IsOpen() {
		return ErrFiscalYearNotOpen
	}
	if entryCount > 0 {
		return ErrFiscalYearHasEntries
	}
	return nil
}

// CanReopen checks the reopen transition.
func (fy *FiscalYear) CanReopen() error {
	if fy.Status != FiscalYearStatusClosed {
		return ErrFiscalYearNotClosed
	}
	return nil
}

// Contains reports whether the date falls inside the year, bounds included.
func (fy *FiscalYear) Contains(at time.Time) bool {
	d := truncateDay(at)
	return !d.Before(truncateDay(fy.StartDate)) && !d.After(truncateDay(fy.EndDate))
}

// Overlaps reports whether the two years share at least one day.
func (fy *FiscalYear) Overlaps(start, end time.Time) bool {
	return !truncateDay(start).After(truncateDay(fy.EndDate)) &&
		!truncateDay(end).Before(truncateDay(fy.StartDate))
}

// MarkClosed stamps the close transition.
func (fy *FiscalYear) MarkClosed(closingEntryID *string, closedBy string, at time.Time) {
	fy.Status = FiscalYearStatusClosed
	fy.ClosingBalanceEntryID = closingEntryID
	fy.ClosedBy = &closedBy
	fy.ClosedAt = &at
	fy.UpdatedAt = at
}

// MarkReopened clears the close stamps.
func (fy *FiscalYear) MarkReopened(at time.Time) {
	fy.Status = FiscalYearStatusOpen
	fy.ClosingBalanceEntryID = nil
	fy.ClosedBy = nil
	fy.ClosedAt = nil
	fy.UpdatedAt = at
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateWindow selects ledger lines by entry date. A nil From reads every
// posting up to and including To.
type DateWindow struct {
	From              *time.Time
	To                time.Time
	ExcludeReferences []ReferenceType
}

// Through builds an open-ended window ending at to.
func Through(to time.Time) DateWindow {
	return DateWindow{To: to}
}

// Between builds an inclusive window.
func Between(from, to time.Time) DateWindow {
	return DateWindow{From: &from, To: to}
}

// Window returns the fiscal year date range.
func (fy *FiscalYear) Window() DateWindow {
	return Between(fy.StartDate, fy.EndDate)
}
