package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Specific errors below wrap one of these so callers can branch
// on the kind with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrFetch              = errors.New("fetch failed")
	ErrPersist            = errors.New("persist failed")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
)

var (
	// Fiscal year errors
	ErrFiscalYearNotFound     = fmt.Errorf("fiscal year %w", ErrNotFound)
	ErrFiscalYearClosed       = fmt.Errorf("%w: fiscal year is closed", ErrConflict)
	ErrFiscalYearNotOpen      = fmt.Errorf("%w: fiscal year is not open", ErrConflict)
	ErrFiscalYearNotClosed    = fmt.Errorf("%w: fiscal year is not closed", ErrConflict)
	ErrFiscalYearOverlap      = fmt.Errorf("%w: fiscal year overlaps an existing year", ErrConflict)
	ErrFiscalYearHasEntries   = fmt.Errorf("%w: fiscal year has journal entries", ErrConflict)
	ErrFiscalYearHasInventory = fmt.Errorf("%w: fiscal year has inventory records", ErrConflict)
	ErrInvalidDateRange       = fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	ErrInvalidFiscalYear      = fmt.Errorf("%w: fiscal year", ErrInvalidInput)
	ErrCompanyMismatch        = fmt.Errorf("%w: fiscal year belongs to another company", ErrInvalidInput)
	ErrSameFiscalYear         = fmt.Errorf("%w: source and target fiscal year are the same", ErrInvalidInput)
	ErrPreviousYearRequired   = fmt.Errorf("%w: previous fiscal year is required", ErrInvalidInput)

	// Account errors
	ErrRetainedEarningsNotConfigured = fmt.Errorf("retained earnings account %w", ErrNotFound)

	// Journal errors
	ErrJournalEntryNotFound = fmt.Errorf("journal entry %w", ErrNotFound)
	ErrUnbalancedEntry      = fmt.Errorf("%w: journal entry debits do not equal credits", ErrInvariantViolation)
	ErrTooFewLines          = fmt.Errorf("%w: journal entry requires at least two lines", ErrInvariantViolation)
	ErrNegativeLineAmount   = fmt.Errorf("%w: journal line amounts must not be negative", ErrInvariantViolation)

	// Concurrency
	ErrOperationInProgress = fmt.Errorf("%w: another operation is running for this fiscal year", ErrConflict)
)

// FetchError wraps a store read failure.
func FetchError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrFetch, op, err)
}

// PersistError wraps a store write failure.
func PersistError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersist, op, err)
}
