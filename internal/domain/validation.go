package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation errors
var (
	ErrInvalidFiscalYearName = fmt.Errorf("%w: fiscal year name", ErrInvalidInput)
	ErrNotesTooLong          = fmt.Errorf("%w: notes exceed maximum length", ErrInvalidInput)
	ErrInvalidIDFormat       = fmt.Errorf("%w: ID format", ErrInvalidInput)
)

// Validation constants
const (
	MaxFiscalYearNameLength = 100
	MinFiscalYearNameLength = 1
	MaxNotesLength          = 2000
	MaxIDLength             = 64
)

// ValidateFiscalYearName validates a fiscal year name
func ValidateFiscalYearName(name string) error {
	name = strings.TrimSpace(name)

	if utf8.RuneCountInString(name) < MinFiscalYearNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidFiscalYearName)
	}

	if utf8.RuneCountInString(name) > MaxFiscalYearNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidFiscalYearName, MaxFiscalYearNameLength)
	}

	// Check for SQL injection attempts
	dangerous := []string{"--", "/*", "*/", ";"}
	for _, pattern := range dangerous {
		if strings.Contains(name, pattern) {
			return fmt.Errorf("%w: contains forbidden characters", ErrInvalidFiscalYearName)
		}
	}

	return nil
}

// ValidateNotes validates free-form notes
func ValidateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return fmt.Errorf("%w: limit is %d characters", ErrNotesTooLong, MaxNotesLength)
	}
	return nil
}

// ValidateID validates an identifier supplied by a caller
func ValidateID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > MaxIDLength {
		return ErrInvalidIDFormat
	}
	if strings.ContainsAny(id, " \t\r\n;'\"") {
		return ErrInvalidIDFormat
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
