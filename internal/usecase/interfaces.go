package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/yearend/internal/domain"
)

// LedgerReader reads posted journal lines.
type LedgerReader interface {
	// PostedLines returns lines of posted entries of the company whose entry
	// date falls inside the window, bounds included.
	PostedLines(ctx context.Context, companyID string, window domain.DateWindow) ([]domain.LedgerLine, error)
	// TrialBalance returns the debit and credit totals of all posted lines.
	TrialBalance(ctx context.Context, companyID string) (totalDebit, totalCredit decimal.Decimal, err error)
}

// AccountRepository defines read access to the chart of accounts.
type AccountRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]*domain.Account, error)
}

// FiscalYearRepository defines data access for fiscal years.
type FiscalYearRepository interface {
	Create(ctx context.Context, tx Transaction, fy *domain.FiscalYear) error
	GetByID(ctx context.Context, id string) (*domain.FiscalYear, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.FiscalYear, error)
	GetCurrent(ctx context.Context, companyID string) (*domain.FiscalYear, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*domain.FiscalYear, error)
	// FindOverlapping returns years of the company sharing a day with [start, end],
	// ignoring excludeID.
	FindOverlapping(ctx context.Context, tx Transaction, companyID string, start, end time.Time, excludeID string) ([]*domain.FiscalYear, error)
	UnsetCurrent(ctx context.Context, tx Transaction, companyID string, updatedAt time.Time) error
	Update(ctx context.Context, tx Transaction, fy *domain.FiscalYear) error
	Delete(ctx context.Context, tx Transaction, id string) error
}

// JournalRepository defines write access to journal entries.
type JournalRepository interface {
	// CreateEntry inserts the entry header and then its lines.
	CreateEntry(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	// DeleteEntry removes the entry. Its lines go with it through ON DELETE CASCADE.
	DeleteEntry(ctx context.Context, tx Transaction, id string) error
	CountByFiscalYear(ctx context.Context, tx Transaction, fiscalYearID string) (int64, error)
}

// SettingsRepository reads per-company accounting settings.
type SettingsRepository interface {
	Get(ctx context.Context, companyID string) (*domain.CompanySettings, error)
}

// InventoryRepository defines data access for inventory records.
type InventoryRepository interface {
	// ReassignFiscalYear moves records of the company with the given status
	// from one fiscal year to another and returns how many moved.
	ReassignFiscalYear(ctx context.Context, tx Transaction, companyID, fromYearID, toYearID string, status domain.InventoryStatus) (int64, error)
}

// PartnerRepository counts customers and suppliers of a company.
type PartnerRepository interface {
	CountCustomers(ctx context.Context, companyID string) (int64, error)
	CountSuppliers(ctx context.Context, companyID string) (int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Locker grants exclusive access to a key across processes.
type Locker interface {
	// Acquire returns domain.ErrOperationInProgress when the key is held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// Lock is a held lock.
type Lock interface {
	Release(ctx context.Context) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release forgets key so the request may be retried.
	Release(ctx context.Context, key string) error
}
