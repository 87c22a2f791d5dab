package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/usecase"
)

// Store is an in-memory implementation of every repository the lifecycle use
// cases need. Writes made inside a transaction are undone on rollback.
type Store struct {
	mu sync.Mutex

	years     map[string]*domain.FiscalYear
	accounts  map[string]*domain.Account
	entries   map[string]*domain.JournalEntry
	settings  map[string]*domain.CompanySettings
	inventory map[string]*domain.InventoryRecord
	customers map[string]int64
	suppliers map[string]int64
	audit     []*domain.AuditLog
	outbox    []*domain.OutboxEvent

	// FailOn makes the named operation return the error, e.g. "journal.create".
	FailOn map[string]error

	Commits   int
	Rollbacks int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		years:     make(map[string]*domain.FiscalYear),
		accounts:  make(map[string]*domain.Account),
		entries:   make(map[string]*domain.JournalEntry),
		settings:  make(map[string]*domain.CompanySettings),
		inventory: make(map[string]*domain.InventoryRecord),
		customers: make(map[string]int64),
		suppliers: make(map[string]int64),
		FailOn:    make(map[string]error),
	}
}

// Repositories returns repository views backed by the store.
func (s *Store) Repositories() usecase.Repositories {
	return usecase.Repositories{
		FiscalYears: &MockFiscalYearRepository{s: s},
		Accounts:    &MockAccountRepository{s: s},
		Journal:     &MockJournalRepository{s: s},
		Ledger:      &MockLedgerReader{s: s},
		Settings:    &MockSettingsRepository{s: s},
		Inventory:   &MockInventoryRepository{s: s},
		Partners:    &MockPartnerRepository{s: s},
		Outbox:      &MockOutboxRepository{s: s},
		Audit:       &MockAuditRepository{s: s},
	}
}

func (s *Store) fail(op string) error {
	if err, ok := s.FailOn[op]; ok {
		return err
	}
	return nil
}

// Seeding and inspection helpers

// AddAccount stores an account.
func (s *Store) AddAccount(acc *domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *acc
	s.accounts[acc.ID] = &c
}

// AddYear stores a fiscal year.
func (s *Store) AddYear(fy *domain.FiscalYear) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.years[fy.ID] = copyYear(fy)
}

// Post stores a journal entry as is.
func (s *Store) Post(entry *domain.JournalEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = copyEntry(entry)
}

// AddInventory stores an inventory record.
func (s *Store) AddInventory(rec *domain.InventoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *rec
	s.inventory[rec.ID] = &c
}

// SetRetainedEarnings configures the retained earnings account of a company.
func (s *Store) SetRetainedEarnings(companyID, accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[companyID] = &domain.CompanySettings{CompanyID: companyID, RetainedEarningsAccountID: &accountID}
}

// SetPartners sets the customer and supplier counts of a company.
func (s *Store) SetPartners(companyID string, customers, suppliers int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[companyID] = customers
	s.suppliers[companyID] = suppliers
}

// Year returns a copy of a stored fiscal year or nil.
func (s *Store) Year(id string) *domain.FiscalYear {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fy, ok := s.years[id]; ok {
		return copyYear(fy)
	}
	return nil
}

// Entry returns a copy of a stored journal entry or nil.
func (s *Store) Entry(id string) *domain.JournalEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		return copyEntry(e)
	}
	return nil
}

// EntriesOf returns the entries of a fiscal year with the given reference type.
func (s *Store) EntriesOf(fiscalYearID string, ref domain.ReferenceType) []*domain.JournalEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.JournalEntry
	for _, e := range s.entries {
		if e.FiscalYearID == fiscalYearID && e.ReferenceType == ref {
			out = append(out, copyEntry(e))
		}
	}
	return out
}

// InventoryRecord returns a copy of a stored inventory record or nil.
func (s *Store) InventoryRecord(id string) *domain.InventoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.inventory[id]; ok {
		c := *rec
		return &c
	}
	return nil
}

// CurrentYears returns the IDs of the company's current fiscal years.
func (s *Store) CurrentYears(companyID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, fy := range s.years {
		if fy.CompanyID == companyID && fy.IsCurrent {
			ids = append(ids, fy.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// AuditLogs returns the recorded audit logs.
func (s *Store) AuditLogs() []*domain.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.AuditLog(nil), s.audit...)
}

// Events returns the recorded outbox events.
func (s *Store) Events() []*domain.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.OutboxEvent(nil), s.outbox...)
}

func copyYear(fy *domain.FiscalYear) *domain.FiscalYear {
	c := *fy
	return &c
}

func copyEntry(e *domain.JournalEntry) *domain.JournalEntry {
	c := *e
	c.Lines = append([]domain.JournalLine(nil), e.Lines...)
	return &c
}

type snapshot struct {
	years     map[string]*domain.FiscalYear
	entries   map[string]*domain.JournalEntry
	inventory map[string]*domain.InventoryRecord
	audit     []*domain.AuditLog
	outbox    []*domain.OutboxEvent
}

func cloneMap[V any](m map[string]*V) map[string]*V {
	out := make(map[string]*V, len(m))
	for k, v := range m {
		c := *v
		out[k] = &c
	}
	return out
}

// Begin implements usecase.TransactionManager.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := s.fail("tx.begin"); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return &MockTransaction{
		s: s,
		snap: snapshot{
			years:     cloneMap(s.years),
			entries:   cloneMap(s.entries),
			inventory: cloneMap(s.inventory),
			audit:     append([]*domain.AuditLog(nil), s.audit...),
			outbox:    append([]*domain.OutboxEvent(nil), s.outbox...),
		},
	}, nil
}

// MockTransaction restores the store snapshot on rollback.
type MockTransaction struct {
	s    *Store
	snap snapshot
	done bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if err := t.s.fail("tx.commit"); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.done = true
	t.s.Commits++
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true
	t.s.years = t.snap.years
	t.s.entries = t.snap.entries
	t.s.inventory = t.snap.inventory
	t.s.audit = t.snap.audit
	t.s.outbox = t.snap.outbox
	t.s.Rollbacks++
	return nil
}

// MockFiscalYearRepository is a mock implementation of FiscalYearRepository.
type MockFiscalYearRepository struct {
	s *Store
}

func (m *MockFiscalYearRepository) Create(ctx context.Context, tx usecase.Transaction, fy *domain.FiscalYear) error {
	if err := m.s.fail("fiscal_year.create"); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.years[fy.ID]; ok {
		return fmt.Errorf("%w: duplicate fiscal year %s", domain.ErrConflict, fy.ID)
	}
	m.s.years[fy.ID] = copyYear(fy)
	return nil
}

func (m *MockFiscalYearRepository) GetByID(ctx context.Context, id string) (*domain.FiscalYear, error) {
	if err := m.s.fail("fiscal_year.get"); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if fy, ok := m.s.years[id]; ok {
		return copyYear(fy), nil
	}
	return nil, domain.ErrFiscalYearNotFound
}

func (m *MockFiscalYearRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.FiscalYear, error) {
	return m.GetByID(ctx, id)
}

func (m *MockFiscalYearRepository) GetCurrent(ctx context.Context, companyID string) (*domain.FiscalYear, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, fy := range m.s.years {
		if fy.CompanyID == companyID && fy.IsCurrent {
			return copyYear(fy), nil
		}
	}
	return nil, domain.ErrFiscalYearNotFound
}

func (m *MockFiscalYearRepository) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*domain.FiscalYear, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*domain.FiscalYear
	for _, fy := range m.s.years {
		if fy.CompanyID == companyID {
			out = append(out, copyYear(fy))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	if offset >= len(out) {
		return []*domain.FiscalYear{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockFiscalYearRepository) FindOverlapping(ctx context.Context, tx usecase.Transaction, companyID string, start, end time.Time, excludeID string) ([]*domain.FiscalYear, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*domain.FiscalYear
	for _, fy := range m.s.years {
		if fy.CompanyID == companyID && fy.ID != excludeID && fy.Overlaps(start, end) {
			out = append(out, copyYear(fy))
		}
	}
	return out, nil
}

func (m *MockFiscalYearRepository) UnsetCurrent(ctx context.Context, tx usecase.Transaction, companyID string, updatedAt time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, fy := range m.s.years {
		if fy.CompanyID == companyID && fy.IsCurrent {
			c := copyYear(fy)
			c.IsCurrent = false
			c.UpdatedAt = updatedAt
			m.s.years[id] = c
		}
	}
	return nil
}

func (m *MockFiscalYearRepository) Update(ctx context.Context, tx usecase.Transaction, fy *domain.FiscalYear) error {
	if err := m.s.fail("fiscal_year.update"); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.years[fy.ID]; !ok {
		return domain.ErrFiscalYearNotFound
	}
	m.s.years[fy.ID] = copyYear(fy)
	return nil
}

func (m *MockFiscalYearRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.years[id]; !ok {
		return domain.ErrFiscalYearNotFound
	}
	delete(m.s.years, id)
	return nil
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	s *Store
}

func (m *MockAccountRepository) ListByCompany(ctx context.Context, companyID string) ([]*domain.Account, error) {
	if err := m.s.fail("account.list"); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*domain.Account
	for _, acc := range m.s.accounts {
		if acc.CompanyID == companyID {
			c := *acc
			out = append(out, &c)
		}
	}
	return out, nil
}

// MockJournalRepository is a mock implementation of JournalRepository.
type MockJournalRepository struct {
	s *Store
}

func (m *MockJournalRepository) CreateEntry(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if err := m.s.fail("journal.create"); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.entries[entry.ID] = copyEntry(entry)
	return nil
}

func (m *MockJournalRepository) DeleteEntry(ctx context.Context, tx usecase.Transaction, id string) error {
	if err := m.s.fail("journal.delete"); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.entries[id]; !ok {
		return domain.ErrJournalEntryNotFound
	}
	delete(m.s.entries, id)
	return nil
}

func (m *MockJournalRepository) CountByFiscalYear(ctx context.Context, tx usecase.Transaction, fiscalYearID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, e := range m.s.entries {
		if e.FiscalYearID == fiscalYearID {
			n++
		}
	}
	return n, nil
}

// MockLedgerReader is a mock implementation of LedgerReader.
type MockLedgerReader struct {
	s *Store
}

func day(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func (m *MockLedgerReader) PostedLines(ctx context.Context, companyID string, window domain.DateWindow) ([]domain.LedgerLine, error) {
	if err := m.s.fail("ledger.posted_lines"); err != nil {
		return nil, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	excluded := make(map[domain.ReferenceType]bool, len(window.ExcludeReferences))
	for _, ref := range window.ExcludeReferences {
		excluded[ref] = true
	}

	var out []domain.LedgerLine
	for _, e := range m.s.entries {
		if e.CompanyID != companyID || !e.IsPosted || excluded[e.ReferenceType] {
			continue
		}
		d := day(e.EntryDate)
		if d.After(day(window.To)) {
			continue
		}
		if window.From != nil && d.Before(day(*window.From)) {
			continue
		}
		for _, l := range e.Lines {
			out = append(out, domain.LedgerLine{
				EntryID:       e.ID,
				EntryDate:     e.EntryDate,
				ReferenceType: e.ReferenceType,
				AccountID:     l.AccountID,
				Debit:         l.Debit,
				Credit:        l.Credit,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.Before(out[j].EntryDate)
		}
		return out[i].EntryID < out[j].EntryID
	})
	return out, nil
}

func (m *MockLedgerReader) TrialBalance(ctx context.Context, companyID string) (decimal.Decimal, decimal.Decimal, error) {
	if err := m.s.fail("ledger.trial_balance"); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range m.s.entries {
		if e.CompanyID != companyID || !e.IsPosted {
			continue
		}
		d, c := domain.SumLines(e.Lines)
		debit = debit.Add(d)
		credit = credit.Add(c)
	}
	return debit, credit, nil
}

// MockSettingsRepository is a mock implementation of SettingsRepository.
type MockSettingsRepository struct {
	s *Store
}

func (m *MockSettingsRepository) Get(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if st, ok := m.s.settings[companyID]; ok {
		c := *st
		return &c, nil
	}
	return &domain.CompanySettings{CompanyID: companyID}, nil
}

// MockInventoryRepository is a mock implementation of InventoryRepository.
type MockInventoryRepository struct {
	s *Store
}

func (m *MockInventoryRepository) ReassignFiscalYear(ctx context.Context, tx usecase.Transaction, companyID, fromYearID, toYearID string, status domain.InventoryStatus) (int64, error) {
	if err := m.s.fail("inventory.reassign"); err != nil {
		return 0, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for id, rec := range m.s.inventory {
		if rec.CompanyID == companyID && rec.FiscalYearID == fromYearID && rec.Status == status {
			c := *rec
			c.FiscalYearID = toYearID
			m.s.inventory[id] = &c
			n++
		}
	}
	return n, nil
}

// MockPartnerRepository is a mock implementation of PartnerRepository.
type MockPartnerRepository struct {
	s *Store
}

func (m *MockPartnerRepository) CountCustomers(ctx context.Context, companyID string) (int64, error) {
	if err := m.s.fail("partner.count_customers"); err != nil {
		return 0, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.customers[companyID], nil
}

func (m *MockPartnerRepository) CountSuppliers(ctx context.Context, companyID string) (int64, error) {
	if err := m.s.fail("partner.count_suppliers"); err != nil {
		return 0, err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.suppliers[companyID], nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	s *Store
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if err := m.s.fail("outbox.create"); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c := *event
	m.s.outbox = append(m.s.outbox, &c)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*domain.OutboxEvent
	for _, e := range m.s.outbox {
		if !e.Published && len(out) < limit {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, e := range m.s.outbox {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	kept := m.s.outbox[:0]
	for _, e := range m.s.outbox {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.s.outbox = kept
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	s *Store
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c := *log
	m.s.audit = append(m.s.audit, &c)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if err := m.s.fail("audit.create"); err != nil {
		return err
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*domain.AuditLog
	for _, l := range m.s.audit {
		if filter.CompanyID != "" && l.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		c := *l
		out = append(out, &c)
	}
	return out, nil
}

// MockLocker is an in-process implementation of Locker.
type MockLocker struct {
	mu   sync.Mutex
	held map[string]bool

	Acquired []string
}

func NewMockLocker() *MockLocker {
	return &MockLocker{held: make(map[string]bool)}
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (usecase.Lock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] {
		return nil, domain.ErrOperationInProgress
	}
	m.held[key] = true
	m.Acquired = append(m.Acquired, key)
	return &mockLock{locker: m, key: key}, nil
}

// Hold marks key as held by someone else.
func (m *MockLocker) Hold(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[key] = true
}

// Held reports whether key is currently held.
func (m *MockLocker) Held(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held[key]
}

type mockLock struct {
	locker *MockLocker
	key    string
}

func (l *mockLock) Release(ctx context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()
	delete(l.locker.held, l.key)
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%04d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Get returns the stored value for key.
func (m *MockIdempotencyStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}
