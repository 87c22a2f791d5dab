package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/infrastructure/metrics"
)

// calendarScope is the lock scope for operations that change which years a
// company has or which one is current.
const calendarScope = "calendar"

// Repositories groups the stores used by the lifecycle use cases.
type Repositories struct {
	FiscalYears FiscalYearRepository
	Accounts    AccountRepository
	Journal     JournalRepository
	Ledger      LedgerReader
	Settings    SettingsRepository
	Inventory   InventoryRepository
	Partners    PartnerRepository
	Outbox      OutboxRepository
	Audit       AuditRepository
}

type actorKey struct{}

// WithActor attaches the acting user ID to ctx.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFromContext returns the acting user ID, or SystemUser.
func ActorFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(actorKey{}).(string); ok && id != "" {
		return id
	}
	return SystemUser
}

// engine carries the plumbing shared by the fiscal year and carry-forward
// use cases.
type engine struct {
	repos     Repositories
	txManager TransactionManager
	locker    Locker
	retrier   Retrier
	idGen     IDGenerator
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	opts      Options
}

func newEngine(
	txManager TransactionManager,
	repos Repositories,
	locker Locker,
	retrier Retrier,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger zerolog.Logger,
	opts Options,
) *engine {
	return &engine{
		repos:     repos,
		txManager: txManager,
		locker:    locker,
		retrier:   retrier,
		idGen:     idGen,
		metrics:   m,
		logger:    logger,
		opts:      opts.withDefaults(),
	}
}

func lockKey(companyID, scope string) string {
	return fmt.Sprintf("yearend:lock:%s:%s", companyID, scope)
}

// withLock runs fn while holding the lock for (companyID, scope).
func (e *engine) withLock(ctx context.Context, op, companyID, scope string, fn func(ctx context.Context) error) error {
	if e.locker == nil {
		return fn(ctx)
	}

	key := lockKey(companyID, scope)
	lock, err := e.locker.Acquire(ctx, key, e.opts.LockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrOperationInProgress) && e.metrics != nil {
			e.metrics.LockContention.WithLabelValues(op).Inc()
		}
		return err
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			e.logger.Warn().Err(err).Str("lock", key).Msg("failed to release lock")
		}
	}()

	return fn(ctx)
}

// inTx runs fn inside one transaction, retrying the whole unit on
// serialization failures.
func (e *engine) inTx(ctx context.Context, fn func(tx Transaction) error) error {
	run := func() error {
		tx, err := e.txManager.Begin(ctx)
		if err != nil {
			return domain.PersistError("begin transaction", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		if err := fn(tx); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return domain.PersistError("commit transaction", err)
		}
		return nil
	}

	if e.retrier == nil {
		return run()
	}
	return e.retrier.Retry(ctx, run)
}

func belongsTo(fy *domain.FiscalYear, companyID string) error {
	if fy.CompanyID != companyID {
		return domain.ErrCompanyMismatch
	}
	return nil
}

func (e *engine) loadYear(ctx context.Context, companyID, id string) (*domain.FiscalYear, error) {
	fy, err := e.repos.FiscalYears.GetByID(ctx, id)
	if err != nil {
		return nil, domain.FetchError("get fiscal year", err)
	}
	if err := belongsTo(fy, companyID); err != nil {
		return nil, err
	}
	return fy, nil
}

func (e *engine) lockYear(ctx context.Context, tx Transaction, companyID, id string) (*domain.FiscalYear, error) {
	fy, err := e.repos.FiscalYears.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, domain.FetchError("lock fiscal year", err)
	}
	if err := belongsTo(fy, companyID); err != nil {
		return nil, err
	}
	return fy, nil
}

func (e *engine) ensureNoOverlap(ctx context.Context, tx Transaction, fy *domain.FiscalYear) error {
	overlapping, err := e.repos.FiscalYears.FindOverlapping(ctx, tx, fy.CompanyID, fy.StartDate, fy.EndDate, fy.ID)
	if err != nil {
		return domain.FetchError("find overlapping fiscal years", err)
	}
	if len(overlapping) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrFiscalYearOverlap, overlapping[0].Name)
	}
	return nil
}

func (e *engine) chart(ctx context.Context, companyID string) (domain.AccountIndex, error) {
	accounts, err := e.repos.Accounts.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, domain.FetchError("list accounts", err)
	}
	return domain.NewAccountIndex(accounts), nil
}

// retainedEarnings resolves the retained earnings account. A missing account
// yields nil; the entry builders fail only when they need a line on it.
func (e *engine) retainedEarnings(ctx context.Context, companyID string, chart domain.AccountIndex) (*domain.Account, error) {
	var configured *string
	if e.repos.Settings != nil {
		settings, err := e.repos.Settings.Get(ctx, companyID)
		if err != nil {
			return nil, domain.FetchError("get company settings", err)
		}
		if settings != nil {
			configured = settings.RetainedEarningsAccountID
		}
	}

	acc, err := chart.FindRetainedEarnings(configured, e.opts.RetainedEarningsPrefix)
	if errors.Is(err, domain.ErrRetainedEarningsNotConfigured) {
		return nil, nil
	}
	return acc, err
}

func (e *engine) balances(ctx context.Context, companyID string, window domain.DateWindow, chart domain.AccountIndex) (domain.Balances, error) {
	lines, err := e.repos.Ledger.PostedLines(ctx, companyID, window)
	if err != nil {
		return nil, domain.FetchError("read posted lines", err)
	}
	return domain.AggregateBalances(lines, chart), nil
}

// closingEntry computes the closing entry of fy from its own postings.
func (e *engine) closingEntry(ctx context.Context, fy *domain.FiscalYear, closedBy string) (*domain.JournalEntry, domain.IncomeSummary, error) {
	chart, err := e.chart(ctx, fy.CompanyID)
	if err != nil {
		return nil, domain.IncomeSummary{}, err
	}

	balances, err := e.balances(ctx, fy.CompanyID, fy.Window(), chart)
	if err != nil {
		return nil, domain.IncomeSummary{}, err
	}
	income := domain.ComputeIncome(balances, chart)

	re, err := e.retainedEarnings(ctx, fy.CompanyID, chart)
	if err != nil {
		return nil, income, err
	}

	entry, err := domain.BuildClosingEntry(domain.ClosingInput{
		FiscalYear:       fy,
		Balances:         balances,
		RevenueAccounts:  chart.OfType(domain.AccountTypeRevenue),
		ExpenseAccounts:  chart.OfType(domain.AccountTypeExpenses),
		RetainedEarnings: re,
		CreatedBy:        closedBy,
	})
	if err != nil || entry == nil {
		return nil, income, err
	}

	e.stampEntry(entry)
	return entry, income, nil
}

// openingEntry computes the carry-forward entry of target from every posting
// through previous.EndDate. Generated opening entries are skipped since they
// restate postings that are already read.
func (e *engine) openingEntry(ctx context.Context, target, previous *domain.FiscalYear, createdBy string) (*domain.JournalEntry, error) {
	chart, err := e.chart(ctx, target.CompanyID)
	if err != nil {
		return nil, err
	}

	window := domain.Through(previous.EndDate)
	window.ExcludeReferences = []domain.ReferenceType{domain.ReferenceOpening}

	balances, err := e.balances(ctx, target.CompanyID, window, chart)
	if err != nil {
		return nil, err
	}

	re, err := e.retainedEarnings(ctx, target.CompanyID, chart)
	if err != nil {
		return nil, err
	}

	entry, err := domain.BuildOpeningEntry(domain.OpeningInput{
		FiscalYear:           target,
		Balances:             balances,
		BalanceSheetAccounts: chart.OfType(domain.AccountTypeAssets, domain.AccountTypeLiabilities, domain.AccountTypeEquity),
		RetainedEarnings:     re,
		PriorNetIncome:       domain.ComputeIncome(balances, chart).NetIncome,
		CreatedBy:            createdBy,
	})
	if err != nil || entry == nil {
		return nil, err
	}

	e.stampEntry(entry)
	return entry, nil
}

func (e *engine) stampEntry(entry *domain.JournalEntry) {
	entry.AssignIDs(e.idGen.Generate(), e.idGen.Generate)
	entry.CreatedAt = e.opts.Now()
}

func (e *engine) postEntry(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error {
	if err := e.repos.Journal.CreateEntry(ctx, tx, entry); err != nil {
		return domain.PersistError("create journal entry", err)
	}
	return nil
}

func (e *engine) removeEntry(ctx context.Context, tx Transaction, id string) error {
	err := e.repos.Journal.DeleteEntry(ctx, tx, id)
	if errors.Is(err, domain.ErrNotFound) {
		e.logger.Warn().Str("journal_entry_id", id).Msg("stamped journal entry already gone")
		return nil
	}
	if err != nil {
		return domain.PersistError("delete journal entry", err)
	}
	return nil
}

func (e *engine) saveYear(ctx context.Context, tx Transaction, fy *domain.FiscalYear) error {
	if err := e.repos.FiscalYears.Update(ctx, tx, fy); err != nil {
		return domain.PersistError("update fiscal year", err)
	}
	return nil
}

type activity struct {
	companyID  string
	actor      string
	action     domain.AuditAction
	resourceID string
	before     any
	after      any
	eventType  string
	payload    any
}

// record writes the audit row and the outbox event of a lifecycle mutation
// inside tx.
func (e *engine) record(ctx context.Context, tx Transaction, a activity) error {
	now := e.opts.Now()

	if e.repos.Audit != nil {
		log := &domain.AuditLog{
			ID:           e.idGen.Generate(),
			CompanyID:    a.companyID,
			UserID:       a.actor,
			Action:       a.action,
			ResourceType: domain.ResourceTypeFiscalYear,
			ResourceID:   a.resourceID,
			BeforeState:  domain.MarshalState(a.before),
			AfterState:   domain.MarshalState(a.after),
			Status:       domain.AuditStatusSuccess,
			CreatedAt:    now,
		}
		if err := e.repos.Audit.CreateTx(ctx, tx, log); err != nil {
			return domain.PersistError("create audit log", err)
		}
		if e.metrics != nil {
			e.metrics.AuditLogsCreated.WithLabelValues(string(a.action), string(domain.AuditStatusSuccess)).Inc()
		}
	}

	if a.eventType != "" && e.repos.Outbox != nil {
		event := domain.NewOutboxEvent(e.idGen.Generate(), a.resourceID, a.eventType, a.payload, now)
		if err := e.repos.Outbox.Create(ctx, tx, event); err != nil {
			return domain.PersistError("create outbox event", err)
		}
	}

	return nil
}

// recordFailure audits a failed mutation outside of any transaction.
func (e *engine) recordFailure(ctx context.Context, a activity, cause error) {
	if cause == nil {
		return
	}
	if e.metrics != nil {
		switch {
		case errors.Is(cause, domain.ErrFetch):
			e.metrics.DBErrors.WithLabelValues("fetch").Inc()
		case errors.Is(cause, domain.ErrPersist):
			e.metrics.DBErrors.WithLabelValues("persist").Inc()
		}
	}
	if e.repos.Audit == nil {
		return
	}

	log := &domain.AuditLog{
		ID:           e.idGen.Generate(),
		CompanyID:    a.companyID,
		UserID:       a.actor,
		Action:       a.action,
		ResourceType: domain.ResourceTypeFiscalYear,
		ResourceID:   a.resourceID,
		Status:       domain.AuditStatusFailure,
		ErrorMessage: cause.Error(),
		CreatedAt:    e.opts.Now(),
	}
	if err := e.repos.Audit.Create(context.WithoutCancel(ctx), log); err != nil {
		e.logger.Warn().Err(err).Str("action", string(a.action)).Msg("failed to write failure audit log")
		return
	}
	if e.metrics != nil {
		e.metrics.AuditLogsCreated.WithLabelValues(string(a.action), string(domain.AuditStatusFailure)).Inc()
	}
}

func (e *engine) observeEntry(entry *domain.JournalEntry) {
	if e.metrics == nil || entry == nil {
		return
	}

	switch entry.ReferenceType {
	case domain.ReferenceClosing:
		e.metrics.ClosingEntries.Inc()
	case domain.ReferenceOpening:
		e.metrics.OpeningEntries.Inc()
	}
	e.metrics.EntryLines.WithLabelValues(string(entry.ReferenceType)).Observe(float64(len(entry.Lines)))
}
