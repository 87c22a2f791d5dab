package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/infrastructure/metrics"
)

// FiscalYearUseCase owns the fiscal year state machine.
type FiscalYearUseCase struct {
	*engine
}

// NewFiscalYearUseCase creates a new FiscalYearUseCase.
func NewFiscalYearUseCase(
	txManager TransactionManager,
	repos Repositories,
	locker Locker,
	retrier Retrier,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger zerolog.Logger,
	opts Options,
) *FiscalYearUseCase {
	return &FiscalYearUseCase{
		engine: newEngine(txManager, repos, locker, retrier, idGen, m, logger.With().Str("component", "fiscal_year").Logger(), opts),
	}
}

// CreateFiscalYearInput represents input for creating a fiscal year.
type CreateFiscalYearInput struct {
	CompanyID string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Notes     string
	IsCurrent bool
	CreatedBy string
}

// OpenNewFiscalYearInput represents input for opening a new fiscal year.
type OpenNewFiscalYearInput struct {
	CompanyID        string
	Name             string
	StartDate        time.Time
	EndDate          time.Time
	Notes            string
	PreviousYearID   *string
	AutoCarryForward bool
	CreatedBy        string
}

func (uc *FiscalYearUseCase) newYear(companyID, name, notes string, start, end time.Time, current bool) (*domain.FiscalYear, error) {
	if err := domain.ValidateNotes(notes); err != nil {
		return nil, err
	}

	now := uc.opts.Now()
	fy := &domain.FiscalYear{
		ID:        uc.idGen.Generate(),
		CompanyID: companyID,
		Name:      strings.TrimSpace(name),
		StartDate: start,
		EndDate:   end,
		Status:    domain.FiscalYearStatusOpen,
		IsCurrent: current,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := fy.Validate(); err != nil {
		return nil, err
	}
	return fy, nil
}

func actorOr(ctx context.Context, explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	return ActorFromContext(ctx)
}

// CreateFiscalYear creates an open fiscal year. When IsCurrent is set the
// previous current year is unset in the same transaction.
func (uc *FiscalYearUseCase) CreateFiscalYear(ctx context.Context, input CreateFiscalYearInput) (*domain.FiscalYear, error) {
	started := time.Now()

	fy, err := uc.newYear(input.CompanyID, input.Name, input.Notes, input.StartDate, input.EndDate, input.IsCurrent)
	if err != nil {
		return nil, err
	}
	actor := actorOr(ctx, input.CreatedBy)

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	err = uc.withLock(ctx, "create", fy.CompanyID, calendarScope, func(ctx context.Context) error {
		return uc.inTx(ctx, func(tx Transaction) error {
			if err := uc.ensureNoOverlap(ctx, tx, fy); err != nil {
				return err
			}
			if fy.IsCurrent {
				if err := uc.repos.FiscalYears.UnsetCurrent(ctx, tx, fy.CompanyID, fy.UpdatedAt); err != nil {
					return domain.PersistError("unset current fiscal year", err)
				}
			}
			if err := uc.repos.FiscalYears.Create(ctx, tx, fy); err != nil {
				return domain.PersistError("create fiscal year", err)
			}

			return uc.record(ctx, tx, activity{
				companyID:  fy.CompanyID,
				actor:      actor,
				action:     domain.AuditActionFiscalYearCreate,
				resourceID: fy.ID,
				after:      fy,
				eventType:  domain.EventTypeFiscalYearCreated,
				payload: map[string]any{
					"fiscal_year_id": fy.ID,
					"company_id":     fy.CompanyID,
					"name":           fy.Name,
					"is_current":     fy.IsCurrent,
				},
			})
		})
	})
	uc.metrics.ObserveOperation("create", started, err)
	if err != nil {
		uc.logger.Error().Err(err).Str("company_id", input.CompanyID).Msg("create fiscal year failed")
		return nil, err
	}

	uc.logger.Info().
		Str("company_id", fy.CompanyID).
		Str("fiscal_year_id", fy.ID).
		Bool("is_current", fy.IsCurrent).
		Msg("fiscal year created")

	return fy, nil
}

// SetCurrentFiscalYear makes an open fiscal year the company's current one.
// Exactly one year is current afterwards.
func (uc *FiscalYearUseCase) SetCurrentFiscalYear(ctx context.Context, companyID, id string) (*domain.FiscalYear, error) {
	started := time.Now()
	actor := ActorFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	var result *domain.FiscalYear
	err := uc.withLock(ctx, "set_current", companyID, calendarScope, func(ctx context.Context) error {
		return uc.inTx(ctx, func(tx Transaction) error {
			fy, err := uc.lockYear(ctx, tx, companyID, id)
			if err != nil {
				return err
			}
			if err := fy.CanSetCurrent(); err != nil {
				return err
			}

			now := uc.opts.Now()
			if err := uc.repos.FiscalYears.UnsetCurrent(ctx, tx, companyID, now); err != nil {
				return domain.PersistError("unset current fiscal year", err)
			}

			before := *fy
			fy.IsCurrent = true
			fy.UpdatedAt = now

			if err := uc.record(ctx, tx, activity{
				companyID:  companyID,
				actor:      actor,
				action:     domain.AuditActionFiscalYearSetCurrent,
				resourceID: fy.ID,
				before:     before,
				after:      fy,
				eventType:  domain.EventTypeCurrentFiscalYearMoved,
				payload: map[string]any{
					"fiscal_year_id": fy.ID,
					"company_id":     companyID,
				},
			}); err != nil {
				return err
			}

			if err := uc.saveYear(ctx, tx, fy); err != nil {
				return err
			}
			result = fy
			return nil
		})
	})
	uc.metrics.ObserveOperation("set_current", started, err)
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Str("company_id", companyID).Str("fiscal_year_id", id).Msg("current fiscal year changed")

	return result, nil
}

// CloseFiscalYear zeroes revenue and expense accounts into retained earnings
// and marks the year closed. A year without revenue or expense activity is
// closed without an entry.
func (uc *FiscalYearUseCase) CloseFiscalYear(ctx context.Context, id, companyID, closedBy string) (*CloseOutcome, error) {
	started := time.Now()
	closedBy = actorOr(ctx, closedBy)

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	var outcome *CloseOutcome
	err := uc.withLock(ctx, "close", companyID, id, func(ctx context.Context) error {
		fy, err := uc.loadYear(ctx, companyID, id)
		if err != nil {
			return err
		}
		if err := fy.CanClose(); err != nil {
			return err
		}

		entry, income, err := uc.closingEntry(ctx, fy, closedBy)
		if err != nil {
			return err
		}

		return uc.inTx(ctx, func(tx Transaction) error {
			locked, err := uc.lockYear(ctx, tx, companyID, id)
			if err != nil {
				return err
			}
			if err := locked.CanClose(); err != nil {
				return err
			}
			before := *locked

			if entry != nil {
				if err := uc.postEntry(ctx, tx, entry); err != nil {
					return err
				}
			}
			locked.MarkClosed(entryID(entry), closedBy, uc.opts.Now())

			if err := uc.record(ctx, tx, activity{
				companyID:  companyID,
				actor:      closedBy,
				action:     domain.AuditActionFiscalYearClose,
				resourceID: id,
				before:     before,
				after:      locked,
				eventType:  domain.EventTypeFiscalYearClosed,
				payload: domain.FiscalYearClosedEvent{
					FiscalYearID:   id,
					CompanyID:      companyID,
					ClosingEntryID: locked.ClosingBalanceEntryID,
					NetIncome:      income.NetIncome.String(),
					ClosedBy:       closedBy,
				},
			}); err != nil {
				return err
			}

			if err := uc.saveYear(ctx, tx, locked); err != nil {
				return err
			}

			outcome = &CloseOutcome{FiscalYear: locked, ClosingEntry: entry, Income: income}
			return nil
		})
	})
	uc.metrics.ObserveOperation("close", started, err)
	if err != nil {
		uc.recordFailure(ctx, activity{companyID: companyID, actor: closedBy, action: domain.AuditActionFiscalYearClose, resourceID: id}, err)
		uc.logger.Error().Err(err).Str("company_id", companyID).Str("fiscal_year_id", id).Msg("close fiscal year failed")
		return nil, err
	}

	uc.observeEntry(outcome.ClosingEntry)
	uc.logger.Info().
		Str("company_id", companyID).
		Str("fiscal_year_id", id).
		Str("net_income", outcome.Income.NetIncome.String()).
		Bool("closing_entry", outcome.ClosingEntry != nil).
		Msg("fiscal year closed")

	return outcome, nil
}

// Close is CloseFiscalYear with a tagged result.
func (uc *FiscalYearUseCase) Close(ctx context.Context, id, companyID, closedBy string) CloseFiscalYearResult {
	return closeResult(uc.CloseFiscalYear(ctx, id, companyID, closedBy))
}

// OpenNewFiscalYear creates a new open and current fiscal year. With
// AutoCarryForward and a previous year, balance-sheet balances through the
// previous year's end are carried into an opening entry and available
// inventory is moved to the new year.
func (uc *FiscalYearUseCase) OpenNewFiscalYear(ctx context.Context, input OpenNewFiscalYearInput) (*OpenOutcome, error) {
	started := time.Now()

	fy, err := uc.newYear(input.CompanyID, input.Name, input.Notes, input.StartDate, input.EndDate, true)
	if err != nil {
		return nil, err
	}
	actor := actorOr(ctx, input.CreatedBy)

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	var outcome *OpenOutcome
	err = uc.withLock(ctx, "open", fy.CompanyID, calendarScope, func(ctx context.Context) error {
		var previous *domain.FiscalYear
		if input.PreviousYearID != nil && *input.PreviousYearID != "" {
			p, err := uc.loadYear(ctx, fy.CompanyID, *input.PreviousYearID)
			if err != nil {
				return err
			}
			if !p.EndDate.Before(fy.StartDate) {
				return fmt.Errorf("%w: previous fiscal year must end before %s", domain.ErrInvalidDateRange, fy.StartDate.Format(time.DateOnly))
			}
			previous = p
		}
		carry := input.AutoCarryForward && previous != nil

		var entry *domain.JournalEntry
		if carry {
			var err error
			entry, err = uc.openingEntry(ctx, fy, previous, actor)
			if err != nil {
				return err
			}
		}

		return uc.inTx(ctx, func(tx Transaction) error {
			fy.OpeningBalanceEntryID = nil

			if err := uc.ensureNoOverlap(ctx, tx, fy); err != nil {
				return err
			}
			if err := uc.repos.FiscalYears.UnsetCurrent(ctx, tx, fy.CompanyID, fy.UpdatedAt); err != nil {
				return domain.PersistError("unset current fiscal year", err)
			}
			if err := uc.repos.FiscalYears.Create(ctx, tx, fy); err != nil {
				return domain.PersistError("create fiscal year", err)
			}

			var moved int64
			if carry {
				if entry != nil {
					if err := uc.postEntry(ctx, tx, entry); err != nil {
						return err
					}
					fy.OpeningBalanceEntryID = entryID(entry)
				}

				n, err := uc.repos.Inventory.ReassignFiscalYear(ctx, tx, fy.CompanyID, previous.ID, fy.ID, domain.InventoryStatusAvailable)
				if err != nil {
					return domain.PersistError("carry forward inventory", err)
				}
				moved = n
			}

			var previousID *string
			if previous != nil {
				previousID = &previous.ID
			}
			if err := uc.record(ctx, tx, activity{
				companyID:  fy.CompanyID,
				actor:      actor,
				action:     domain.AuditActionFiscalYearOpen,
				resourceID: fy.ID,
				after:      fy,
				eventType:  domain.EventTypeFiscalYearOpened,
				payload: domain.FiscalYearOpenedEvent{
					FiscalYearID:     fy.ID,
					CompanyID:        fy.CompanyID,
					PreviousYearID:   previousID,
					OpeningEntryID:   fy.OpeningBalanceEntryID,
					AutoCarryForward: carry,
				},
			}); err != nil {
				return err
			}

			if fy.OpeningBalanceEntryID != nil {
				if err := uc.saveYear(ctx, tx, fy); err != nil {
					return err
				}
			}

			outcome = &OpenOutcome{FiscalYear: fy, OpeningEntry: entry, InventoryCount: moved}
			return nil
		})
	})
	uc.metrics.ObserveOperation("open", started, err)
	if err != nil {
		uc.recordFailure(ctx, activity{companyID: input.CompanyID, actor: actor, action: domain.AuditActionFiscalYearOpen, resourceID: fy.ID}, err)
		uc.logger.Error().Err(err).Str("company_id", input.CompanyID).Msg("open fiscal year failed")
		return nil, err
	}

	uc.observeEntry(outcome.OpeningEntry)
	if uc.metrics != nil && outcome.InventoryCount > 0 {
		uc.metrics.InventoryCarried.Add(float64(outcome.InventoryCount))
	}
	uc.logger.Info().
		Str("company_id", fy.CompanyID).
		Str("fiscal_year_id", fy.ID).
		Bool("opening_entry", outcome.OpeningEntry != nil).
		Int64("inventory_records", outcome.InventoryCount).
		Msg("fiscal year opened")

	return outcome, nil
}

// OpenNew is OpenNewFiscalYear with a tagged result.
func (uc *FiscalYearUseCase) OpenNew(ctx context.Context, input OpenNewFiscalYearInput) OpenNewFiscalYearResult {
	return openResult(uc.OpenNewFiscalYear(ctx, input))
}

// DeleteFiscalYear deletes an open fiscal year that has no journal entries.
func (uc *FiscalYearUseCase) DeleteFiscalYear(ctx context.Context, companyID, id string) error {
	started := time.Now()
	actor := ActorFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	err := uc.withLock(ctx, "delete", companyID, calendarScope, func(ctx context.Context) error {
		return uc.inTx(ctx, func(tx Transaction) error {
			fy, err := uc.lockYear(ctx, tx, companyID, id)
			if err != nil {
				return err
			}

			count, err := uc.repos.Journal.CountByFiscalYear(ctx, tx, id)
			if err != nil {
				return domain.FetchError("count journal entries", err)
			}
			if err := fy.CanDelete(count); err != nil {
				return err
			}

			if err := uc.record(ctx, tx, activity{
				companyID:  companyID,
				actor:      actor,
				action:     domain.AuditActionFiscalYearDelete,
				resourceID: id,
				before:     fy,
				eventType:  domain.EventTypeFiscalYearDeleted,
				payload: map[string]any{
					"fiscal_year_id": id,
					"company_id":     companyID,
					"name":           fy.Name,
				},
			}); err != nil {
				return err
			}

			if err := uc.repos.FiscalYears.Delete(ctx, tx, id); err != nil {
				return domain.PersistError("delete fiscal year", err)
			}
			return nil
		})
	})
	uc.metrics.ObserveOperation("delete", started, err)
	if err != nil {
		return err
	}

	uc.logger.Info().Str("company_id", companyID).Str("fiscal_year_id", id).Msg("fiscal year deleted")
	return nil
}

// ReopenFiscalYear returns a closed year to open, removing its closing entry.
func (uc *FiscalYearUseCase) ReopenFiscalYear(ctx context.Context, companyID, id, reason string) (*domain.FiscalYear, error) {
	started := time.Now()
	actor := ActorFromContext(ctx)

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reopen reason is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidateNotes(reason); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	var result *domain.FiscalYear
	err := uc.withLock(ctx, "reopen", companyID, id, func(ctx context.Context) error {
		return uc.inTx(ctx, func(tx Transaction) error {
			fy, err := uc.lockYear(ctx, tx, companyID, id)
			if err != nil {
				return err
			}
			if err := fy.CanReopen(); err != nil {
				return err
			}
			before := *fy

			removed := fy.ClosingBalanceEntryID
			if removed != nil {
				if err := uc.removeEntry(ctx, tx, *removed); err != nil {
					return err
				}
			}
			fy.MarkReopened(uc.opts.Now())

			if err := uc.record(ctx, tx, activity{
				companyID:  companyID,
				actor:      actor,
				action:     domain.AuditActionFiscalYearReopen,
				resourceID: id,
				before:     before,
				after:      fy,
				eventType:  domain.EventTypeFiscalYearReopened,
				payload: map[string]any{
					"fiscal_year_id":        id,
					"company_id":            companyID,
					"reason":                reason,
					"removed_closing_entry": removed,
					"reopened_by":           actor,
				},
			}); err != nil {
				return err
			}

			if err := uc.saveYear(ctx, tx, fy); err != nil {
				return err
			}
			result = fy
			return nil
		})
	})
	uc.metrics.ObserveOperation("reopen", started, err)
	if err != nil {
		uc.recordFailure(ctx, activity{companyID: companyID, actor: actor, action: domain.AuditActionFiscalYearReopen, resourceID: id}, err)
		return nil, err
	}

	uc.logger.Warn().
		Str("company_id", companyID).
		Str("fiscal_year_id", id).
		Str("reason", reason).
		Msg("fiscal year reopened")

	return result, nil
}

// GetFiscalYear returns a fiscal year of the company.
func (uc *FiscalYearUseCase) GetFiscalYear(ctx context.Context, companyID, id string) (*domain.FiscalYear, error) {
	return uc.loadYear(ctx, companyID, id)
}

// ListFiscalYears lists the company's fiscal years, newest first.
func (uc *FiscalYearUseCase) ListFiscalYears(ctx context.Context, companyID string, limit, offset int) ([]*domain.FiscalYear, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	years, err := uc.repos.FiscalYears.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, domain.FetchError("list fiscal years", err)
	}
	return years, nil
}

// GetCurrentFiscalYear returns the company's current fiscal year.
func (uc *FiscalYearUseCase) GetCurrentFiscalYear(ctx context.Context, companyID string) (*domain.FiscalYear, error) {
	fy, err := uc.repos.FiscalYears.GetCurrent(ctx, companyID)
	if err != nil {
		return nil, domain.FetchError("get current fiscal year", err)
	}
	return fy, nil
}
