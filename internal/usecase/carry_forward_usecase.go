package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/infrastructure/metrics"
)

// CarryForwardUseCase regenerates opening balances and moves inventory
// between fiscal years.
type CarryForwardUseCase struct {
	*engine
}

// NewCarryForwardUseCase creates a new CarryForwardUseCase.
func NewCarryForwardUseCase(
	txManager TransactionManager,
	repos Repositories,
	locker Locker,
	retrier Retrier,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger zerolog.Logger,
	opts Options,
) *CarryForwardUseCase {
	return &CarryForwardUseCase{
		engine: newEngine(txManager, repos, locker, retrier, idGen, m, logger.With().Str("component", "carry_forward").Logger(), opts),
	}
}

func (uc *CarryForwardUseCase) yearPair(ctx context.Context, companyID, targetID, sourceID string) (target, source *domain.FiscalYear, err error) {
	if sourceID == "" {
		return nil, nil, domain.ErrPreviousYearRequired
	}
	if targetID == sourceID {
		return nil, nil, domain.ErrSameFiscalYear
	}

	target, err = uc.loadYear(ctx, companyID, targetID)
	if err != nil {
		return nil, nil, err
	}
	if !target.IsOpen() {
		return nil, nil, domain.ErrFiscalYearClosed
	}

	source, err = uc.loadYear(ctx, companyID, sourceID)
	if err != nil {
		return nil, nil, err
	}
	return target, source, nil
}

// RefreshCarryForward replaces the opening entry of a fiscal year with one
// regenerated from the ledger through the previous year's end. Available
// inventory moves and the partner roll-forward hooks run in the same
// transaction. Running it again on an unchanged ledger yields the same
// opening entry.
func (uc *CarryForwardUseCase) RefreshCarryForward(ctx context.Context, companyID, fiscalYearID, previousYearID string) (*RefreshOutcome, error) {
	started := time.Now()
	actor := ActorFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	var outcome *RefreshOutcome
	err := uc.withLock(ctx, "refresh", companyID, fiscalYearID, func(ctx context.Context) error {
		target, previous, err := uc.yearPair(ctx, companyID, fiscalYearID, previousYearID)
		if err != nil {
			return err
		}
		if !previous.EndDate.Before(target.StartDate) {
			return fmt.Errorf("%w: previous fiscal year must end before %s", domain.ErrInvalidDateRange, target.StartDate.Format(time.DateOnly))
		}

		entry, err := uc.openingEntry(ctx, target, previous, actor)
		if err != nil {
			return err
		}

		err = uc.inTx(ctx, func(tx Transaction) error {
			locked, err := uc.lockYear(ctx, tx, companyID, fiscalYearID)
			if err != nil {
				return err
			}
			if !locked.IsOpen() {
				return domain.ErrFiscalYearClosed
			}
			before := *locked

			replaced := locked.OpeningBalanceEntryID
			if replaced != nil {
				if err := uc.removeEntry(ctx, tx, *replaced); err != nil {
					return err
				}
			}

			locked.OpeningBalanceEntryID = nil
			if entry != nil {
				if err := uc.postEntry(ctx, tx, entry); err != nil {
					return err
				}
				locked.OpeningBalanceEntryID = entryID(entry)
			}

			moved, err := uc.repos.Inventory.ReassignFiscalYear(ctx, tx, companyID, previous.ID, locked.ID, domain.InventoryStatusAvailable)
			if err != nil {
				return domain.PersistError("carry forward inventory", err)
			}

			customers, suppliers, err := uc.rollForwardPartners(ctx, companyID)
			if err != nil {
				return err
			}

			totalDebit := "0"
			if entry != nil {
				totalDebit = entry.TotalDebit.String()
			}
			if err := uc.record(ctx, tx, activity{
				companyID:  companyID,
				actor:      actor,
				action:     domain.AuditActionFiscalYearRefresh,
				resourceID: locked.ID,
				before:     before,
				after:      locked,
				eventType:  domain.EventTypeCarryForwardRefreshed,
				payload: domain.CarryForwardRefreshedEvent{
					FiscalYearID:      locked.ID,
					PreviousYearID:    previous.ID,
					CompanyID:         companyID,
					OpeningEntryID:    locked.OpeningBalanceEntryID,
					ReplacedEntryID:   replaced,
					OpeningLines:      lineCount(entry),
					InventoryRecords:  moved,
					OpeningTotalDebit: totalDebit,
				},
			}); err != nil {
				return err
			}

			locked.UpdatedAt = uc.opts.Now()
			if err := uc.saveYear(ctx, tx, locked); err != nil {
				return err
			}

			outcome = &RefreshOutcome{
				FiscalYear:      locked,
				OpeningEntry:    entry,
				ReplacedEntryID: replaced,
				InventoryCount:  moved,
				CustomerCount:   customers,
				SupplierCount:   suppliers,
			}
			return nil
		})
		return err
	})
	uc.metrics.ObserveOperation("refresh", started, err)
	if err != nil {
		uc.recordFailure(ctx, activity{companyID: companyID, actor: actor, action: domain.AuditActionFiscalYearRefresh, resourceID: fiscalYearID}, err)
		uc.logger.Error().Err(err).
			Str("company_id", companyID).
			Str("fiscal_year_id", fiscalYearID).
			Str("previous_year_id", previousYearID).
			Msg("refresh carry-forward failed")
		return nil, err
	}

	uc.observeEntry(outcome.OpeningEntry)
	if uc.metrics != nil && outcome.InventoryCount > 0 {
		uc.metrics.InventoryCarried.Add(float64(outcome.InventoryCount))
	}
	uc.logger.Info().
		Str("company_id", companyID).
		Str("fiscal_year_id", fiscalYearID).
		Str("previous_year_id", previousYearID).
		Bool("opening_entry", outcome.OpeningEntry != nil).
		Bool("replaced", outcome.ReplacedEntryID != nil).
		Int64("inventory_records", outcome.InventoryCount).
		Msg("carry-forward balances refreshed")

	return outcome, nil
}

// RefreshAllCarryForwardBalances is RefreshCarryForward with a tagged result.
func (uc *CarryForwardUseCase) RefreshAllCarryForwardBalances(ctx context.Context, fiscalYearID, previousYearID, companyID string) RefreshCarryForwardResult {
	return refreshResult(uc.RefreshCarryForward(ctx, companyID, fiscalYearID, previousYearID))
}

// MoveInventory reassigns available inventory records from one fiscal year
// to another and returns how many moved.
func (uc *CarryForwardUseCase) MoveInventory(ctx context.Context, companyID, fromYearID, toYearID string) (int64, error) {
	started := time.Now()
	actor := ActorFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	var moved int64
	err := uc.withLock(ctx, "inventory", companyID, toYearID, func(ctx context.Context) error {
		if _, _, err := uc.yearPair(ctx, companyID, toYearID, fromYearID); err != nil {
			return err
		}

		return uc.inTx(ctx, func(tx Transaction) error {
			n, err := uc.repos.Inventory.ReassignFiscalYear(ctx, tx, companyID, fromYearID, toYearID, domain.InventoryStatusAvailable)
			if err != nil {
				return domain.PersistError("carry forward inventory", err)
			}

			if err := uc.record(ctx, tx, activity{
				companyID:  companyID,
				actor:      actor,
				action:     domain.AuditActionInventoryCarry,
				resourceID: toYearID,
				after:      map[string]any{"from_fiscal_year_id": fromYearID, "count": n},
				eventType:  domain.EventTypeInventoryCarriedFwd,
				payload: map[string]any{
					"from_fiscal_year_id": fromYearID,
					"to_fiscal_year_id":   toYearID,
					"company_id":          companyID,
					"count":               n,
				},
			}); err != nil {
				return err
			}

			moved = n
			return nil
		})
	})
	uc.metrics.ObserveOperation("inventory", started, err)
	if err != nil {
		return 0, err
	}

	if uc.metrics != nil && moved > 0 {
		uc.metrics.InventoryCarried.Add(float64(moved))
	}
	uc.logger.Info().
		Str("company_id", companyID).
		Str("from_fiscal_year_id", fromYearID).
		Str("to_fiscal_year_id", toYearID).
		Int64("count", moved).
		Msg("inventory carried forward")

	return moved, nil
}

// CarryForwardInventory is MoveInventory with a tagged result.
func (uc *CarryForwardUseCase) CarryForwardInventory(ctx context.Context, fromYearID, toYearID, companyID string) CarryForwardInventoryResult {
	return inventoryResult(uc.MoveInventory(ctx, companyID, fromYearID, toYearID))
}

// rollForwardPartners reports how many customer and supplier balances would
// roll forward. It posts nothing.
// TODO: post customer_balance_forward and supplier_balance_forward entries once
// the partner roll-forward rules are agreed with accounting.
func (uc *CarryForwardUseCase) rollForwardPartners(ctx context.Context, companyID string) (customers, suppliers int64, err error) {
	if uc.repos.Partners == nil {
		return 0, 0, nil
	}

	customers, err = uc.repos.Partners.CountCustomers(ctx, companyID)
	if err != nil {
		return 0, 0, domain.FetchError("count customers", err)
	}
	suppliers, err = uc.repos.Partners.CountSuppliers(ctx, companyID)
	if err != nil {
		return 0, 0, domain.FetchError("count suppliers", err)
	}

	uc.logger.Debug().
		Str("company_id", companyID).
		Int64("customers", customers).
		Int64("suppliers", suppliers).
		Msg("partner balances left unchanged")

	return customers, suppliers, nil
}

func lineCount(entry *domain.JournalEntry) int {
	if entry == nil {
		return 0
	}
	return len(entry.Lines)
}
