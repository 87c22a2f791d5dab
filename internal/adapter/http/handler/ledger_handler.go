package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openbooks/yearend/internal/adapter/http/dto"
	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	Balances(ctx context.Context, companyID string, window domain.DateWindow) (*usecase.BalanceReport, error)
	CheckConsistency(ctx context.Context, companyID string) (*usecase.ConsistencyReport, error)
}

// LedgerHandler handles ledger-wide read operations.
type LedgerHandler struct {
	ledgerUC LedgerService
	now      func() time.Time
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, now: time.Now}
}

// Balances reports per-account balances over ?from=&to=. A missing to
// defaults to today; a missing from reads from the beginning of the ledger.
func (h *LedgerHandler) Balances(w http.ResponseWriter, r *http.Request) {
	window, err := h.window(r)
	if err != nil {
		writeDomainError(w, "invalid date window", err)
		return
	}

	report, err := h.ledgerUC.Balances(r.Context(), chi.URLParam(r, "companyID"), window)
	if err != nil {
		writeDomainError(w, "failed to compute balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceReportFromUseCase(window, report))
}

func (h *LedgerHandler) window(r *http.Request) (domain.DateWindow, error) {
	q := r.URL.Query()

	now := h.now().UTC()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if s := q.Get("to"); s != "" {
		parsed, err := dto.ParseDate(s)
		if err != nil {
			return domain.DateWindow{}, err
		}
		to = parsed
	}

	s := q.Get("from")
	if s == "" {
		return domain.Through(to), nil
	}
	from, err := dto.ParseDate(s)
	if err != nil {
		return domain.DateWindow{}, err
	}
	return domain.Between(from, to), nil
}

// CheckConsistency checks if the company ledger is balanced.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		if errors.Is(err, usecase.ErrInconsistentLedger) && report != nil {
			writeJSON(w, http.StatusConflict, dto.ConsistencyFromUseCase(report))
			return
		}
		writeDomainError(w, "failed to check consistency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromUseCase(report))
}
