package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openbooks/yearend/internal/adapter/http/dto"
	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/usecase"
)

// FiscalYearService defines the behavior needed by FiscalYearHandler.
type FiscalYearService interface {
	CreateFiscalYear(ctx context.Context, input usecase.CreateFiscalYearInput) (*domain.FiscalYear, error)
	GetFiscalYear(ctx context.Context, companyID, id string) (*domain.FiscalYear, error)
	ListFiscalYears(ctx context.Context, companyID string, limit, offset int) ([]*domain.FiscalYear, error)
	GetCurrentFiscalYear(ctx context.Context, companyID string) (*domain.FiscalYear, error)
	SetCurrentFiscalYear(ctx context.Context, companyID, id string) (*domain.FiscalYear, error)
	DeleteFiscalYear(ctx context.Context, companyID, id string) error
	ReopenFiscalYear(ctx context.Context, companyID, id, reason string) (*domain.FiscalYear, error)
	Close(ctx context.Context, id, companyID, closedBy string) usecase.CloseFiscalYearResult
	OpenNew(ctx context.Context, input usecase.OpenNewFiscalYearInput) usecase.OpenNewFiscalYearResult
}

// CarryForwardService defines the carry-forward behavior the HTTP layer needs.
type CarryForwardService interface {
	RefreshAllCarryForwardBalances(ctx context.Context, fiscalYearID, previousYearID, companyID string) usecase.RefreshCarryForwardResult
	CarryForwardInventory(ctx context.Context, fromYearID, toYearID, companyID string) usecase.CarryForwardInventoryResult
}

// FiscalYearHandler handles fiscal year HTTP requests.
type FiscalYearHandler struct {
	yearsUC FiscalYearService
	carryUC CarryForwardService
}

// NewFiscalYearHandler creates a new FiscalYearHandler.
func NewFiscalYearHandler(yearsUC FiscalYearService, carryUC CarryForwardService) *FiscalYearHandler {
	return &FiscalYearHandler{yearsUC: yearsUC, carryUC: carryUC}
}

// List lists the company's fiscal years.
func (h *FiscalYearHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	years, err := h.yearsUC.ListFiscalYears(r.Context(), chi.URLParam(r, "companyID"), limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list fiscal years", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FiscalYearsFromDomain(years))
}

// Create creates a fiscal year without carrying balances.
func (h *FiscalYearHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFiscalYearRequest
	if err := decodeRequest(r, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "companyID"), usecase.ActorFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	fy, err := h.yearsUC.CreateFiscalYear(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create fiscal year", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FiscalYearFromDomain(fy))
}

// Current returns the company's current fiscal year.
func (h *FiscalYearHandler) Current(w http.ResponseWriter, r *http.Request) {
	fy, err := h.yearsUC.GetCurrentFiscalYear(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		writeDomainError(w, "failed to get current fiscal year", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FiscalYearFromDomain(fy))
}

// Open opens the next fiscal year, optionally carrying balances forward.
func (h *FiscalYearHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenFiscalYearRequest
	if err := decodeRequest(r, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "companyID"), usecase.ActorFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	res := h.yearsUC.OpenNew(r.Context(), input)
	writeTagged(w, http.StatusCreated, res.Success, res.Err, res)
}

// Get retrieves a fiscal year by ID.
func (h *FiscalYearHandler) Get(w http.ResponseWriter, r *http.Request) {
	fy, err := h.yearsUC.GetFiscalYear(r.Context(), chi.URLParam(r, "companyID"), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get fiscal year", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FiscalYearFromDomain(fy))
}

// Delete deletes an open fiscal year without entries.
func (h *FiscalYearHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.yearsUC.DeleteFiscalYear(r.Context(), chi.URLParam(r, "companyID"), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete fiscal year", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetCurrent marks a fiscal year as the company's current one.
func (h *FiscalYearHandler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	fy, err := h.yearsUC.SetCurrentFiscalYear(r.Context(), chi.URLParam(r, "companyID"), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to set current fiscal year", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FiscalYearFromDomain(fy))
}

// Close closes a fiscal year and books its closing entry.
func (h *FiscalYearHandler) Close(w http.ResponseWriter, r *http.Request) {
	res := h.yearsUC.Close(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "companyID"), usecase.ActorFromContext(r.Context()))
	writeTagged(w, http.StatusOK, res.Success, res.Err, res)
}

// Reopen returns a closed fiscal year to open.
func (h *FiscalYearHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	var req dto.ReopenFiscalYearRequest
	if err := decodeRequest(r, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	fy, err := h.yearsUC.ReopenFiscalYear(r.Context(), chi.URLParam(r, "companyID"), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeDomainError(w, "failed to reopen fiscal year", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FiscalYearFromDomain(fy))
}

// Refresh regenerates the year's opening balances from the previous year.
func (h *FiscalYearHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshCarryForwardRequest
	if err := decodeRequest(r, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	res := h.carryUC.RefreshAllCarryForwardBalances(r.Context(), chi.URLParam(r, "id"), req.PreviousYearID, chi.URLParam(r, "companyID"))
	writeTagged(w, http.StatusOK, res.Success, res.Err, res)
}

// CarryForwardInventory moves available inventory between fiscal years.
func (h *FiscalYearHandler) CarryForwardInventory(w http.ResponseWriter, r *http.Request) {
	var req dto.CarryForwardInventoryRequest
	if err := decodeRequest(r, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	res := h.carryUC.CarryForwardInventory(r.Context(), req.FromYearID, req.ToYearID, chi.URLParam(r, "companyID"))
	writeTagged(w, http.StatusOK, res.Success, res.Err, res)
}

// writeTagged renders a tagged result with okStatus on success or the
// status of its error kind on failure.
func writeTagged(w http.ResponseWriter, okStatus int, success bool, err error, res any) {
	status := okStatus
	if !success {
		status = mapDomainError(err)
	}
	writeJSON(w, status, res)
}
