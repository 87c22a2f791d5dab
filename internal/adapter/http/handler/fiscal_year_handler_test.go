package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/openbooks/yearend/internal/adapter/http/dto"
	"github.com/openbooks/yearend/internal/domain"
	"github.com/openbooks/yearend/internal/usecase"
)

type fiscalYearServiceStub struct {
	createFn     func(ctx context.Context, input usecase.CreateFiscalYearInput) (*domain.FiscalYear, error)
	getFn        func(ctx context.Context, companyID, id string) (*domain.FiscalYear, error)
	listFn       func(ctx context.Context, companyID string, limit, offset int) ([]*domain.FiscalYear, error)
	currentFn    func(ctx context.Context, companyID string) (*domain.FiscalYear, error)
	setCurrentFn func(ctx context.Context, companyID, id string) (*domain.FiscalYear, error)
	deleteFn     func(ctx context.Context, companyID, id string) error
	reopenFn     func(ctx context.Context, companyID, id, reason string) (*domain.FiscalYear, error)
	closeFn      func(ctx context.Context, id, companyID, closedBy string) usecase.CloseFiscalYearResult
	openFn       func(ctx context.Context, input usecase.OpenNewFiscalYearInput) usecase.OpenNewFiscalYearResult
}

func (s *fiscalYearServiceStub) CreateFiscalYear(ctx context.Context, input usecase.CreateFiscalYearInput) (*domain.FiscalYear, error) {
	return s.createFn(ctx, input)
}

func (s *fiscalYearServiceStub) GetFiscalYear(ctx context.Context, companyID, id string) (*domain.FiscalYear, error) {
	return s.getFn(ctx, companyID, id)
}

func (s *fiscalYearServiceStub) ListFiscalYears(ctx context.Context, companyID string, limit, offset int) ([]*domain.FiscalYear, error) {
	return s.listFn(ctx, companyID, limit, offset)
}

func (s *fiscalYearServiceStub) GetCurrentFiscalYear(ctx context.Context, companyID string) (*domain.FiscalYear, error) {
	return s.currentFn(ctx, companyID)
}

func (s *fiscalYearServiceStub) SetCurrentFiscalYear(ctx context.Context, companyID, id string) (*domain.FiscalYear, error) {
	return s.setCurrentFn(ctx, companyID, id)
}

func (s *fiscalYearServiceStub) DeleteFiscalYear(ctx context.Context, companyID, id string) error {
	return s.deleteFn(ctx, companyID, id)
}

func (s *fiscalYearServiceStub) ReopenFiscalYear(ctx context.Context, companyID, id, reason string) (*domain.FiscalYear, error) {
	return s.reopenFn(ctx, companyID, id, reason)
}

func (s *fiscalYearServiceStub) Close(ctx context.Context, id, companyID, closedBy string) usecase.CloseFiscalYearResult {
	return s.closeFn(ctx, id, companyID, closedBy)
}

func (s *fiscalYearServiceStub) OpenNew(ctx context.Context, input usecase.OpenNewFiscalYearInput) usecase.OpenNewFiscalYearResult {
	return s.openFn(ctx, input)
}

type carryForwardServiceStub struct {
	refreshFn   func(ctx context.Context, fiscalYearID, previousYearID, companyID string) usecase.RefreshCarryForwardResult
	inventoryFn func(ctx context.Context, fromYearID, toYearID, companyID string) usecase.CarryForwardInventoryResult
}

func (s *carryForwardServiceStub) RefreshAllCarryForwardBalances(ctx context.Context, fiscalYearID, previousYearID, companyID string) usecase.RefreshCarryForwardResult {
	return s.refreshFn(ctx, fiscalYearID, previousYearID, companyID)
}

func (s *carryForwardServiceStub) CarryForwardInventory(ctx context.Context, fromYearID, toYearID, companyID string) usecase.CarryForwardInventoryResult {
	return s.inventoryFn(ctx, fromYearID, toYearID, companyID)
}

func sampleYear() *domain.FiscalYear {
	return &domain.FiscalYear{
		ID:        "fy-2024",
		CompanyID: "co-1",
		Name:      "FY2024",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.FiscalYearStatusOpen,
		IsCurrent: true,
	}
}

// serve routes req through a chi router so URL params resolve.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}
	return bytes.NewReader(b)
}

func TestFiscalYearHandler_Create(t *testing.T) {
	var captured usecase.CreateFiscalYearInput
	h := NewFiscalYearHandler(&fiscalYearServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateFiscalYearInput) (*domain.FiscalYear, error) {
			captured = input
			return sampleYear(), nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/companies/co-1/fiscal-years", jsonBody(t, dto.CreateFiscalYearRequest{
		Name:      "FY2024",
		StartDate: "2024-01-01",
		EndDate:   "2024-12-31",
		IsCurrent: true,
	}))
	req = req.WithContext(usecase.WithActor(req.Context(), "user-1"))
	rec := serve(http.MethodPost, "/companies/{companyID}/fiscal-years", h.Create, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.CompanyID != "co-1" || captured.CreatedBy != "user-1" || !captured.IsCurrent {
		t.Fatalf("unexpected input %+v", captured)
	}
	if !captured.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start date %v", captured.StartDate)
	}

	var resp dto.FiscalYearResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "fy-2024" || resp.StartDate != "2024-01-01" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestFiscalYearHandler_CreateRejectsInvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: "{invalid"},
		{name: "missing name", body: `{"start_date":"2024-01-01","end_date":"2024-12-31"}`},
		{name: "bad date", body: `{"name":"FY","start_date":"01/01/2024","end_date":"2024-12-31"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewFiscalYearHandler(&fiscalYearServiceStub{
				createFn: func(ctx context.Context, input usecase.CreateFiscalYearInput) (*domain.FiscalYear, error) {
					t.Fatal("CreateFiscalYear should not be called for invalid payload")
					return nil, nil
				},
			}, nil)

			req := httptest.NewRequest(http.MethodPost, "/companies/co-1/fiscal-years", bytes.NewBufferString(tt.body))
			rec := serve(http.MethodPost, "/companies/{companyID}/fiscal-years", h.Create, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestFiscalYearHandler_GetMapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "found", status: http.StatusOK},
		{name: "not found", err: domain.ErrFiscalYearNotFound, status: http.StatusNotFound},
		{name: "fetch failure", err: domain.FetchError("get", errors.New("timeout")), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewFiscalYearHandler(&fiscalYearServiceStub{
				getFn: func(ctx context.Context, companyID, id string) (*domain.FiscalYear, error) {
					if companyID != "co-1" || id != "fy-2024" {
						t.Fatalf("unexpected params %s/%s", companyID, id)
					}
					if tt.err != nil {
						return nil, tt.err
					}
					return sampleYear(), nil
				},
			}, nil)

			req := httptest.NewRequest(http.MethodGet, "/companies/co-1/fiscal-years/fy-2024", nil)
			rec := serve(http.MethodGet, "/companies/{companyID}/fiscal-years/{id}", h.Get, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestFiscalYearHandler_ListUsesPagination(t *testing.T) {
	h := NewFiscalYearHandler(&fiscalYearServiceStub{
		listFn: func(ctx context.Context, companyID string, limit, offset int) ([]*domain.FiscalYear, error) {
			if limit != 5 || offset != 10 {
				t.Fatalf("expected limit=5 offset=10, got %d/%d", limit, offset)
			}
			return []*domain.FiscalYear{sampleYear()}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/companies/co-1/fiscal-years?limit=5&offset=10", nil)
	rec := serve(http.MethodGet, "/companies/{companyID}/fiscal-years", h.List, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp []dto.FiscalYearResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || len(resp) != 1 {
		t.Fatalf("unexpected response %s (%v)", rec.Body.String(), err)
	}
}

func TestFiscalYearHandler_Close(t *testing.T) {
	entryID := "je-1"
	net := decimal.NewFromInt(6000)

	tests := []struct {
		name   string
		result usecase.CloseFiscalYearResult
		status int
	}{
		{
			name:   "success",
			result: usecase.CloseFiscalYearResult{Success: true, ClosingEntryID: &entryID, NetIncome: &net},
			status: http.StatusOK,
		},
		{
			name:   "already closed",
			result: usecase.CloseFiscalYearResult{Error: domain.ErrFiscalYearClosed.Error(), Err: domain.ErrFiscalYearClosed},
			status: http.StatusConflict,
		},
		{
			name:   "busy",
			result: usecase.CloseFiscalYearResult{Error: domain.ErrOperationInProgress.Error(), Err: domain.ErrOperationInProgress},
			status: http.StatusConflict,
		},
		{
			name:   "retained earnings missing",
			result: usecase.CloseFiscalYearResult{Error: domain.ErrRetainedEarningsNotConfigured.Error(), Err: domain.ErrRetainedEarningsNotConfigured},
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var closedBy string
			h := NewFiscalYearHandler(&fiscalYearServiceStub{
				closeFn: func(ctx context.Context, id, companyID, by string) usecase.CloseFiscalYearResult {
					closedBy = by
					return tt.result
				},
			}, nil)

			req := httptest.NewRequest(http.MethodPost, "/companies/co-1/fiscal-years/fy-2024/close", nil)
			req = req.WithContext(usecase.WithActor(req.Context(), "user-9"))
			rec := serve(http.MethodPost, "/companies/{companyID}/fiscal-years/{id}/close", h.Close, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if closedBy != "user-9" {
				t.Fatalf("expected actor user-9, got %q", closedBy)
			}

			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body["success"] != tt.result.Success {
				t.Fatalf("expected success=%v, got %v", tt.result.Success, body)
			}
			if !tt.result.Success && body["error"] == "" {
				t.Fatalf("expected error message, got %v", body)
			}
		})
	}
}

func TestFiscalYearHandler_Open(t *testing.T) {
	fyID, entryID := "fy-2025", "je-2"
	var captured usecase.OpenNewFiscalYearInput
	h := NewFiscalYearHandler(&fiscalYearServiceStub{
		openFn: func(ctx context.Context, input usecase.OpenNewFiscalYearInput) usecase.OpenNewFiscalYearResult {
			captured = input
			return usecase.OpenNewFiscalYearResult{Success: true, FiscalYearID: &fyID, OpeningEntryID: &entryID}
		},
	}, nil)

	prev := "fy-2024"
	req := httptest.NewRequest(http.MethodPost, "/companies/co-1/fiscal-years/open", jsonBody(t, dto.OpenFiscalYearRequest{
		Name:             "FY2025",
		StartDate:        "2025-01-01",
		EndDate:          "2025-12-31",
		PreviousYearID:   &prev,
		AutoCarryForward: true,
	}))
	rec := serve(http.MethodPost, "/companies/{companyID}/fiscal-years/open", h.Open, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.PreviousYearID == nil || *captured.PreviousYearID != "fy-2024" || !captured.AutoCarryForward {
		t.Fatalf("unexpected input %+v", captured)
	}
	if captured.CreatedBy != usecase.SystemUser {
		t.Fatalf("expected system actor, got %q", captured.CreatedBy)
	}
}

func TestFiscalYearHandler_OpenFailure(t *testing.T) {
	h := NewFiscalYearHandler(&fiscalYearServiceStub{
		openFn: func(ctx context.Context, input usecase.OpenNewFiscalYearInput) usecase.OpenNewFiscalYearResult {
			return usecase.OpenNewFiscalYearResult{Error: domain.ErrFiscalYearOverlap.Error(), Err: domain.ErrFiscalYearOverlap}
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/companies/co-1/fiscal-years/open",
		bytes.NewBufferString(`{"name":"FY2025","start_date":"2025-01-01","end_date":"2025-12-31"}`))
	rec := serve(http.MethodPost, "/companies/{companyID}/fiscal-years/open", h.Open, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestFiscalYearHandler_DeleteAndSetCurrent(t *testing.T) {
	h := NewFiscalYearHandler(&fiscalYearServiceStub{
		deleteFn: func(ctx context.Context, companyID, id string) error {
			if id == "fy-busy" {
				return domain.ErrFiscalYearHasEntries
			}
			return nil
		},
		setCurrentFn: func(ctx context.Context, companyID, id string) (*domain.FiscalYear, error) {
			return sampleYear(), nil
		},
	}, nil)

	rec := serve(http.MethodDelete, "/companies/{companyID}/fiscal-years/{id}", h.Delete,
		httptest.NewRequest(http.MethodDelete, "/companies/co-1/fiscal-years/fy-2024", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = serve(http.MethodDelete, "/companies/{companyID}/fiscal-years/{id}", h.Delete,
		httptest.NewRequest(http.MethodDelete, "/companies/co-1/fiscal-years/fy-busy", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	rec = serve(http.MethodPost, "/companies/{companyID}/fiscal-years/{id}/current", h.SetCurrent,
		httptest.NewRequest(http.MethodPost, "/companies/co-1/fiscal-years/fy-2024/current", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestFiscalYearHandler_Reopen(t *testing.T) {
	var reason string
	h := NewFiscalYearHandler(&fiscalYearServiceStub{
		reopenFn: func(ctx context.Context, companyID, id, r string) (*domain.FiscalYear, error) {
			reason = r
			return sampleYear(), nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/companies/co-1/fiscal-years/fy-2024/reopen", bytes.NewBufferString(`{"reason":"late invoice"}`))
	rec := serve(http.MethodPost, "/companies/{companyID}/fiscal-years/{id}/reopen", h.Reopen, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if reason != "late invoice" {
		t.Fatalf("expected reason to be forwarded, got %q", reason)
	}

	req = httptest.NewRequest(http.MethodPost, "/companies/co-1/fiscal-years/fy-2024/reopen", bytes.NewBufferString(`{}`))
	rec = serve(http.MethodPost, "/companies/{companyID}/fiscal-years/{id}/reopen", h.Reopen, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without reason, got %d", rec.Code)
	}
}

func TestFiscalYearHandler_Refresh(t *testing.T) {
	var gotTarget, gotPrevious, gotCompany string
	entryID := "je-3"
	h := NewFiscalYearHandler(nil, &carryForwardServiceStub{
		refreshFn: func(ctx context.Context, fiscalYearID, previousYearID, companyID string) usecase.RefreshCarryForwardResult {
			gotTarget, gotPrevious, gotCompany = fiscalYearID, previousYearID, companyID
			return usecase.RefreshCarryForwardResult{Success: true, OpeningBalancesUpdated: true, OpeningEntryID: &entryID}
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/companies/co-1/fiscal-years/fy-2025/refresh", bytes.NewBufferString(`{"previous_year_id":"fy-2024"}`))
	rec := serve(http.MethodPost, "/companies/{companyID}/fiscal-years/{id}/refresh", h.Refresh, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotTarget != "fy-2025" || gotPrevious != "fy-2024" || gotCompany != "co-1" {
		t.Fatalf("unexpected arguments %s %s %s", gotTarget, gotPrevious, gotCompany)
	}
}

func TestFiscalYearHandler_CarryForwardInventory(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		result usecase.CarryForwardInventoryResult
		status int
	}{
		{
			name:   "moved",
			body:   `{"from_year_id":"fy-2024","to_year_id":"fy-2025"}`,
			result: usecase.CarryForwardInventoryResult{Success: true},
			status: http.StatusOK,
		},
		{
			name:   "closed target",
			body:   `{"from_year_id":"fy-2024","to_year_id":"fy-2025"}`,
			result: usecase.CarryForwardInventoryResult{Error: "closed", Err: domain.ErrFiscalYearClosed},
			status: http.StatusConflict,
		},
		{
			name:   "same year",
			body:   `{"from_year_id":"fy-2024","to_year_id":"fy-2024"}`,
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewFiscalYearHandler(nil, &carryForwardServiceStub{
				inventoryFn: func(ctx context.Context, fromYearID, toYearID, companyID string) usecase.CarryForwardInventoryResult {
					return tt.result
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/companies/co-1/inventory/carry-forward", bytes.NewBufferString(tt.body))
			rec := serve(http.MethodPost, "/companies/{companyID}/inventory/carry-forward", h.CarryForwardInventory, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}
