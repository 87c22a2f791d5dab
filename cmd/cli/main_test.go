package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type capturedRequest struct {
	method string
	path   string
	actor  string
	body   map[string]any
}

func newAPI(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.actor = r.Header.Get("X-User-ID")
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &captured.body); err != nil {
				t.Errorf("invalid request body %q: %v", raw, err)
			}
		}
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCloseCommand(t *testing.T) {
	srv, captured := newAPI(t, http.StatusOK, `{"success":true,"closing_entry_id":"je-1"}`)

	out, err := run(t, "--url", srv.URL, "--company", "co-1", "--as", "user-1", "close", "fy-2024")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if captured.method != http.MethodPost || captured.path != "/api/v1/companies/co-1/fiscal-years/fy-2024/close" {
		t.Fatalf("unexpected request %s %s", captured.method, captured.path)
	}
	if captured.actor != "user-1" {
		t.Fatalf("expected actor header, got %q", captured.actor)
	}
	if !strings.Contains(out, `"closing_entry_id": "je-1"`) {
		t.Fatalf("expected pretty-printed response, got %q", out)
	}
}

func TestOpenCommandSendsBody(t *testing.T) {
	srv, captured := newAPI(t, http.StatusCreated, `{"success":true}`)

	_, err := run(t, "--url", srv.URL, "--company", "co-1", "open",
		"--name", "FY2025", "--start", "2025-01-01", "--end", "2025-12-31", "--previous", "fy-2024")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if captured.path != "/api/v1/companies/co-1/fiscal-years/open" {
		t.Fatalf("unexpected path %s", captured.path)
	}
	if captured.body["previous_year_id"] != "fy-2024" || captured.body["auto_carry_forward"] != true {
		t.Fatalf("unexpected body %v", captured.body)
	}
}

func TestRefreshAndInventoryCommands(t *testing.T) {
	srv, captured := newAPI(t, http.StatusOK, `{"success":true}`)

	if _, err := run(t, "--url", srv.URL, "--company", "co-1", "refresh", "fy-2025", "--previous", "fy-2024"); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if captured.path != "/api/v1/companies/co-1/fiscal-years/fy-2025/refresh" || captured.body["previous_year_id"] != "fy-2024" {
		t.Fatalf("unexpected refresh request %s %v", captured.path, captured.body)
	}

	if _, err := run(t, "--url", srv.URL, "--company", "co-1", "inventory", "--from", "fy-2024", "--to", "fy-2025"); err != nil {
		t.Fatalf("inventory failed: %v", err)
	}
	if captured.path != "/api/v1/companies/co-1/inventory/carry-forward" || captured.body["to_year_id"] != "fy-2025" {
		t.Fatalf("unexpected inventory request %s %v", captured.path, captured.body)
	}
}

func TestConsistencyCommandFailsOnConflict(t *testing.T) {
	srv, captured := newAPI(t, http.StatusConflict, `{"status":"inconsistent","consistent":false}`)

	out, err := run(t, "--url", srv.URL, "--company", "co-1", "consistency")
	if err == nil {
		t.Fatal("expected error for inconsistent ledger")
	}
	if captured.method != http.MethodGet {
		t.Fatalf("expected GET, got %s", captured.method)
	}
	if !strings.Contains(out, "inconsistent") {
		t.Fatalf("expected response body to be printed, got %q", out)
	}
}

func TestCompanyIsRequired(t *testing.T) {
	if _, err := run(t, "close", "fy-2024"); err == nil {
		t.Fatal("expected error without --company")
	}
}

func TestPrintJSONFallsBackToRaw(t *testing.T) {
	var buf bytes.Buffer
	printJSON(&buf, []byte("rate limit exceeded\n"))

	if buf.String() != "rate limit exceeded\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
