package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const sampleDraft = `{
  "id": "d1",
  "value_date": "2026-10-15",
  "narration": "call money placement",
  "lines": [
    {"index": 0, "account_no": "1001", "dr_cr": "D", "currency": "BDT", "fcy_amt": "500", "exchange_rate": "1", "lcy_amt": "500", "memo": "to XYZ bank"},
    {"index": 1, "account_no": "9001", "dr_cr": "C", "currency": "BDT", "fcy_amt": "400", "exchange_rate": "1", "lcy_amt": "400"}
  ],
  "totals": {"debit_lcy": "500", "credit_lcy": "400", "difference": "100", "balanced": false, "display_currency": "BDT"},
  "validation": {"ok": false, "violations": [{"kind": "TransactionNotBalanced", "line": -1, "message": "transaction is not balanced"}], "warnings": []}
}`

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Header http.Header
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func newFakeAPI(t *testing.T, status int, body string) (*fakeAPI, *httptest.Server) {
	t.Helper()

	api := &fakeAPI{status: status, body: body}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)

		api.mu.Lock()
		api.requests = append(api.requests, recordedRequest{Method: r.Method, Path: r.URL.RequestURI(), Body: string(raw), Header: r.Header.Clone()})
		api.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(api.status)
		fmt.Fprint(w, api.body)
	}))
	t.Cleanup(srv.Close)

	return api, srv
}

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--url", srv.URL}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	opts := &options{out: &out}

	if err := opts.printJSON(struct {
		A int `json:"a"`
	}{A: 1}); err != nil {
		t.Fatalf("printJSON: %v", err)
	}

	expected := "{\n  \"a\": 1\n}\n"
	if out.String() != expected {
		t.Fatalf("unexpected json output:\n%s", out.String())
	}
}

func TestAccountsGet(t *testing.T) {
	api, srv := newFakeAPI(t, http.StatusOK, `{"account":{"account_no":"1001"}}`)

	out, err := runCLI(t, srv, "accounts", "get", "1001")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if api.requests[0].Path != "/api/v1/accounts/1001" {
		t.Fatalf("unexpected path %s", api.requests[0].Path)
	}
	if !strings.Contains(out, `"account_no": "1001"`) {
		t.Fatalf("expected pretty account json, got %q", out)
	}
}

func TestAccountsList(t *testing.T) {
	api, srv := newFakeAPI(t, http.StatusOK, `{"accounts":[]}`)

	if _, err := runCLI(t, srv, "accounts", "list", "--limit", "10", "--offset", "20"); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if api.requests[0].Path != "/api/v1/accounts?limit=10&offset=20" {
		t.Fatalf("unexpected path %s", api.requests[0].Path)
	}
}

func TestRate(t *testing.T) {
	api, srv := newFakeAPI(t, http.StatusOK, `{"pair":"USD/BDT"}`)

	if _, err := runCLI(t, srv, "rate", "usd", "bdt"); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if api.requests[0].Path != "/api/v1/rates/USD/BDT" {
		t.Fatalf("unexpected path %s", api.requests[0].Path)
	}
}

func TestAPIErrorIsReturned(t *testing.T) {
	_, srv := newFakeAPI(t, http.StatusNotFound, `{"error":"account not found"}`)

	_, err := runCLI(t, srv, "accounts", "get", "4040")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestDraftsCreatePrintsTable(t *testing.T) {
	api, srv := newFakeAPI(t, http.StatusCreated, sampleDraft)

	out, err := runCLI(t, srv, "drafts", "create", "--value-date", "2026-10-15", "--narration", "call money placement")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	req := api.requests[0]
	if req.Method != http.MethodPost || req.Path != "/api/v1/drafts/" {
		t.Fatalf("unexpected request %s %s", req.Method, req.Path)
	}

	var body map[string]string
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["value_date"] != "2026-10-15" || body["narration"] != "call money placement" {
		t.Fatalf("unexpected body %v", body)
	}

	for _, want := range []string{"Draft d1", "1001", "NOT BALANCED, difference 100", "transaction: transaction is not balanced"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestDraftsLineSetAppliesFieldsInOrder(t *testing.T) {
	api, srv := newFakeAPI(t, http.StatusOK, sampleDraft)

	out, err := runCLI(t, srv, "drafts", "line", "set", "d1", "0", "--amount", "5,000", "--account", "1001", "--memo", "placement")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	want := []string{
		"PUT /api/v1/drafts/d1/lines/0/account",
		"PUT /api/v1/drafts/d1/lines/0/amount",
		"PUT /api/v1/drafts/d1/lines/0/memo",
	}
	if len(api.requests) != len(want) {
		t.Fatalf("expected %d requests, got %d", len(want), len(api.requests))
	}
	for i, w := range want {
		if got := api.requests[i].Method + " " + api.requests[i].Path; got != w {
			t.Fatalf("request %d = %s, want %s", i, got, w)
		}
	}

	if strings.Count(out, "Draft d1") != 1 {
		t.Fatalf("expected the draft to be printed once, got:\n%s", out)
	}
}

func TestDraftsLineSetRequiresAField(t *testing.T) {
	_, srv := newFakeAPI(t, http.StatusOK, sampleDraft)

	if _, err := runCLI(t, srv, "drafts", "line", "set", "d1", "0"); err == nil {
		t.Fatalf("expected error without field flags")
	}

	if _, err := runCLI(t, srv, "drafts", "line", "remove", "d1", "x"); err == nil {
		t.Fatalf("expected error for a non-numeric index")
	}
}

func TestDraftsSubmitSendsIdempotencyKey(t *testing.T) {
	api, srv := newFakeAPI(t, http.StatusCreated, `{"id":"tx1","status":"Entry"}`)

	out, err := runCLI(t, srv, "drafts", "submit", "d1", "--idempotency-key", "k-1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if api.requests[0].Header.Get("Idempotency-Key") != "k-1" {
		t.Fatalf("expected idempotency key header, got %v", api.requests[0].Header)
	}
	if !strings.Contains(out, `"status": "Entry"`) {
		t.Fatalf("expected transaction json, got %q", out)
	}
}

func TestDraftsSubmitInvalidPrintsViolations(t *testing.T) {
	_, srv := newFakeAPI(t, http.StatusUnprocessableEntity, `{"error":"transaction is invalid","draft":`+sampleDraft+`}`)

	out, err := runCLI(t, srv, "drafts", "submit", "d1")
	if err == nil || !strings.Contains(err.Error(), "nothing was posted") {
		t.Fatalf("expected rejection error, got %v", err)
	}
	if !strings.Contains(out, "transaction is not balanced") {
		t.Fatalf("expected violations to be printed, got:\n%s", out)
	}
}

func TestDraftsDiscard(t *testing.T) {
	api, srv := newFakeAPI(t, http.StatusNoContent, "")

	out, err := runCLI(t, srv, "drafts", "discard", "d1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if api.requests[0].Method != http.MethodDelete || !strings.Contains(out, "discarded") {
		t.Fatalf("unexpected discard result: %s %q", api.requests[0].Method, out)
	}
}
