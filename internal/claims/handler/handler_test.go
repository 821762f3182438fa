package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"vitacare/internal/authz"
	"vitacare/internal/claims"
	"vitacare/internal/claims/service"
	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
	"vitacare/pkg/testutil"
)

const (
	patientAddr = domain.Principal("GPATIENT")
	insurerAddr = domain.Principal("GINSURER")
)

type allowGate struct {
	allowed map[domain.Principal]bool
}

func (g *allowGate) Authorize(_ context.Context, caller, owner domain.Principal, _ authz.Operation) error {
	if !owner.IsZero() && caller == owner {
		return nil
	}
	if g.allowed[caller] {
		return nil
	}
	return dErrors.New(dErrors.CodeUnauthorized, "caller is not authorized for this operation")
}

func newClaimsRouter(t *testing.T, as domain.Principal) http.Handler {
	t.Helper()
	svc := service.New(claims.NewInMemoryStore(), &allowGate{allowed: map[domain.Principal]bool{insurerAddr: true}})
	h := New(svc, slog.Default())

	r := chi.NewRouter()
	r.Use(testutil.AsPrincipal(as))
	h.Register(r)
	return r
}

func submitClaim(t *testing.T, router http.Handler) ClaimResponse {
	t.Helper()
	body, _ := json.Marshal(SubmitRequest{ServiceID: "SVC-1", Cost: 500})
	req := httptest.NewRequest(http.MethodPost, "/claims", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 submitting claim, got %d", rec.Code)
	}

	var resp ClaimResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode claim response: %v", err)
	}
	return resp
}

func TestSubmitClaimViaHandler(t *testing.T) {
	router := newClaimsRouter(t, patientAddr)

	resp := submitClaim(t, router)
	if resp.ID != 0 {
		t.Fatalf("expected first claim id 0, got %d", resp.ID)
	}
	if resp.Status != "pending" {
		t.Fatalf("expected pending status, got %q", resp.Status)
	}
	if resp.Patient != patientAddr.String() {
		t.Fatalf("expected patient %q, got %q", patientAddr, resp.Patient)
	}
}

func TestSubmitClaimRejectsZeroCost(t *testing.T) {
	router := newClaimsRouter(t, patientAddr)

	body, _ := json.Marshal(SubmitRequest{ServiceID: "SVC-1", Cost: 0})
	req := httptest.NewRequest(http.MethodPost, "/claims", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero cost, got %d", rec.Code)
	}
}

func TestDecisionViaHandler(t *testing.T) {
	svc := service.New(claims.NewInMemoryStore(), &allowGate{allowed: map[domain.Principal]bool{insurerAddr: true}})
	h := New(svc, slog.Default())

	patientRouter := chi.NewRouter()
	patientRouter.Use(testutil.AsPrincipal(patientAddr))
	h.Register(patientRouter)

	insurerRouter := chi.NewRouter()
	insurerRouter.Use(testutil.AsPrincipal(insurerAddr))
	h.Register(insurerRouter)

	created := submitClaim(t, patientRouter)

	approve := true
	body, _ := json.Marshal(DecisionRequest{Approve: &approve})
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/claims/%d/decision", created.ID), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	insurerRouter.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 settling claim, got %d", rec.Code)
	}

	var settled ClaimResponse
	if err := json.NewDecoder(rec.Body).Decode(&settled); err != nil {
		t.Fatalf("failed to decode decision response: %v", err)
	}
	if settled.Status != "approved" {
		t.Fatalf("expected approved status, got %q", settled.Status)
	}
	if settled.Insurer != insurerAddr.String() {
		t.Fatalf("expected insurer %q, got %q", insurerAddr, settled.Insurer)
	}

	// A second decision must conflict.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/claims/%d/decision", created.ID), bytes.NewReader(body))
	insurerRouter.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second decision, got %d", rec.Code)
	}
}

func TestDecisionUnauthorizedViaHandler(t *testing.T) {
	svc := service.New(claims.NewInMemoryStore(), &allowGate{allowed: map[domain.Principal]bool{insurerAddr: true}})
	h := New(svc, slog.Default())

	patientRouter := chi.NewRouter()
	patientRouter.Use(testutil.AsPrincipal(patientAddr))
	h.Register(patientRouter)

	created := submitClaim(t, patientRouter)

	approve := true
	body, _ := json.Marshal(DecisionRequest{Approve: &approve})
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/claims/%d/decision", created.ID), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	patientRouter.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for patient decision, got %d", rec.Code)
	}
}

func TestGetStatusViaHandler(t *testing.T) {
	router := newClaimsRouter(t, patientAddr)
	created := submitClaim(t, router)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/claims/%d/status", created.ID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching status, got %d", rec.Code)
	}

	var status struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode status response: %v", err)
	}
	if status.Status != "pending" {
		t.Fatalf("expected pending, got %q", status.Status)
	}
}

func TestGetUnknownClaimViaHandler(t *testing.T) {
	router := newClaimsRouter(t, patientAddr)

	req := httptest.NewRequest(http.MethodGet, "/claims/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown claim, got %d", rec.Code)
	}
}

func TestBadClaimIDViaHandler(t *testing.T) {
	router := newClaimsRouter(t, patientAddr)

	req := httptest.NewRequest(http.MethodGet, "/claims/not-a-number", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}
