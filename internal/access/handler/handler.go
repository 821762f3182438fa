package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vitacare/internal/access"
	"vitacare/internal/transport/http/shared"
	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
	"vitacare/pkg/requestcontext"
)

// Service defines the interface for delegation ledger operations.
type Service interface {
	Grant(ctx context.Context, caller, delegate domain.Principal, expiresAt *time.Time) (access.Grant, error)
	Revoke(ctx context.Context, caller, delegate domain.Principal) error
	HasAccess(ctx context.Context, patient, reader domain.Principal) (bool, error)
	ListDelegates(ctx context.Context, caller domain.Principal) ([]access.Grant, error)
}

// Handler wires delegation endpoints to the access service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an access handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts delegation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/access/grants", h.HandleGrant)
	r.Delete("/access/grants/{delegate}", h.HandleRevoke)
	r.Get("/access/grants", h.HandleList)
	r.Get("/access/check", h.HandleCheck)
}

// GrantRequest is the payload for delegating record access.
type GrantRequest struct {
	Delegate  string     `json:"delegate"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (r GrantRequest) Validate() error {
	if r.Delegate == "" {
		return dErrors.New(dErrors.CodeValidation, "delegate is required")
	}
	return nil
}

// HandleGrant handles POST /access/grants requests.
func (h *Handler) HandleGrant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	req, ok := shared.Decode[GrantRequest](w, r)
	if !ok {
		return
	}

	delegate, err := domain.ParsePrincipal(req.Delegate)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	grant, err := h.service.Grant(ctx, caller, delegate, req.ExpiresAt)
	if err != nil {
		h.logger.ErrorContext(ctx, "access grant failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, grant)
}

// HandleRevoke handles DELETE /access/grants/{delegate} requests.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	delegate, err := domain.ParsePrincipal(chi.URLParam(r, "delegate"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.service.Revoke(ctx, caller, delegate); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleList handles GET /access/grants requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	grants, err := h.service.ListDelegates(ctx, caller)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if grants == nil {
		grants = []access.Grant{}
	}
	shared.WriteJSON(w, http.StatusOK, grants)
}

// HandleCheck handles GET /access/check requests. The caller asks whether a
// reader currently holds access to a patient's records.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	patient, err := domain.ParsePrincipal(r.URL.Query().Get("patient"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	reader, err := domain.ParsePrincipal(r.URL.Query().Get("reader"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	ok, err := h.service.HasAccess(ctx, patient, reader)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"has_access": ok})
}
