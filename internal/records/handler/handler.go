package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vitacare/internal/records"
	"vitacare/internal/transport/http/shared"
	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
	"vitacare/pkg/requestcontext"
)

// Service defines the interface for record vault operations.
type Service interface {
	Add(ctx context.Context, caller, patient domain.Principal, category, description string) (records.Entry, error)
	List(ctx context.Context, caller, patient domain.Principal) ([]records.Entry, error)
	Count(ctx context.Context, caller, patient domain.Principal) (uint64, error)
}

// Handler wires record vault endpoints to the records service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a records handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts record vault endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/patients/{patient}/records", h.HandleAdd)
	r.Get("/patients/{patient}/records", h.HandleList)
	r.Get("/patients/{patient}/records/count", h.HandleCount)
}

// AddRequest is the payload for appending a medical record.
type AddRequest struct {
	Category    string `json:"category,omitempty"`
	Description string `json:"description"`
}

func (r AddRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return dErrors.New(dErrors.CodeValidation, "description is required")
	}
	return nil
}

// HandleAdd handles POST /patients/{patient}/records requests.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	patient, err := domain.ParsePrincipal(chi.URLParam(r, "patient"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	req, ok := shared.Decode[AddRequest](w, r)
	if !ok {
		return
	}

	entry, err := h.service.Add(ctx, caller, patient, req.Category, req.Description)
	if err != nil {
		h.logger.ErrorContext(ctx, "record append failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, entry)
}

// HandleList handles GET /patients/{patient}/records requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	patient, err := domain.ParsePrincipal(chi.URLParam(r, "patient"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	entries, err := h.service.List(ctx, caller, patient)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []records.Entry{}
	}
	shared.WriteJSON(w, http.StatusOK, entries)
}

// HandleCount handles GET /patients/{patient}/records/count requests.
func (h *Handler) HandleCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	patient, err := domain.ParsePrincipal(chi.URLParam(r, "patient"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	count, err := h.service.Count(ctx, caller, patient)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]uint64{"count": count})
}
