package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vitacare/internal/claims"
	"vitacare/internal/transport/http/shared"
	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
	"vitacare/pkg/requestcontext"
)

// Service defines the interface for claim operations.
type Service interface {
	Submit(ctx context.Context, caller domain.Principal, serviceID string, cost uint64) (claims.Claim, error)
	Process(ctx context.Context, caller domain.Principal, id domain.ClaimID, approve bool) (claims.Claim, error)
	GetStatus(ctx context.Context, id domain.ClaimID) (claims.ClaimStatus, error)
	GetDetails(ctx context.Context, id domain.ClaimID) (claims.Claim, error)
	ListForPatient(ctx context.Context, patient domain.Principal) ([]claims.Claim, error)
}

// Handler wires claim endpoints to the claims service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a claims handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts claim endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/claims", h.HandleSubmit)
	r.Get("/claims", h.HandleList)
	r.Get("/claims/{id}", h.HandleGet)
	r.Get("/claims/{id}/status", h.HandleGetStatus)
	r.Post("/claims/{id}/decision", h.HandleDecision)
}

// HandleSubmit handles POST /claims requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)
	start := time.Now()

	req, ok := shared.Decode[SubmitRequest](w, r)
	if !ok {
		return
	}

	claim, err := h.service.Submit(ctx, caller, req.ServiceID, req.Cost)
	if err != nil {
		h.logger.ErrorContext(ctx, "claim submission failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "claim submitted",
		"request_id", requestcontext.RequestID(ctx),
		"claim_id", uint64(claim.ID),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	shared.WriteJSON(w, http.StatusCreated, fromClaim(claim))
}

// HandleDecision handles POST /claims/{id}/decision requests.
func (h *Handler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	id, err := domain.ParseClaimID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	req, ok := shared.Decode[DecisionRequest](w, r)
	if !ok {
		return
	}

	claim, err := h.service.Process(ctx, caller, id, *req.Approve)
	if err != nil {
		h.logger.ErrorContext(ctx, "claim decision failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"claim_id", uint64(id),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, fromClaim(claim))
}

// HandleGet handles GET /claims/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseClaimID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	claim, err := h.service.GetDetails(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, fromClaim(claim))
}

// HandleGetStatus handles GET /claims/{id}/status requests.
func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseClaimID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	status, err := h.service.GetStatus(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// HandleList handles GET /claims requests. A patient sees their own claims;
// the optional patient query parameter is reserved for callers the service
// authorizes to read another patient's list.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)
	if caller.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	list, err := h.service.ListForPatient(ctx, caller)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, fromClaims(list))
}
