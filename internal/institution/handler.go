package institution

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vitacare/internal/transport/http/shared"
	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
	"vitacare/pkg/requestcontext"
)

// Handler wires institution registry endpoints to the service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts institution registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/institutions", h.HandleRegister)
	r.Put("/institutions/me", h.HandleUpdate)
	r.Get("/institutions/{address}", h.HandleGet)
	r.Post("/institutions/{address}/verify", h.HandleVerify)
}

// RegisterRequest is the payload for registering an institution.
type RegisterRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// HandleRegister handles POST /institutions requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	req, ok := shared.Decode[RegisterRequest](w, r)
	if !ok {
		return
	}

	inst, err := h.service.Register(ctx, caller, req.Name, req.Kind)
	if err != nil {
		h.logger.ErrorContext(ctx, "institution registration failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, inst)
}

// UpdateRequest is the payload for updating an institution profile. Empty
// fields keep their current value.
type UpdateRequest struct {
	Name string `json:"name,omitempty"`
	Kind string `json:"kind,omitempty"`
}

func (r UpdateRequest) Validate() error { return nil }

// HandleUpdate handles PUT /institutions/me requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	req, ok := shared.Decode[UpdateRequest](w, r)
	if !ok {
		return
	}

	inst, err := h.service.Update(ctx, caller, req.Name, req.Kind)
	if err != nil {
		h.logger.ErrorContext(ctx, "institution update failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, inst)
}

// HandleGet handles GET /institutions/{address} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	address, err := domain.ParsePrincipal(chi.URLParam(r, "address"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	inst, err := h.service.Get(ctx, address)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, inst)
}

// HandleVerify handles POST /institutions/{address}/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	address, err := domain.ParsePrincipal(chi.URLParam(r, "address"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	inst, err := h.service.Verify(ctx, caller, address)
	if err != nil {
		h.logger.ErrorContext(ctx, "institution verification failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, inst)
}
