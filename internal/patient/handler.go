package patient

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

// Handler wires patient registry endpoints to the service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts patient registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/patients", h.HandleRegister)
	r.Get("/patients/{address}", h.HandleGet)
	r.Put("/patients/me", h.HandleUpdate)
}

// ProfileRequest is the payload for registering or updating a profile.
type ProfileRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	BloodType   string `json:"blood_type,omitempty"`
	Contact     string `json:"contact,omitempty"`
}

func (r ProfileRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// UpdateRequest allows partial updates, so no field is required.
type UpdateRequest ProfileRequest

func (r UpdateRequest) Validate() error { return nil }

// HandleRegister handles POST /patients requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	req, ok := shared.Decode[ProfileRequest](w, r)
	if !ok {
		return
	}

	p, err := h.service.Register(ctx, caller, req.Name, req.DateOfBirth, req.BloodType, req.Contact)
	if err != nil {
		h.logger.ErrorContext(ctx, "patient registration failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, p)
}

// HandleGet handles GET /patients/{address} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	address, err := domain.ParsePrincipal(chi.URLParam(r, "address"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	p, err := h.service.Get(ctx, address)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

// HandleUpdate handles PUT /patients/me requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	req, ok := shared.Decode[UpdateRequest](w, r)
	if !ok {
		return
	}

	p, err := h.service.Update(ctx, caller, req.Name, req.DateOfBirth, req.BloodType, req.Contact)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}
