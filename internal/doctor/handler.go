package doctor

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

// Handler wires doctor registry endpoints to the service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts doctor registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/doctors", h.HandleRegister)
	r.Get("/doctors", h.HandleList)
	r.Put("/doctors/me", h.HandleUpdate)
	r.Get("/doctors/{address}", h.HandleGet)
	r.Post("/doctors/{address}/verify", h.HandleVerify)
}

// RegisterRequest is the payload for registering a doctor.
type RegisterRequest struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	LicenseID string `json:"license_id,omitempty"`
}

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(r.Specialty) == "" {
		return dErrors.New(dErrors.CodeValidation, "specialty is required")
	}
	return nil
}

// HandleRegister handles POST /doctors requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	req, ok := shared.Decode[RegisterRequest](w, r)
	if !ok {
		return
	}

	d, err := h.service.Register(ctx, caller, req.Name, req.Specialty, req.LicenseID)
	if err != nil {
		h.logger.ErrorContext(ctx, "doctor registration failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, d)
}

// UpdateRequest is the payload for updating a doctor profile. All fields are
// optional; empty fields keep their current value.
type UpdateRequest struct {
	Name      string `json:"name,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	LicenseID string `json:"license_id,omitempty"`
}

func (r UpdateRequest) Validate() error { return nil }

// HandleUpdate handles PUT /doctors/me requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	req, ok := shared.Decode[UpdateRequest](w, r)
	if !ok {
		return
	}

	d, err := h.service.Update(ctx, caller, req.Name, req.Specialty, req.LicenseID)
	if err != nil {
		h.logger.ErrorContext(ctx, "doctor update failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, d)
}

// HandleGet handles GET /doctors/{address} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	address, err := domain.ParsePrincipal(chi.URLParam(r, "address"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	d, err := h.service.Get(ctx, address)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, d)
}

// HandleVerify handles POST /doctors/{address}/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	address, err := domain.ParsePrincipal(chi.URLParam(r, "address"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	d, err := h.service.Verify(ctx, caller, address)
	if err != nil {
		h.logger.ErrorContext(ctx, "doctor verification failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, d)
}

// HandleList handles GET /doctors?specialty= requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	specialty := strings.TrimSpace(r.URL.Query().Get("specialty"))
	if specialty == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "specialty query parameter is required"))
		return
	}

	list, err := h.service.ListBySpecialty(ctx, specialty)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if list == nil {
		list = []Doctor{}
	}
	shared.WriteJSON(w, http.StatusOK, list)
}
