package hospital

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

// Handler wires hospital registry endpoints to the service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts hospital registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/hospitals", h.HandleRegister)
	r.Get("/hospitals", h.HandleList)
	r.Get("/hospitals/stats", h.HandleStats)
	r.Get("/hospitals/{id}", h.HandleGet)
	r.Post("/hospitals/{id}/deactivate", h.HandleDeactivate)
	r.Post("/hospitals/{id}/specialties", h.HandleAddSpecialty)
	r.Put("/hospitals/{id}/capacity", h.HandleUpdateCapacity)
	r.Post("/hospitals/{id}/transfer-admin", h.HandleTransferAdmin)
}

// RegisterRequest is the payload for registering a hospital.
type RegisterRequest struct {
	Name        string   `json:"name"`
	City        string   `json:"city,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
	Capacity    uint64   `json:"capacity,omitempty"`
}

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// HandleRegister handles POST /hospitals requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	req, ok := shared.Decode[RegisterRequest](w, r)
	if !ok {
		return
	}

	created, err := h.service.Register(ctx, caller, req.Name, req.City, req.Specialties, req.Capacity)
	if err != nil {
		h.logger.ErrorContext(ctx, "hospital registration failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}

// HandleGet handles GET /hospitals/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseHospitalID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	found, err := h.service.Get(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, found)
}

// HandleDeactivate handles POST /hospitals/{id}/deactivate requests.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	id, err := domain.ParseHospitalID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	updated, err := h.service.Deactivate(ctx, caller, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "hospital deactivation failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

// SpecialtyRequest is the payload for listing a new department.
type SpecialtyRequest struct {
	Specialty string `json:"specialty"`
}

func (r SpecialtyRequest) Validate() error {
	if strings.TrimSpace(r.Specialty) == "" {
		return dErrors.New(dErrors.CodeValidation, "specialty is required")
	}
	return nil
}

// HandleAddSpecialty handles POST /hospitals/{id}/specialties requests.
func (h *Handler) HandleAddSpecialty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	id, err := domain.ParseHospitalID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	req, ok := shared.Decode[SpecialtyRequest](w, r)
	if !ok {
		return
	}

	updated, err := h.service.AddSpecialty(ctx, caller, id, req.Specialty)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

// CapacityRequest is the payload for revising bed capacity.
type CapacityRequest struct {
	Capacity uint64 `json:"capacity"`
}

func (r CapacityRequest) Validate() error { return nil }

// HandleUpdateCapacity handles PUT /hospitals/{id}/capacity requests.
func (h *Handler) HandleUpdateCapacity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	id, err := domain.ParseHospitalID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	req, ok := shared.Decode[CapacityRequest](w, r)
	if !ok {
		return
	}

	updated, err := h.service.UpdateCapacity(ctx, caller, id, req.Capacity)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

// TransferAdminRequest is the payload for handing over hospital management.
type TransferAdminRequest struct {
	NewAdmin string `json:"new_admin"`
}

func (r TransferAdminRequest) Validate() error {
	if r.NewAdmin == "" {
		return dErrors.New(dErrors.CodeValidation, "new_admin is required")
	}
	return nil
}

// HandleTransferAdmin handles POST /hospitals/{id}/transfer-admin requests.
func (h *Handler) HandleTransferAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	id, err := domain.ParseHospitalID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	req, ok := shared.Decode[TransferAdminRequest](w, r)
	if !ok {
		return
	}

	to, err := domain.ParsePrincipal(req.NewAdmin)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	updated, err := h.service.TransferAdmin(ctx, caller, id, to)
	if err != nil {
		h.logger.ErrorContext(ctx, "hospital admin transfer failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

// HandleList handles GET /hospitals requests. With a specialty query the list
// is the department index; without one it is every active hospital.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		list []Hospital
		err  error
	)
	if specialty := r.URL.Query().Get("specialty"); specialty != "" {
		list, err = h.service.ListBySpecialty(ctx, specialty)
	} else {
		list, err = h.service.ListActive(ctx)
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if list == nil {
		list = []Hospital{}
	}
	shared.WriteJSON(w, http.StatusOK, list)
}

// HandleStats handles GET /hospitals/stats requests.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, stats)
}
