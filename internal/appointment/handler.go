package appointment

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vitacare/internal/transport/http/shared"
	"vitacare/pkg/domain"
	dErrors "vitacare/pkg/domain-errors"
	"vitacare/pkg/requestcontext"
)

// Handler wires appointment endpoints to the service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts appointment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/appointments", h.HandleCreate)
	r.Get("/appointments", h.HandleList)
	r.Get("/appointments/{id}", h.HandleGet)
	r.Post("/appointments/{id}/cancel", h.HandleCancel)
	r.Post("/appointments/{id}/complete", h.HandleComplete)
}

// CreateRequest is the payload for booking an appointment.
type CreateRequest struct {
	Doctor       string    `json:"doctor"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Reason       string    `json:"reason,omitempty"`
}

func (r CreateRequest) Validate() error {
	if r.Doctor == "" {
		return dErrors.New(dErrors.CodeValidation, "doctor is required")
	}
	if r.ScheduledFor.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "scheduled_for is required")
	}
	return nil
}

// HandleCreate handles POST /appointments requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	req, ok := shared.Decode[CreateRequest](w, r)
	if !ok {
		return
	}

	doctor, err := domain.ParsePrincipal(req.Doctor)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	appt, err := h.service.Create(ctx, caller, doctor, req.ScheduledFor, req.Reason)
	if err != nil {
		h.logger.ErrorContext(ctx, "appointment booking failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, appt)
}

// HandleGet handles GET /appointments/{id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseAppointmentID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	appt, err := h.service.Get(ctx, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, appt)
}

// HandleCancel handles POST /appointments/{id}/cancel requests.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	id, err := domain.ParseAppointmentID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	appt, err := h.service.Cancel(ctx, caller, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, appt)
}

// HandleComplete handles POST /appointments/{id}/complete requests.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	id, err := domain.ParseAppointmentID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	appt, err := h.service.Complete(ctx, caller, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, appt)
}

// HandleList handles GET /appointments requests. The caller sees the
// appointments they participate in, as patient by default or as doctor with
// role=doctor.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	var (
		list []Appointment
		err  error
	)
	if r.URL.Query().Get("role") == "doctor" {
		list, err = h.service.ListForDoctor(ctx, caller)
	} else {
		list, err = h.service.ListForPatient(ctx, caller)
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if list == nil {
		list = []Appointment{}
	}
	shared.WriteJSON(w, http.StatusOK, list)
}
