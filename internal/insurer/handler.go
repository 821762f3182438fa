package insurer

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

// Handler wires insurer registry endpoints to the service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts insurer registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/insurers", h.HandleRegister)
	r.Get("/insurers", h.HandleList)
	r.Put("/insurers/me", h.HandleUpdate)
	r.Get("/insurers/{address}", h.HandleGet)
	r.Post("/insurers/{address}/verify", h.HandleVerify)
	r.Post("/insurers/me/policies", h.HandleAddPolicy)
	r.Put("/insurers/me/policies/{code}", h.HandleUpdatePolicy)
	r.Post("/insurers/me/reviewers", h.HandleAddReviewer)
	r.Delete("/insurers/me/reviewers/{reviewer}", h.HandleRemoveReviewer)
	r.Post("/insurers/me/deactivate", h.HandleDeactivate)
	r.Post("/insurers/me/reactivate", h.HandleReactivate)
}

// RegisterRequest is the payload for registering an insurer.
type RegisterRequest struct {
	Name string `json:"name"`
}

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// PolicyRequest is the payload for publishing a policy.
type PolicyRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Coverage uint64 `json:"coverage"`
}

func (r PolicyRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" || strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "policy code and name are required")
	}
	if r.Coverage == 0 {
		return dErrors.New(dErrors.CodeValidation, "coverage must be greater than zero")
	}
	return nil
}

// ReviewerRequest is the payload for adding a claim reviewer.
type ReviewerRequest struct {
	Reviewer string `json:"reviewer"`
}

func (r ReviewerRequest) Validate() error {
	if r.Reviewer == "" {
		return dErrors.New(dErrors.CodeValidation, "reviewer is required")
	}
	return nil
}

// HandleRegister handles POST /insurers requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	req, ok := shared.Decode[RegisterRequest](w, r)
	if !ok {
		return
	}

	ins, err := h.service.Register(ctx, caller, req.Name)
	if err != nil {
		h.logger.ErrorContext(ctx, "insurer registration failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, ins)
}

// UpdateRequest is the payload for updating an insurer profile. Empty fields
// keep their current value.
type UpdateRequest struct {
	Name string `json:"name,omitempty"`
}

func (r UpdateRequest) Validate() error { return nil }

// HandleUpdate handles PUT /insurers/me requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	req, ok := shared.Decode[UpdateRequest](w, r)
	if !ok {
		return
	}

	ins, err := h.service.Update(ctx, caller, req.Name)
	if err != nil {
		h.logger.ErrorContext(ctx, "insurer update failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ins)
}

// HandleList handles GET /insurers requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAll(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if list == nil {
		list = []Insurer{}
	}
	shared.WriteJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /insurers/{address} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	address, err := domain.ParsePrincipal(chi.URLParam(r, "address"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	ins, err := h.service.Get(ctx, address)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ins)
}

// HandleVerify handles POST /insurers/{address}/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	address, err := domain.ParsePrincipal(chi.URLParam(r, "address"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	ins, err := h.service.Verify(ctx, caller, address)
	if err != nil {
		h.logger.ErrorContext(ctx, "insurer verification failed",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ins)
}

// HandleAddPolicy handles POST /insurers/me/policies requests.
func (h *Handler) HandleAddPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	req, ok := shared.Decode[PolicyRequest](w, r)
	if !ok {
		return
	}

	ins, err := h.service.AddPolicy(ctx, caller, req.Code, req.Name, req.Coverage)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ins)
}

// PolicyUpdateRequest is the payload for revising a policy. The code comes
// from the URL.
type PolicyUpdateRequest struct {
	Name     string `json:"name"`
	Coverage uint64 `json:"coverage"`
}

func (r PolicyUpdateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "policy name is required")
	}
	if r.Coverage == 0 {
		return dErrors.New(dErrors.CodeValidation, "coverage must be greater than zero")
	}
	return nil
}

// HandleUpdatePolicy handles PUT /insurers/me/policies/{code} requests.
func (h *Handler) HandleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)
	code := chi.URLParam(r, "code")

	req, ok := shared.Decode[PolicyUpdateRequest](w, r)
	if !ok {
		return
	}

	ins, err := h.service.UpdatePolicy(ctx, caller, code, req.Name, req.Coverage)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ins)
}

// HandleAddReviewer handles POST /insurers/me/reviewers requests.
func (h *Handler) HandleAddReviewer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	req, ok := shared.Decode[ReviewerRequest](w, r)
	if !ok {
		return
	}

	reviewer, err := domain.ParsePrincipal(req.Reviewer)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	ins, err := h.service.AddReviewer(ctx, caller, reviewer)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ins)
}

// HandleRemoveReviewer handles DELETE /insurers/me/reviewers/{reviewer}
// requests.
func (h *Handler) HandleRemoveReviewer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	reviewer, err := domain.ParsePrincipal(chi.URLParam(r, "reviewer"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	ins, err := h.service.RemoveReviewer(ctx, caller, reviewer)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ins)
}

// HandleDeactivate handles POST /insurers/me/deactivate requests.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	ins, err := h.service.Deactivate(ctx, caller)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ins)
}

// HandleReactivate handles POST /insurers/me/reactivate requests.
func (h *Handler) HandleReactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := requestcontext.Principal(ctx)

	ins, err := h.service.Reactivate(ctx, caller)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ins)
}
