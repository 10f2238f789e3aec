package bookinghandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gymhub/internal/domain/auth"
	"gymhub/internal/domain/booking"
	"gymhub/internal/domain/money"
	"gymhub/internal/transport/http/api"
	"gymhub/internal/transport/http/middleware"
	"gymhub/internal/transport/http/shared"
)

type planRequest struct {
	Name         string       `json:"name" validate:"required,max=80"`
	Description  string       `json:"description" validate:"max=1000"`
	Price        money.Amount `json:"price"`
	DurationDays int          `json:"durationDays" validate:"gt=0,lte=3660"`
	Active       *bool        `json:"active"`
}

func (p planRequest) input() booking.PlanInput {
	return booking.PlanInput{
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		DurationDays: p.DurationDays,
		Active:       p.Active,
	}
}

// handleListPlans shows members only the plans currently on offer.
func (h *Handler) handleListPlans(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	filter := booking.PlanFilter{ActiveOnly: user.Role == auth.RoleMember}
	if active := shared.QueryBool(r, "active"); active != nil && *active {
		filter.ActiveOnly = true
	}
	plans, err := h.Plans.List(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, plans, requestID)
}

func (h *Handler) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	plan, err := h.Plans.Get(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, plan, requestID)
}

func (h *Handler) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload planRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	plan, err := h.Plans.Create(r.Context(), payload.input())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "create", "plan", plan.ID, nil, plan)
	api.Created(w, plan, requestID)
}

func (h *Handler) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "planID")
	version, err := shared.ExpectedVersion(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	var payload planRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	before, err := h.Plans.Get(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	plan, err := h.Plans.Update(r.Context(), id, payload.input(), version)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "update", "plan", id, before, plan)
	api.Success(w, plan, requestID)
}

func (h *Handler) handleDeactivatePlan(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "planID")
	version, err := shared.ExpectedVersion(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	before, err := h.Plans.Get(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	plan, err := h.Plans.Deactivate(r.Context(), id, version)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "deactivate", "plan", id, before, plan)
	api.Success(w, plan, requestID)
}
