package bookinghandler

import (
	"github.com/go-chi/chi/v5"

	"gymhub/internal/domain/auth"
	"gymhub/internal/domain/booking"
	"gymhub/internal/transport/http/middleware"
	"gymhub/internal/transport/http/shared"
)

type Handler struct {
	Plans     *booking.PlanService
	Requests  *booking.Service
	Perms     middleware.PermissionStore
	Audit     shared.Auditor
	Notify    shared.Notifier
	Responses middleware.ResponseCache
}

func NewHandler(plans *booking.PlanService, requests *booking.Service, perms middleware.PermissionStore, audit shared.Auditor, notify shared.Notifier, responses middleware.ResponseCache) *Handler {
	return &Handler{Plans: plans, Requests: requests, Perms: perms, Audit: audit, Notify: notify, Responses: responses}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/plans", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPlansRead, h.Perms)).Get("/", h.handleListPlans)
		r.With(middleware.RequirePermission(auth.PermPlansWrite, h.Perms)).Post("/", h.handleCreatePlan)
		r.Route("/{planID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermPlansRead, h.Perms)).Get("/", h.handleGetPlan)
			r.With(middleware.RequirePermission(auth.PermPlansWrite, h.Perms)).Put("/", h.handleUpdatePlan)
			r.With(middleware.RequirePermission(auth.PermPlansWrite, h.Perms)).Delete("/", h.handleDeactivatePlan)
		})
	})
	r.Route("/plan-requests", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPlanRequestsRead, h.Perms)).Get("/", h.handleListRequests)
		r.With(middleware.RequirePermission(auth.PermPlanRequestsWrite, h.Perms), middleware.Idempotency(h.Responses)).Post("/", h.handleCreateRequest)
		r.Route("/{requestID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermPlanRequestsRead, h.Perms)).Get("/", h.handleGetRequest)
			r.With(middleware.RequirePermission(auth.PermPlanRequestsWrite, h.Perms)).Delete("/", h.handleDeleteRequest)
			r.With(middleware.RequirePermission(auth.PermPlanRequestsDecide, h.Perms)).Post("/approve", h.handleApprove)
			r.With(middleware.RequirePermission(auth.PermPlanRequestsDecide, h.Perms)).Post("/reject", h.handleReject)
		})
	})
}
