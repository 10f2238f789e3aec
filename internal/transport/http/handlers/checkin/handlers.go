package checkinhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/auth"
	"gymhub/internal/domain/checkin"
	"gymhub/internal/platform/metrics"
	"gymhub/internal/transport/http/api"
	"gymhub/internal/transport/http/middleware"
	"gymhub/internal/transport/http/shared"
)

type Handler struct {
	Service *checkin.Service
	Perms   middleware.PermissionStore
	Audit   shared.Auditor
}

func NewHandler(service *checkin.Service, perms middleware.PermissionStore, audit shared.Auditor) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: audit}
}

type verifyRequest struct {
	Token string `json:"token" validate:"required"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/checkins", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/pass", h.handlePass)
		r.With(middleware.RequirePermission(auth.PermCheckinVerify, h.Perms)).Post("/verify", h.handleVerify)
	})
}

// handlePass returns the caller's own pass as JSON for clients that render the QR themselves.
func (h *Handler) handlePass(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if user.Role != auth.RoleMember || user.SubjectID == "" {
		api.Fail(w, http.StatusForbidden, "forbidden", "only members hold check-in passes", requestID)
		return
	}
	pass, err := h.Service.Issue(r.Context(), user.SubjectID)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, pass, requestID)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload verifyRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}

	result, err := h.Service.Verify(r.Context(), payload.Token)
	switch {
	case errors.Is(err, checkin.ErrInvalidPass):
		metrics.IncCheckin("invalid")
		api.Fail(w, http.StatusUnauthorized, "invalid_pass", err.Error(), requestID)
		return
	case errors.Is(err, apperr.ErrInvalidState):
		metrics.IncCheckin("inactive")
		api.FailError(w, err, requestID)
		return
	case err != nil:
		api.FailError(w, err, requestID)
		return
	}

	metrics.IncCheckin("accepted")
	shared.Audit(r, h.Audit, "checkin", "member", result.MemberID, nil, result)
	api.Success(w, result, requestID)
}
