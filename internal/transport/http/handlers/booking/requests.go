package bookinghandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/auth"
	"gymhub/internal/domain/booking"
	"gymhub/internal/domain/notifications"
	"gymhub/internal/platform/metrics"
	"gymhub/internal/transport/http/api"
	"gymhub/internal/transport/http/middleware"
	"gymhub/internal/transport/http/shared"
)

type planRequestPayload struct {
	MemberID string `json:"memberId"`
	PlanID   string `json:"planId" validate:"required"`
	Note     string `json:"note" validate:"max=500"`
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	query := r.URL.Query()

	period, err := shared.ParseRange(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	page, err := shared.ParsePagination(r, 100, 500)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	filter := booking.RequestFilter{
		MemberID: query.Get("memberId"),
		PlanID:   query.Get("planId"),
		Search:   strings.TrimSpace(query.Get("q")),
		Period:   period,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	if raw := query.Get("status"); raw != "" {
		status, ok := booking.ParseStatus(raw)
		if !ok {
			api.FailError(w, apperr.Invalid("status", "must be one of pending, approved, rejected"), requestID)
			return
		}
		filter.Status = status
	}
	if user.Role == auth.RoleMember {
		filter.MemberID = user.SubjectID
	}

	list, err := h.Requests.List(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, list, requestID)
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	req, ok := h.ownRequest(w, r)
	if !ok {
		return
	}
	api.Success(w, req, requestID)
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload planRequestPayload
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	if user.Role == auth.RoleMember {
		payload.MemberID = user.SubjectID
	}

	req, err := h.Requests.Create(r.Context(), booking.RequestInput{
		MemberID: payload.MemberID,
		PlanID:   payload.PlanID,
		Note:     payload.Note,
	})
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "create", "plan_request", req.ID, nil, req)
	api.Created(w, req, requestID)
}

func (h *Handler) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	version, err := shared.ExpectedVersion(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	if _, ok := h.ownRequest(w, r); !ok {
		return
	}
	req, err := h.Requests.Remove(r.Context(), chi.URLParam(r, "requestID"), version)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "delete", "plan_request", req.ID, req, nil)
	api.Success(w, map[string]string{"id": req.ID}, requestID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, booking.ActionApprove)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, booking.ActionReject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, action booking.Action) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "requestID")
	version, err := shared.ExpectedVersion(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}

	before, err := h.Requests.Get(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	req, err := h.Requests.Transition(r.Context(), id, action, user.UserID, version)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}

	metrics.IncWorkflowDecision("plan_request", string(action))
	shared.Audit(r, h.Audit, string(action), "plan_request", id, before, req)
	if action == booking.ActionApprove {
		shared.Notify(r, h.Notify, req.MemberID, notifications.TypePlanRequestApproved,
			"Plan request approved", "Your request for "+req.PlanName+" was approved.")
	} else {
		shared.Notify(r, h.Notify, req.MemberID, notifications.TypePlanRequestRejected,
			"Plan request rejected", "Your request for "+req.PlanName+" was rejected.")
	}
	api.Success(w, req, requestID)
}

// ownRequest loads the request in the URL, hiding other members' requests as not found.
func (h *Handler) ownRequest(w http.ResponseWriter, r *http.Request) (booking.BookingRequest, bool) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "requestID")
	req, err := h.Requests.Get(r.Context(), id)
	if err == nil && user.Role == auth.RoleMember && req.MemberID != user.SubjectID {
		err = apperr.NotFound("plan request", id)
	}
	if err != nil {
		api.FailError(w, err, requestID)
		return booking.BookingRequest{}, false
	}
	return req, true
}
