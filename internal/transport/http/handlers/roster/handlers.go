package rosterhandler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/auth"
	"gymhub/internal/domain/notifications"
	"gymhub/internal/domain/roster"
	"gymhub/internal/platform/metrics"
	"gymhub/internal/transport/http/api"
	"gymhub/internal/transport/http/middleware"
	"gymhub/internal/transport/http/shared"
)

type Handler struct {
	Service *roster.Service
	Perms   middleware.PermissionStore
	Audit   shared.Auditor
	Notify  shared.Notifier
	Now     func() time.Time
}

func NewHandler(service *roster.Service, perms middleware.PermissionStore, audit shared.Auditor, notify shared.Notifier) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: audit, Notify: notify, Now: time.Now}
}

type breakRequest struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

type shiftRequest struct {
	StaffID   string         `json:"staffId" validate:"required"`
	ShiftType string         `json:"shiftType" validate:"omitempty,oneof='Straight Shift' 'Break Shift'"`
	Date      string         `json:"date" validate:"required"`
	StartTime string         `json:"startTime" validate:"required"`
	EndTime   string         `json:"endTime" validate:"required"`
	Breaks    []breakRequest `json:"breaks" validate:"max=6,dive"`
	Notes     string         `json:"notes" validate:"max=1000"`
}

func (p shiftRequest) input() roster.Input {
	in := roster.Input{
		StaffID:   p.StaffID,
		ShiftType: roster.ShiftType(p.ShiftType),
		Date:      p.Date,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		Notes:     p.Notes,
	}
	for _, b := range p.Breaks {
		in.Breaks = append(in.Breaks, roster.BreakInput{Start: b.Start, End: b.End})
	}
	return in
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/roster", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermRosterRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermRosterWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermRosterRead, h.Perms)).Get("/week", h.handleWeek)
		r.Route("/{shiftID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermRosterRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermRosterWrite, h.Perms)).Put("/", h.handleUpdate)
			r.With(middleware.RequirePermission(auth.PermRosterWrite, h.Perms)).Delete("/", h.handleDelete)
			r.With(middleware.RequirePermission(auth.PermRosterApprove, h.Perms)).Post("/approve", h.transition(roster.ActionApprove))
			r.With(middleware.RequirePermission(auth.PermRosterApprove, h.Perms)).Post("/complete", h.transition(roster.ActionComplete))
		})
	})
}

func (h *Handler) filter(r *http.Request) (roster.Filter, error) {
	query := r.URL.Query()
	filter := roster.Filter{
		StaffID: query.Get("staffId"),
		Search:  strings.TrimSpace(query.Get("q")),
	}
	if raw := query.Get("status"); raw != "" {
		status, ok := roster.ParseStatus(raw)
		if !ok {
			return filter, apperr.Invalid("status", "must be one of Scheduled, Approved, Completed")
		}
		filter.Status = status
	}
	if user, _ := middleware.GetUser(r.Context()); !shared.Privileged(user) {
		filter.StaffID = user.SubjectID
	}
	return filter, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	filter, err := h.filter(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	if filter.Period, err = shared.ParseRange(r); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	page, err := shared.ParsePagination(r, 100, 500)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	filter.Limit, filter.Offset = page.Limit, page.Offset

	shifts, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, shifts, requestID)
}

func (h *Handler) handleWeek(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	filter, err := h.filter(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	day, err := shared.ParseWeek(r, h.Now())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	week, err := h.Service.WeekView(r.Context(), day, filter)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, week, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "shiftID")
	shift, err := h.Service.Get(r.Context(), id)
	if err == nil && !shared.Privileged(user) && shift.StaffID != user.SubjectID {
		err = apperr.NotFound("roster shift", id)
	}
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, shift, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload shiftRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shift, err := h.Service.Create(r.Context(), payload.input())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "create", "roster_shift", shift.ID, nil, shift)
	api.Created(w, shift, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "shiftID")
	version, err := shared.ExpectedVersion(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	var payload shiftRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	before, err := h.Service.Get(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shift, err := h.Service.Update(r.Context(), id, payload.input(), version)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "update", "roster_shift", id, before, shift)
	api.Success(w, shift, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	version, err := shared.ExpectedVersion(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shift, err := h.Service.Remove(r.Context(), chi.URLParam(r, "shiftID"), version)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "delete", "roster_shift", shift.ID, shift, nil)
	api.Success(w, map[string]string{"id": shift.ID}, requestID)
}

func (h *Handler) transition(action roster.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())
		user, _ := middleware.GetUser(r.Context())
		id := chi.URLParam(r, "shiftID")
		version, err := shared.ExpectedVersion(r)
		if err != nil {
			api.FailError(w, err, requestID)
			return
		}
		before, err := h.Service.Get(r.Context(), id)
		if err != nil {
			api.FailError(w, err, requestID)
			return
		}

		var shift roster.Shift
		if action == roster.ActionApprove {
			shift, err = h.Service.Approve(r.Context(), id, user.UserID, version)
		} else {
			shift, err = h.Service.Complete(r.Context(), id, user.UserID, version)
		}
		if err != nil {
			api.FailError(w, err, requestID)
			return
		}

		metrics.IncWorkflowDecision("roster_shift", string(action))
		shared.Audit(r, h.Audit, string(action), "roster_shift", id, before, shift)
		if action == roster.ActionApprove {
			shared.Notify(r, h.Notify, shift.StaffID, notifications.TypeShiftApproved, "Shift approved",
				"Your "+strings.ToLower(string(shift.ShiftType))+" on "+shift.Date.String()+" was approved.")
		}
		api.Success(w, shift, requestID)
	}
}
