package sessionhandler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/auth"
	"gymhub/internal/domain/notifications"
	"gymhub/internal/domain/sessions"
	"gymhub/internal/platform/metrics"
	"gymhub/internal/transport/http/api"
	"gymhub/internal/transport/http/middleware"
	"gymhub/internal/transport/http/shared"
)

type Handler struct {
	Service *sessions.Service
	Perms   middleware.PermissionStore
	Audit   shared.Auditor
	Notify  shared.Notifier
	Now     func() time.Time
}

func NewHandler(service *sessions.Service, perms middleware.PermissionStore, audit shared.Auditor, notify shared.Notifier) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: audit, Notify: notify, Now: time.Now}
}

type sessionRequest struct {
	TrainerID string `json:"trainerId"`
	MemberID  string `json:"memberId"`
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
	Duration  int    `json:"duration" validate:"gte=0,lte=480"`
	Type      string `json:"type" validate:"max=80"`
	Location  string `json:"location" validate:"max=120"`
	Notes     string `json:"notes" validate:"max=1000"`
}

type rescheduleRequest struct {
	Date string `json:"date" validate:"required"`
	Time string `json:"time" validate:"required"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSessionsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermSessionsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermSessionsRead, h.Perms)).Get("/week", h.handleWeek)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermSessionsRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermSessionsWrite, h.Perms)).Delete("/", h.handleDelete)
			r.With(middleware.RequirePermission(auth.PermSessionsDecide, h.Perms)).Post("/accept", h.transition(sessions.ActionAccept))
			r.With(middleware.RequirePermission(auth.PermSessionsDecide, h.Perms)).Post("/reject", h.transition(sessions.ActionReject))
			r.With(middleware.RequirePermission(auth.PermSessionsDecide, h.Perms)).Post("/complete", h.transition(sessions.ActionComplete))
			r.With(middleware.RequirePermission(auth.PermSessionsWrite, h.Perms)).Post("/cancel", h.transition(sessions.ActionCancel))
			r.With(middleware.RequirePermission(auth.PermSessionsWrite, h.Perms)).Post("/reschedule", h.handleReschedule)
		})
	})
}

// scope narrows a filter to the caller's own sessions unless they see everything.
func scope(filter *sessions.Filter, user auth.UserContext) {
	switch user.Role {
	case auth.RoleMember:
		filter.MemberID = user.SubjectID
	case auth.RoleTrainer:
		filter.TrainerID = user.SubjectID
	}
}

func (h *Handler) filter(r *http.Request) (sessions.Filter, error) {
	query := r.URL.Query()
	filter := sessions.Filter{
		TrainerID: query.Get("trainerId"),
		MemberID:  query.Get("memberId"),
		Search:    strings.TrimSpace(query.Get("q")),
	}
	if raw := query.Get("status"); raw != "" {
		status, ok := sessions.ParseStatus(raw)
		if !ok {
			return filter, apperr.Invalid("status", "must be one of Booked, Upcoming, Completed, Cancelled")
		}
		filter.Status = status
	}
	user, _ := middleware.GetUser(r.Context())
	scope(&filter, user)
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

	list, err := h.Service.List(r.Context(), filter)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, list, requestID)
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
	session, ok := h.ownSession(w, r)
	if !ok {
		return
	}
	api.Success(w, session, requestID)
}

// handleCreate books a session. Members always book for themselves and trainers
// always book into their own calendar.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload sessionRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	switch user.Role {
	case auth.RoleMember:
		payload.MemberID = user.SubjectID
	case auth.RoleTrainer:
		payload.TrainerID = user.SubjectID
	}

	session, err := h.Service.Create(r.Context(), sessions.Input{
		TrainerID: payload.TrainerID,
		MemberID:  payload.MemberID,
		Date:      payload.Date,
		Time:      payload.Time,
		Duration:  payload.Duration,
		Type:      payload.Type,
		Location:  payload.Location,
		Notes:     payload.Notes,
	})
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "create", "trainer_session", session.ID, nil, session)
	api.Created(w, session, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	version, err := shared.ExpectedVersion(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	if _, ok := h.ownSession(w, r); !ok {
		return
	}
	session, err := h.Service.Remove(r.Context(), chi.URLParam(r, "sessionID"), version)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "delete", "trainer_session", session.ID, session, nil)
	api.Success(w, map[string]string{"id": session.ID}, requestID)
}

func (h *Handler) transition(action sessions.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())
		version, err := shared.ExpectedVersion(r)
		if err != nil {
			api.FailError(w, err, requestID)
			return
		}
		before, ok := h.ownSession(w, r)
		if !ok {
			return
		}
		session, err := h.Service.Transition(r.Context(), before.ID, action, version)
		if err != nil {
			api.FailError(w, err, requestID)
			return
		}

		metrics.IncWorkflowDecision("trainer_session", string(action))
		shared.Audit(r, h.Audit, string(action), "trainer_session", session.ID, before, session)
		switch action {
		case sessions.ActionAccept:
			h.notifyParties(r, session, notifications.TypeSessionAccepted, "Session confirmed",
				"Your session on "+slot(session)+" is confirmed.")
		case sessions.ActionReject, sessions.ActionCancel:
			h.notifyParties(r, session, notifications.TypeSessionCancelled, "Session cancelled",
				"The session on "+slot(session)+" was cancelled.")
		}
		api.Success(w, session, requestID)
	}
}

func (h *Handler) handleReschedule(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	version, err := shared.ExpectedVersion(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	var payload rescheduleRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	before, ok := h.ownSession(w, r)
	if !ok {
		return
	}
	session, err := h.Service.Reschedule(r.Context(), before.ID, payload.Date, payload.Time, version)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "reschedule", "trainer_session", session.ID, before, session)
	h.notifyParties(r, session, notifications.TypeSessionRescheduled, "Session rescheduled",
		"Your session moved to "+slot(session)+".")
	api.Success(w, session, requestID)
}

// ownSession loads the session in the URL. Callers that are neither a party to it nor
// privileged get not found.
func (h *Handler) ownSession(w http.ResponseWriter, r *http.Request) (sessions.TrainerSession, bool) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "sessionID")
	session, err := h.Service.Get(r.Context(), id)
	if err == nil && !shared.Privileged(user) &&
		session.MemberID != user.SubjectID && session.TrainerID != user.SubjectID {
		err = apperr.NotFound("trainer session", id)
	}
	if err != nil {
		api.FailError(w, err, requestID)
		return sessions.TrainerSession{}, false
	}
	return session, true
}

// notifyParties tells the trainer and member about a change, skipping whoever made it.
func (h *Handler) notifyParties(r *http.Request, session sessions.TrainerSession, ntype, title, body string) {
	user, _ := middleware.GetUser(r.Context())
	for _, recipient := range []string{session.MemberID, session.TrainerID} {
		if recipient != user.SubjectID {
			shared.Notify(r, h.Notify, recipient, ntype, title, body)
		}
	}
}

func slot(session sessions.TrainerSession) string {
	return session.Date.String() + " at " + session.Time.Label()
}
