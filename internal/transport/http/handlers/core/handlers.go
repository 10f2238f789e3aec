package corehandler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gymhub/internal/domain/auth"
	"gymhub/internal/domain/checkin"
	"gymhub/internal/domain/clock"
	"gymhub/internal/domain/compensation"
	"gymhub/internal/domain/core"
	"gymhub/internal/transport/http/api"
	"gymhub/internal/transport/http/middleware"
	"gymhub/internal/transport/http/shared"
)

type Handler struct {
	Service *core.Service
	Passes  *checkin.Service
	Perms   middleware.PermissionStore
	Audit   shared.Auditor
}

func NewHandler(service *core.Service, passes *checkin.Service, perms middleware.PermissionStore, audit shared.Auditor) *Handler {
	return &Handler{Service: service, Passes: passes, Perms: perms, Audit: audit}
}

type staffRequest struct {
	FullName     string               `json:"fullName" validate:"required,max=120"`
	Email        string               `json:"email" validate:"required,email"`
	Phone        string               `json:"phone" validate:"max=40"`
	Position     string               `json:"position" validate:"max=80"`
	Role         string               `json:"role" validate:"required,oneof=Admin Manager Trainer Staff"`
	Compensation compensation.Profile `json:"compensation"`
	Active       *bool                `json:"active"`
}

func (p staffRequest) input() core.StaffInput {
	return core.StaffInput{
		FullName: p.FullName,
		Email:    p.Email,
		Phone:    p.Phone,
		Position: p.Position,
		Role:     p.Role,
		Profile:  p.Compensation,
		Active:   p.Active,
	}
}

type memberRequest struct {
	FullName string     `json:"fullName" validate:"required,max=120"`
	Email    string     `json:"email" validate:"required,email"`
	Phone    string     `json:"phone" validate:"max=40"`
	Status   string     `json:"status" validate:"omitempty,oneof=active inactive"`
	JoinedAt clock.Date `json:"joinedAt"`
}

func (p memberRequest) input() core.MemberInput {
	return core.MemberInput{
		FullName: p.FullName,
		Email:    p.Email,
		Phone:    p.Phone,
		Status:   core.MemberStatus(p.Status),
		JoinedAt: p.JoinedAt,
	}
}

type trainerSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Position string `json:"position"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireAuth).Get("/trainers", h.handleListTrainers)
	r.Route("/staff", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermStaffRead, h.Perms)).Get("/", h.handleListStaff)
		r.With(middleware.RequirePermission(auth.PermStaffWrite, h.Perms)).Post("/", h.handleCreateStaff)
		r.Route("/{staffID}", func(r chi.Router) {
			r.With(middleware.RequireAuth).Get("/", h.handleGetStaff)
			r.With(middleware.RequirePermission(auth.PermStaffWrite, h.Perms)).Put("/", h.handleUpdateStaff)
			r.With(middleware.RequirePermission(auth.PermStaffWrite, h.Perms)).Delete("/", h.handleDeleteStaff)
		})
	})
	r.Route("/members", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermMembersRead, h.Perms)).Get("/", h.handleListMembers)
		r.With(middleware.RequirePermission(auth.PermMembersWrite, h.Perms)).Post("/", h.handleCreateMember)
		r.Route("/{memberID}", func(r chi.Router) {
			r.With(middleware.RequireAuth).Get("/", h.handleGetMember)
			r.With(middleware.RequirePermission(auth.PermMembersWrite, h.Perms)).Put("/", h.handleUpdateMember)
			r.With(middleware.RequirePermission(auth.PermMembersWrite, h.Perms)).Delete("/", h.handleDeleteMember)
			r.With(middleware.RequireAuth).Get("/checkin-qr", h.handleCheckinQR)
		})
	})
}

// selfOr lets a caller through when the record is their own or their role holds permission.
func (h *Handler) selfOr(ctx context.Context, user auth.UserContext, id, permission string) (bool, error) {
	if user.SubjectID != "" && user.SubjectID == id {
		return true, nil
	}
	return h.Perms.HasPermission(ctx, user.Role, permission)
}

func (h *Handler) handleListTrainers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	active := true
	staff, err := h.Service.ListStaff(r.Context(), core.StaffFilter{Role: auth.RoleTrainer, Active: &active})
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	out := make([]trainerSummary, 0, len(staff))
	for _, s := range staff {
		out = append(out, trainerSummary{ID: s.ID, FullName: s.FullName, Position: s.Position})
	}
	api.Success(w, out, requestID)
}

func (h *Handler) handleListStaff(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page, err := shared.ParsePagination(r, 100, 500)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}

	staff, err := h.Service.ListStaff(r.Context(), core.StaffFilter{
		Role:   r.URL.Query().Get("role"),
		Search: r.URL.Query().Get("q"),
		Active: shared.QueryBool(r, "active"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	for i := range staff {
		core.FilterStaffFields(&staff[i], user)
	}
	api.Success(w, staff, requestID)
}

func (h *Handler) handleGetStaff(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "staffID")

	allowed, err := h.selfOr(r.Context(), user, id, auth.PermStaffRead)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	if !allowed {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	staff, err := h.Service.GetStaff(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	core.FilterStaffFields(&staff, user)
	api.Success(w, staff, requestID)
}

func (h *Handler) handleCreateStaff(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload staffRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	staff, err := h.Service.CreateStaff(r.Context(), payload.input())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "create", "staff", staff.ID, nil, staff)
	api.Created(w, staff, requestID)
}

func (h *Handler) handleUpdateStaff(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "staffID")
	version, err := shared.ExpectedVersion(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	var payload staffRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}

	before, err := h.Service.GetStaff(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	staff, err := h.Service.UpdateStaff(r.Context(), id, payload.input(), version)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "update", "staff", id, before, staff)
	api.Success(w, staff, requestID)
}

func (h *Handler) handleDeleteStaff(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "staffID")
	version, err := shared.ExpectedVersion(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	before, err := h.Service.GetStaff(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	if err := h.Service.DeleteStaff(r.Context(), id, version); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "delete", "staff", id, before, nil)
	api.Success(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page, err := shared.ParsePagination(r, 100, 500)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	members, err := h.Service.ListMembers(r.Context(), core.MemberFilter{
		Status: core.MemberStatus(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("q"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, members, requestID)
}

func (h *Handler) handleGetMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "memberID")

	allowed, err := h.selfOr(r.Context(), user, id, auth.PermMembersRead)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	if !allowed {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	member, err := h.Service.GetMember(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, member, requestID)
}

func (h *Handler) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload memberRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	member, err := h.Service.CreateMember(r.Context(), payload.input())
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "create", "member", member.ID, nil, member)
	api.Created(w, member, requestID)
}

func (h *Handler) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "memberID")
	version, err := shared.ExpectedVersion(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	var payload memberRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}

	before, err := h.Service.GetMember(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	member, err := h.Service.UpdateMember(r.Context(), id, payload.input(), version)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "update", "member", id, before, member)
	api.Success(w, member, requestID)
}

func (h *Handler) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "memberID")
	version, err := shared.ExpectedVersion(r)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	before, err := h.Service.GetMember(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	if err := h.Service.DeleteMember(r.Context(), id, version); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "delete", "member", id, before, nil)
	api.Success(w, map[string]string{"id": id}, requestID)
}

// handleCheckinQR serves a freshly issued check-in pass as a PNG QR code.
func (h *Handler) handleCheckinQR(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "memberID")

	allowed, err := h.selfOr(r.Context(), user, id, auth.PermMembersRead)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	if !allowed {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", requestID)
		return
	}

	pass, err := h.Passes.Issue(r.Context(), id)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	png, err := h.Passes.QR(pass)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	w.Header().Set("X-Pass-Expires-At", pass.ExpiresAt.UTC().Format(time.RFC3339))
	api.File(w, "image/png", "", png)
}
