package authhandler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/auth"
	"gymhub/internal/transport/http/api"
	"gymhub/internal/transport/http/middleware"
	"gymhub/internal/transport/http/shared"
)

// Subjects confirms that an account's subject id points at a real staff member or gym member.
type Subjects interface {
	StaffExists(ctx context.Context, id string) (bool, error)
	MemberExists(ctx context.Context, id string) (bool, error)
}

type Handler struct {
	Service  *auth.Service
	Subjects Subjects
	Perms    middleware.PermissionStore
	Audit    shared.Auditor
}

func NewHandler(service *auth.Service, subjects Subjects, perms middleware.PermissionStore, audit shared.Auditor) *Handler {
	return &Handler{Service: service, Subjects: subjects, Perms: perms, Audit: audit}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=Admin Manager Trainer Staff Member"`
	SubjectID string `json:"subjectId"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.With(middleware.RequireAuth).Get("/me", h.handleMe)
		r.With(middleware.RequirePermission(auth.PermStaffWrite, h.Perms)).Post("/users", h.handleCreateUser)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}

	token, user, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
		return
	}
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}

	api.Success(w, map[string]any{"token": token, "user": user}, requestID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	current, _ := middleware.GetUser(r.Context())
	user, err := h.Service.Get(r.Context(), current.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, user, requestID)
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload createUserRequest
	if err := shared.Decode(r, &payload); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	if err := h.checkSubject(r.Context(), payload.Role, strings.TrimSpace(payload.SubjectID)); err != nil {
		api.FailError(w, err, requestID)
		return
	}

	user, err := h.Service.CreateUser(r.Context(), auth.NewUser{
		Email:     payload.Email,
		Password:  payload.Password,
		Role:      payload.Role,
		SubjectID: strings.TrimSpace(payload.SubjectID),
	})
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	shared.Audit(r, h.Audit, "create", "user", user.ID, nil, user)
	api.Created(w, user, requestID)
}

// checkSubject requires members to be linked to a member record and trainers or desk staff
// to a staff record. Admin and manager accounts may stand alone.
func (h *Handler) checkSubject(ctx context.Context, role, subjectID string) error {
	var exists func(context.Context, string) (bool, error)
	switch role {
	case auth.RoleMember:
		exists = h.Subjects.MemberExists
	case auth.RoleTrainer, auth.RoleStaff:
		exists = h.Subjects.StaffExists
	default:
		if subjectID == "" {
			return nil
		}
		exists = h.Subjects.StaffExists
	}
	if subjectID == "" {
		return apperr.Invalid("subjectId", "is required for role "+role)
	}
	ok, err := exists(ctx, subjectID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Invalid("subjectId", "does not match a known record")
	}
	return nil
}
