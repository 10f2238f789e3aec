package notificationshandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gymhub/internal/domain/notifications"
	"gymhub/internal/transport/http/api"
	"gymhub/internal/transport/http/middleware"
	"gymhub/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
}

func NewHandler(service *notifications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Post("/{notificationID}/read", h.handleMarkRead)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page, err := shared.ParsePagination(r, 50, 200)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}

	recipient := shared.Recipient(user)
	total, err := h.Service.Count(r.Context(), recipient)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}
	items, err := h.Service.List(r.Context(), recipient, page.Limit, page.Offset)
	if err != nil {
		api.FailError(w, err, requestID)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, items, requestID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "notificationID")
	if err := h.Service.MarkRead(r.Context(), shared.Recipient(user), id); err != nil {
		api.FailError(w, err, requestID)
		return
	}
	api.Success(w, map[string]string{"id": id}, requestID)
}
