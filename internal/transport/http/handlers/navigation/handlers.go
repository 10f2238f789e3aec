package navhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gymhub/internal/domain/navigation"
	"gymhub/internal/transport/http/api"
	"gymhub/internal/transport/http/middleware"
)

type Handler struct {
	Menus navigation.RoleMenuConfig
}

func NewHandler(menus navigation.RoleMenuConfig) *Handler {
	return &Handler{Menus: menus}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireAuth).Get("/menu", h.handleMenu)
}

func (h *Handler) handleMenu(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	api.Success(w, map[string]any{
		"role":  user.Role,
		"items": h.Menus.For(user.Role),
	}, middleware.GetRequestID(r.Context()))
}
