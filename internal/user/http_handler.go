package user

import (
	"net/http"

	"github.com/grimsl/GameShelf/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// GetCurrentUser handles GET /me
func (h *HTTPHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	u, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	body := map[string]any{
		"id":        u.ID,
		"email":     u.Email,
		"handle":    u.Handle,
		"role":      u.Role,
		"confirmed": u.Confirmed(),
	}
	if u.SteamID != nil {
		body["steam_id"] = *u.SteamID
		if u.SteamPersona != nil {
			body["steam_persona"] = *u.SteamPersona
		}
	}
	httpx.JSONSuccess(w, body, nil)
}
