package steamsync

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/grimsl/GameShelf/internal/httpx"
	"github.com/grimsl/GameShelf/internal/library"
	"github.com/grimsl/GameShelf/internal/platform/steam"
	"github.com/grimsl/GameShelf/internal/user"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type connectReq struct {
	SteamID string `json:"steam_id" validate:"required,steamid"`
}

// Connect handles POST /steam/connect
func (h *HTTPHandler) Connect(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	var req connectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	profile, err := h.service.ConnectProfile(r.Context(), userID, req.SteamID)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	httpx.JSONSuccess(w, profile, nil)
}

// Sync handles POST /steam/sync
func (h *HTTPHandler) Sync(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, ErrNotConnected) {
			httpx.JSONError(w, http.StatusConflict, "NOT_CONNECTED", "Steam profile not connected", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	count, err := h.service.SyncLibrary(r.Context(), userID, profile.SteamID)
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	res := map[string]any{"synced": count}
	if summary, ok := h.service.LastSync(userID); ok {
		res["synced_at"] = summary.SyncedAt
		res["skipped"] = summary.Skipped
	}
	httpx.JSONSuccess(w, res, nil)
}

// Status handles GET /steam/status
func (h *HTTPHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, ErrNotConnected) {
			httpx.JSONSuccess(w, map[string]any{"connected": false}, nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	res := map[string]any{
		"connected": true,
		"profile":   profile,
	}
	if summary, ok := h.service.LastSync(userID); ok {
		res["last_sync"] = summary
	}
	httpx.JSONSuccess(w, res, nil)
}

// SyncAchievements handles POST /steam/sync/{appId}/achievements
func (h *HTTPHandler) SyncAchievements(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	appID, err := strconv.Atoi(r.PathValue("appId"))
	if err != nil || appID <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid game id", nil)
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		httpx.JSONError(w, http.StatusConflict, "NOT_CONNECTED", "Steam profile not connected", nil)
		return
	}

	// Best-effort by contract: report acceptance, not success.
	_ = h.service.SyncAchievements(r.Context(), userID, profile.SteamID, appID)
	httpx.JSONSuccess(w, map[string]any{"app_id": appID}, nil)
}

// Disconnect handles DELETE /steam/connection
func (h *HTTPHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	if err := h.service.Disconnect(r.Context(), userID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// RecentAchievements handles GET /steam/achievements/recent
func (h *HTTPHandler) RecentAchievements(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		httpx.JSONError(w, http.StatusConflict, "NOT_CONNECTED", "Steam profile not connected", nil)
		return
	}

	games := h.service.MirroredGames(userID)
	feed := h.service.RecentAchievements(r.Context(), profile.SteamID, games)
	if feed == nil {
		feed = []library.Achievement{}
	}
	httpx.JSONSuccess(w, feed, map[string]any{"count": len(feed)})
}

// writeGatewayError maps a classified Steam failure onto the response
// taxonomy. Kinds, never message text.
func writeGatewayError(w http.ResponseWriter, err error) {
	switch steam.KindOf(err) {
	case steam.KindPrivateProfile:
		httpx.JSONError(w, http.StatusForbidden, "PROFILE_PRIVATE", "Steam profile is private", nil)
	case steam.KindNotFound:
		httpx.JSONError(w, http.StatusNotFound, "PROFILE_NOT_FOUND", "Steam profile or game not found", nil)
	case steam.KindRateLimited:
		httpx.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Steam is rate limiting requests", nil)
	default:
		httpx.JSONError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "Steam is unavailable", nil)
	}
}
