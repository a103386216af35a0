package catalog

import (
	"net/http"
	"strconv"

	"github.com/grimsl/GameShelf/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Trending handles GET /catalog/trending?limit=&refresh=
func (h *HTTPHandler) Trending(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}
	forceRefresh := r.URL.Query().Get("refresh") == "true"

	games := h.service.GetTrending(r.Context(), limit, forceRefresh)
	httpx.JSONSuccess(w, games, map[string]any{"count": len(games)})
}

// Search handles GET /catalog/search?q=&limit=&page=
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}

	result := h.service.Search(r.Context(), query, limit, page)
	httpx.JSONSuccess(w, result.Games, map[string]any{
		"total": result.Total,
		"page":  result.Page,
		"limit": result.Limit,
	})
}

// ByGenre handles GET /catalog/genres/{genre}?limit=
func (h *HTTPHandler) ByGenre(w http.ResponseWriter, r *http.Request) {
	genre := r.PathValue("genre")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}

	result := h.service.GetByGenre(r.Context(), genre, limit)
	httpx.JSONSuccess(w, result.Games, map[string]any{
		"total": result.Total,
		"limit": result.Limit,
	})
}

// Detail handles GET /catalog/games/{id}
func (h *HTTPHandler) Detail(w http.ResponseWriter, r *http.Request) {
	appID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || appID <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid game id", nil)
		return
	}

	entry := h.service.GetDetail(r.Context(), appID)
	if entry == nil {
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Game not found", nil)
		return
	}
	httpx.JSONSuccess(w, entry, nil)
}
