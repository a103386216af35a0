package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/grimsl/GameShelf/internal/cache"
	"github.com/grimsl/GameShelf/internal/platform/steam"
)

// StoreClient is the slice of the Steam client the catalog consumes.
type StoreClient interface {
	FeaturedCategories(ctx context.Context) (*steam.FeaturedCategoriesResponse, error)
	StoreSearch(ctx context.Context, term string, limit int) (*steam.StoreSearchResponse, error)
	AppDetails(ctx context.Context, appID int) (*steam.AppDetails, error)
	NumberOfCurrentPlayers(ctx context.Context, appID int) (int, error)
}

// Service answers browse/search/detail queries with caching and graceful
// degradation. Browsing is never user-blocking: every failure path ends in
// a stale value or an empty result, not an error.
type Service struct {
	client StoreClient
	cache  *cache.Cache
	log    zerolog.Logger
	now    func() time.Time
}

func NewService(client StoreClient, c *cache.Cache, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		cache:  c,
		log:    log.With().Str("component", "catalog").Logger(),
		now:    time.Now,
	}
}

// GetTrending returns up to limit trending games, newest ranking first.
// On upstream failure it degrades to a stale cached list if any exists,
// else an empty list.
func (s *Service) GetTrending(ctx context.Context, limit int, forceRefresh bool) []Entry {
	if limit <= 0 {
		return []Entry{}
	}
	key := fmt.Sprintf("trending-%d", limit)

	if !forceRefresh {
		if entries, ok := cache.Get[[]Entry](s.cache, key, cache.TTLTrending); ok {
			return entries
		}
	}

	res, err := s.client.FeaturedCategories(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("trending fetch failed, falling back to stale cache")
		if stale, ok := cache.GetStale[[]Entry](s.cache, key); ok {
			return stale
		}
		return []Entry{}
	}

	items := res.TopSellers.Items
	if len(items) > limit {
		items = items[:limit]
	}
	entries := s.enrich(ctx, items)

	cache.Set(s.cache, key, entries)
	return entries
}

// Search runs a free-text catalog search. Empty queries, bad limits, and
// upstream failures all yield an empty page of the same shape.
func (s *Service) Search(ctx context.Context, query string, limit, page int) SearchResult {
	if page <= 0 {
		page = 1
	}
	empty := SearchResult{Games: []Entry{}, Total: 0, Page: page, Limit: limit}
	if limit <= 0 || query == "" {
		return empty
	}

	key := fmt.Sprintf("search-%s-%d-%d", query, limit, page)
	if result, ok := cache.Get[SearchResult](s.cache, key, cache.TTLSearch); ok {
		return result
	}

	result, err := s.search(ctx, query, limit, page)
	if err != nil {
		s.log.Warn().Err(err).Str("query", query).Msg("search failed, returning empty result")
		return empty
	}
	cache.Set(s.cache, key, result)
	return result
}

// GetByGenre browses by genre. The storefront has no genre filter on its
// search endpoint, so the genre name is substituted as the query term.
func (s *Service) GetByGenre(ctx context.Context, genre string, limit int) SearchResult {
	empty := SearchResult{Games: []Entry{}, Total: 0, Page: 1, Limit: limit}
	if limit <= 0 || genre == "" {
		return empty
	}

	key := fmt.Sprintf("genre-%s-%d", genre, limit)
	if result, ok := cache.Get[SearchResult](s.cache, key, cache.TTLGenre); ok {
		return result
	}

	result, err := s.search(ctx, genre, limit, 1)
	if err != nil {
		s.log.Warn().Err(err).Str("genre", genre).Msg("genre browse failed, returning empty result")
		return empty
	}
	cache.Set(s.cache, key, result)
	return result
}

// GetDetail returns the full entry for one app, or nil when the upstream
// reports failure for that id. "Not found" and "unreachable" are not
// distinguished; both yield nil.
func (s *Service) GetDetail(ctx context.Context, appID int) *Entry {
	key := fmt.Sprintf("detail-%d", appID)
	if entry, ok := cache.Get[Entry](s.cache, key, cache.TTLDetail); ok {
		return &entry
	}

	details, err := s.client.AppDetails(ctx, appID)
	if err != nil {
		s.log.Debug().Err(err).Int("app_id", appID).Msg("detail fetch failed")
		return nil
	}
	entry := fromAppDetails(details, s.now())

	// Live player count is decoration; its failure never fails the detail.
	if count, err := s.client.NumberOfCurrentPlayers(ctx, appID); err == nil {
		entry.PlayerCount = &PlayerCount{Current: count}
	}

	cache.Set(s.cache, key, entry)
	return &entry
}

// enrich upgrades ranked raw items to full detail entries. A per-item
// failure downgrades that item to the raw transform; it never aborts the
// batch.
func (s *Service) enrich(ctx context.Context, items []steam.FeaturedItem) []Entry {
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if detailed := s.GetDetail(ctx, item.ID); detailed != nil {
			entries = append(entries, *detailed)
			continue
		}
		entries = append(entries, fromFeaturedItem(item, s.now()))
	}
	return entries
}

func (s *Service) search(ctx context.Context, term string, limit, page int) (SearchResult, error) {
	// The storefront endpoint does not page; fetch enough to cover the
	// requested page and slice locally.
	res, err := s.client.StoreSearch(ctx, term, limit*page)
	if err != nil {
		return SearchResult{}, err
	}

	start := (page - 1) * limit
	items := res.Items
	if start >= len(items) {
		items = nil
	} else {
		items = items[start:]
		if len(items) > limit {
			items = items[:limit]
		}
	}

	games := make([]Entry, 0, len(items))
	for _, item := range items {
		games = append(games, fromSearchItem(item, s.now()))
	}
	return SearchResult{Games: games, Total: res.Total, Page: page, Limit: limit}, nil
}
