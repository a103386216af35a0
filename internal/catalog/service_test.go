package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimsl/GameShelf/internal/cache"
	"github.com/grimsl/GameShelf/internal/platform/steam"
)

// fakeStoreClient counts calls and serves canned payloads per app id.
type fakeStoreClient struct {
	featured      *steam.FeaturedCategoriesResponse
	featuredErr   error
	featuredCalls int

	searchRes   *steam.StoreSearchResponse
	searchErr   error
	searchCalls int

	details     map[int]*steam.AppDetails
	detailsErr  error
	detailCalls int

	players int
}

func (f *fakeStoreClient) FeaturedCategories(context.Context) (*steam.FeaturedCategoriesResponse, error) {
	f.featuredCalls++
	return f.featured, f.featuredErr
}

func (f *fakeStoreClient) StoreSearch(_ context.Context, _ string, _ int) (*steam.StoreSearchResponse, error) {
	f.searchCalls++
	return f.searchRes, f.searchErr
}

func (f *fakeStoreClient) AppDetails(_ context.Context, appID int) (*steam.AppDetails, error) {
	f.detailCalls++
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	if d, ok := f.details[appID]; ok {
		return d, nil
	}
	return nil, errors.New("no such app")
}

func (f *fakeStoreClient) NumberOfCurrentPlayers(context.Context, int) (int, error) {
	return f.players, nil
}

func appDetails(appID int, name string) *steam.AppDetails {
	d := &steam.AppDetails{SteamAppID: appID, Name: name}
	d.Platforms.Windows = true
	return d
}

func featuredResponse(ids ...int) *steam.FeaturedCategoriesResponse {
	res := &steam.FeaturedCategoriesResponse{}
	for _, id := range ids {
		res.TopSellers.Items = append(res.TopSellers.Items, steam.FeaturedItem{ID: id, Name: "Game"})
	}
	return res
}

func newTestCatalog(client StoreClient) *Service {
	c := cache.New(cache.NewMemoryStore(), zerolog.Nop())
	return NewService(client, c, zerolog.Nop())
}

func TestGetTrendingCachesWithinTTL(t *testing.T) {
	client := &fakeStoreClient{
		featured: featuredResponse(10, 20),
		details: map[int]*steam.AppDetails{
			10: appDetails(10, "First"),
			20: appDetails(20, "Second"),
		},
	}
	svc := newTestCatalog(client)

	first := svc.GetTrending(context.Background(), 10, false)
	require.Len(t, first, 2)
	assert.Equal(t, 1, client.featuredCalls)

	// Second call inside the TTL is served from cache, no refetch.
	second := svc.GetTrending(context.Background(), 10, false)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].AppID, second[0].AppID)
	assert.Equal(t, first[1].AppID, second[1].AppID)
	assert.Equal(t, 1, client.featuredCalls)
}

func TestGetTrendingForceRefresh(t *testing.T) {
	client := &fakeStoreClient{
		featured: featuredResponse(10),
		details:  map[int]*steam.AppDetails{10: appDetails(10, "First")},
	}
	svc := newTestCatalog(client)

	svc.GetTrending(context.Background(), 10, false)
	svc.GetTrending(context.Background(), 10, true)
	assert.Equal(t, 2, client.featuredCalls)
}

func TestGetTrendingStaleFallback(t *testing.T) {
	client := &fakeStoreClient{
		featured: featuredResponse(10),
		details:  map[int]*steam.AppDetails{10: appDetails(10, "First")},
	}
	svc := newTestCatalog(client)

	seeded := svc.GetTrending(context.Background(), 10, false)
	require.Len(t, seeded, 1)

	// Upstream starts failing; a forced refresh degrades to the cached list.
	client.featuredErr = errors.New("upstream down")
	got := svc.GetTrending(context.Background(), 10, true)
	require.Len(t, got, 1)
	assert.Equal(t, seeded[0].AppID, got[0].AppID)
	assert.Equal(t, seeded[0].Name, got[0].Name)
}

func TestGetTrendingEmptyOnColdFailure(t *testing.T) {
	client := &fakeStoreClient{featuredErr: errors.New("upstream down")}
	svc := newTestCatalog(client)

	got := svc.GetTrending(context.Background(), 10, false)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetTrendingNonPositiveLimit(t *testing.T) {
	client := &fakeStoreClient{featured: featuredResponse(10)}
	svc := newTestCatalog(client)

	assert.Empty(t, svc.GetTrending(context.Background(), 0, false))
	assert.Empty(t, svc.GetTrending(context.Background(), -3, false))
	assert.Equal(t, 0, client.featuredCalls)
}

func TestGetTrendingEnrichDowngradesPerItem(t *testing.T) {
	// Only one of the two items has detail data; the other falls back to the
	// raw featured transform instead of being dropped.
	client := &fakeStoreClient{
		featured: featuredResponse(10, 20),
		details:  map[int]*steam.AppDetails{10: appDetails(10, "Detailed")},
	}
	svc := newTestCatalog(client)

	got := svc.GetTrending(context.Background(), 10, false)
	require.Len(t, got, 2)
	assert.Equal(t, "Detailed", got[0].Name)
	assert.Equal(t, 20, got[1].AppID)
	assert.NotEmpty(t, got[1].HeaderImage, "synthesized image URL expected")
}

func TestSearchEmptyInputs(t *testing.T) {
	client := &fakeStoreClient{}
	svc := newTestCatalog(client)

	got := svc.Search(context.Background(), "", 20, 1)
	assert.Empty(t, got.Games)
	assert.Equal(t, 0, client.searchCalls)

	got = svc.Search(context.Background(), "portal", 0, 1)
	assert.Empty(t, got.Games)
	assert.Equal(t, 0, client.searchCalls)
}

func TestSearchEmptyOnUpstreamFailure(t *testing.T) {
	client := &fakeStoreClient{searchErr: errors.New("upstream down")}
	svc := newTestCatalog(client)

	got := svc.Search(context.Background(), "portal", 20, 1)
	assert.NotNil(t, got.Games)
	assert.Empty(t, got.Games)
	assert.Equal(t, 1, got.Page)
}

func TestSearchPagesLocally(t *testing.T) {
	res := &steam.StoreSearchResponse{Total: 5}
	for i := 1; i <= 5; i++ {
		res.Items = append(res.Items, steam.StoreSearchItem{ID: i, Name: "Game"})
	}
	client := &fakeStoreClient{searchRes: res}
	svc := newTestCatalog(client)

	page2 := svc.Search(context.Background(), "game", 2, 2)
	require.Len(t, page2.Games, 2)
	assert.Equal(t, 3, page2.Games[0].AppID)
	assert.Equal(t, 4, page2.Games[1].AppID)
	assert.Equal(t, 5, page2.Total)

	beyond := svc.Search(context.Background(), "game", 2, 9)
	assert.Empty(t, beyond.Games)
}

func TestSearchCachesResult(t *testing.T) {
	client := &fakeStoreClient{searchRes: &steam.StoreSearchResponse{
		Total: 1,
		Items: []steam.StoreSearchItem{{ID: 7, Name: "Cached"}},
	}}
	svc := newTestCatalog(client)

	svc.Search(context.Background(), "cached", 20, 1)
	svc.Search(context.Background(), "cached", 20, 1)
	assert.Equal(t, 1, client.searchCalls)
}

func TestGetByGenreUsesGenreAsQuery(t *testing.T) {
	client := &fakeStoreClient{searchRes: &steam.StoreSearchResponse{
		Total: 1,
		Items: []steam.StoreSearchItem{{ID: 3, Name: "Roguelike"}},
	}}
	svc := newTestCatalog(client)

	got := svc.GetByGenre(context.Background(), "roguelike", 20)
	require.Len(t, got.Games, 1)
	assert.Equal(t, 3, got.Games[0].AppID)

	assert.Empty(t, svc.GetByGenre(context.Background(), "", 20).Games)
}

func TestGetDetail(t *testing.T) {
	d := appDetails(400, "Portal")
	d.Genres = append(d.Genres, struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	}{ID: "1", Description: "Puzzle"})
	client := &fakeStoreClient{
		details: map[int]*steam.AppDetails{400: d},
		players: 1234,
	}
	svc := newTestCatalog(client)

	entry := svc.GetDetail(context.Background(), 400)
	require.NotNil(t, entry)
	assert.Equal(t, "Portal", entry.Name)
	assert.Equal(t, []string{"Puzzle"}, entry.Genres)
	require.NotNil(t, entry.PlayerCount)
	assert.Equal(t, 1234, entry.PlayerCount.Current)

	// Second read is cached.
	svc.GetDetail(context.Background(), 400)
	assert.Equal(t, 1, client.detailCalls)
}

func TestGetDetailNilOnFailure(t *testing.T) {
	client := &fakeStoreClient{detailsErr: errors.New("not found")}
	svc := newTestCatalog(client)

	assert.Nil(t, svc.GetDetail(context.Background(), 999))
}
