package steam

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// Client talks to the Steam storefront API (no key) and the Steam Web API
// (key required). Both are rate limited aggressively upstream, so every
// request goes through a shared limiter with retry on 429/5xx.
type Client struct {
	httpClient *http.Client
	storeBase  string
	apiBase    string
	apiKey     string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(apiKey, userAgent string, rps int, maxRetries int) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		storeBase:  "https://store.steampowered.com/api",
		apiBase:    "https://api.steampowered.com",
		apiKey:     apiKey,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
	}
}

// WithBaseURLs overrides the upstream hosts. Tests point both at httptest servers.
func (c *Client) WithBaseURLs(storeBase, apiBase string) *Client {
	c.storeBase = storeBase
	c.apiBase = apiBase
	return c
}

// FeaturedCategories returns the storefront's ranked featured lists.
func (c *Client) FeaturedCategories(ctx context.Context) (*FeaturedCategoriesResponse, error) {
	u := fmt.Sprintf("%s/featuredcategories?l=english&cc=US", c.storeBase)
	var res FeaturedCategoriesResponse
	if err := c.get(ctx, "featuredcategories", u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// StoreSearch runs the storefront free-text search.
func (c *Client) StoreSearch(ctx context.Context, term string, limit int) (*StoreSearchResponse, error) {
	u := fmt.Sprintf("%s/storesearch/?term=%s&l=english&cc=US&limit=%d",
		c.storeBase, url.QueryEscape(term), limit)
	var res StoreSearchResponse
	if err := c.get(ctx, "storesearch", u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AppDetails returns the storefront detail block for one app. A response
// with success=false (delisted or region-locked id) maps to KindNotFound.
func (c *Client) AppDetails(ctx context.Context, appID int) (*AppDetails, error) {
	u := fmt.Sprintf("%s/appdetails?appids=%d&l=english&cc=US", c.storeBase, appID)
	var res map[string]appDetailsEnvelope
	if err := c.get(ctx, "appdetails", u, &res); err != nil {
		return nil, err
	}
	env, ok := res[strconv.Itoa(appID)]
	if !ok || !env.Success || env.Data == nil {
		return nil, &APIError{Kind: KindNotFound, Status: http.StatusOK, Op: "appdetails"}
	}
	return env.Data, nil
}

// NumberOfCurrentPlayers returns the live player count for an app.
func (c *Client) NumberOfCurrentPlayers(ctx context.Context, appID int) (int, error) {
	u := fmt.Sprintf("%s/ISteamUserStats/GetNumberOfCurrentPlayers/v1/?appid=%d", c.apiBase, appID)
	var res currentPlayersEnvelope
	if err := c.get(ctx, "current_players", u, &res); err != nil {
		return 0, err
	}
	return res.Response.PlayerCount, nil
}

// OwnedGames returns every game a profile owns, with playtime and appinfo.
// Private profiles respond 401/403 and map to KindPrivateProfile.
func (c *Client) OwnedGames(ctx context.Context, steamID string) ([]OwnedGame, error) {
	u := fmt.Sprintf("%s/IPlayerService/GetOwnedGames/v1/?key=%s&steamid=%s&include_appinfo=1&include_played_free_games=1",
		c.apiBase, url.QueryEscape(c.apiKey), url.QueryEscape(steamID))
	var res ownedGamesEnvelope
	if err := c.get(ctx, "owned_games", u, &res); err != nil {
		return nil, err
	}
	return res.Response.Games, nil
}

// PlayerAchievements returns one game's achievement list for a profile.
func (c *Client) PlayerAchievements(ctx context.Context, steamID string, appID int) ([]PlayerAchievement, error) {
	u := fmt.Sprintf("%s/ISteamUserStats/GetPlayerAchievements/v1/?key=%s&steamid=%s&appid=%d&l=english",
		c.apiBase, url.QueryEscape(c.apiKey), url.QueryEscape(steamID), appID)
	var res playerAchievementsEnvelope
	if err := c.get(ctx, "player_achievements", u, &res); err != nil {
		return nil, err
	}
	if !res.PlayerStats.Success {
		return nil, &APIError{Kind: KindNotFound, Status: http.StatusOK, Op: "player_achievements"}
	}
	return res.PlayerStats.Achievements, nil
}

// PlayerSummary resolves a steam id into profile attributes.
func (c *Client) PlayerSummary(ctx context.Context, steamID string) (*PlayerSummary, error) {
	u := fmt.Sprintf("%s/ISteamUser/GetPlayerSummaries/v2/?key=%s&steamids=%s",
		c.apiBase, url.QueryEscape(c.apiKey), url.QueryEscape(steamID))
	var res playerSummariesEnvelope
	if err := c.get(ctx, "player_summary", u, &res); err != nil {
		return nil, err
	}
	if len(res.Response.Players) == 0 {
		return nil, &APIError{Kind: KindNotFound, Status: http.StatusOK, Op: "player_summary"}
	}
	return &res.Response.Players[0], nil
}

func (c *Client) get(ctx context.Context, op, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			apiErr := classifyStatus(op, resp.StatusCode)
			if apiErr.Kind == KindRateLimited || resp.StatusCode >= 500 {
				lastErr = apiErr
				continue
			}
			return apiErr
		}

		decodeErr := json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		if decodeErr != nil {
			return fmt.Errorf("steam %s: decode: %w", op, decodeErr)
		}
		return nil
	}
	return fmt.Errorf("steam %s: after %d retries: %w", op, c.maxRetries, lastErr)
}
