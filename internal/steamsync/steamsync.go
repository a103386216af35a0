package steamsync

import (
	"context"
	"errors"
	"time"

	"github.com/grimsl/GameShelf/internal/platform/steam"
)

var (
	// ErrNotConnected is returned when a sync is requested for a user with
	// no connected Steam profile.
	ErrNotConnected = errors.New("steam profile not connected")
)

// Profile is the resolved Steam identity persisted against a GameShelf user.
type Profile struct {
	UserID      string    `json:"user_id"`
	SteamID     string    `json:"steam_id"`
	PersonaName string    `json:"persona_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	ProfileURL  string    `json:"profile_url,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Gateway is the slice of the Steam client the sync consumes.
type Gateway interface {
	PlayerSummary(ctx context.Context, steamID string) (*steam.PlayerSummary, error)
	OwnedGames(ctx context.Context, steamID string) ([]steam.OwnedGame, error)
	PlayerAchievements(ctx context.Context, steamID string, appID int) ([]steam.PlayerAchievement, error)
}

// ProfileStore persists the resolved profile against the owning user.
type ProfileStore interface {
	SaveSteamProfile(ctx context.Context, userID string, p Profile) error
	GetSteamProfile(ctx context.Context, userID string) (Profile, error)
	ClearSteamProfile(ctx context.Context, userID string) error
}
