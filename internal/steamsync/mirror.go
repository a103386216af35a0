package steamsync

import (
	"time"

	"github.com/grimsl/GameShelf/internal/cache"
	"github.com/grimsl/GameShelf/internal/platform/steam"
)

// SyncSummary records the outcome of the most recent library sync.
type SyncSummary struct {
	SyncedAt time.Time `json:"synced_at"`
	Games    int       `json:"games"`
	Skipped  int       `json:"skipped"`
}

// Mirror keeps the raw owned-games snapshot per user in the local store.
// The profile merge reads it without TTL: a stale mirror still renders.
// Keys are namespaced {purpose}-{userID} under the store's version prefix.
type Mirror struct {
	cache *cache.Cache
}

func NewMirror(c *cache.Cache) *Mirror {
	return &Mirror{cache: c}
}

func (m *Mirror) SaveOwnedGames(userID string, games []steam.OwnedGame) {
	cache.Set(m.cache, "owned-"+userID, games)
}

// OwnedGames returns the last snapshot, or nil when none exists. Age is
// irrelevant here; the sync timestamp lives on the library entries.
func (m *Mirror) OwnedGames(userID string) []steam.OwnedGame {
	games, ok := cache.GetStale[[]steam.OwnedGame](m.cache, "owned-"+userID)
	if !ok {
		return nil
	}
	return games
}

func (m *Mirror) SaveSummary(userID string, summary SyncSummary) {
	cache.Set(m.cache, "summary-"+userID, summary)
}

// LastSummary reports the previous sync run, or ok=false before the first.
func (m *Mirror) LastSummary(userID string) (SyncSummary, bool) {
	return cache.GetStale[SyncSummary](m.cache, "summary-"+userID)
}

func (m *Mirror) Clear(userID string) {
	_ = m.cache.Invalidate("owned-" + userID)
	_ = m.cache.Invalidate("summary-" + userID)
}
