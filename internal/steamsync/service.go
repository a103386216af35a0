package steamsync

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/grimsl/GameShelf/internal/events"
	"github.com/grimsl/GameShelf/internal/library"
	"github.com/grimsl/GameShelf/internal/platform/steam"
)

// Caps for the recent-achievements feed: how many games are queried, how
// many unlocks each contributes, and the overall feed length.
const (
	maxAchievementGames   = 10
	maxUnlocksPerGame     = 3
	maxRecentAchievements = 15
)

// Service imports ownership, playtime, and achievement data from Steam and
// materializes it as library entries, keeping the local mirror in step.
//
// Error posture follows who asked: connecting a profile is user-initiated
// and surfaces failures; achievement refreshes are background work and
// degrade silently.
type Service struct {
	gateway  Gateway
	entries  library.Repository
	profiles ProfileStore
	mirror   *Mirror
	bus      *events.Bus
	log      zerolog.Logger
}

func NewService(gateway Gateway, entries library.Repository, profiles ProfileStore, mirror *Mirror, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		gateway:  gateway,
		entries:  entries,
		profiles: profiles,
		mirror:   mirror,
		bus:      bus,
		log:      log.With().Str("component", "steamsync").Logger(),
	}
}

// ConnectProfile resolves steamID into profile attributes and persists them
// against the user. Failures propagate: the user clicked this.
func (s *Service) ConnectProfile(ctx context.Context, userID, steamID string) (Profile, error) {
	summary, err := s.gateway.PlayerSummary(ctx, steamID)
	if err != nil {
		return Profile{}, err
	}

	profile := Profile{
		UserID:      userID,
		SteamID:     summary.SteamID,
		PersonaName: summary.PersonaName,
		AvatarURL:   summary.AvatarFull,
		ProfileURL:  summary.ProfileURL,
		ConnectedAt: time.Now(),
	}
	if err := s.profiles.SaveSteamProfile(ctx, userID, profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// Profile returns the connected profile for a user.
func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	return s.profiles.GetSteamProfile(ctx, userID)
}

// SyncLibrary pulls the full owned-games list and materializes one library
// entry per valid game, idempotent on the app id. Upstream records missing
// an id or name are dropped, not fatal. An empty (filtered) list is a
// successful sync of zero games, distinct from a failed fetch.
func (s *Service) SyncLibrary(ctx context.Context, userID, steamID string) (int, error) {
	games, err := s.gateway.OwnedGames(ctx, steamID)
	if err != nil {
		return 0, err
	}

	valid := games[:0:0]
	for _, g := range games {
		if g.AppID <= 0 || g.Name == "" {
			s.log.Debug().Int("app_id", g.AppID).Msg("skipping partial owned-game record")
			continue
		}
		valid = append(valid, g)
	}

	s.mirror.SaveOwnedGames(userID, valid)

	synced := 0
	for _, g := range valid {
		entry := entryFromOwnedGame(userID, g)
		if _, err := s.entries.UpsertFromSync(ctx, &entry); err != nil {
			s.log.Warn().Err(err).Int("app_id", g.AppID).Msg("failed to upsert library entry")
			continue
		}
		synced++
	}

	// Best-effort achievement refresh for games that report statistics.
	// One private or missing schema never aborts the loop.
	refreshed := 0
	for _, g := range valid {
		if !g.HasCommunityVisibleStats || refreshed >= maxAchievementGames {
			continue
		}
		if err := s.SyncAchievements(ctx, userID, steamID, g.AppID); err != nil {
			continue
		}
		refreshed++
	}

	s.mirror.SaveSummary(userID, SyncSummary{
		SyncedAt: time.Now().UTC(),
		Games:    synced,
		Skipped:  len(games) - len(valid),
	})

	s.bus.Publish(events.Event{
		Topic:   events.TopicLibrarySynced,
		UserID:  userID,
		Payload: map[string]any{"count": synced},
	})
	return synced, nil
}

// LastSync reports the previous sync run for the user, if any.
func (s *Service) LastSync(userID string) (SyncSummary, bool) {
	return s.mirror.LastSummary(userID)
}

// SyncAchievements replaces one game's achievement set wholesale. Failures
// are logged and returned, but callers looping a library treat them as
// skippable.
func (s *Service) SyncAchievements(ctx context.Context, userID, steamID string, appID int) error {
	raw, err := s.gateway.PlayerAchievements(ctx, steamID, appID)
	if err != nil {
		s.log.Warn().Err(err).Int("app_id", appID).Str("kind", string(steam.KindOf(err))).
			Msg("achievement fetch failed")
		return err
	}

	achievements := make([]library.Achievement, 0, len(raw))
	for _, a := range raw {
		achievements = append(achievements, library.Achievement{
			ID:          a.APIName,
			Achieved:    a.Achieved == 1,
			UnlockTime:  a.UnlockTime,
			Name:        a.Name,
			Description: a.Description,
		})
	}

	if err := s.entries.ReplaceAchievements(ctx, userID, appID, achievements); err != nil {
		s.log.Warn().Err(err).Int("app_id", appID).Msg("achievement persist failed")
		return err
	}
	return nil
}

// Disconnect clears all persisted sync state for the user: profile,
// sync-derived entries, and the mirror. Safe to call repeatedly.
func (s *Service) Disconnect(ctx context.Context, userID string) error {
	if err := s.entries.DeleteSynced(ctx, userID); err != nil {
		return err
	}
	if err := s.profiles.ClearSteamProfile(ctx, userID); err != nil {
		return err
	}
	s.mirror.Clear(userID)

	s.bus.Publish(events.Event{
		Topic:   events.TopicLibraryUpdate,
		UserID:  userID,
		Payload: map[string]any{"disconnected": true},
	})
	return nil
}

// RecentAchievements builds the cross-game unlock feed: for up to 10 games
// that report statistics, the 3 most recent genuine unlocks each, merged
// and truncated to the 15 newest. A failed fetch for one game skips it.
func (s *Service) RecentAchievements(ctx context.Context, steamID string, games []steam.OwnedGame) []library.Achievement {
	var feed []library.Achievement

	queried := 0
	for _, g := range games {
		if !g.HasCommunityVisibleStats {
			continue
		}
		if queried >= maxAchievementGames {
			break
		}
		queried++

		raw, err := s.gateway.PlayerAchievements(ctx, steamID, g.AppID)
		if err != nil {
			s.log.Debug().Err(err).Int("app_id", g.AppID).Msg("skipping game in achievement feed")
			continue
		}

		var unlocked []library.Achievement
		for _, a := range raw {
			if a.Achieved != 1 || a.UnlockTime == 0 {
				continue
			}
			unlocked = append(unlocked, library.Achievement{
				ID:          a.APIName,
				Achieved:    true,
				UnlockTime:  a.UnlockTime,
				Name:        a.Name,
				Description: a.Description,
				GameName:    g.Name,
				GameCover:   steam.HeaderImageURL(g.AppID),
			})
		}
		sort.Slice(unlocked, func(i, j int) bool {
			return unlocked[i].UnlockTime > unlocked[j].UnlockTime
		})
		if len(unlocked) > maxUnlocksPerGame {
			unlocked = unlocked[:maxUnlocksPerGame]
		}
		feed = append(feed, unlocked...)
	}

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].UnlockTime > feed[j].UnlockTime
	})
	if len(feed) > maxRecentAchievements {
		feed = feed[:maxRecentAchievements]
	}
	return feed
}

// MirroredGames exposes the last raw snapshot for the profile merge.
func (s *Service) MirroredGames(userID string) []steam.OwnedGame {
	return s.mirror.OwnedGames(userID)
}

func entryFromOwnedGame(userID string, g steam.OwnedGame) library.Entry {
	entry := library.Entry{
		UserID:         userID,
		AppID:          g.AppID,
		Title:          g.Name,
		CoverURL:       steam.HeaderImageURL(g.AppID),
		Status:         library.StatusFromPlaytime(g.PlaytimeForever, g.Playtime2Weeks),
		PlaytimeTotal:  g.PlaytimeForever,
		PlaytimeRecent: g.Playtime2Weeks,
		FromSteam:      true,
	}
	if g.RtimeLastPlayed > 0 {
		lastPlayed := time.Unix(g.RtimeLastPlayed, 0).UTC()
		entry.LastPlayedAt = &lastPlayed
	}
	return entry
}
