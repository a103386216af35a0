package profile

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/grimsl/GameShelf/internal/library"
	"github.com/grimsl/GameShelf/internal/platform/steam"
)

// MirrorReader exposes the raw owned-games snapshot kept by the sync.
type MirrorReader interface {
	OwnedGames(userID string) []steam.OwnedGame
}

// Service produces the read-only derived views for a user's profile page.
// It must always return something renderable: missing mirror data, partial
// entries, and empty libraries all degrade to zero values, never errors
// visible past the library read itself.
type Service struct {
	entries library.Repository
	mirror  MirrorReader
	log     zerolog.Logger
}

func NewService(entries library.Repository, mirror MirrorReader, log zerolog.Logger) *Service {
	return &Service{
		entries: entries,
		mirror:  mirror,
		log:     log.With().Str("component", "profile").Logger(),
	}
}

// Overview builds the full profile view in one pass.
func (s *Service) Overview(ctx context.Context, userID string) (Overview, error) {
	entries, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		return Overview{}, err
	}

	merged := mergeEntries(entries, s.mirror.OwnedGames(userID))
	views := make([]GameView, 0, len(merged))
	for _, e := range merged {
		views = append(views, viewOf(e))
	}

	return Overview{
		Games:            views,
		Stats:            computeStats(merged),
		CurrentlyPlaying: currentlyPlaying(views),
		RecentActivity:   viewsOf(library.RecentActivity(merged)),
	}, nil
}

// Stats computes the aggregate numbers alone.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	entries, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return computeStats(mergeEntries(entries, s.mirror.OwnedGames(userID))), nil
}

// mergeEntries reconciles durable entries with the raw mirror snapshot.
// The mirror supplies playtime for entries whose sync fields are behind,
// and contributes display-only rows for owned games that have no entry yet.
func mergeEntries(entries []library.Entry, mirrored []steam.OwnedGame) []library.Entry {
	byApp := make(map[int]steam.OwnedGame, len(mirrored))
	for _, g := range mirrored {
		byApp[g.AppID] = g
	}

	merged := make([]library.Entry, 0, len(entries))
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if g, ok := byApp[e.AppID]; ok {
			if g.PlaytimeForever > e.PlaytimeTotal {
				e.PlaytimeTotal = g.PlaytimeForever
			}
			if g.Playtime2Weeks > e.PlaytimeRecent {
				e.PlaytimeRecent = g.Playtime2Weeks
			}
			if e.LastPlayedAt == nil && g.RtimeLastPlayed > 0 {
				t := time.Unix(g.RtimeLastPlayed, 0).UTC()
				e.LastPlayedAt = &t
			}
		}
		seen[e.AppID] = true
		merged = append(merged, e)
	}

	// Mirror-only games render too, with a derived status and no entry id.
	for _, g := range mirrored {
		if seen[g.AppID] || g.AppID <= 0 || g.Name == "" {
			continue
		}
		e := library.Entry{
			AppID:          g.AppID,
			Title:          g.Name,
			CoverURL:       steam.HeaderImageURL(g.AppID),
			Status:         library.StatusFromPlaytime(g.PlaytimeForever, g.Playtime2Weeks),
			PlaytimeTotal:  g.PlaytimeForever,
			PlaytimeRecent: g.Playtime2Weeks,
			FromSteam:      true,
		}
		if g.RtimeLastPlayed > 0 {
			t := time.Unix(g.RtimeLastPlayed, 0).UTC()
			e.LastPlayedAt = &t
		}
		merged = append(merged, e)
	}
	return merged
}

func computeStats(entries []library.Entry) Stats {
	stats := Stats{
		TotalGames: len(entries),
		ByStatus:   make(map[library.Status]int),
	}

	totalMinutes := 0
	ratingSum := 0
	rated := 0
	for _, e := range entries {
		stats.ByStatus[e.Status]++
		totalMinutes += e.PlaytimeTotal
		if e.Rating != nil {
			ratingSum += *e.Rating
			rated++
		}
	}
	if rated > 0 {
		stats.AverageRating = math.Round(float64(ratingSum)/float64(rated)*10) / 10
	}
	stats.TotalHours = int(math.Round(float64(totalMinutes) / 60.0))
	return stats
}

// currentlyPlaying picks entries with nonzero recent playtime, most
// recently played first, top 3.
func currentlyPlaying(views []GameView) []GameView {
	var playing []GameView
	for _, v := range views {
		if v.PlaytimeRecent > 0 {
			playing = append(playing, v)
		}
	}
	sort.Slice(playing, func(i, j int) bool {
		return lastPlayedUnix(playing[i]) > lastPlayedUnix(playing[j])
	})
	if len(playing) > 3 {
		playing = playing[:3]
	}
	if playing == nil {
		playing = []GameView{}
	}
	return playing
}

func lastPlayedUnix(v GameView) int64 {
	if v.LastPlayedAt == nil {
		return 0
	}
	return v.LastPlayedAt.Unix()
}

func viewOf(e library.Entry) GameView {
	return GameView{
		EntryID:             e.ID,
		AppID:               e.AppID,
		Title:               e.Title,
		CoverURL:            e.CoverURL,
		Status:              e.Status,
		Rating:              e.Rating,
		Notes:               e.Notes,
		HoursPlayed:         library.HoursPlayed(e.PlaytimeTotal),
		PlaytimeDisplay:     library.FormatPlaytime(e.PlaytimeTotal),
		PlaytimeRecent:      e.PlaytimeRecent,
		LastPlayedAt:        e.LastPlayedAt,
		AchievementProgress: library.AchievementProgress(e.Achievements),
		FromSteam:           e.FromSteam,
	}
}

func viewsOf(entries []library.Entry) []GameView {
	views := make([]GameView, 0, len(entries))
	for _, e := range entries {
		views = append(views, viewOf(e))
	}
	return views
}
