package profile

import (
	"time"

	"github.com/grimsl/GameShelf/internal/library"
)

// GameView is the display shape for one game: library curation merged with
// the freshest mirrored Steam fields, pre-digested for rendering. It is
// recomputed on every read and never persisted.
type GameView struct {
	EntryID             string         `json:"entry_id,omitempty"`
	AppID               int            `json:"app_id"`
	Title               string         `json:"title"`
	CoverURL            string         `json:"cover_url,omitempty"`
	Status              library.Status `json:"status"`
	Rating              *int           `json:"rating,omitempty"`
	Notes               string         `json:"notes,omitempty"`
	HoursPlayed         int            `json:"hours_played"`
	PlaytimeDisplay     string         `json:"playtime_display"`
	PlaytimeRecent      int            `json:"playtime_recent_minutes"`
	LastPlayedAt        *time.Time     `json:"last_played_at,omitempty"`
	AchievementProgress int            `json:"achievement_progress"`
	FromSteam           bool           `json:"from_steam"`
}

// Stats are the profile's aggregate numbers.
type Stats struct {
	TotalGames    int                    `json:"total_games"`
	ByStatus      map[library.Status]int `json:"by_status"`
	AverageRating float64                `json:"average_rating"`
	TotalHours    int                    `json:"total_hours"`
}

// Overview is everything the profile page renders in one read.
type Overview struct {
	Games            []GameView `json:"games"`
	Stats            Stats      `json:"stats"`
	CurrentlyPlaying []GameView `json:"currently_playing"`
	RecentActivity   []GameView `json:"recent_activity"`
}
