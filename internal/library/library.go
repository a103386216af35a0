package library

import (
	"errors"
	"fmt"
	"time"
)

// Status is a library entry's curation state. Sync only ever assigns
// planning, playing, or paused; finished and dropped are human-only.
type Status string

const (
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
	StatusPaused   Status = "paused"
	StatusDropped  Status = "dropped"
	StatusPlanning Status = "planning"
)

func ValidateStatus(status Status) error {
	switch status {
	case StatusPlaying, StatusFinished, StatusPaused, StatusDropped, StatusPlanning:
		return nil
	default:
		return fmt.Errorf("invalid status: %s", status)
	}
}

// StatusFromPlaytime derives the sync-assigned status from playtime minutes.
// Unplayed games are plans; played games are playing or paused depending on
// recent activity.
func StatusFromPlaytime(totalMinutes, recentMinutes int) Status {
	switch {
	case totalMinutes <= 0:
		return StatusPlanning
	case recentMinutes > 0:
		return StatusPlaying
	default:
		return StatusPaused
	}
}

// MaxNotesLength bounds free-text notes.
const MaxNotesLength = 2000

var (
	ErrNotFound      = errors.New("library entry not found")
	ErrAlreadyExists = errors.New("library entry already exists")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrNotesTooLong  = errors.New("notes exceed maximum length")
)

// Achievement is one unlockable on one game. The set is replaced wholesale
// on each achievement sync, never merged field by field. Game name/cover are
// denormalized so activity feeds render without a join.
type Achievement struct {
	ID          string `json:"id"`
	Achieved    bool   `json:"achieved"`
	UnlockTime  int64  `json:"unlock_time"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	GameName    string `json:"game_name,omitempty"`
	GameCover   string `json:"game_cover,omitempty"`
}

// Entry is a user's durable record for one game: a catalog reference plus
// personal curation, and sync-derived playtime when the game came from Steam.
type Entry struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	AppID        int    `json:"app_id"`
	Title        string `json:"title"`
	CoverURL     string `json:"cover_url,omitempty"`
	Status       Status `json:"status"`
	StatusLocked bool   `json:"status_locked"`
	Rating       *int   `json:"rating,omitempty"`
	Notes        string `json:"notes,omitempty"`

	// Sync-derived fields, zero for manually added entries.
	PlaytimeTotal  int           `json:"playtime_total_minutes"`
	PlaytimeRecent int           `json:"playtime_recent_minutes"`
	LastPlayedAt   *time.Time    `json:"last_played_at,omitempty"`
	Achievements   []Achievement `json:"achievements,omitempty"`
	FromSteam      bool          `json:"from_steam"`
	SyncedAt       *time.Time    `json:"synced_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CurationUpdate is a partial edit of the user-owned fields. Nil means
// "leave unchanged". Setting Status locks it against sync recomputation.
type CurationUpdate struct {
	Rating *int
	Notes  *string
	Status *Status
}

func (u CurationUpdate) Validate() error {
	if u.Rating != nil && (*u.Rating < 1 || *u.Rating > 5) {
		return ErrInvalidRating
	}
	if u.Notes != nil && len(*u.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	if u.Status != nil {
		return ValidateStatus(*u.Status)
	}
	return nil
}
