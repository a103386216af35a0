package library

import (
	"context"
)

// Repository is the contract for durable library-entry storage.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, userID, entryID string) (Entry, error)
	GetByApp(ctx context.Context, userID string, appID int) (Entry, error)
	ListByUser(ctx context.Context, userID string) ([]Entry, error)

	// UpdateCuration applies a partial user edit. A status change must set
	// status_locked so later syncs leave it alone.
	UpdateCuration(ctx context.Context, userID, entryID string, upd CurationUpdate) error

	// UpsertFromSync creates or refreshes the entry for (user, app),
	// idempotent on the game identifier. It refreshes playtime, last-played,
	// cover, and sync timestamps but never clobbers rating, notes, or a
	// locked status. Returns true when a new row was created.
	UpsertFromSync(ctx context.Context, e *Entry) (bool, error)

	// ReplaceAchievements swaps the achievement set wholesale for one game.
	ReplaceAchievements(ctx context.Context, userID string, appID int, achievements []Achievement) error

	Delete(ctx context.Context, userID, entryID string) error

	// DeleteSynced removes every sync-derived entry for the user. Manual
	// adds survive a disconnect.
	DeleteSynced(ctx context.Context, userID string) error
}
