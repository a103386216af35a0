package library

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/grimsl/GameShelf/internal/events"
)

// Service provides library curation: manual adds, rating/notes/status edits,
// and removal. Sync-driven writes go through steamsync, not here.
type Service struct {
	repo Repository
	bus  *events.Bus
	log  zerolog.Logger
}

func NewService(repo Repository, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
		log:  log.With().Str("component", "library").Logger(),
	}
}

// List returns every entry the user owns, most recently touched first.
func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one entry by id.
func (s *Service) Get(ctx context.Context, userID, entryID string) (Entry, error) {
	return s.repo.GetByID(ctx, userID, entryID)
}

// Add creates a manual entry for a catalog game. Manual adds start as plans
// with the status unlocked, so a later sync may promote them.
func (s *Service) Add(ctx context.Context, userID string, appID int, title, coverURL string) (Entry, error) {
	entry := Entry{
		UserID:   userID,
		AppID:    appID,
		Title:    title,
		CoverURL: coverURL,
		Status:   StatusPlanning,
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		return Entry{}, err
	}

	s.bus.Publish(events.Event{
		Topic:   events.TopicGameAdded,
		UserID:  userID,
		Payload: map[string]any{"app_id": appID, "title": title},
	})
	return entry, nil
}

// UpdateCuration applies a partial edit of rating, notes, or status.
func (s *Service) UpdateCuration(ctx context.Context, userID, entryID string, upd CurationUpdate) (Entry, error) {
	if err := upd.Validate(); err != nil {
		return Entry{}, err
	}
	if err := s.repo.UpdateCuration(ctx, userID, entryID, upd); err != nil {
		return Entry{}, err
	}

	entry, err := s.repo.GetByID(ctx, userID, entryID)
	if err != nil {
		return Entry{}, err
	}

	s.bus.Publish(events.Event{
		Topic:   events.TopicLibraryUpdate,
		UserID:  userID,
		Payload: map[string]any{"entry_id": entryID},
	})
	return entry, nil
}

// Remove deletes one entry.
func (s *Service) Remove(ctx context.Context, userID, entryID string) error {
	if err := s.repo.Delete(ctx, userID, entryID); err != nil {
		return err
	}
	s.bus.Publish(events.Event{
		Topic:   events.TopicLibraryUpdate,
		UserID:  userID,
		Payload: map[string]any{"entry_id": entryID, "removed": true},
	})
	return nil
}
