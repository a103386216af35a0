package steamsync

import (
	"context"

	"github.com/grimsl/GameShelf/internal/user"
)

// userSteamRepo is the slice of the user repository the sync needs.
type userSteamRepo interface {
	SaveSteamProfile(ctx context.Context, userID string, p user.SteamProfile) error
	GetSteamProfile(ctx context.Context, userID string) (user.SteamProfile, error)
	ClearSteamProfile(ctx context.Context, userID string) error
}

// UserProfileStore keeps the connected profile on the user row itself.
type UserProfileStore struct {
	users userSteamRepo
}

func NewUserProfileStore(users userSteamRepo) *UserProfileStore {
	return &UserProfileStore{users: users}
}

func (s *UserProfileStore) SaveSteamProfile(ctx context.Context, userID string, p Profile) error {
	return s.users.SaveSteamProfile(ctx, userID, user.SteamProfile{
		SteamID:     p.SteamID,
		PersonaName: p.PersonaName,
		AvatarURL:   p.AvatarURL,
		ProfileURL:  p.ProfileURL,
		ConnectedAt: p.ConnectedAt,
	})
}

func (s *UserProfileStore) GetSteamProfile(ctx context.Context, userID string) (Profile, error) {
	p, err := s.users.GetSteamProfile(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if p.SteamID == "" {
		return Profile{}, ErrNotConnected
	}
	return Profile{
		UserID:      userID,
		SteamID:     p.SteamID,
		PersonaName: p.PersonaName,
		AvatarURL:   p.AvatarURL,
		ProfileURL:  p.ProfileURL,
		ConnectedAt: p.ConnectedAt,
	}, nil
}

func (s *UserProfileStore) ClearSteamProfile(ctx context.Context, userID string) error {
	return s.users.ClearSteamProfile(ctx, userID)
}
