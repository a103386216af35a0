package user

import "context"

// Repository persists accounts and their connected Steam identity.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Confirm(ctx context.Context, email, code string) error

	SaveSteamProfile(ctx context.Context, userID string, p SteamProfile) error
	GetSteamProfile(ctx context.Context, userID string) (SteamProfile, error)
	ClearSteamProfile(ctx context.Context, userID string) error
}
