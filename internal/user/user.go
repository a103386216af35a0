package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
	ErrInvalidCode   = errors.New("invalid confirmation code")
	ErrNotConfirmed  = errors.New("account not confirmed")
)

// User is a registered GameShelf account. Password holds the bcrypt hash,
// never the plaintext. Steam fields are nil until a profile is connected.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Handle   string `json:"handle"`
	Password string `json:"-"`
	Role     string `json:"role"`

	ConfirmCode *string    `json:"-"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`

	SteamID          *string    `json:"steam_id,omitempty"`
	SteamPersona     *string    `json:"steam_persona,omitempty"`
	SteamAvatarURL   *string    `json:"steam_avatar_url,omitempty"`
	SteamProfileURL  *string    `json:"steam_profile_url,omitempty"`
	SteamConnectedAt *time.Time `json:"steam_connected_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SteamProfile is the connected-identity slice of a user row.
type SteamProfile struct {
	SteamID     string
	PersonaName string
	AvatarURL   string
	ProfileURL  string
	ConnectedAt time.Time
}

// Confirmed reports whether the account finished email confirmation.
func (u *User) Confirmed() bool {
	return u.ConfirmedAt != nil
}
