package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const userColumns = `id, email, handle, password_hash, role, confirm_code, confirmed_at,
	steam_id, steam_persona, steam_avatar_url, steam_profile_url, steam_connected_at,
	created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Handle, &u.Password, &u.Role, &u.ConfirmCode, &u.ConfirmedAt,
		&u.SteamID, &u.SteamPersona, &u.SteamAvatarURL, &u.SteamProfileURL, &u.SteamConnectedAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	const query = `
	INSERT INTO users (id, email, handle, password_hash, role, confirm_code)
	VALUES (gen_random_uuid(), $1, $2, $3, COALESCE(NULLIF($4, ''), 'USER'), $5)
	ON CONFLICT (email) DO NOTHING
	RETURNING id, role, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, u.Email, u.Handle, u.Password, u.Role, u.ConfirmCode).
		Scan(&u.ID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAlreadyExists
	}
	return err
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanUser(r.db.QueryRow(timeoutCtx, query, email))
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanUser(r.db.QueryRow(timeoutCtx, query, id))
}

// Confirm marks the account confirmed when the code matches. Already
// confirmed accounts pass regardless of code.
func (r *PostgresRepo) Confirm(ctx context.Context, email, code string) error {
	const query = `
	UPDATE users
	SET confirmed_at = COALESCE(confirmed_at, now()), confirm_code = NULL, updated_at = now()
	WHERE email = $1 AND (confirmed_at IS NOT NULL OR confirm_code = $2)
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, email, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing account from a wrong code.
		if _, err := r.GetByEmail(ctx, email); err != nil {
			return err
		}
		return ErrInvalidCode
	}
	return nil
}

func (r *PostgresRepo) SaveSteamProfile(ctx context.Context, userID string, p SteamProfile) error {
	const query = `
	UPDATE users
	SET steam_id = $2, steam_persona = $3, steam_avatar_url = $4,
	    steam_profile_url = $5, steam_connected_at = $6, updated_at = now()
	WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, userID,
		p.SteamID, p.PersonaName, p.AvatarURL, p.ProfileURL, p.ConnectedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) GetSteamProfile(ctx context.Context, userID string) (SteamProfile, error) {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return SteamProfile{}, err
	}
	if u.SteamID == nil || *u.SteamID == "" {
		return SteamProfile{}, nil
	}
	p := SteamProfile{SteamID: *u.SteamID}
	if u.SteamPersona != nil {
		p.PersonaName = *u.SteamPersona
	}
	if u.SteamAvatarURL != nil {
		p.AvatarURL = *u.SteamAvatarURL
	}
	if u.SteamProfileURL != nil {
		p.ProfileURL = *u.SteamProfileURL
	}
	if u.SteamConnectedAt != nil {
		p.ConnectedAt = *u.SteamConnectedAt
	}
	return p, nil
}

func (r *PostgresRepo) ClearSteamProfile(ctx context.Context, userID string) error {
	const query = `
	UPDATE users
	SET steam_id = NULL, steam_persona = NULL, steam_avatar_url = NULL,
	    steam_profile_url = NULL, steam_connected_at = NULL, updated_at = now()
	WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, userID)
	return err
}
