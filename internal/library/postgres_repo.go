package library

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
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

const entryColumns = `
	id, user_id, app_id, title, cover_url, status, status_locked, rating, notes,
	playtime_total, playtime_recent, last_played_at, achievements, from_steam,
	synced_at, created_at, updated_at
`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	var achievements []byte
	err := row.Scan(
		&e.ID, &e.UserID, &e.AppID, &e.Title, &e.CoverURL, &e.Status, &e.StatusLocked,
		&e.Rating, &e.Notes, &e.PlaytimeTotal, &e.PlaytimeRecent, &e.LastPlayedAt,
		&achievements, &e.FromSteam, &e.SyncedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return Entry{}, err
	}
	if len(achievements) > 0 {
		// A corrupt achievements blob degrades to "no achievements", it
		// does not fail the whole read.
		_ = json.Unmarshal(achievements, &e.Achievements)
	}
	return e, nil
}

func (r *PostgresRepo) Create(ctx context.Context, e *Entry) error {
	const query = `
	INSERT INTO library_entries
		(id, user_id, app_id, title, cover_url, status, status_locked, rating, notes,
		 playtime_total, playtime_recent, last_played_at, achievements, from_steam, synced_at)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, '[]'::jsonb, $12, $13)
	ON CONFLICT (user_id, app_id) DO NOTHING
	RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		e.UserID, e.AppID, e.Title, e.CoverURL, e.Status, e.StatusLocked,
		e.Rating, e.Notes, e.PlaytimeTotal, e.PlaytimeRecent, e.LastPlayedAt,
		e.FromSteam, e.SyncedAt,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAlreadyExists
	}
	return err
}

func (r *PostgresRepo) GetByID(ctx context.Context, userID, entryID string) (Entry, error) {
	const query = `
	SELECT ` + entryColumns + `
	FROM library_entries
	WHERE user_id = $1 AND id = $2
	LIMIT 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	e, err := scanEntry(r.db.QueryRow(timeoutCtx, query, userID, entryID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

func (r *PostgresRepo) GetByApp(ctx context.Context, userID string, appID int) (Entry, error) {
	const query = `
	SELECT ` + entryColumns + `
	FROM library_entries
	WHERE user_id = $1 AND app_id = $2
	LIMIT 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	e, err := scanEntry(r.db.QueryRow(timeoutCtx, query, userID, appID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	const query = `
	SELECT ` + entryColumns + `
	FROM library_entries
	WHERE user_id = $1
	ORDER BY updated_at DESC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresRepo) UpdateCuration(ctx context.Context, userID, entryID string, upd CurationUpdate) error {
	fields := []string{}
	args := []any{}
	argn := 1

	if upd.Rating != nil {
		fields = append(fields, "rating = $"+strconv.Itoa(argn))
		args = append(args, *upd.Rating)
		argn++
	}
	if upd.Notes != nil {
		fields = append(fields, "notes = $"+strconv.Itoa(argn))
		args = append(args, *upd.Notes)
		argn++
	}
	if upd.Status != nil {
		fields = append(fields, "status = $"+strconv.Itoa(argn))
		args = append(args, *upd.Status)
		argn++
		fields = append(fields, "status_locked = true")
	}
	if len(fields) == 0 {
		return nil
	}

	fields = append(fields, "updated_at = now()")
	args = append(args, userID, entryID)

	query := "UPDATE library_entries SET " + strings.Join(fields, ", ") +
		" WHERE user_id = $" + strconv.Itoa(argn) + " AND id = $" + strconv.Itoa(argn+1)
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) UpsertFromSync(ctx context.Context, e *Entry) (bool, error) {
	// xmax = 0 distinguishes a fresh insert from a conflict update. A locked
	// status is preserved; everything sync owns is refreshed.
	const query = `
	INSERT INTO library_entries
		(id, user_id, app_id, title, cover_url, status, status_locked, rating, notes,
		 playtime_total, playtime_recent, last_played_at, achievements, from_steam, synced_at)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, false, NULL, '', $6, $7, $8, '[]'::jsonb, true, now())
	ON CONFLICT (user_id, app_id) DO UPDATE SET
		title           = EXCLUDED.title,
		cover_url       = EXCLUDED.cover_url,
		playtime_total  = EXCLUDED.playtime_total,
		playtime_recent = EXCLUDED.playtime_recent,
		last_played_at  = EXCLUDED.last_played_at,
		from_steam      = true,
		synced_at       = now(),
		status = CASE WHEN library_entries.status_locked
			THEN library_entries.status ELSE EXCLUDED.status END,
		updated_at = now()
	RETURNING id, status, status_locked, rating, notes, synced_at, created_at, updated_at, (xmax = 0)
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var created bool
	err := r.db.QueryRow(timeoutCtx, query,
		e.UserID, e.AppID, e.Title, e.CoverURL, e.Status,
		e.PlaytimeTotal, e.PlaytimeRecent, e.LastPlayedAt,
	).Scan(&e.ID, &e.Status, &e.StatusLocked, &e.Rating, &e.Notes, &e.SyncedAt, &e.CreatedAt, &e.UpdatedAt, &created)
	return created, err
}

func (r *PostgresRepo) ReplaceAchievements(ctx context.Context, userID string, appID int, achievements []Achievement) error {
	blob, err := json.Marshal(achievements)
	if err != nil {
		return err
	}
	const query = `
	UPDATE library_entries
	SET achievements = $3, updated_at = now()
	WHERE user_id = $1 AND app_id = $2
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, userID, appID, blob)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, userID, entryID string) error {
	const query = `DELETE FROM library_entries WHERE user_id = $1 AND id = $2`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, userID, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) DeleteSynced(ctx context.Context, userID string) error {
	const query = `DELETE FROM library_entries WHERE user_id = $1 AND from_steam = true`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, userID)
	return err
}
