package steamsync

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimsl/GameShelf/internal/cache"
	"github.com/grimsl/GameShelf/internal/events"
	"github.com/grimsl/GameShelf/internal/library"
	"github.com/grimsl/GameShelf/internal/platform/steam"
)

// fakeGateway serves canned Steam payloads and counts achievement calls.
type fakeGateway struct {
	summary    *steam.PlayerSummary
	summaryErr error

	owned    []steam.OwnedGame
	ownedErr error

	achievements     map[int][]steam.PlayerAchievement
	achievementErrs  map[int]error
	achievementCalls int
}

func (g *fakeGateway) PlayerSummary(context.Context, string) (*steam.PlayerSummary, error) {
	return g.summary, g.summaryErr
}

func (g *fakeGateway) OwnedGames(context.Context, string) ([]steam.OwnedGame, error) {
	return g.owned, g.ownedErr
}

func (g *fakeGateway) PlayerAchievements(_ context.Context, _ string, appID int) ([]steam.PlayerAchievement, error) {
	g.achievementCalls++
	if err, ok := g.achievementErrs[appID]; ok {
		return nil, err
	}
	return g.achievements[appID], nil
}

// fakeEntries is an in-memory library repository with the same status-lock
// upsert semantics as the postgres one.
type fakeEntries struct {
	entries map[string]*library.Entry
	nextID  int
}

func newFakeEntries() *fakeEntries {
	return &fakeEntries{entries: make(map[string]*library.Entry)}
}

func (r *fakeEntries) byApp(userID string, appID int) *library.Entry {
	for _, e := range r.entries {
		if e.UserID == userID && e.AppID == appID {
			return e
		}
	}
	return nil
}

func (r *fakeEntries) Create(_ context.Context, e *library.Entry) error {
	if r.byApp(e.UserID, e.AppID) != nil {
		return library.ErrAlreadyExists
	}
	r.nextID++
	e.ID = fmt.Sprintf("entry-%d", r.nextID)
	stored := *e
	r.entries[e.ID] = &stored
	return nil
}

func (r *fakeEntries) GetByID(_ context.Context, userID, entryID string) (library.Entry, error) {
	e, ok := r.entries[entryID]
	if !ok || e.UserID != userID {
		return library.Entry{}, library.ErrNotFound
	}
	return *e, nil
}

func (r *fakeEntries) GetByApp(_ context.Context, userID string, appID int) (library.Entry, error) {
	if e := r.byApp(userID, appID); e != nil {
		return *e, nil
	}
	return library.Entry{}, library.ErrNotFound
}

func (r *fakeEntries) ListByUser(_ context.Context, userID string) ([]library.Entry, error) {
	var out []library.Entry
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEntries) UpdateCuration(_ context.Context, userID, entryID string, upd library.CurationUpdate) error {
	e, ok := r.entries[entryID]
	if !ok || e.UserID != userID {
		return library.ErrNotFound
	}
	if upd.Rating != nil {
		rating := *upd.Rating
		e.Rating = &rating
	}
	if upd.Notes != nil {
		e.Notes = *upd.Notes
	}
	if upd.Status != nil {
		e.Status = *upd.Status
		e.StatusLocked = true
	}
	return nil
}

func (r *fakeEntries) UpsertFromSync(_ context.Context, e *library.Entry) (bool, error) {
	now := time.Now()
	if existing := r.byApp(e.UserID, e.AppID); existing != nil {
		existing.Title = e.Title
		existing.CoverURL = e.CoverURL
		existing.PlaytimeTotal = e.PlaytimeTotal
		existing.PlaytimeRecent = e.PlaytimeRecent
		existing.LastPlayedAt = e.LastPlayedAt
		existing.FromSteam = true
		existing.SyncedAt = &now
		if !existing.StatusLocked {
			existing.Status = e.Status
		}
		*e = *existing
		return false, nil
	}
	r.nextID++
	e.ID = fmt.Sprintf("entry-%d", r.nextID)
	e.FromSteam = true
	e.SyncedAt = &now
	stored := *e
	r.entries[e.ID] = &stored
	return true, nil
}

func (r *fakeEntries) ReplaceAchievements(_ context.Context, userID string, appID int, achievements []library.Achievement) error {
	e := r.byApp(userID, appID)
	if e == nil {
		return library.ErrNotFound
	}
	e.Achievements = achievements
	return nil
}

func (r *fakeEntries) Delete(_ context.Context, userID, entryID string) error {
	e, ok := r.entries[entryID]
	if !ok || e.UserID != userID {
		return library.ErrNotFound
	}
	delete(r.entries, entryID)
	return nil
}

func (r *fakeEntries) DeleteSynced(_ context.Context, userID string) error {
	for id, e := range r.entries {
		if e.UserID == userID && e.FromSteam {
			delete(r.entries, id)
		}
	}
	return nil
}

// fakeProfiles stores connected profiles in a map.
type fakeProfiles struct {
	profiles map[string]Profile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: make(map[string]Profile)}
}

func (p *fakeProfiles) SaveSteamProfile(_ context.Context, userID string, profile Profile) error {
	p.profiles[userID] = profile
	return nil
}

func (p *fakeProfiles) GetSteamProfile(_ context.Context, userID string) (Profile, error) {
	profile, ok := p.profiles[userID]
	if !ok {
		return Profile{}, ErrNotConnected
	}
	return profile, nil
}

func (p *fakeProfiles) ClearSteamProfile(_ context.Context, userID string) error {
	delete(p.profiles, userID)
	return nil
}

type syncFixture struct {
	gateway  *fakeGateway
	entries  *fakeEntries
	profiles *fakeProfiles
	mirror   *Mirror
	bus      *events.Bus
	service  *Service
}

func newSyncFixture(gateway *fakeGateway) *syncFixture {
	entries := newFakeEntries()
	profiles := newFakeProfiles()
	mirror := NewMirror(cache.New(cache.NewMemoryStore(), zerolog.Nop()))
	bus := events.NewBus(zerolog.Nop())
	return &syncFixture{
		gateway:  gateway,
		entries:  entries,
		profiles: profiles,
		mirror:   mirror,
		bus:      bus,
		service:  NewService(gateway, entries, profiles, mirror, bus, zerolog.Nop()),
	}
}

func ownedGame(appID int, name string, total, recent int) steam.OwnedGame {
	return steam.OwnedGame{AppID: appID, Name: name, PlaytimeForever: total, Playtime2Weeks: recent}
}

func TestConnectProfile(t *testing.T) {
	fx := newSyncFixture(&fakeGateway{summary: &steam.PlayerSummary{
		SteamID:     "76561198000000001",
		PersonaName: "tester",
		ProfileURL:  "https://steamcommunity.com/id/tester",
		AvatarFull:  "https://example.com/avatar.jpg",
	}})

	profile, err := fx.service.ConnectProfile(context.Background(), "u1", "76561198000000001")
	require.NoError(t, err)
	assert.Equal(t, "tester", profile.PersonaName)

	stored, err := fx.service.Profile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "76561198000000001", stored.SteamID)
}

func TestConnectProfilePropagatesGatewayError(t *testing.T) {
	fx := newSyncFixture(&fakeGateway{summaryErr: &steam.APIError{Kind: steam.KindPrivateProfile, Op: "summary"}})

	_, err := fx.service.ConnectProfile(context.Background(), "u1", "76561198000000001")
	require.Error(t, err)
	assert.Equal(t, steam.KindPrivateProfile, steam.KindOf(err))
	_, err = fx.service.Profile(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSyncLibraryDerivesStatusFromPlaytime(t *testing.T) {
	fx := newSyncFixture(&fakeGateway{owned: []steam.OwnedGame{
		ownedGame(10, "Active", 600, 120),
		ownedGame(20, "Unplayed", 0, 0),
		ownedGame(30, "Shelved", 600, 0),
	}})

	count, err := fx.service.SyncLibrary(context.Background(), "u1", "steam1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	active, err := fx.entries.GetByApp(context.Background(), "u1", 10)
	require.NoError(t, err)
	assert.Equal(t, library.StatusPlaying, active.Status)
	assert.True(t, active.FromSteam)

	unplayed, err := fx.entries.GetByApp(context.Background(), "u1", 20)
	require.NoError(t, err)
	assert.Equal(t, library.StatusPlanning, unplayed.Status)

	shelved, err := fx.entries.GetByApp(context.Background(), "u1", 30)
	require.NoError(t, err)
	assert.Equal(t, library.StatusPaused, shelved.Status)
}

func TestSyncLibraryFiltersPartialRecords(t *testing.T) {
	fx := newSyncFixture(&fakeGateway{owned: []steam.OwnedGame{
		ownedGame(10, "Valid", 100, 0),
		ownedGame(0, "No id", 100, 0),
		ownedGame(20, "", 100, 0),
	}})

	count, err := fx.service.SyncLibrary(context.Background(), "u1", "steam1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, fx.service.MirroredGames("u1"), 1)
}

func TestSyncLibraryEmptyListIsSuccessfulZero(t *testing.T) {
	fx := newSyncFixture(&fakeGateway{owned: nil})

	count, err := fx.service.SyncLibrary(context.Background(), "u1", "steam1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSyncLibraryFailedFetchIsError(t *testing.T) {
	fx := newSyncFixture(&fakeGateway{ownedErr: &steam.APIError{Kind: steam.KindUnavailable, Op: "owned"}})

	_, err := fx.service.SyncLibrary(context.Background(), "u1", "steam1")
	assert.Error(t, err)
}

func TestSyncLibraryIdempotentAndPreservesCuration(t *testing.T) {
	fx := newSyncFixture(&fakeGateway{owned: []steam.OwnedGame{
		ownedGame(10, "Game", 600, 120),
	}})

	_, err := fx.service.SyncLibrary(context.Background(), "u1", "steam1")
	require.NoError(t, err)

	// User rates the game and pins a status between syncs.
	entry := fx.entries.byApp("u1", 10)
	require.NotNil(t, entry)
	rating := 5
	status := library.StatusFinished
	require.NoError(t, fx.entries.UpdateCuration(context.Background(), "u1", entry.ID, library.CurationUpdate{
		Rating: &rating,
		Status: &status,
	}))

	// Re-sync with more playtime. One entry, rating kept, status untouched.
	fx.gateway.owned = []steam.OwnedGame{ownedGame(10, "Game", 900, 30)}
	count, err := fx.service.SyncLibrary(context.Background(), "u1", "steam1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	entries, _ := fx.entries.ListByUser(context.Background(), "u1")
	require.Len(t, entries, 1)
	got := entries[0]
	assert.Equal(t, 900, got.PlaytimeTotal)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 5, *got.Rating)
	assert.Equal(t, library.StatusFinished, got.Status, "locked status survives re-sync")
}

func TestSyncLibraryPublishesEvent(t *testing.T) {
	fx := newSyncFixture(&fakeGateway{owned: []steam.OwnedGame{
		ownedGame(10, "Game", 100, 0),
		ownedGame(20, "Other", 50, 0),
	}})
	synced, cancel := fx.bus.Subscribe(events.TopicLibrarySynced)
	defer cancel()

	_, err := fx.service.SyncLibrary(context.Background(), "u1", "steam1")
	require.NoError(t, err)

	select {
	case evt := <-synced:
		assert.Equal(t, "u1", evt.UserID)
		assert.Equal(t, 2, evt.Payload["count"])
	default:
		t.Fatal("expected library synced event")
	}
}

func achieved(id string, unlockTime int64) steam.PlayerAchievement {
	return steam.PlayerAchievement{APIName: id, Achieved: 1, UnlockTime: unlockTime}
}

func TestSyncAchievementsReplacesWholesale(t *testing.T) {
	fx := newSyncFixture(&fakeGateway{
		owned: []steam.OwnedGame{ownedGame(10, "Game", 100, 0)},
		achievements: map[int][]steam.PlayerAchievement{
			10: {achieved("first", 1000), {APIName: "second", Achieved: 0}},
		},
	})
	_, err := fx.service.SyncLibrary(context.Background(), "u1", "steam1")
	require.NoError(t, err)

	require.NoError(t, fx.service.SyncAchievements(context.Background(), "u1", "steam1", 10))
	entry := fx.entries.byApp("u1", 10)
	require.Len(t, entry.Achievements, 2)
	assert.True(t, entry.Achievements[0].Achieved)
	assert.False(t, entry.Achievements[1].Achieved)

	// A later sync with fewer achievements replaces, not merges.
	fx.gateway.achievements[10] = []steam.PlayerAchievement{achieved("first", 1000)}
	require.NoError(t, fx.service.SyncAchievements(context.Background(), "u1", "steam1", 10))
	assert.Len(t, fx.entries.byApp("u1", 10).Achievements, 1)
}

func TestRecentAchievementsCaps(t *testing.T) {
	gateway := &fakeGateway{achievements: make(map[int][]steam.PlayerAchievement)}
	var games []steam.OwnedGame
	// 11 games with visible stats, 5 unlocks each. Only 10 games may be
	// queried, 3 unlocks per game, 15 overall.
	for g := 0; g < 11; g++ {
		appID := 100 + g
		game := ownedGame(appID, fmt.Sprintf("Game %d", g), 100, 0)
		game.HasCommunityVisibleStats = true
		games = append(games, game)
		for a := 0; a < 5; a++ {
			gateway.achievements[appID] = append(gateway.achievements[appID],
				achieved(fmt.Sprintf("ach-%d-%d", g, a), int64(10000+g*100+a)))
		}
	}
	fx := newSyncFixture(gateway)

	feed := fx.service.RecentAchievements(context.Background(), "steam1", games)
	assert.Len(t, feed, 15)
	assert.Equal(t, 10, gateway.achievementCalls)

	perGame := make(map[string]int)
	for i, a := range feed {
		perGame[a.GameName]++
		if i > 0 {
			assert.GreaterOrEqual(t, feed[i-1].UnlockTime, a.UnlockTime, "feed must be newest first")
		}
	}
	for name, n := range perGame {
		assert.LessOrEqual(t, n, 3, "game %s exceeded per-game cap", name)
	}
}

func TestRecentAchievementsSkipsFailuresAndLocked(t *testing.T) {
	gateway := &fakeGateway{
		achievements: map[int][]steam.PlayerAchievement{
			10: {achieved("a", 100)},
			// Unlocked-at-zero and not-achieved records never count.
			30: {{APIName: "b", Achieved: 1, UnlockTime: 0}, {APIName: "c", Achieved: 0, UnlockTime: 50}},
		},
		achievementErrs: map[int]error{20: &steam.APIError{Kind: steam.KindPrivateProfile, Op: "ach"}},
	}
	stats := func(g steam.OwnedGame) steam.OwnedGame {
		g.HasCommunityVisibleStats = true
		return g
	}
	games := []steam.OwnedGame{
		stats(ownedGame(10, "Fine", 10, 0)),
		stats(ownedGame(20, "Private", 10, 0)),
		stats(ownedGame(30, "Nothing real", 10, 0)),
		ownedGame(40, "No stats", 10, 0),
	}
	fx := newSyncFixture(gateway)

	feed := fx.service.RecentAchievements(context.Background(), "steam1", games)
	require.Len(t, feed, 1)
	assert.Equal(t, "a", feed[0].ID)
	assert.Equal(t, "Fine", feed[0].GameName)
	assert.Equal(t, 3, gateway.achievementCalls, "game without stats is never queried")
}

func TestDisconnect(t *testing.T) {
	fx := newSyncFixture(&fakeGateway{
		summary: &steam.PlayerSummary{SteamID: "steam1", PersonaName: "tester"},
		owned:   []steam.OwnedGame{ownedGame(10, "Synced", 100, 0)},
	})

	_, err := fx.service.ConnectProfile(context.Background(), "u1", "steam1")
	require.NoError(t, err)
	_, err = fx.service.SyncLibrary(context.Background(), "u1", "steam1")
	require.NoError(t, err)

	// Manual entry survives the disconnect.
	manual := &library.Entry{UserID: "u1", AppID: 999, Title: "Manual", Status: library.StatusPlanning}
	require.NoError(t, fx.entries.Create(context.Background(), manual))

	require.NoError(t, fx.service.Disconnect(context.Background(), "u1"))

	entries, _ := fx.entries.ListByUser(context.Background(), "u1")
	require.Len(t, entries, 1)
	assert.Equal(t, 999, entries[0].AppID)
	assert.Nil(t, fx.service.MirroredGames("u1"))
	_, err = fx.service.Profile(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNotConnected)

	// Disconnecting again is a no-op, not an error.
	assert.NoError(t, fx.service.Disconnect(context.Background(), "u1"))
}

func TestSyncLibraryRecordsSummary(t *testing.T) {
	fx := newSyncFixture(&fakeGateway{owned: []steam.OwnedGame{
		ownedGame(10, "First", 600, 120),
		ownedGame(0, "Broken", 10, 0),
		ownedGame(20, "Second", 0, 0),
	}})

	_, ok := fx.service.LastSync("u1")
	assert.False(t, ok, "no summary before the first sync")

	count, err := fx.service.SyncLibrary(context.Background(), "u1", "steam-1")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	summary, ok := fx.service.LastSync("u1")
	require.True(t, ok)
	assert.Equal(t, 2, summary.Games)
	assert.Equal(t, 1, summary.Skipped)
	assert.False(t, summary.SyncedAt.IsZero())

	require.NoError(t, fx.service.Disconnect(context.Background(), "u1"))
	_, ok = fx.service.LastSync("u1")
	assert.False(t, ok, "disconnect clears the summary")
}
