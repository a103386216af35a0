package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatPlaytime(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		want    string
	}{
		{"zero", 0, "0 minutes"},
		{"negative clamps to zero", -5, "0 minutes"},
		{"one minute", 1, "1 minute"},
		{"under an hour", 59, "59 minutes"},
		{"exactly one hour", 60, "1 hour"},
		{"whole hours", 180, "3 hours"},
		{"hours and minutes", 90, "1h 30m"},
		{"many hours and minutes", 1234, "20h 34m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPlaytime(tt.minutes))
		})
	}
}

func TestHoursPlayed(t *testing.T) {
	assert.Equal(t, 0, HoursPlayed(0))
	assert.Equal(t, 0, HoursPlayed(-10))
	assert.Equal(t, 1, HoursPlayed(60))
	assert.Equal(t, 2, HoursPlayed(90)) // rounds up
	assert.Equal(t, 1, HoursPlayed(89)) // rounds down
}

func TestAchievementProgress(t *testing.T) {
	assert.Equal(t, 0, AchievementProgress(nil))
	assert.Equal(t, 0, AchievementProgress([]Achievement{}))

	achievements := []Achievement{
		{ID: "a", Achieved: true},
		{ID: "b", Achieved: true},
		{ID: "c", Achieved: true},
		{ID: "d", Achieved: false},
	}
	assert.Equal(t, 75, AchievementProgress(achievements))

	third := []Achievement{
		{ID: "a", Achieved: true},
		{ID: "b", Achieved: false},
		{ID: "c", Achieved: false},
	}
	assert.Equal(t, 33, AchievementProgress(third))
}

func TestStatusFromPlaytime(t *testing.T) {
	tests := []struct {
		name   string
		total  int
		recent int
		want   Status
	}{
		{"never played", 0, 0, StatusPlanning},
		{"negative total", -1, 0, StatusPlanning},
		{"played recently", 600, 120, StatusPlaying},
		{"played long ago", 600, 0, StatusPaused},
		{"recent but zero total is still a plan", 0, 30, StatusPlanning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromPlaytime(tt.total, tt.recent))
		})
	}
}

func TestValidateStatus(t *testing.T) {
	for _, s := range []Status{StatusPlaying, StatusFinished, StatusPaused, StatusDropped, StatusPlanning} {
		assert.NoError(t, ValidateStatus(s))
	}
	assert.Error(t, ValidateStatus("backlog"))
	assert.Error(t, ValidateStatus(""))
}

func TestCurationUpdateValidate(t *testing.T) {
	rating := 3
	assert.NoError(t, CurationUpdate{Rating: &rating}.Validate())

	bad := 6
	assert.ErrorIs(t, CurationUpdate{Rating: &bad}.Validate(), ErrInvalidRating)

	zero := 0
	assert.ErrorIs(t, CurationUpdate{Rating: &zero}.Validate(), ErrInvalidRating)

	longNotes := string(make([]byte, MaxNotesLength+1))
	assert.ErrorIs(t, CurationUpdate{Notes: &longNotes}.Validate(), ErrNotesTooLong)

	okNotes := "solid roguelike"
	assert.NoError(t, CurationUpdate{Notes: &okNotes}.Validate())

	status := StatusFinished
	assert.NoError(t, CurationUpdate{Status: &status}.Validate())

	invalid := Status("wishlist")
	assert.Error(t, CurationUpdate{Status: &invalid}.Validate())
}

func entryPlayedAt(appID, total, recent int, playedAt time.Time) Entry {
	return Entry{
		AppID:          appID,
		PlaytimeTotal:  total,
		PlaytimeRecent: recent,
		LastPlayedAt:   &playedAt,
	}
}

func TestRecentActivity(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("caps active at 5 and quiet at 3", func(t *testing.T) {
		var entries []Entry
		// 7 actively played games, newest first by construction.
		for i := 0; i < 7; i++ {
			entries = append(entries, entryPlayedAt(100+i, 600, 60, base.Add(-time.Duration(i)*time.Hour)))
		}
		// 5 quiet games, older than all active ones.
		for i := 0; i < 5; i++ {
			entries = append(entries, entryPlayedAt(200+i, 600, 0, base.Add(-time.Duration(100+i)*time.Hour)))
		}

		got := RecentActivity(entries)
		assert.Len(t, got, 8)

		active, quiet := 0, 0
		for _, e := range got {
			if e.PlaytimeRecent > 0 {
				active++
			} else {
				quiet++
			}
		}
		assert.Equal(t, 5, active)
		assert.Equal(t, 3, quiet)
	})

	t.Run("never played games are excluded", func(t *testing.T) {
		entries := []Entry{
			{AppID: 1, PlaytimeTotal: 0, PlaytimeRecent: 0},
			entryPlayedAt(2, 300, 0, base),
		}
		got := RecentActivity(entries)
		assert.Len(t, got, 1)
		assert.Equal(t, 2, got[0].AppID)
	})

	t.Run("merged feed is newest first", func(t *testing.T) {
		entries := []Entry{
			entryPlayedAt(1, 600, 0, base.Add(-1*time.Hour)),  // quiet, newer
			entryPlayedAt(2, 600, 30, base.Add(-5*time.Hour)), // active, older
		}
		got := RecentActivity(entries)
		assert.Len(t, got, 2)
		assert.Equal(t, 1, got[0].AppID)
		assert.Equal(t, 2, got[1].AppID)
	})

	t.Run("overall cap is 10", func(t *testing.T) {
		var entries []Entry
		for i := 0; i < 20; i++ {
			recent := 0
			if i%2 == 0 {
				recent = 10
			}
			entries = append(entries, entryPlayedAt(i, 600, recent, base.Add(-time.Duration(i)*time.Minute)))
		}
		got := RecentActivity(entries)
		assert.LessOrEqual(t, len(got), 10)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, RecentActivity(nil))
	})
}
