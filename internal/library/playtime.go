package library

import (
	"fmt"
	"math"
	"sort"
)

// FormatPlaytime renders minutes for display: "0 minutes", "45 minutes",
// "1 hour", "3 hours", "1h 30m".
func FormatPlaytime(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := minutes / 60
	rem := minutes % 60
	if rem == 0 {
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, rem)
}

// HoursPlayed converts playtime minutes to whole hours, rounded.
func HoursPlayed(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return int(math.Round(float64(minutes) / 60.0))
}

// AchievementProgress returns the rounded percentage of achievements
// unlocked, 0 for an empty or absent list.
func AchievementProgress(achievements []Achievement) int {
	if len(achievements) == 0 {
		return 0
	}
	achieved := 0
	for _, a := range achievements {
		if a.Achieved {
			achieved++
		}
	}
	return int(math.Round(float64(achieved) / float64(len(achievements)) * 100))
}

// RecentActivity builds the activity feed from a user's entries: up to 5
// actively played games (nonzero recent playtime) plus up to 3 games that
// were played but have gone quiet, re-merged newest first and truncated to
// the 10 most recent overall.
func RecentActivity(entries []Entry) []Entry {
	var active, quiet []Entry
	for _, e := range entries {
		switch {
		case e.PlaytimeRecent > 0:
			active = append(active, e)
		case e.PlaytimeTotal > 0:
			quiet = append(quiet, e)
		}
	}

	byLastPlayed := func(list []Entry) func(i, j int) bool {
		return func(i, j int) bool {
			return lastPlayedUnix(list[i]) > lastPlayedUnix(list[j])
		}
	}
	sort.Slice(active, byLastPlayed(active))
	sort.Slice(quiet, byLastPlayed(quiet))

	if len(active) > 5 {
		active = active[:5]
	}
	if len(quiet) > 3 {
		quiet = quiet[:3]
	}

	merged := append(append([]Entry{}, active...), quiet...)
	sort.Slice(merged, byLastPlayed(merged))
	if len(merged) > 10 {
		merged = merged[:10]
	}
	return merged
}

func lastPlayedUnix(e Entry) int64 {
	if e.LastPlayedAt == nil {
		return 0
	}
	return e.LastPlayedAt.Unix()
}
