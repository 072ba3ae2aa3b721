package warlog

import (
	"slices"

	"coc_war_stats/internal/app"
)

// SortChronologically returns a new slice with wars sorted by end time (oldest first).
// The game API lists the war log newest first.
// Pure function: Does not modify input slice, returns new sorted slice
func SortChronologically(warLog []app.WarLogEntry) []app.WarLogEntry {
	sorted := slices.Clone(warLog)
	slices.SortStableFunc(sorted, func(a, b app.WarLogEntry) int {
		return a.EndTime.Compare(b.EndTime.Time)
	})
	return sorted
}
