package attack

import (
	"slices"

	"coc_war_stats/internal/app"
)

// SortAttacksChronologically returns a new slice with attacks sorted by timestamp (oldest first)
// Pure function: Does not modify input slice, returns new sorted slice
func SortAttacksChronologically(records []app.AttackRecord) []app.AttackRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b app.AttackRecord) int {
		return a.Timestamp.Compare(b.Timestamp.Time)
	})
	return sorted
}
