package attack

import (
	"time"

	"coc_war_stats/internal/app"

	"github.com/samber/lo"
)

// IsWithinWindow checks whether t falls inside [start, end].
// A zero bound leaves that side of the window open.
func IsWithinWindow(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}

// FilterByTimeWindow returns the records whose timestamp lies inside the inclusive window
// Pure function: No I/O, returns new slice without modifying input
func FilterByTimeWindow(records []app.AttackRecord, start, end time.Time) []app.AttackRecord {
	return lo.Filter(records, func(record app.AttackRecord, _ int) bool {
		return IsWithinWindow(record.Timestamp.Time, start, end)
	})
}

// FilterAttacksForWar returns the records reported against the war identified by warTimestamp.
// An empty war timestamp matches nothing.
// Pure function: No I/O, returns new slice without modifying input
func FilterAttacksForWar(records []app.AttackRecord, warTimestamp string) []app.AttackRecord {
	if warTimestamp == "" {
		return []app.AttackRecord{}
	}
	return lo.Filter(records, func(record app.AttackRecord, _ int) bool {
		return record.WarTimestamp == warTimestamp
	})
}
