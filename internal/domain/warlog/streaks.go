package warlog

import (
	"fmt"
	"time"

	"coc_war_stats/internal/app"
)

// SignificantMargin is the star difference at which a war result counts as decisive
const SignificantMargin = 10

// FilterRecentWars keeps entries that ended strictly after asOf minus windowDays.
// Pure function: No I/O, returns new slice without modifying input
func FilterRecentWars(warLog []app.WarLogEntry, windowDays int, asOf time.Time) []app.WarLogEntry {
	cutoff := asOf.AddDate(0, 0, -windowDays)
	recent := make([]app.WarLogEntry, 0, len(warLog))
	for _, entry := range warLog {
		if entry.EndTime.After(cutoff) {
			recent = append(recent, entry)
		}
	}
	return recent
}

// IsSignificant reports whether the star difference of a war reaches SignificantMargin
func IsSignificant(entry app.WarLogEntry) bool {
	diff := entry.ClanStars - entry.OpponentStars
	if diff < 0 {
		diff = -diff
	}
	return diff >= SignificantMargin
}

// ComputeWarLogSummary counts results and streaks over the wars that ended in
// the last windowDays before asOf. Entries are walked in the order given, which
// callers keep chronological (see SortChronologically). A tie breaks both streaks.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func ComputeWarLogSummary(warLog []app.WarLogEntry, windowDays int, asOf time.Time) (app.WarStreakSummary, error) {
	if windowDays < 0 {
		return app.WarStreakSummary{}, fmt.Errorf("%w: war log window must not be negative, got %d days", app.ErrInvalidArgument, windowDays)
	}

	var summary app.WarStreakSummary
	winStreak, lossStreak := 0, 0

	for _, entry := range FilterRecentWars(warLog, windowDays, asOf) {
		switch entry.Result {
		case app.WarResultWin:
			summary.Wins++
			winStreak++
			lossStreak = 0
			if IsSignificant(entry) {
				summary.SignificantWins++
			}
		case app.WarResultLose:
			summary.Losses++
			lossStreak++
			winStreak = 0
			if IsSignificant(entry) {
				summary.SignificantLosses++
			}
		case app.WarResultTie:
			summary.Ties++
			winStreak = 0
			lossStreak = 0
		default:
			// league rounds and unknown results are not part of the record
			continue
		}

		summary.TotalWars++
		summary.MaxWinStreak = max(summary.MaxWinStreak, winStreak)
		summary.MaxLossStreak = max(summary.MaxLossStreak, lossStreak)
	}

	summary.CurrentWinStreak = winStreak
	summary.CurrentLossStreak = lossStreak
	return summary, nil
}
