package sheets

import (
	"fmt"
	"strings"
	"time"

	"coc_war_stats/internal/app"
	"coc_war_stats/internal/domain/attack"
)

const sheetTimeFormat = "2006-01-02 15:04:05"

// formatSheetTime renders a time for a cell, leaving open window bounds blank
func formatSheetTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(sheetTimeFormat)
}

// ConvertPlayersToRows renders player summaries with a header row
func ConvertPlayersToRows(players []app.PlayerSummary) [][]interface{} {
	rows := [][]interface{}{
		{"Member", "Attacks", "Total Stars", "Avg %", "Points", "Armies Used"},
	}
	for _, p := range players {
		rows = append(rows, []interface{}{
			p.Member,
			p.Attacks,
			p.TotalStars,
			attack.RoundTo(p.AveragePercentage, 2),
			attack.RoundTo(p.TotalPoints, 2),
			p.ArmyUsed,
		})
	}
	return rows
}

// ConvertArmiesToRows renders army summaries with a header row
func ConvertArmiesToRows(armies []app.ArmySummary) [][]interface{} {
	rows := [][]interface{}{
		{"Army", "Tier", "Uses", "1 Star", "2 Stars", "3 Stars", "Avg %", "Points", "vs Higher TH", "vs Equal TH", "vs Lower TH", "Players"},
	}
	for _, a := range armies {
		rows = append(rows, []interface{}{
			a.AttackName,
			string(a.Tier),
			a.UsageCount,
			a.OneStar,
			a.TwoStars,
			a.ThreeStars,
			a.AveragePercentage,
			attack.RoundTo(a.TotalPoints, 2),
			a.UsedAgainstHigherTH,
			a.UsedAgainstEqualTH,
			a.UsedAgainstLowerTH,
			strings.Join(a.Players, ", "),
		})
	}
	return rows
}

// ConvertWarLogToRows renders the war log summary as label/value pairs
func ConvertWarLogToRows(summary app.WarStreakSummary, windowDays int) [][]interface{} {
	return [][]interface{}{
		{fmt.Sprintf("War Log (last %d days)", windowDays)},
		{},
		{"Total Wars", summary.TotalWars},
		{"Wins", summary.Wins},
		{"Losses", summary.Losses},
		{"Ties", summary.Ties},
		{},
		{"Streaks"},
		{"Longest Win Streak", summary.MaxWinStreak},
		{"Longest Loss Streak", summary.MaxLossStreak},
		{"Current Win Streak", summary.CurrentWinStreak},
		{"Current Loss Streak", summary.CurrentLossStreak},
		{},
		{"Decisive Results"},
		{"Significant Wins", summary.SignificantWins},
		{"Significant Losses", summary.SignificantLosses},
	}
}

// ConvertMissingAttacksToRows renders members short of the attack quota
func ConvertMissingAttacksToRows(warTimestamp string, missing []app.MissingAttacks) [][]interface{} {
	title := "Not in war"
	if warTimestamp != "" {
		title = "War " + warTimestamp
	}
	rows := [][]interface{}{
		{title},
		{"Tag", "Name", "Attacks Made", "Attacks Missing"},
	}
	for _, m := range missing {
		rows = append(rows, []interface{}{m.Tag, m.Name, m.AttacksMade, m.AttacksMissing})
	}
	return rows
}

// ConvertDonationsToRows renders the donation ranking with a header row
func ConvertDonationsToRows(donations []app.DonationSummary) [][]interface{} {
	rows := [][]interface{}{
		{"Name", "Donations", "Received", "Ratio"},
	}
	for _, d := range donations {
		rows = append(rows, []interface{}{d.Name, d.Donations, d.DonationsReceived, d.Ratio})
	}
	return rows
}

// GenerateHistoryHeaders creates the header row of the run history sheet
func GenerateHistoryHeaders() [][]interface{} {
	return [][]interface{}{
		{"Run ID", "Generated At", "Window Start", "Window End", "Players", "Armies", "Wars", "Missing Attacks", "Rejected Inputs"},
	}
}

// ConvertReportToHistoryRow renders one run history line
func ConvertReportToHistoryRow(report *app.ClanReport) []interface{} {
	return []interface{}{
		report.RunID,
		formatSheetTime(report.GeneratedAt),
		formatSheetTime(report.WindowStart),
		formatSheetTime(report.WindowEnd),
		len(report.Players),
		len(report.Armies),
		report.WarLog.TotalWars,
		len(report.MissingAttacks),
		report.RejectedInputs,
	}
}
