package archive

import (
	"fmt"
	"time"

	"coc_war_stats/internal/app"
)

// PlayerRow is one archived player summary
type PlayerRow struct {
	RunID             string    `bigquery:"run_id"`
	ClanTag           string    `bigquery:"clan_tag"`
	GeneratedAt       time.Time `bigquery:"generated_at"`
	Member            string    `bigquery:"member"`
	Attacks           int       `bigquery:"attacks"`
	TotalStars        int       `bigquery:"total_stars"`
	AveragePercentage float64   `bigquery:"average_percentage"`
	TotalPoints       float64   `bigquery:"total_points"`
	ArmyUsed          string    `bigquery:"army_used"`
}

// ArmyRow is one archived army summary
type ArmyRow struct {
	RunID               string    `bigquery:"run_id"`
	ClanTag             string    `bigquery:"clan_tag"`
	GeneratedAt         time.Time `bigquery:"generated_at"`
	AttackName          string    `bigquery:"attack_name"`
	Tier                string    `bigquery:"tier"`
	UsageCount          int       `bigquery:"usage_count"`
	OneStar             int       `bigquery:"one_star"`
	TwoStars            int       `bigquery:"two_stars"`
	ThreeStars          int       `bigquery:"three_stars"`
	AveragePercentage   float64   `bigquery:"average_percentage"`
	TotalPoints         float64   `bigquery:"total_points"`
	UsedAgainstHigherTH int       `bigquery:"used_against_higher_th"`
	UsedAgainstEqualTH  int       `bigquery:"used_against_equal_th"`
	UsedAgainstLowerTH  int       `bigquery:"used_against_lower_th"`
	Players             []string  `bigquery:"players"`
}

// RunRow is the per-run header with the war log summary
type RunRow struct {
	RunID             string    `bigquery:"run_id"`
	ClanTag           string    `bigquery:"clan_tag"`
	GeneratedAt       time.Time `bigquery:"generated_at"`
	WindowStart       time.Time `bigquery:"window_start"`
	WindowEnd         time.Time `bigquery:"window_end"`
	WarTimestamp      string    `bigquery:"war_timestamp"`
	TotalWars         int       `bigquery:"total_wars"`
	Wins              int       `bigquery:"wins"`
	Losses            int       `bigquery:"losses"`
	Ties              int       `bigquery:"ties"`
	MaxWinStreak      int       `bigquery:"max_win_streak"`
	MaxLossStreak     int       `bigquery:"max_loss_streak"`
	CurrentWinStreak  int       `bigquery:"current_win_streak"`
	CurrentLossStreak int       `bigquery:"current_loss_streak"`
	MissingAttacks    int       `bigquery:"missing_attacks"`
	RejectedInputs    int       `bigquery:"rejected_inputs"`
}

// ConvertPlayers flattens player summaries into archive rows
func ConvertPlayers(report *app.ClanReport) []PlayerRow {
	rows := make([]PlayerRow, 0, len(report.Players))
	for _, p := range report.Players {
		rows = append(rows, PlayerRow{
			RunID:             report.RunID,
			ClanTag:           report.ClanTag,
			GeneratedAt:       report.GeneratedAt,
			Member:            p.Member,
			Attacks:           p.Attacks,
			TotalStars:        p.TotalStars,
			AveragePercentage: p.AveragePercentage,
			TotalPoints:       p.TotalPoints,
			ArmyUsed:          p.ArmyUsed,
		})
	}
	return rows
}

// ConvertArmies flattens army summaries into archive rows
func ConvertArmies(report *app.ClanReport) []ArmyRow {
	rows := make([]ArmyRow, 0, len(report.Armies))
	for _, a := range report.Armies {
		rows = append(rows, ArmyRow{
			RunID:               report.RunID,
			ClanTag:             report.ClanTag,
			GeneratedAt:         report.GeneratedAt,
			AttackName:          a.AttackName,
			Tier:                string(a.Tier),
			UsageCount:          a.UsageCount,
			OneStar:             a.OneStar,
			TwoStars:            a.TwoStars,
			ThreeStars:          a.ThreeStars,
			AveragePercentage:   a.AveragePercentage,
			TotalPoints:         a.TotalPoints,
			UsedAgainstHigherTH: a.UsedAgainstHigherTH,
			UsedAgainstEqualTH:  a.UsedAgainstEqualTH,
			UsedAgainstLowerTH:  a.UsedAgainstLowerTH,
			Players:             append([]string{}, a.Players...),
		})
	}
	return rows
}

// ConvertRun builds the run header row
func ConvertRun(report *app.ClanReport) RunRow {
	return RunRow{
		RunID:             report.RunID,
		ClanTag:           report.ClanTag,
		GeneratedAt:       report.GeneratedAt,
		WindowStart:       report.WindowStart,
		WindowEnd:         report.WindowEnd,
		WarTimestamp:      report.WarTimestamp,
		TotalWars:         report.WarLog.TotalWars,
		Wins:              report.WarLog.Wins,
		Losses:            report.WarLog.Losses,
		Ties:              report.WarLog.Ties,
		MaxWinStreak:      report.WarLog.MaxWinStreak,
		MaxLossStreak:     report.WarLog.MaxLossStreak,
		CurrentWinStreak:  report.WarLog.CurrentWinStreak,
		CurrentLossStreak: report.WarLog.CurrentLossStreak,
		MissingAttacks:    len(report.MissingAttacks),
		RejectedInputs:    report.RejectedInputs,
	}
}

// insertID makes streaming inserts idempotent across retries of the same run
func insertID(runID, table string, index int) string {
	return fmt.Sprintf("%s/%s/%d", runID, table, index)
}
