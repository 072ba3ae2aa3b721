package warlog

import (
	"errors"
	"testing"
	"time"

	"coc_war_stats/internal/app"
)

var asOf = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

// war builds an entry that ended daysAgo before asOf
func war(result string, clanStars, opponentStars, daysAgo int) app.WarLogEntry {
	return app.WarLogEntry{
		Result:        result,
		ClanStars:     clanStars,
		OpponentStars: opponentStars,
		EndTime:       app.NewTimestamp(asOf.AddDate(0, 0, -daysAgo)),
	}
}

func TestComputeWarLogSummary(t *testing.T) {
	tests := []struct {
		name     string
		warLog   []app.WarLogEntry
		expected app.WarStreakSummary
	}{
		{
			name:     "empty log",
			warLog:   nil,
			expected: app.WarStreakSummary{},
		},
		{
			name: "win streak broken by a loss",
			warLog: []app.WarLogEntry{
				war("win", 30, 20, 20), war("win", 30, 25, 18), war("lose", 20, 30, 16),
				war("win", 30, 28, 14), war("win", 30, 29, 12), war("win", 30, 15, 10),
			},
			expected: app.WarStreakSummary{
				TotalWars: 6, Wins: 5, Losses: 1,
				MaxWinStreak: 3, MaxLossStreak: 1,
				CurrentWinStreak: 3,
				SignificantWins:  2, SignificantLosses: 1,
			},
		},
		{
			name: "tie resets both streaks",
			warLog: []app.WarLogEntry{
				war("lose", 20, 25, 9), war("lose", 20, 25, 8), war("tie", 25, 25, 7), war("lose", 10, 40, 6),
			},
			expected: app.WarStreakSummary{
				TotalWars: 4, Losses: 3, Ties: 1,
				MaxLossStreak: 2, CurrentLossStreak: 1,
				SignificantLosses: 1,
			},
		},
		{
			name: "margin of exactly ten is significant",
			warLog: []app.WarLogEntry{
				war("win", 40, 30, 3), war("win", 39, 30, 2),
			},
			expected: app.WarStreakSummary{
				TotalWars: 2, Wins: 2, MaxWinStreak: 2, CurrentWinStreak: 2, SignificantWins: 1,
			},
		},
		{
			name: "entries outside the window are ignored",
			warLog: []app.WarLogEntry{
				war("lose", 0, 45, 31), war("lose", 0, 45, 30), war("win", 30, 20, 29),
			},
			expected: app.WarStreakSummary{
				TotalWars: 1, Wins: 1, MaxWinStreak: 1, CurrentWinStreak: 1, SignificantWins: 1,
			},
		},
		{
			name: "unknown results are skipped",
			warLog: []app.WarLogEntry{
				war("win", 30, 20, 3), war("", 0, 0, 2), war("win", 30, 20, 1),
			},
			expected: app.WarStreakSummary{
				TotalWars: 2, Wins: 2, MaxWinStreak: 2, CurrentWinStreak: 2, SignificantWins: 2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeWarLogSummary(tt.warLog, 30, asOf)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestComputeWarLogSummary_NegativeWindow(t *testing.T) {
	_, err := ComputeWarLogSummary([]app.WarLogEntry{war("win", 30, 20, 1)}, -1, asOf)
	if !errors.Is(err, app.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestComputeWarLogSummary_ZeroWindow(t *testing.T) {
	future := app.WarLogEntry{Result: "win", EndTime: app.NewTimestamp(asOf.Add(time.Minute))}

	got, err := ComputeWarLogSummary([]app.WarLogEntry{war("win", 30, 20, 0), future}, 0, asOf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// An entry ending exactly at asOf is not strictly after the cutoff
	if got.TotalWars != 1 {
		t.Errorf("Expected 1 war, got %d", got.TotalWars)
	}
}

func TestIsSignificant(t *testing.T) {
	tests := []struct {
		clan, opponent int
		expected       bool
	}{
		{40, 30, true},
		{30, 40, true},
		{35, 30, false},
		{0, 0, false},
	}

	for _, tt := range tests {
		entry := app.WarLogEntry{ClanStars: tt.clan, OpponentStars: tt.opponent}
		if got := IsSignificant(entry); got != tt.expected {
			t.Errorf("IsSignificant(%d vs %d): expected %v, got %v", tt.clan, tt.opponent, tt.expected, got)
		}
	}
}

func TestSortChronologically(t *testing.T) {
	log := []app.WarLogEntry{war("win", 30, 20, 1), war("lose", 20, 30, 5), war("tie", 25, 25, 3)}

	sorted := SortChronologically(log)

	if sorted[0].Result != "lose" || sorted[1].Result != "tie" || sorted[2].Result != "win" {
		t.Errorf("Wars not sorted oldest first: %v", sorted)
	}
	if log[0].Result != "win" {
		t.Errorf("Original slice was modified")
	}
}
