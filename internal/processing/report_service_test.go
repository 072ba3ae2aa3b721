package processing

import (
	"errors"
	"testing"
	"time"

	"coc_war_stats/internal/app"
)

const testWarTimestamp = "20240629T120000.000Z"

var testAsOf = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func newTestReportService(options ReportOptions) *ReportService {
	service := NewReportService(options)
	service.newRunID = func() string { return "run-1" }
	return service
}

func testAttack(member, army string, percentage float64, stars int, attackerTH, defenderTH string, daysAgo int, warTimestamp string) app.AttackRecord {
	return app.AttackRecord{
		Member:        member,
		Attack:        army,
		Percentage:    percentage,
		Stars:         stars,
		MemberThLevel: attackerTH,
		ThRival:       defenderTH,
		Timestamp:     app.NewTimestamp(testAsOf.AddDate(0, 0, -daysAgo)),
		WarTimestamp:  warTimestamp,
	}
}

func testInput() ReportInput {
	return ReportInput{
		ClanTag: "#CLAN",
		Members: []app.Member{
			{Tag: "#A", Name: "Alice", TownHallLevel: 15, Donations: 500, DonationsReceived: 100},
			{Tag: "#B", Name: "Bob", TownHallLevel: 14, Donations: 900, DonationsReceived: 300},
			{Tag: "", Name: "", TownHallLevel: 0},
		},
		WarLog: []app.WarLogEntry{
			{Result: "win", ClanStars: 40, OpponentStars: 20, EndTime: app.NewTimestamp(testAsOf.AddDate(0, 0, -3))},
			{Result: "lose", ClanStars: 25, OpponentStars: 30, EndTime: app.NewTimestamp(testAsOf.AddDate(0, 0, -10))},
			{Result: "draw", EndTime: app.NewTimestamp(testAsOf.AddDate(0, 0, -12))},
		},
		Attacks: []app.AttackRecord{
			testAttack("Alice", "Hydra", 100, 3, "TH15", "TH15", 1, testWarTimestamp),
			testAttack("Bob", "Hydra", 80, 2, "TH14", "TH15", 2, testWarTimestamp),
			testAttack("Alice", "Lalo", 90, 3, "TH15", "TH15", 40, "20240520T120000.000Z"),
			testAttack("Mallory", "Hydra", 100, 3, "15", "TH15", 1, testWarTimestamp),
		},
		CurrentWar: &app.CurrentWar{State: "inWar", WarTimestamp: testWarTimestamp, AttacksPerMember: 2},
		AsOf:       testAsOf,
	}
}

func TestReportService_BuildReport(t *testing.T) {
	service := newTestReportService(ReportOptions{RequiredAttacks: 2, ArmyWindowDays: 30, WarLogWindowDays: 30})

	report, err := service.BuildReport(testInput())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if report.RunID != "run-1" || report.ClanTag != "#CLAN" {
		t.Errorf("Unexpected report identity: %s %s", report.RunID, report.ClanTag)
	}
	if report.RejectedInputs != 3 {
		t.Errorf("Expected 3 rejected inputs, got %d", report.RejectedInputs)
	}
	if !report.WindowStart.Equal(testAsOf.AddDate(0, 0, -30)) || !report.WindowEnd.Equal(testAsOf) {
		t.Errorf("Unexpected window %v - %v", report.WindowStart, report.WindowEnd)
	}

	// Only the two in-window Hydra attacks count, so Hydra is used twice
	if len(report.Players) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(report.Players))
	}
	if report.Players[0].Member != "Alice" || report.Players[0].TotalPoints != 1.5 {
		t.Errorf("Unexpected top player: %+v", report.Players[0])
	}
	if report.Players[1].Member != "Bob" || report.Players[1].TotalPoints != 1.125 {
		t.Errorf("Unexpected second player: %+v", report.Players[1])
	}

	if len(report.Armies) != 1 || report.Armies[0].AttackName != "Hydra" || report.Armies[0].UsageCount != 2 {
		t.Errorf("Unexpected armies: %+v", report.Armies)
	}

	// War log is walked oldest first: lose then win
	expectedWarLog := app.WarStreakSummary{
		TotalWars: 2, Wins: 1, Losses: 1,
		MaxWinStreak: 1, MaxLossStreak: 1, CurrentWinStreak: 1,
		SignificantWins: 1,
	}
	if report.WarLog != expectedWarLog {
		t.Errorf("Expected war log %+v, got %+v", expectedWarLog, report.WarLog)
	}

	if report.WarTimestamp != testWarTimestamp {
		t.Errorf("Expected war timestamp %s, got %s", testWarTimestamp, report.WarTimestamp)
	}
	if len(report.MissingAttacks) != 2 {
		t.Fatalf("Expected 2 members missing attacks, got %d", len(report.MissingAttacks))
	}
	for _, missing := range report.MissingAttacks {
		if missing.AttacksMade != 1 || missing.AttacksMissing != 1 {
			t.Errorf("Unexpected gap for %s: %+v", missing.Name, missing)
		}
	}

	if len(report.Donations) != 2 || report.Donations[0].Name != "Bob" {
		t.Errorf("Expected Bob to lead donations, got %+v", report.Donations)
	}
}

func TestReportService_NotInWar(t *testing.T) {
	service := newTestReportService(ReportOptions{RequiredAttacks: 2, ArmyWindowDays: 30, WarLogWindowDays: 30})

	input := testInput()
	input.CurrentWar = &app.CurrentWar{State: "notInWar"}

	report, err := service.BuildReport(input)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if report.MissingAttacks == nil || len(report.MissingAttacks) != 0 {
		t.Errorf("Expected empty missing attacks, got %v", report.MissingAttacks)
	}
	if report.WarTimestamp != "" {
		t.Errorf("Expected no war timestamp, got %s", report.WarTimestamp)
	}
}

func TestReportService_FallsBackToRequiredAttacks(t *testing.T) {
	service := newTestReportService(ReportOptions{RequiredAttacks: 3, ArmyWindowDays: 30, WarLogWindowDays: 30})

	input := testInput()
	input.CurrentWar.AttacksPerMember = 0

	report, err := service.BuildReport(input)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, missing := range report.MissingAttacks {
		if missing.AttacksMissing != 2 {
			t.Errorf("Expected 2 missing with quota 3, got %+v", missing)
		}
	}
}

func TestReportService_UnboundedArmyWindow(t *testing.T) {
	service := newTestReportService(ReportOptions{RequiredAttacks: 2, ArmyWindowDays: 0, WarLogWindowDays: 30})

	report, err := service.BuildReport(testInput())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !report.WindowStart.IsZero() {
		t.Errorf("Expected open window start, got %v", report.WindowStart)
	}
	if len(report.Armies) != 2 {
		t.Errorf("Expected Hydra and Lalo with an open window, got %d armies", len(report.Armies))
	}
}

func TestReportService_NegativeWarLogWindow(t *testing.T) {
	service := newTestReportService(ReportOptions{RequiredAttacks: 2, ArmyWindowDays: 30, WarLogWindowDays: -1})

	_, err := service.BuildReport(testInput())
	if !errors.Is(err, app.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestReportService_EmptyInput(t *testing.T) {
	service := newTestReportService(ReportOptions{RequiredAttacks: 2, ArmyWindowDays: 30, WarLogWindowDays: 30})

	report, err := service.BuildReport(ReportInput{ClanTag: "#CLAN", AsOf: testAsOf})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(report.Players) != 0 || len(report.Armies) != 0 || report.WarLog.TotalWars != 0 || report.RejectedInputs != 0 {
		t.Errorf("Expected empty report, got %+v", report)
	}
}

func TestReportOptionsFromConfig(t *testing.T) {
	options := ReportOptionsFromConfig(&app.Config{RequiredAttacks: 1, ArmyWindowDays: 7, WarLogWindowDays: 14})

	if options != (ReportOptions{RequiredAttacks: 1, ArmyWindowDays: 7, WarLogWindowDays: 14}) {
		t.Errorf("Unexpected options: %+v", options)
	}
}
