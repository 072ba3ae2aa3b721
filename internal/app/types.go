package app

import "time"

// AttackRecord represents a single reported war attack from the backend attack log
type AttackRecord struct {
	Member        string    `json:"member" validate:"required"`
	Attack        string    `json:"attack" validate:"required"`
	Percentage    float64   `json:"percentage" validate:"gte=0,lte=100"`
	Stars         int       `json:"stars" validate:"gte=1,lte=3"`
	MemberThLevel string    `json:"memberThLevel" validate:"townhall"`
	ThRival       string    `json:"thRival" validate:"townhall"`
	Timestamp     Timestamp `json:"timestamp"`
	WarTimestamp  string    `json:"warTimestamp"`
	Description   string    `json:"description,omitempty"`
}

// Possible WarLogEntry results
const (
	WarResultWin  = "win"
	WarResultLose = "lose"
	WarResultTie  = "tie"
)

// WarLogEntry represents one finished war from the clan war log
type WarLogEntry struct {
	Result        string    `json:"result" validate:"oneof=win lose tie"`
	ClanStars     int       `json:"clanStars" validate:"gte=0"`
	OpponentStars int       `json:"opponentStars" validate:"gte=0"`
	EndTime       Timestamp `json:"endTime"`
}

// Member represents a clan roster member
type Member struct {
	Tag               string `json:"tag" validate:"required"`
	Name              string `json:"name" validate:"required"`
	TownHallLevel     int    `json:"townHallLevel" validate:"gte=1"`
	Donations         int    `json:"donations" validate:"gte=0"`
	DonationsReceived int    `json:"donationsReceived" validate:"gte=0"`
}

// CurrentWar describes the war the clan is currently in, if any
type CurrentWar struct {
	State            string `json:"state"`
	WarTimestamp     string `json:"warTimestamp"`
	AttacksPerMember int    `json:"attacksPerMember"`
}

// InWar reports whether the clan is preparing for or fighting a war
func (w *CurrentWar) InWar() bool {
	return w != nil && w.WarTimestamp != "" && (w.State == "preparation" || w.State == "inWar" || w.State == "warEnded")
}

// MembersResponse represents the response from /clans/{tag}/members
type MembersResponse struct {
	Items []Member `json:"items"`
}

// WarLogResponse represents the response from /clans/{tag}/warlog
type WarLogResponse struct {
	Items []WarLogEntry `json:"items"`
}

// PlayerSummary represents per-player aggregate attack performance
type PlayerSummary struct {
	Member            string  `json:"member"`
	TotalStars        int     `json:"totalStars"`
	AveragePercentage float64 `json:"averagePercentage"`
	TotalPoints       float64 `json:"totalPoints"`
	ArmyUsed          string  `json:"armyUsed"`
	Attacks           int     `json:"attacks"`
}

// ArmyTier is the rank-based label of an army within one result set
type ArmyTier string

const (
	TierBest       ArmyTier = "best"
	TierAverage    ArmyTier = "average"
	TierBorderline ArmyTier = "borderline"
	TierWorst      ArmyTier = "worst"
)

// ArmySummary represents aggregate performance of one army composition
type ArmySummary struct {
	AttackName          string   `json:"attackName"`
	OneStar             int      `json:"oneStar"`
	TwoStars            int      `json:"twoStars"`
	ThreeStars          int      `json:"threeStars"`
	AveragePercentage   float64  `json:"averagePercentage"`
	TotalPoints         float64  `json:"totalPoints"`
	UsageCount          int      `json:"usageCount"`
	UsedAgainstHigherTH int      `json:"usedAgainstHigherTH"`
	UsedAgainstEqualTH  int      `json:"usedAgainstEqualTH"`
	UsedAgainstLowerTH  int      `json:"usedAgainstLowerTH"`
	Players             []string `json:"players"`
	Tier                ArmyTier `json:"tier"`
}

// WarStreakSummary holds war log totals and streaks within a rolling window
type WarStreakSummary struct {
	TotalWars         int `json:"totalWars"`
	Wins              int `json:"wins"`
	Losses            int `json:"losses"`
	Ties              int `json:"ties"`
	MaxWinStreak      int `json:"maxWinStreak"`
	MaxLossStreak     int `json:"maxLossStreak"`
	CurrentWinStreak  int `json:"currentWinStreak"`
	CurrentLossStreak int `json:"currentLossStreak"`
	SignificantWins   int `json:"significantWins"`
	SignificantLosses int `json:"significantLosses"`
}

// MissingAttacks describes a roster member who has not met the attack quota
type MissingAttacks struct {
	Tag            string `json:"tag"`
	Name           string `json:"name"`
	AttacksMade    int    `json:"attacksMade"`
	AttacksMissing int    `json:"attacksMissing"`
}

// DonationSummary represents one roster member's donation standing
type DonationSummary struct {
	Name              string  `json:"name"`
	Donations         int     `json:"donations"`
	DonationsReceived int     `json:"donationsReceived"`
	Ratio             float64 `json:"ratio"`
}

// ClanReport bundles every aggregate produced in one reporting cycle
type ClanReport struct {
	RunID          string            `json:"runId"`
	ClanTag        string            `json:"clanTag"`
	GeneratedAt    time.Time         `json:"generatedAt"`
	WindowStart    time.Time         `json:"windowStart"`
	WindowEnd      time.Time         `json:"windowEnd"`
	WarTimestamp   string            `json:"warTimestamp,omitempty"`
	Players        []PlayerSummary   `json:"players"`
	Armies         []ArmySummary     `json:"armies"`
	WarLog         WarStreakSummary  `json:"warLog"`
	MissingAttacks []MissingAttacks  `json:"missingAttacks"`
	Donations      []DonationSummary `json:"donations"`
	RejectedInputs int               `json:"rejectedInputs"`
}

// SheetConfig represents the tab names a clan report is published to
type SheetConfig struct {
	ClanTag          string
	SpreadsheetID    string
	PlayersTabName   string
	ArmiesTabName    string
	WarLogTabName    string
	MissingTabName   string
	DonationsTabName string
	HistoryTabName   string
}
