package processing

import (
	"fmt"
	"time"

	"coc_war_stats/internal/app"
	"coc_war_stats/internal/domain/attack"
	"coc_war_stats/internal/domain/roster"
	"coc_war_stats/internal/domain/warlog"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// ReportInput carries everything fetched for one clan in one cycle
type ReportInput struct {
	ClanTag    string
	Members    []app.Member
	WarLog     []app.WarLogEntry
	Attacks    []app.AttackRecord
	CurrentWar *app.CurrentWar
	AsOf       time.Time
}

// ReportOptions holds the windows and quota a report is computed with
type ReportOptions struct {
	RequiredAttacks  int
	ArmyWindowDays   int
	WarLogWindowDays int
}

// ReportOptionsFromConfig extracts report options from the application config
func ReportOptionsFromConfig(config *app.Config) ReportOptions {
	return ReportOptions{
		RequiredAttacks:  config.RequiredAttacks,
		ArmyWindowDays:   config.ArmyWindowDays,
		WarLogWindowDays: config.WarLogWindowDays,
	}
}

// ReportService validates fetched data and composes the clan report
type ReportService struct {
	validator *app.Validator
	options   ReportOptions
	newRunID  func() string
}

// NewReportService creates a report service
func NewReportService(options ReportOptions) *ReportService {
	return &ReportService{
		validator: app.NewRecordValidator(),
		options:   options,
		newRunID:  uuid.NewString,
	}
}

// BuildReport rejects invalid input records and aggregates the rest.
// Players and armies cover the army window, the war log its own window, and
// attack gaps only the war the clan is currently in.
func (s *ReportService) BuildReport(input ReportInput) (*app.ClanReport, error) {
	members, rejectedMembers := s.validMembers(input.Members)
	warLog, rejectedWars := s.validWarLog(input.WarLog)
	attacks, rejectedAttacks := s.validAttacks(input.Attacks)
	// first-seen tie order follows attack time, not backend order
	attacks = attack.SortAttacksChronologically(attacks)

	window := attack.CalculateReportWindow(input.AsOf, s.options.ArmyWindowDays)

	players, err := attack.AggregateByPlayer(attack.FilterByTimeWindow(attacks, window.Start, window.End))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate players: %w", err)
	}

	armies, err := attack.AggregateByArmy(attacks, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate armies: %w", err)
	}

	warSummary, err := warlog.ComputeWarLogSummary(warlog.SortChronologically(warLog), s.options.WarLogWindowDays, input.AsOf)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize war log: %w", err)
	}

	report := &app.ClanReport{
		RunID:          s.newRunID(),
		ClanTag:        input.ClanTag,
		GeneratedAt:    input.AsOf,
		WindowStart:    window.Start,
		WindowEnd:      window.End,
		Players:        players,
		Armies:         armies,
		WarLog:         warSummary,
		MissingAttacks: []app.MissingAttacks{},
		Donations:      roster.RankDonations(members),
		RejectedInputs: rejectedMembers + rejectedWars + rejectedAttacks,
	}

	if input.CurrentWar.InWar() {
		required := input.CurrentWar.AttacksPerMember
		if required <= 0 {
			required = s.options.RequiredAttacks
		}
		report.WarTimestamp = input.CurrentWar.WarTimestamp
		warAttacks := attack.FilterAttacksForWar(attacks, input.CurrentWar.WarTimestamp)
		report.MissingAttacks = roster.FindMembersWithoutEnoughAttacks(members, warAttacks, required)
	}

	log.Debug().
		Str("run_id", report.RunID).
		Str("clan_tag", report.ClanTag).
		Int("players", len(report.Players)).
		Int("armies", len(report.Armies)).
		Int("wars", report.WarLog.TotalWars).
		Int("missing_attacks", len(report.MissingAttacks)).
		Int("rejected", report.RejectedInputs).
		Msg("Built clan report")

	return report, nil
}

func (s *ReportService) validMembers(members []app.Member) ([]app.Member, int) {
	valid := lo.Filter(members, func(member app.Member, _ int) bool {
		if err := s.validator.ValidateMember(member); err != nil {
			log.Warn().Err(err).Str("member_tag", member.Tag).Msg("Rejected invalid roster member")
			return false
		}
		return true
	})
	return valid, len(members) - len(valid)
}

func (s *ReportService) validWarLog(entries []app.WarLogEntry) ([]app.WarLogEntry, int) {
	valid := lo.Filter(entries, func(entry app.WarLogEntry, _ int) bool {
		if err := s.validator.ValidateWarLogEntry(entry); err != nil {
			log.Warn().Err(err).Time("end_time", entry.EndTime.Time).Msg("Rejected invalid war log entry")
			return false
		}
		return true
	})
	return valid, len(entries) - len(valid)
}

func (s *ReportService) validAttacks(records []app.AttackRecord) ([]app.AttackRecord, int) {
	valid := lo.Filter(records, func(record app.AttackRecord, _ int) bool {
		if err := s.validator.ValidateAttackRecord(record); err != nil {
			log.Warn().Err(err).Str("member", record.Member).Str("attack", record.Attack).Msg("Rejected invalid attack record")
			return false
		}
		return true
	})
	return valid, len(records) - len(valid)
}
