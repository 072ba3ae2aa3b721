package processing

import (
	"context"

	"coc_war_stats/internal/app"
)

// ClashClientInterface defines the backend client methods used by ReportProcessor
type ClashClientInterface interface {
	GetMembers(ctx context.Context, clanTag string) ([]app.Member, error)
	GetWarLog(ctx context.Context, clanTag string) ([]app.WarLogEntry, error)
	GetAttacks(ctx context.Context, clanTag string) ([]app.AttackRecord, error)
	GetCurrentWar(ctx context.Context, clanTag string) (*app.CurrentWar, error)
}

// ReportServiceInterface defines the report composition used by ReportProcessor
type ReportServiceInterface interface {
	BuildReport(input ReportInput) (*app.ClanReport, error)
}

// SheetsPublisherInterface defines how a finished report reaches the spreadsheet
type SheetsPublisherInterface interface {
	PublishReport(ctx context.Context, spreadsheetID string, report *app.ClanReport) error
}

// ArchiverInterface defines how report aggregates are archived
type ArchiverInterface interface {
	ArchiveReport(ctx context.Context, report *app.ClanReport) error
}

// DeployerInterface defines how the JSON report file is published remotely
type DeployerInterface interface {
	DeployFile(localPath, filename string) error
}
