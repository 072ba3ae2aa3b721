package mocks

import (
	"context"

	"coc_war_stats/internal/app"
)

// MockSheetsPublisher is a test double for the sheets report publisher
type MockSheetsPublisher struct {
	PublishError error

	PublishCalled        bool
	PublishedSpreadsheet string
	PublishedReport      *app.ClanReport
}

func (m *MockSheetsPublisher) PublishReport(ctx context.Context, spreadsheetID string, report *app.ClanReport) error {
	m.PublishCalled = true
	m.PublishedSpreadsheet = spreadsheetID
	m.PublishedReport = report
	return m.PublishError
}

// MockArchiver is a test double for the BigQuery archiver
type MockArchiver struct {
	ArchiveError error

	ArchiveCalled   bool
	ArchivedReports []*app.ClanReport
}

func (m *MockArchiver) ArchiveReport(ctx context.Context, report *app.ClanReport) error {
	m.ArchiveCalled = true
	m.ArchivedReports = append(m.ArchivedReports, report)
	return m.ArchiveError
}

// MockDeployer is a test double for the SSH deployer
type MockDeployer struct {
	DeployError error

	DeployCalled   bool
	DeployedLocal  string
	DeployedRemote string
}

func (m *MockDeployer) DeployFile(localPath, filename string) error {
	m.DeployCalled = true
	m.DeployedLocal = localPath
	m.DeployedRemote = filename
	return m.DeployError
}
