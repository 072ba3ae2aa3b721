package sheets

import (
	"context"
	"fmt"

	"coc_war_stats/internal/app"
	"coc_war_stats/internal/config"

	"github.com/rs/zerolog/log"
)

// ReportSheetsManager publishes clan reports to one tab per report section.
// Section tabs are rewritten on every run; the history tab grows by one row per run.
type ReportSheetsManager struct {
	api              SheetsAPI
	retry            config.RetryConfig
	warLogWindowDays int
}

// NewReportSheetsManager creates a new report sheets manager with the given API client
func NewReportSheetsManager(api SheetsAPI, warLogWindowDays int) *ReportSheetsManager {
	return &ReportSheetsManager{
		api:              api,
		retry:            config.DefaultResilienceConfig.SheetWrite,
		warLogWindowDays: warLogWindowDays,
	}
}

// GenerateSheetConfig creates the standardized tab names for a clan
func (m *ReportSheetsManager) GenerateSheetConfig(spreadsheetID, clanTag string) *app.SheetConfig {
	return &app.SheetConfig{
		ClanTag:          clanTag,
		SpreadsheetID:    spreadsheetID,
		PlayersTabName:   fmt.Sprintf("Players - %s", clanTag),
		ArmiesTabName:    fmt.Sprintf("Armies - %s", clanTag),
		WarLogTabName:    fmt.Sprintf("War Log - %s", clanTag),
		MissingTabName:   fmt.Sprintf("Missing Attacks - %s", clanTag),
		DonationsTabName: fmt.Sprintf("Donations - %s", clanTag),
		HistoryTabName:   fmt.Sprintf("History - %s", clanTag),
	}
}

// EnsureReportSheets creates any missing report tab; a new history tab gets its headers
func (m *ReportSheetsManager) EnsureReportSheets(ctx context.Context, sheetConfig *app.SheetConfig) error {
	tabs := []string{
		sheetConfig.PlayersTabName,
		sheetConfig.ArmiesTabName,
		sheetConfig.WarLogTabName,
		sheetConfig.MissingTabName,
		sheetConfig.DonationsTabName,
		sheetConfig.HistoryTabName,
	}

	for _, tab := range tabs {
		exists, err := m.api.SheetExists(ctx, sheetConfig.SpreadsheetID, tab)
		if err != nil {
			return fmt.Errorf("failed to check if sheet %s exists: %w", tab, err)
		}
		if exists {
			continue
		}

		log.Info().
			Str("sheet_name", tab).
			Msg("Creating report sheet")

		if err := m.api.CreateSheet(ctx, sheetConfig.SpreadsheetID, tab); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", tab, err)
		}

		if tab == sheetConfig.HistoryTabName {
			if err := m.api.UpdateRange(ctx, sheetConfig.SpreadsheetID, cellRange(tab, "A1"), GenerateHistoryHeaders()); err != nil {
				return fmt.Errorf("failed to write history headers: %w", err)
			}
		}
	}

	return nil
}

// PublishReport writes every report section and appends a history row
func (m *ReportSheetsManager) PublishReport(ctx context.Context, spreadsheetID string, report *app.ClanReport) error {
	sheetConfig := m.GenerateSheetConfig(spreadsheetID, report.ClanTag)

	if err := m.EnsureReportSheets(ctx, sheetConfig); err != nil {
		return fmt.Errorf("failed to ensure report sheets: %w", err)
	}

	sections := []struct {
		tab  string
		rows [][]interface{}
	}{
		{sheetConfig.PlayersTabName, ConvertPlayersToRows(report.Players)},
		{sheetConfig.ArmiesTabName, ConvertArmiesToRows(report.Armies)},
		{sheetConfig.WarLogTabName, ConvertWarLogToRows(report.WarLog, m.warLogWindowDays)},
		{sheetConfig.MissingTabName, ConvertMissingAttacksToRows(report.WarTimestamp, report.MissingAttacks)},
		{sheetConfig.DonationsTabName, ConvertDonationsToRows(report.Donations)},
	}

	for _, section := range sections {
		if err := m.replaceSheetContents(ctx, spreadsheetID, section.tab, section.rows); err != nil {
			return err
		}
	}

	historyRow := [][]interface{}{ConvertReportToHistoryRow(report)}
	err := m.retry.Do(ctx, "append history", func(ctx context.Context) error {
		return m.api.AppendRows(ctx, spreadsheetID, cellRange(sheetConfig.HistoryTabName, "A:I"), historyRow)
	})
	if err != nil {
		return fmt.Errorf("failed to append history row: %w", err)
	}

	log.Info().
		Str("run_id", report.RunID).
		Str("clan_tag", report.ClanTag).
		Int("sections", len(sections)).
		Msg("Published report to sheets")

	return nil
}

// replaceSheetContents clears a tab and writes rows from A1, retrying transient failures
func (m *ReportSheetsManager) replaceSheetContents(ctx context.Context, spreadsheetID, sheetName string, rows [][]interface{}) error {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}

	err := m.retry.Do(ctx, "write "+sheetName, func(ctx context.Context) error {
		if err := m.api.EnsureSheetCapacity(ctx, spreadsheetID, sheetName, len(rows), cols); err != nil {
			return err
		}
		if err := m.api.ClearRange(ctx, spreadsheetID, cellRange(sheetName, "A:Z")); err != nil {
			return err
		}
		return m.api.UpdateRange(ctx, spreadsheetID, cellRange(sheetName, "A1"), rows)
	})
	if err != nil {
		return fmt.Errorf("failed to write sheet %s: %w", sheetName, err)
	}

	log.Debug().
		Str("sheet_name", sheetName).
		Int("rows", len(rows)).
		Msg("Updated report sheet")

	return nil
}

// cellRange quotes a sheet name for A1 notation
func cellRange(sheetName, cells string) string {
	return fmt.Sprintf("'%s'!%s", sheetName, cells)
}
