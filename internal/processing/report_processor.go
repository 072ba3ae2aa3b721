package processing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"coc_war_stats/internal/app"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ReportProcessor runs one reporting cycle: fetch, aggregate, publish
type ReportProcessor struct {
	client   ClashClientInterface
	service  ReportServiceInterface
	sheets   SheetsPublisherInterface
	archiver ArchiverInterface
	deployer DeployerInterface
	config   *app.Config
	now      func() time.Time
}

// NewReportProcessor creates a ReportProcessor. Any of sheets, archiver and
// deployer may be nil, which disables that publishing step.
func NewReportProcessor(
	client ClashClientInterface,
	service ReportServiceInterface,
	sheets SheetsPublisherInterface,
	archiver ArchiverInterface,
	deployer DeployerInterface,
	config *app.Config,
) *ReportProcessor {
	return &ReportProcessor{
		client:   client,
		service:  service,
		sheets:   sheets,
		archiver: archiver,
		deployer: deployer,
		config:   config,
		now:      time.Now,
	}
}

// ProcessReport fetches the clan's data, builds the report and publishes it.
// Fetch and aggregation failures abort the cycle; publishing failures are logged
// and the remaining publishers still run.
func (p *ReportProcessor) ProcessReport(ctx context.Context) (*app.ClanReport, error) {
	log.Info().Str("clan_tag", p.config.ClanTag).Msg("Processing clan report")

	input, err := p.fetchInputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clan data: %w", err)
	}

	report, err := p.service.BuildReport(input)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	failures := p.publish(ctx, report)

	log.Info().
		Str("run_id", report.RunID).
		Str("clan_tag", report.ClanTag).
		Int("players", len(report.Players)).
		Int("armies", len(report.Armies)).
		Int("missing_attacks", len(report.MissingAttacks)).
		Int("rejected_inputs", report.RejectedInputs).
		Int("publish_failures", failures).
		Msg("Completed clan report")

	return report, nil
}

// fetchInputs pulls roster, war log, attacks and current war concurrently
func (p *ReportProcessor) fetchInputs(ctx context.Context) (ReportInput, error) {
	input := ReportInput{ClanTag: p.config.ClanTag}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		input.Members, err = p.client.GetMembers(gCtx, p.config.ClanTag)
		return err
	})

	g.Go(func() error {
		var err error
		input.WarLog, err = p.client.GetWarLog(gCtx, p.config.ClanTag)
		return err
	})

	g.Go(func() error {
		var err error
		input.Attacks, err = p.client.GetAttacks(gCtx, p.config.ClanTag)
		return err
	})

	g.Go(func() error {
		var err error
		input.CurrentWar, err = p.client.GetCurrentWar(gCtx, p.config.ClanTag)
		return err
	})

	if err := g.Wait(); err != nil {
		return ReportInput{}, err
	}

	input.AsOf = p.now()
	return input, nil
}

// publish hands the report to every configured sink and returns how many failed
func (p *ReportProcessor) publish(ctx context.Context, report *app.ClanReport) int {
	failures := 0

	if p.sheets != nil && p.config.SpreadsheetID != "" {
		if err := p.sheets.PublishReport(ctx, p.config.SpreadsheetID, report); err != nil {
			failures++
			log.Error().
				Err(err).
				Str("run_id", report.RunID).
				Str("spreadsheet_id", p.config.SpreadsheetID).
				Msg("Failed to publish report to sheets - continuing with other publishers")
		}
	} else {
		log.Debug().Msg("No spreadsheet configured - skipping sheets publishing")
	}

	if p.archiver != nil {
		if err := p.archiver.ArchiveReport(ctx, report); err != nil {
			failures++
			log.Error().
				Err(err).
				Str("run_id", report.RunID).
				Msg("Failed to archive report - continuing with other publishers")
		}
	} else {
		log.Debug().Msg("No archive configured - skipping BigQuery archive")
	}

	if err := p.exportAndDeployJSON(report); err != nil {
		failures++
		log.Error().
			Err(err).
			Str("run_id", report.RunID).
			Msg("Failed to export/deploy JSON report")
	}

	return failures
}

// exportAndDeployJSON writes the report to the configured file and deploys it
func (p *ReportProcessor) exportAndDeployJSON(report *app.ClanReport) error {
	if p.config.ReportFile == "" {
		log.Debug().Msg("No report file configured - skipping JSON export")
		return nil
	}

	jsonBytes, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	filename := p.config.ReportFile
	if err := os.WriteFile(filename, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	log.Info().
		Str("run_id", report.RunID).
		Str("filename", filename).
		Int("bytes", len(jsonBytes)).
		Msg("Successfully exported JSON report")

	if p.deployer == nil {
		log.Debug().Msg("No deployer configured - skipping remote deployment")
		return nil
	}

	remoteFilename := filepath.Base(filename)
	if err := p.deployer.DeployFile(filename, remoteFilename); err != nil {
		return fmt.Errorf("failed to deploy JSON file: %w", err)
	}

	log.Info().
		Str("run_id", report.RunID).
		Str("local_file", filename).
		Str("remote_file", remoteFilename).
		Msg("Successfully deployed JSON report")

	return nil
}
