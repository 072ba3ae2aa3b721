package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coc_war_stats/internal/app"
	"coc_war_stats/internal/archive"
	"coc_war_stats/internal/clash"
	"coc_war_stats/internal/deployment"
	"coc_war_stats/internal/processing"
	"coc_war_stats/internal/sheets"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()

	// Parse command line flags
	interval := flag.Duration("interval", 15*time.Minute, "Interval between report updates (e.g., 15m, 1h)")
	runOnce := flag.Bool("once", false, "Run once and exit (don't start scheduler)")
	flag.Parse()

	log.Info().
		Dur("interval", *interval).
		Bool("run_once", *runOnce).
		Msg("Starting CoC War Stats application")

	// Load configuration
	config, err := app.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set the update interval from command line flag
	config.UpdateInterval = *interval

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize clients
	clashClient := clash.NewClient(config.BackendURL, config.BackendToken)
	tracker := processing.NewAPICallTracker()
	cachedClient := processing.NewCachedClashClient(clashClient, tracker)

	var sheetsPublisher processing.SheetsPublisherInterface
	if config.SpreadsheetID != "" {
		sheetsClient, err := sheets.NewClient(ctx, config.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create sheets client")
		}
		sheetsPublisher = sheets.NewReportSheetsManager(sheetsClient, config.WarLogWindowDays)
	}

	var archiver processing.ArchiverInterface
	if config.BigQueryProject != "" {
		bqArchiver, err := archive.NewArchiver(ctx, config.BigQueryProject, config.BigQueryDataset, config.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create BigQuery archiver")
		}
		defer bqArchiver.Close()

		if err := bqArchiver.EnsureTables(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare BigQuery tables")
		}
		archiver = bqArchiver
	}

	var deployer processing.DeployerInterface
	if config.DeployURL != "" {
		sshDeployer, err := deployment.NewSSHDeployer(config.DeployURL, config.DeployKeyFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure deployer")
		}
		defer sshDeployer.Disconnect()
		deployer = sshDeployer
	}

	reportService := processing.NewReportService(processing.ReportOptionsFromConfig(config))
	reportProcessor := processing.NewReportProcessor(cachedClient, reportService, sheetsPublisher, archiver, deployer, config)

	// Define the main processing function
	processReport := func() {
		log.Debug().Msg("Starting report processing cycle")

		// Reset API call counters at the start of each cycle
		clashClient.ResetAPICallCount()
		tracker.ResetSession()

		if _, err := reportProcessor.ProcessReport(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to process clan report")
			return
		}

		tracker.LogSessionSummary()
		log.Info().
			Int64("api_calls", clashClient.GetAPICallCount()).
			Msg("Completed report processing cycle")
	}

	// Run initial processing
	log.Info().Msg("Running initial report processing")
	processReport()

	// Exit if run-once flag is set
	if *runOnce {
		log.Info().Msg("Run-once mode: exiting after initial processing")
		return
	}

	// Start scheduled processing
	log.Info().
		Dur("interval", config.UpdateInterval).
		Msg("Starting scheduled report processing")

	ticker := time.NewTicker(config.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutdown signal received, stopping scheduler")
			return
		case <-ticker.C:
			processReport()
		}
	}
}
