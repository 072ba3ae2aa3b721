package archive

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"coc_war_stats/internal/app"
	"coc_war_stats/internal/config"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Archive table names
const (
	RunsTable    = "report_runs"
	PlayersTable = "player_summaries"
	ArmiesTable  = "army_summaries"
)

// rowPutter is the slice of bigquery.Inserter the archiver needs
type rowPutter interface {
	Put(ctx context.Context, src interface{}) error
}

// Archiver streams report aggregates into BigQuery tables
type Archiver struct {
	client      *bigquery.Client
	dataset     string
	retry       config.RetryConfig
	inserterFor func(table string) rowPutter
}

// NewArchiver creates a BigQuery client for the project using the service account file
func NewArchiver(ctx context.Context, projectID, dataset, credentialsFile string) (*Archiver, error) {
	client, err := bigquery.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}

	a := &Archiver{
		client:  client,
		dataset: dataset,
		retry:   config.DefaultResilienceConfig.ArchiveInsert,
	}
	a.inserterFor = func(table string) rowPutter {
		return client.Dataset(dataset).Table(table).Inserter()
	}
	return a, nil
}

// Close releases the BigQuery client
func (a *Archiver) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

// EnsureTables creates any missing archive table with a schema inferred from its row type
func (a *Archiver) EnsureTables(ctx context.Context) error {
	tables := []struct {
		name string
		row  interface{}
	}{
		{RunsTable, RunRow{}},
		{PlayersTable, PlayerRow{}},
		{ArmiesTable, ArmyRow{}},
	}

	for _, t := range tables {
		table := a.client.Dataset(a.dataset).Table(t.name)
		_, err := table.Metadata(ctx)
		if err == nil {
			continue
		}
		if !isNotFound(err) {
			return fmt.Errorf("failed to read metadata for table %s: %w", t.name, err)
		}

		schema, err := bigquery.InferSchema(t.row)
		if err != nil {
			return fmt.Errorf("failed to infer schema for table %s: %w", t.name, err)
		}

		log.Info().
			Str("dataset", a.dataset).
			Str("table", t.name).
			Msg("Creating archive table")

		if err := table.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.name, err)
		}
	}

	return nil
}

// ArchiveReport inserts the run header, player rows and army rows for one report
func (a *Archiver) ArchiveReport(ctx context.Context, report *app.ClanReport) error {
	players := ConvertPlayers(report)
	armies := ConvertArmies(report)

	batches := []struct {
		table string
		rows  []*bigquery.StructSaver
	}{
		{RunsTable, savers(report.RunID, RunsTable, []RunRow{ConvertRun(report)})},
		{PlayersTable, savers(report.RunID, PlayersTable, players)},
		{ArmiesTable, savers(report.RunID, ArmiesTable, armies)},
	}

	for _, batch := range batches {
		if len(batch.rows) == 0 {
			continue
		}
		inserter := a.inserterFor(batch.table)
		err := a.retry.Do(ctx, "archive "+batch.table, func(ctx context.Context) error {
			return inserter.Put(ctx, batch.rows)
		})
		if err != nil {
			return fmt.Errorf("failed to archive %s: %w", batch.table, err)
		}
	}

	log.Info().
		Str("run_id", report.RunID).
		Str("dataset", a.dataset).
		Int("players", len(players)).
		Int("armies", len(armies)).
		Msg("Archived report to BigQuery")

	return nil
}

// savers wraps rows with stable insert IDs so BigQuery drops retried duplicates
func savers[T any](runID, table string, rows []T) []*bigquery.StructSaver {
	out := make([]*bigquery.StructSaver, 0, len(rows))
	for i, row := range rows {
		out = append(out, &bigquery.StructSaver{
			Struct:   row,
			InsertID: insertID(runID, table, i),
		})
	}
	return out
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
