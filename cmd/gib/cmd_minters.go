package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"solana-snapshot-kit/internal/config"
	"solana-snapshot-kit/internal/hashlist"
	"solana-snapshot-kit/internal/idhash"
	"solana-snapshot-kit/internal/minters"
	"solana-snapshot-kit/internal/pipeline"
	"solana-snapshot-kit/internal/reporting"
	"solana-snapshot-kit/internal/storage"
	chstore "solana-snapshot-kit/internal/storage/clickhouse"
	"solana-snapshot-kit/internal/storage/file"
	"solana-snapshot-kit/internal/storage/migrations"
)

func newMintersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CommandMinters,
		Short: "Attribute every token to the fee payer of its earliest finalized transaction",
		Args:  cobra.NoArgs,
		RunE:  a.runMinters,
	}

	flags := cmd.Flags()
	flags.String("hashlist", file.DefaultHashlistPath, "hashlist JSON file")
	flags.String("out", "", "CSV output path (default "+file.DefaultMintersPath+")")
	flags.Bool("resume", false, "keep rows of an existing CSV and only attribute missing tokens")
	flags.String("clickhouse-dsn", "", "also append rows to ClickHouse")

	return cmd
}

func (a *app) runMinters(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	started := a.now()
	out := a.outPath(file.DefaultMintersPath)

	tokens, err := hashlist.Load(a.conf.Hashlist)
	if err != nil {
		return errors.Mark(err, config.ErrInvalid)
	}

	csv, err := file.OpenMinterRecordStore(out, a.conf.Resume)
	if err != nil {
		return err
	}
	defer csv.Close()

	sinks := []storage.MinterRecordStore{csv}
	outputs := []string{out}
	var runID string
	if a.conf.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, a.conf.ClickhouseDSN)
		if err != nil {
			return errors.Wrap(err, "migrate clickhouse")
		}
		defer conn.Close()

		runID = idhash.ComputeRunID(config.CommandMinters, idhash.HashlistDigest(tokens), started.UnixMilli())
		sinks = append(sinks, chstore.NewMinterRecordStore(conn, runID))
		outputs = append(outputs, "clickhouse:minter_records")
	}

	scanner := minters.NewScanner(a.rpcClient(), a.logger).WithClock(a.now)

	progress := pipeline.NewProgress(a.stdout, len(tokens))
	summary, err := scanner.Run(ctx, tokens, a.pipelineOptions(progress), sinks...)

	report := &reporting.RunReport{
		Command:     config.CommandMinters,
		GeneratedAt: a.now(),
		Hashlist:    a.conf.Hashlist,
		Summary:     summary,
		Outputs:     outputs,
	}
	if runID != "" {
		report.Metrics = append(report.Metrics, reporting.Metric{Name: "Run ID", Value: runID})
	}
	return a.finish(report, started, err)
}
