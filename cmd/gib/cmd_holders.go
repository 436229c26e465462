package main

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"solana-snapshot-kit/internal/config"
	"solana-snapshot-kit/internal/custody"
	"solana-snapshot-kit/internal/hashlist"
	"solana-snapshot-kit/internal/idhash"
	"solana-snapshot-kit/internal/pipeline"
	"solana-snapshot-kit/internal/reporting"
	"solana-snapshot-kit/internal/snapshot"
	"solana-snapshot-kit/internal/storage"
	"solana-snapshot-kit/internal/storage/file"
	pgstore "solana-snapshot-kit/internal/storage/postgres"
)

func newHoldersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CommandHolders,
		Short: "Snapshot the current holder of every token in a hashlist",
		Args:  cobra.NoArgs,
		RunE:  a.runHolders,
	}

	flags := cmd.Flags()
	flags.String("hashlist", file.DefaultHashlistPath, "hashlist JSON file")
	flags.String("vault", "", "custody vault owner; its tokens are credited to the last depositor")
	flags.String("out", "", "output path (default "+file.DefaultHoldersPath+")")
	flags.String("postgres-dsn", "", "also store the snapshot in Postgres")

	return cmd
}

func (a *app) runHolders(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	started := a.now()
	out := a.outPath(file.DefaultHoldersPath)

	tokens, err := hashlist.Load(a.conf.Hashlist)
	if err != nil {
		return errors.Mark(err, config.ErrInvalid)
	}

	stores := []storage.HolderSnapshotStore{file.NewHolderSnapshotStore(out)}
	outputs := []string{out}
	if a.conf.PostgresDSN != "" {
		pool, err := a.openPostgres(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		stores = append(stores, pgstore.NewHolderSnapshotStore(pool))
		outputs = append(outputs, "postgres:holder_snapshots")
	}

	rpc := a.rpcClient()
	resolver := custody.NewResolver(rpc, a.conf.Vault, a.logger)
	scanner := snapshot.NewScanner(rpc, resolver, a.logger)

	a.logger.WithField("tokens", len(tokens)).Info("taking holder snapshot")
	progress := pipeline.NewProgress(a.stdout, len(tokens))
	acc, summary, err := scanner.Run(ctx, tokens, a.pipelineOptions(progress), nil)

	report := &reporting.RunReport{
		Command:     config.CommandHolders,
		GeneratedAt: a.now(),
		Hashlist:    a.conf.Hashlist,
		Summary:     summary,
		Outputs:     outputs,
	}
	if err != nil {
		return a.finish(report, started, err)
	}

	digest := idhash.HashlistDigest(tokens)
	takenAt := started.UnixMilli()
	meta := storage.SnapshotMeta{
		SnapshotID:     idhash.ComputeSnapshotID(digest, a.conf.Vault, takenAt),
		HashlistDigest: digest,
		Vault:          a.conf.Vault,
		TakenAt:        takenAt,
		TotalMints:     acc.TotalMints(),
		TotalHolders:   acc.TotalHolders(),
	}
	err = snapshot.Save(ctx, meta, acc.Snapshot(), stores...)

	report.Metrics = []reporting.Metric{
		{Name: "Total mints", Value: itoa(meta.TotalMints)},
		{Name: "Total holders", Value: itoa(meta.TotalHolders)},
		{Name: "Snapshot ID", Value: meta.SnapshotID},
	}
	return a.finish(report, started, err)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
