package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"solana-snapshot-kit/internal/config"
	"solana-snapshot-kit/internal/hashlist"
	"solana-snapshot-kit/internal/metadata"
	"solana-snapshot-kit/internal/pipeline"
	"solana-snapshot-kit/internal/reporting"
	"solana-snapshot-kit/internal/storage"
	"solana-snapshot-kit/internal/storage/file"
	pgstore "solana-snapshot-kit/internal/storage/postgres"
)

func newMetadataCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CommandMetadata,
		Short: "Fetch on-chain and off-chain metadata for every token, resuming from the cache",
		Args:  cobra.NoArgs,
		RunE:  a.runMetadata,
	}

	flags := cmd.Flags()
	flags.String("hashlist", file.DefaultHashlistPath, "hashlist JSON file")
	flags.String("out", "", "cache path (default "+file.DefaultMetadataPath+")")
	flags.String("postgres-dsn", "", "keep the cache in Postgres instead of the cache file")

	return cmd
}

func (a *app) runMetadata(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	started := a.now()

	tokens, err := hashlist.Load(a.conf.Hashlist)
	if err != nil {
		return errors.Mark(err, config.ErrInvalid)
	}

	var (
		store  storage.MetadataCacheStore
		output string
	)
	if a.conf.PostgresDSN != "" {
		pool, err := a.openPostgres(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = pgstore.NewMetadataCacheStore(pool)
		output = "postgres:token_metadata_cache"
	} else {
		output = a.outPath(file.DefaultMetadataPath)
		fileStore, err := file.OpenMetadataCacheStore(output)
		if err != nil {
			return errors.Mark(err, config.ErrInvalid)
		}
		store = fileStore
	}

	cache := metadata.NewCache(store, a.rpcClient(), metadata.NewHTTPFetcher(a.conf.Timeout), a.logger).
		OnCacheHit(a.metrics.CacheHits.Inc)

	progress := pipeline.NewProgress(a.stdout, len(tokens))
	result, err := cache.Run(ctx, tokens, a.pipelineOptions(progress))

	report := &reporting.RunReport{
		Command:     config.CommandMetadata,
		GeneratedAt: a.now(),
		Hashlist:    a.conf.Hashlist,
		Outputs:     []string{output},
	}
	if result != nil {
		report.Summary = result.Summary
		report.Metrics = []reporting.Metric{
			{Name: "Already cached", Value: itoa(result.Cached)},
			{Name: "Stored without off-chain document", Value: itoa(len(result.Warnings))},
		}
		for _, w := range result.Warnings {
			a.metrics.RecordToken(config.CommandMetadata, w.Stage)
		}
	}
	return a.finish(report, started, err)
}
