package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"solana-snapshot-kit/internal/config"
	"solana-snapshot-kit/internal/observability"
	"solana-snapshot-kit/internal/pipeline"
	"solana-snapshot-kit/internal/reporting"
	"solana-snapshot-kit/internal/solana"
	"solana-snapshot-kit/internal/storage/migrations"
	pgstore "solana-snapshot-kit/internal/storage/postgres"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string

	conf    config.Config
	logger  *logrus.Logger
	metrics *observability.Metrics
	server  *http.Server

	stdout io.Writer
	now    func() time.Time
}

func newApp() *app {
	return &app{
		v:      config.New(),
		stdout: os.Stdout,
		now:    time.Now,
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "gib",
		Short:         "Holder, metadata and minter snapshots for a Solana token hashlist",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.stopMetricsServer(cmd.Context())
		},
	}

	// Add global flags
	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file, E.g. `./config.yaml`")
	flags.String("rpc-url", "", "Solana RPC endpoint")
	flags.Float64("rps", 0, "max RPC requests per second (0 = unlimited)")
	flags.Int("burst", 1, "RPC rate limiter burst")
	flags.Int("concurrency", 1, "tokens fetched in parallel; output order is unchanged")
	flags.Duration("timeout", solana.DefaultTimeout, "RPC request timeout")
	flags.Int("max-retries", solana.DefaultMaxRetries, "RPC retry attempts on transport errors")
	flags.String("report", "", "write a markdown run report to this path")
	flags.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")

	root.AddCommand(
		newGetHashlistCommand(a),
		newHoldersCommand(a),
		newMetadataCommand(a),
		newMintersCommand(a),
	)
	return root
}

// setup loads and validates configuration for cmd and builds the logger and metrics.
// Flags are bound here rather than at construction so that subcommands
// sharing a flag name do not overwrite each other's binding.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}
	conf, err := config.Load(a.v, a.configFile)
	if err != nil {
		return errors.Mark(err, config.ErrInvalid)
	}
	if err := conf.Validate(cmd.Name()); err != nil {
		return err
	}
	a.conf = conf

	logger, err := observability.NewLogger(conf.LogLevel, conf.LogFormat)
	if err != nil {
		return errors.Mark(err, config.ErrInvalid)
	}
	a.logger = logger
	a.metrics = observability.NewMetrics("gib")

	if conf.MetricsAddr != "" {
		a.startMetricsServer(conf.MetricsAddr)
	}
	return nil
}

func (a *app) startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	a.server = &http.Server{Addr: addr, Handler: mux}

	go func() {
		a.logger.WithField("addr", addr).Info("starting metrics server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.WithError(err).Error("metrics server")
		}
	}()
}

func (a *app) stopMetricsServer(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

// rpcClient builds the ledger client from the configured transport settings.
func (a *app) rpcClient() *solana.HTTPClient {
	return solana.NewHTTPClient(a.conf.RPCURL,
		solana.WithTimeout(a.conf.Timeout),
		solana.WithMaxRetries(a.conf.MaxRetries),
		solana.WithRateLimit(a.conf.RPS, a.conf.Burst),
		solana.WithCallObserver(a.metrics.ObserveRPC),
	)
}

func (a *app) pipelineOptions(progress *pipeline.Progress) pipeline.Options {
	return pipeline.Options{
		Concurrency: a.conf.Concurrency,
		Progress:    progress,
		Clock:       a.now,
	}
}

// openPostgres connects and applies migrations. The caller closes the pool.
func (a *app) openPostgres(ctx context.Context) (*pgstore.Pool, error) {
	pool, err := pgstore.NewPool(ctx, a.conf.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "migrate postgres")
	}
	return pool, nil
}

// recordSummary feeds the per-token outcome counters.
func (a *app) recordSummary(command string, summary *pipeline.Summary) {
	if summary == nil {
		return
	}
	a.metrics.TokensProcessed.WithLabelValues(command).Add(float64(summary.Processed))
	for _, skip := range summary.Skipped {
		a.metrics.RecordToken(command, skip.Stage)
	}
}

// finish prints the console summary, writes the optional markdown report and
// records the run.
func (a *app) finish(report *reporting.RunReport, started time.Time, runErr error) error {
	a.recordSummary(report.Command, report.Summary)
	a.metrics.RecordRun(report.Command, a.now().Sub(started), runErr)
	if runErr != nil {
		return runErr
	}

	fmt.Fprint(a.stdout, reporting.RenderConsole(report))

	if a.conf.Report != "" {
		if err := os.WriteFile(a.conf.Report, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
			return errors.Wrapf(err, "write report %s", a.conf.Report)
		}
		fmt.Fprintf(a.stdout, "\tReport saved as %s!\n", a.conf.Report)
	}
	return nil
}

// outPath returns the configured output path or the command default.
func (a *app) outPath(fallback string) string {
	if a.conf.Out != "" {
		return a.conf.Out
	}
	return fallback
}
