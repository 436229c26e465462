package main

import (
	"time"

	"solana-snapshot-kit/internal/config"
	"solana-snapshot-kit/internal/observability"
	"solana-snapshot-kit/internal/pipeline"
	"solana-snapshot-kit/internal/reporting"
)

func newTestMetrics() *observability.Metrics {
	return observability.NewMetrics("gib_test")
}

func reportFixture() *reporting.RunReport {
	start := time.Unix(1700000000, 0)
	return &reporting.RunReport{
		Command:     config.CommandHolders,
		GeneratedAt: start,
		Hashlist:    "hashlist.json",
		Summary: &pipeline.Summary{
			Total:     2,
			Processed: 2,
			Started:   start,
			Finished:  start.Add(time.Second),
		},
		Metrics: []reporting.Metric{{Name: "Total holders", Value: "1"}},
		Outputs: []string{"gib-holders.json"},
	}
}
