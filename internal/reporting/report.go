package reporting

import (
	"time"

	"solana-snapshot-kit/internal/pipeline"
)

// RunReport summarizes one command run for the console and the optional markdown report.
type RunReport struct {
	Command     string
	GeneratedAt time.Time
	Hashlist    string
	Summary     *pipeline.Summary
	Metrics     []Metric
	Outputs     []string
}

// Metric is one named figure of a run.
type Metric struct {
	Name  string
	Value string
}
