package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a run report as Markdown string.
func RenderMarkdown(r *RunReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# %s\n\n", r.Command))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.Hashlist != "" {
		sb.WriteString(fmt.Sprintf("Hashlist: `%s`\n\n", r.Hashlist))
	}

	// Run Summary
	sb.WriteString("## Run Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	if s := r.Summary; s != nil {
		sb.WriteString(fmt.Sprintf("| Tokens | %d |\n", s.Total))
		sb.WriteString(fmt.Sprintf("| Processed | %d |\n", s.Processed))
		sb.WriteString(fmt.Sprintf("| Skipped | %d |\n", len(s.Skipped)))
		sb.WriteString(fmt.Sprintf("| Duration | %s |\n", s.Duration().Round(time.Millisecond)))
	}
	for _, m := range r.Metrics {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", m.Name, m.Value))
	}
	sb.WriteString("\n")

	// Skipped tokens
	if r.Summary != nil && len(r.Summary.Skipped) > 0 {
		sb.WriteString("## Skipped Tokens\n\n")
		sb.WriteString("| Token | Stage | Reason |\n")
		sb.WriteString("|-------|-------|--------|\n")
		for _, skip := range r.Summary.Skipped {
			reason := strings.ReplaceAll(skip.Err.Error(), "|", "\\|")
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", skip.Token, skip.Stage, reason))
		}
		sb.WriteString("\n")
	}

	if len(r.Outputs) > 0 {
		sb.WriteString("## Outputs\n\n")
		for _, out := range r.Outputs {
			sb.WriteString(fmt.Sprintf("- `%s`\n", out))
		}
	}

	return sb.String()
}

// RenderConsole renders the tab-indented console summary printed at the end of a run.
func RenderConsole(r *RunReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\n\t%s has finished!\n", r.Command))
	if s := r.Summary; s != nil {
		sb.WriteString(fmt.Sprintf("\tProcessed: %d of %d\n", s.Processed, s.Total))
	}
	for _, m := range r.Metrics {
		sb.WriteString(fmt.Sprintf("\t%s: %s\n", m.Name, m.Value))
	}
	if r.Summary != nil && len(r.Summary.Skipped) > 0 {
		sb.WriteString(fmt.Sprintf("\tSkipped %d token(s):\n", len(r.Summary.Skipped)))
		for _, skip := range r.Summary.Skipped {
			sb.WriteString(fmt.Sprintf("\t\t%s\n", skip.String()))
		}
	}
	for _, out := range r.Outputs {
		sb.WriteString(fmt.Sprintf("\tSaved as %s!\n", out))
	}

	return sb.String()
}
