package main

import (
	"github.com/spf13/cobra"

	"solana-snapshot-kit/internal/config"
	"solana-snapshot-kit/internal/hashlist"
	"solana-snapshot-kit/internal/reporting"
	"solana-snapshot-kit/internal/storage/file"
)

func newGetHashlistCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CommandGetHashlist,
		Short: "Generate a hashlist from a first-creator or Candy Machine v2 address",
		Args:  cobra.NoArgs,
		RunE:  a.runGetHashlist,
	}

	flags := cmd.Flags()
	flags.String("creator", "", "first verified creator address")
	flags.String("candy-machine", "", "Candy Machine v2 address")
	flags.String("out", "", "output path (default "+file.DefaultHashlistPath+")")

	return cmd
}

func (a *app) runGetHashlist(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	started := a.now()
	out := a.outPath(file.DefaultHashlistPath)

	generator := hashlist.NewGenerator(a.rpcClient(), a.logger)

	var (
		tokens []string
		err    error
	)
	if a.conf.CandyMachine != "" {
		tokens, err = generator.ByCandyMachine(ctx, a.conf.CandyMachine)
	} else {
		tokens, err = generator.ByCreator(ctx, a.conf.Creator)
	}
	if err == nil {
		err = hashlist.Save(out, tokens)
	}

	return a.finish(&reporting.RunReport{
		Command:     config.CommandGetHashlist,
		GeneratedAt: a.now(),
		Metrics: []reporting.Metric{
			{Name: "Mints", Value: itoa(len(tokens))},
		},
		Outputs: []string{out},
	}, started, err)
}
