package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "leadscore",
		Short: "Score buyer records offline and rescore stored leads",
		Long: `leadscore runs the Naybourhood lead scorer outside the API.

The score command needs no database: it reads one buyer record as JSON and
prints the result. The rescore command connects with the same environment as
the scheduler and rescores stored leads in one batch.`,
		SilenceUsage: true,
	}
	root.AddCommand(newScoreCmd(), newRescoreCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
