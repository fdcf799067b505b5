package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-provision/internal/cli/render"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// NewPruneCmd creates the prune command
func NewPruneCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove records of contracts that no longer exist on chain",
		Long: `Check every deployment recorded for the network and remove the records
whose address has no contract code. Use this after restarting a local node so
the next deploy does not reuse addresses that are gone.`,
		Example: `  provision prune --network localhost
  provision prune --network localhost --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			network, err := resolveNetwork(cmd.Context(), app)
			if err != nil {
				return err
			}

			result, err := app.PruneRecords.Run(cmd.Context(), usecase.PruneParams{
				Network: networkRef(network),
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}

			return render.NewPruneRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only list stale records")

	return cmd
}
