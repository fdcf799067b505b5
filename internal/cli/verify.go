package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-provision/internal/cli/render"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [name...]",
		Short: "Verify recorded deployments on the block explorer",
		Long: `Submit the sources of recorded deployments for verification with
forge verify-contract. Without names every deployment on the network is
verified. Requires ETHERSCAN_API_KEY; local networks are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			network, err := resolveNetwork(cmd.Context(), app)
			if err != nil {
				return err
			}

			outcomes, err := app.VerifyArtifacts.Run(cmd.Context(), usecase.VerifyParams{
				Network: networkRef(network),
				Names:   args,
				Enabled: app.Config.VerificationEnabled(),
			})
			if err != nil {
				return err
			}

			return render.NewVerifyRenderer(cmd.OutOrStdout()).Render(outcomes)
		},
	}

	return cmd
}
