package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-provision/internal/cli/render"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// NewTransferOwnershipCmd creates the transfer-ownership command
func NewTransferOwnershipCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "transfer-ownership <contract> <new-owner>",
		Short: "Transfer ownership between recorded deployments",
		Long: `Call transferOwnership on a recorded Ownable deployment, handing it to
another recorded deployment. Use it to finish a deployment whose ownership
transfer failed.`,
		Example: `  provision transfer-ownership DecentralisedStableCoin DSCEngine --network sepolia`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			network, err := resolveNetwork(cmd.Context(), app)
			if err != nil {
				return err
			}
			credential, err := loadCredential(app, network)
			if err != nil {
				return err
			}

			if !network.Local && !yes && !app.Config.NonInteractive {
				ok, err := app.Selector.Confirm(cmd.Context(),
					fmt.Sprintf("Transfer ownership of %s to %s on %s", args[0], args[1], network.Label()))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Transfer cancelled.")
					return nil
				}
			}

			confirmations := network.Confirmations
			if app.Config.Confirmations != nil {
				confirmations = *app.Config.Confirmations
			}

			result, err := app.TransferOwnership.Run(cmd.Context(), usecase.TransferParams{
				Network:    networkRef(network),
				Contract:   args[0],
				NewOwner:   args[1],
				Credential: credential,
				Policy:     usecase.ConfirmationPolicy{Confirmations: confirmations, Timeout: app.Config.Timeout},
			})
			if err != nil {
				return err
			}

			render.NewDeployRenderer(cmd.OutOrStdout()).RenderTransfer(result)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt for remote networks")
	cmd.Flags().Int64("confirmations", -1, "Block confirmations to wait for (defaults to the network setting)")

	return cmd
}
