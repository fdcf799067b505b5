package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-provision/internal/cli/render"
	"github.com/trebuchet-org/treb-provision/internal/plans"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		planRef    string
		tags       []string
		reset      bool
		yes        bool
		skipVerify bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a plan to a network",
		Long: `Deploy every step of a plan in dependency order. Each deployment is
confirmed before the steps that depend on it are sent.

Steps already recorded under deployments/<network> are reused unless --reset
is given. --tags limits the run to tagged steps and their dependencies.`,
		Example: `  provision deploy --network localhost
  provision deploy --network sepolia --tags dscEngine
  provision deploy --plan deploy/dsc.yaml --network sepolia --confirmations 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			plan, err := plans.Load(planRef)
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

			report, err := app.RunDeployment.Run(cmd.Context(), usecase.DeployParams{
				Network:       networkRef(network),
				Plan:          plan,
				Tags:          tags,
				Credential:    credential,
				Reset:         reset,
				Confirmations: app.Config.Confirmations,
				Timeout:       app.Config.Timeout,
				Verify:        app.Config.VerificationEnabled() && !skipVerify,
				SkipPrompt:    yes || app.Config.NonInteractive,
			})
			if errors.Is(err, usecase.ErrDeploymentDeclined) {
				fmt.Fprintln(cmd.OutOrStdout(), "Deployment cancelled.")
				return nil
			}
			if report != nil {
				render.NewDeployRenderer(cmd.OutOrStdout()).RenderReport(report)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&planRef, "plan", "p", plans.DefaultPlan, "Built-in plan name or YAML plan file")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Only deploy steps with these tags (and their dependencies)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Ignore recorded deployments and deploy every step")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt for remote networks")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Do not verify sources even if ETHERSCAN_API_KEY is set")
	cmd.Flags().Int64("confirmations", -1, "Block confirmations to wait for (defaults to the network setting)")
	cmd.Flags().Duration("timeout", 0, "Maximum wait for each transaction (default 5m)")

	return cmd
}
