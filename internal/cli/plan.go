package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-provision/internal/cli/render"
	"github.com/trebuchet-org/treb-provision/internal/plans"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// NewPlanCmd creates the plan command
func NewPlanCmd() *cobra.Command {
	var (
		planRef string
		tags    []string
		reset   bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the execution order of a plan",
		Long: `Resolve a plan against a network and print the order its steps would be
deployed in. Nothing is sent to the network.`,
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

			summary, err := app.ShowPlan.Run(cmd.Context(), usecase.ShowPlanParams{
				Network: networkRef(network),
				Tags:    tags,
				Plan:    plan,
				Reset:   reset,
			})
			if err != nil {
				return err
			}

			return render.NewPlanRenderer(cmd.OutOrStdout()).Render(summary)
		},
	}

	cmd.Flags().StringVarP(&planRef, "plan", "p", plans.DefaultPlan, "Built-in plan name or YAML plan file")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Only show steps with these tags (and their dependencies)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Ignore recorded deployments")

	return cmd
}
