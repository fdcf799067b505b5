package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-provision/internal/domain"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// PlanRenderer renders resolved plans
type PlanRenderer struct {
	out io.Writer
}

// NewPlanRenderer creates a new plan renderer
func NewPlanRenderer(out io.Writer) *PlanRenderer {
	return &PlanRenderer{out: out}
}

// Render prints the execution order of a plan on its network
func (r *PlanRenderer) Render(summary *usecase.PlanSummary) error {
	headerStyle.Fprintf(r.out, "📋 %s on %s (chain %d)\n\n", summary.Plan, summary.Network.Label(), summary.Network.ID)

	t := newTable(table.Row{"#", "Step", "Contract", "Depends on", "Post actions", "Status"})
	for i, planned := range summary.Steps {
		step := planned.Step
		status := "deploy"
		if planned.Deployed != nil {
			status = mutedStyle.Sprintf("reuse %s", shortAddress(planned.Deployed.Address))
		}
		t.AppendRow(table.Row{
			i + 1,
			stepStyle.Sprint(step.Name),
			step.ContractName(),
			strings.Join(step.DependsOn, ", "),
			postActions(step.PostActions),
			status,
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

func postActions(actions []domain.PostAction) string {
	names := make([]string, 0, len(actions))
	for _, action := range actions {
		names = append(names, action.ActionName())
	}
	return strings.Join(names, ", ")
}

var _ Renderer[*usecase.PlanSummary] = (*PlanRenderer)(nil)
