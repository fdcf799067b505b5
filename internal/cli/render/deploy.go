package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-provision/internal/domain"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// DeployRenderer renders deployment runs as they progress
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// GetWriter returns the io.Writer used by this renderer
func (r *DeployRenderer) GetWriter() io.Writer {
	return r.out
}

// RenderExecutionOrder prints the resolved step order of a run
func (r *DeployRenderer) RenderExecutionOrder(title string, steps []*domain.DeploymentStep) {
	fmt.Fprintf(r.out, "\n🎯 Deploying %s\n", title)
	headerStyle.Fprintf(r.out, "📋 Execution order (%d steps):\n", len(steps))
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("─", 50))

	for i, step := range steps {
		fmt.Fprintf(r.out, "%d. ", i+1)
		stepStyle.Fprintf(r.out, "%s", step.Name)
		if step.ContractName() != step.Name {
			fmt.Fprintf(r.out, " → ")
			contractStyle.Fprintf(r.out, "%s", step.ContractName())
		}
		if len(step.DependsOn) > 0 {
			mutedStyle.Fprintf(r.out, " (depends on: %s)", strings.Join(step.DependsOn, ", "))
		}
		fmt.Fprintln(r.out)
	}
	fmt.Fprintln(r.out)
}

// RenderStepStart prints the header of a step
func (r *DeployRenderer) RenderStepStart(current, total int, name string) {
	headerStyle.Fprintf(r.out, "[%d/%d] %s\n", current, total, name)
}

// RenderStepResult prints the outcome of a single step
func (r *DeployRenderer) RenderStepResult(step *domain.StepReport) {
	switch step.Status {
	case domain.StepStatusConfirmed:
		successStyle.Fprintf(r.out, "  ✓ deployed at ")
		addressStyle.Fprintln(r.out, step.Address)
		mutedStyle.Fprintf(r.out, "    tx %s\n", step.TxHash)
	case domain.StepStatusSkipped:
		mutedStyle.Fprintf(r.out, "  ⏭️  reusing %s\n", step.Address)
	case domain.StepStatusFailed:
		errorStyle.Fprintf(r.out, "  ❌ %v\n", step.Error)
	}
	if step.Status == domain.StepStatusConfirmed && step.Error != nil {
		errorStyle.Fprintf(r.out, "  ❌ %v\n", step.Error)
	}
	for _, warning := range step.Warnings {
		fmt.Fprintf(r.out, "  %s\n", FormatWarning(warning))
	}
}

// RenderReport prints the final summary of a run
func (r *DeployRenderer) RenderReport(report *domain.RunReport) {
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("═", 70))

	if report.Succeeded() {
		color.New(color.FgGreen, color.Bold).Fprintf(r.out, "🎉 Deployed %s on %s\n", report.Plan, report.Network)
	} else {
		color.New(color.FgRed, color.Bold).Fprintf(r.out, "❌ Deployment of %s on %s incomplete\n", report.Plan, report.Network)
	}

	fmt.Fprintf(r.out, "\n📊 Summary:\n")
	fmt.Fprintf(r.out, "  • Deployed: %d\n", report.Count(domain.StepStatusConfirmed))
	fmt.Fprintf(r.out, "  • Reused:   %d\n", report.Count(domain.StepStatusSkipped))
	if n := report.Count(domain.StepStatusFailed); n > 0 {
		fmt.Fprintf(r.out, "  • Failed:   %d\n", n)
	}
	if n := report.Count(domain.StepStatusPending); n > 0 {
		fmt.Fprintf(r.out, "  • Pending:  %d\n", n)
	}
	if failed := report.FailedStep(); failed != nil {
		fmt.Fprintf(r.out, "  • Failed at step: %s\n", failed.Step)
	}
	if !report.FinishedAt.IsZero() {
		fmt.Fprintf(r.out, "  • Duration: %s\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	}
}

// RenderTransfer prints the outcome of an ownership transfer
func (r *DeployRenderer) RenderTransfer(result *usecase.TransferResult) {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Ownership of %s transferred to %s", result.Contract.Name, result.NewOwner.Name)))
	fmt.Fprintf(r.out, "  %s → %s\n", shortAddress(result.Contract.Address), shortAddress(result.NewOwner.Address))
	mutedStyle.Fprintf(r.out, "  tx %s (block %d, %d confirmations)\n", result.TxHash, result.BlockNumber, result.Confirmation)
}
