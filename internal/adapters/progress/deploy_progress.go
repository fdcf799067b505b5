package progress

import (
	"context"

	"github.com/trebuchet-org/treb-provision/internal/cli/render"
	"github.com/trebuchet-org/treb-provision/internal/domain"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// DeployProgress renders DeployPlan events as they happen
type DeployProgress struct {
	renderer *render.DeployRenderer
	spinner  *SpinnerProgressReporter

	planRendered bool
}

// NewDeployProgress creates a new deploy progress reporter
func NewDeployProgress(renderer *render.DeployRenderer) *DeployProgress {
	return &DeployProgress{
		renderer: renderer,
		spinner:  NewSpinnerProgressReporter(renderer.GetWriter()),
	}
}

// OnProgress handles progress events of a deployment or prune run
func (p *DeployProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	switch event.Stage {
	case usecase.StagePlanCreated:
		if steps, ok := event.Metadata.([]*domain.DeploymentStep); ok && !p.planRendered {
			p.renderer.RenderExecutionOrder(event.Message, steps)
			p.planRendered = true
		}

	case usecase.StageStepStarting:
		p.spinner.Stop()
		p.renderer.RenderStepStart(event.Current, event.Total, event.Message)

	case usecase.StageStepState:
		p.spinner.OnProgress(ctx, event)

	case usecase.StageStepCompleted:
		p.spinner.Stop()
		if entry, ok := event.Metadata.(*domain.StepReport); ok {
			p.renderer.RenderStepResult(entry)
		}

	case usecase.StageDeployComplete, usecase.StagePruneComplete:
		p.spinner.Stop()

	default:
		if event.Spinner {
			p.spinner.OnProgress(ctx, event)
		}
	}
}

// Info prints an info message
func (p *DeployProgress) Info(message string) {
	p.spinner.Info(message)
}

// Error prints an error message
func (p *DeployProgress) Error(message string) {
	p.spinner.Error(message)
}

var _ usecase.ProgressSink = (*DeployProgress)(nil)
