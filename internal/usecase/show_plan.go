package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// ShowPlan resolves a plan's execution order without touching the ledger
type ShowPlan struct {
	registry NetworkRegistry
	records  DeploymentRecords
}

// NewShowPlan creates a new show plan use case
func NewShowPlan(registry NetworkRegistry, records DeploymentRecords) *ShowPlan {
	return &ShowPlan{registry: registry, records: records}
}

// ShowPlanParams contains parameters for ShowPlan
type ShowPlanParams struct {
	Network string
	Tags    []string
	Plan    *domain.DeploymentPlan
	// Reset ignores deployment records, as a fresh deployment would
	Reset bool
}

// PlannedStep is one step of a resolved plan
type PlannedStep struct {
	Step *domain.DeploymentStep
	// Deployed is the recorded deployment that a run would reuse, if any
	Deployed *domain.ArtifactRecord
}

// PlanSummary is the resolved execution order of a plan on a network
type PlanSummary struct {
	Plan    string
	Network *domain.NetworkProfile
	Steps   []PlannedStep
}

// Run resolves the plan
func (uc *ShowPlan) Run(ctx context.Context, params ShowPlanParams) (*PlanSummary, error) {
	profile, err := uc.registry.ResolveName(params.Network)
	if err != nil {
		return nil, err
	}

	recorded := func(name string) (*domain.ArtifactRecord, bool) {
		if params.Reset || uc.records == nil {
			return nil, false
		}
		rec, err := uc.records.Get(ctx, profile, name)
		if err != nil {
			return nil, false
		}
		return rec, true
	}

	steps, err := OrderPlan(params.Plan, params.Tags, func(name string) bool {
		_, ok := recorded(name)
		return ok
	})
	if err != nil {
		return nil, err
	}

	summary := &PlanSummary{Plan: params.Plan.Name, Network: profile}
	for _, step := range steps {
		planned := PlannedStep{Step: step}
		if rec, ok := recorded(step.Name); ok {
			planned.Deployed = rec
		}
		summary.Steps = append(summary.Steps, planned)
	}
	return summary, nil
}
