package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// RunDeployment is the entry point for "provision deploy". It resolves the
// network by name, consults the deployment records and asks for confirmation
// before handing the plan to DeployPlan.
type RunDeployment struct {
	registry  NetworkRegistry
	records   DeploymentRecords
	deploy    *DeployPlan
	confirmer Confirmer
}

// NewRunDeployment creates a new deployment use case. confirmer may be nil.
func NewRunDeployment(registry NetworkRegistry, records DeploymentRecords, deploy *DeployPlan, confirmer Confirmer) *RunDeployment {
	return &RunDeployment{registry: registry, records: records, deploy: deploy, confirmer: confirmer}
}

// DeployParams contains parameters for a deployment
type DeployParams struct {
	Network    string
	Plan       *domain.DeploymentPlan
	Tags       []string
	Credential domain.Credential
	// Reset redeploys every step, ignoring the deployment records
	Reset bool
	// Confirmations overrides the network's default depth when set
	Confirmations *uint64
	Timeout       time.Duration
	Verify        bool
	// SkipPrompt broadcasts to remote networks without asking
	SkipPrompt bool
}

// ErrDeploymentDeclined is returned when the operator answers no
var ErrDeploymentDeclined = errors.New("deployment cancelled by user")

// Run deploys the plan
func (uc *RunDeployment) Run(ctx context.Context, params DeployParams) (*domain.RunReport, error) {
	profile, err := uc.registry.ResolveName(params.Network)
	if err != nil {
		return nil, err
	}

	policy := ConfirmationPolicy{Confirmations: profile.Confirmations, Timeout: params.Timeout}
	if params.Confirmations != nil {
		policy.Confirmations = *params.Confirmations
	}

	if !profile.Local && !params.SkipPrompt && uc.confirmer != nil {
		prompt := fmt.Sprintf("Deploy %s to %s", params.Plan.Name, profile.Label())
		if params.Credential != nil {
			prompt += " from " + params.Credential.Identity()
		}
		ok, err := uc.confirmer.Confirm(ctx, prompt)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDeploymentDeclined
		}
	}

	opts := RunOptions{
		Tags:                params.Tags,
		VerificationEnabled: params.Verify,
	}
	if !params.Reset && uc.records != nil {
		opts.AlreadyDeployed = func(name string) bool {
			_, err := uc.records.Get(ctx, profile, name)
			return err == nil
		}
	}

	return uc.deploy.Run(ctx, profile.ID, params.Credential, params.Plan, policy, opts)
}
