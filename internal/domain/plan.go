package domain

import (
	"fmt"
)

// ArgResolver computes the constructor arguments of a step from the target
// network profile and the artifacts deployed so far on that network.
type ArgResolver func(profile *NetworkProfile, artifacts ArtifactView) ([]any, error)

// NoArgs is the resolver for contracts without constructor arguments.
func NoArgs(*NetworkProfile, ArtifactView) ([]any, error) { return nil, nil }

// PostAction is one of TransferOwnership or VerifySource.
type PostAction interface {
	ActionName() string
	isPostAction()
}

// TransferOwnership hands ownership of Contract (the step's own artifact when
// empty) to the artifact named NewOwner.
type TransferOwnership struct {
	NewOwner string `yaml:"new_owner"`
	Contract string `yaml:"contract,omitempty"`
}

func (TransferOwnership) isPostAction() {}

func (a TransferOwnership) ActionName() string {
	if a.Contract == "" {
		return fmt.Sprintf("transferOwnership(%s)", a.NewOwner)
	}
	return fmt.Sprintf("transferOwnership(%s -> %s)", a.Contract, a.NewOwner)
}

// OwnedContract returns the artifact whose ownership moves when run by step.
func (a TransferOwnership) OwnedContract(step string) string {
	if a.Contract == "" {
		return step
	}
	return a.Contract
}

// AsTransferOwnership unwraps action when it is a TransferOwnership value or pointer.
func AsTransferOwnership(action PostAction) (TransferOwnership, bool) {
	switch a := action.(type) {
	case TransferOwnership:
		return a, true
	case *TransferOwnership:
		if a != nil {
			return *a, true
		}
	}
	return TransferOwnership{}, false
}

// VerifySource registers the step's artifact with the source verifier.
type VerifySource struct{}

func (VerifySource) isPostAction()       {}
func (VerifySource) ActionName() string { return "verifySource" }

// DeploymentStep is one contract deployment inside a plan.
type DeploymentStep struct {
	// Name identifies the resulting artifact on the network.
	Name string
	// Contract is the compiled contract name; defaults to Name.
	Contract    string
	DependsOn   []string
	Args        ArgResolver
	PostActions []PostAction
	Tags        []string
}

// ContractName returns the compiled contract to deploy.
func (s *DeploymentStep) ContractName() string {
	if s.Contract != "" {
		return s.Contract
	}
	return s.Name
}

// HasTag reports whether the step carries tag.
func (s *DeploymentStep) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DeploymentPlan is the set of steps deployed together in one run.
type DeploymentPlan struct {
	Name  string
	Steps []DeploymentStep
}

// Step returns the step called name.
func (p *DeploymentPlan) Step(name string) (*DeploymentStep, bool) {
	for i := range p.Steps {
		if p.Steps[i].Name == name {
			return &p.Steps[i], true
		}
	}
	return nil, false
}
