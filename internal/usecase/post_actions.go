package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// runPostActions executes the step's actions in declared order. The first
// failing action stops the remaining ones and is returned as a PostActionError.
func (r *planRun) runPostActions(ctx context.Context, step *domain.DeploymentStep, entry *domain.StepReport) error {
	for _, action := range step.PostActions {
		var err error
		if transfer, ok := domain.AsTransferOwnership(action); ok {
			err = r.transferOwnership(ctx, step, transfer)
		} else {
			switch action.(type) {
			case domain.VerifySource, *domain.VerifySource:
				r.verifySource(ctx, step, entry)
			default:
				err = fmt.Errorf("unsupported post action %T", action)
			}
		}

		if err != nil {
			postErr := &domain.PostActionError{Step: step.Name, Action: action.ActionName(), Err: err}
			entry.Error = postErr
			r.log.Error("post action failed, deployment kept", "step", step.Name, "action", action.ActionName(), "error", err)
			return postErr
		}
	}

	r.setState(ctx, entry, domain.StepStatePostActionsComplete)
	return nil
}

func (r *planRun) transferOwnership(ctx context.Context, step *domain.DeploymentStep, action domain.TransferOwnership) error {
	view := r.store.ForNetwork(r.profile.ID)

	owned, err := view.Get(action.OwnedContract(step.Name))
	if err != nil {
		return err
	}
	owner, err := view.Get(action.NewOwner)
	if err != nil {
		return err
	}

	r.log.Info("transferring ownership", "contract", owned.Name, "address", owned.Address,
		"newOwner", owner.Name, "ownerAddress", owner.Address)
	sub, err := r.ledger.TransferOwnership(ctx, r.credential, owned.Address, owner.Address)
	if err != nil {
		return &domain.SubmissionError{Step: step.Name, Err: err}
	}
	_, err = r.confirm(ctx, step.Name, sub)
	return err
}

// verifySource never fails the step: verification is informational only.
func (r *planRun) verifySource(ctx context.Context, step *domain.DeploymentStep, entry *domain.StepReport) {
	if !r.verificationAllowed() {
		r.log.Debug("verification skipped", "step", step.Name, "network", r.profile.Name,
			"local", r.isLocal(), "enabled", r.opts.VerificationEnabled)
		return
	}

	record, err := r.store.Get(r.profile.ID, step.Name)
	if err != nil {
		r.warn(entry, fmt.Sprintf("verification skipped: %v", err))
		return
	}

	r.log.Info("verifying", "step", step.Name, "address", record.Address)
	err = r.verifier.Verify(ctx, VerifyRequest{
		Network:         r.profile,
		Name:            record.Name,
		ContractName:    record.Contract,
		SourceRef:       record.ABIRef,
		Address:         record.Address,
		ConstructorArgs: record.ConstructorArgs,
		EncodedArgs:     record.EncodedArgs,
	})
	if err != nil {
		r.warn(entry, fmt.Sprintf("verification failed: %v", err))
	}
}

func (r *planRun) verificationAllowed() bool {
	return !r.isLocal() && r.opts.VerificationEnabled && r.verifier != nil
}

func (r *planRun) isLocal() bool {
	return r.profile.Local || r.registry.IsLocal(r.profile.ID)
}

func (r *planRun) warn(entry *domain.StepReport, msg string) {
	entry.Warnings = append(entry.Warnings, msg)
	r.log.Warn(msg, "step", entry.Step)
}
