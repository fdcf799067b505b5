package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// TransferArtifactOwnership re-runs an ownership transfer between two recorded
// artifacts. It is the operator path after a PostActionError.
type TransferArtifactOwnership struct {
	registry NetworkRegistry
	records  DeploymentRecords
	ledgers  LedgerConnector
	log      *slog.Logger
}

// NewTransferArtifactOwnership creates a new transfer ownership use case
func NewTransferArtifactOwnership(registry NetworkRegistry, records DeploymentRecords, ledgers LedgerConnector, log *slog.Logger) *TransferArtifactOwnership {
	return &TransferArtifactOwnership{registry: registry, records: records, ledgers: ledgers, log: log}
}

// TransferParams contains parameters for an ownership transfer
type TransferParams struct {
	Network    string
	Contract   string
	NewOwner   string
	Credential domain.Credential
	Policy     ConfirmationPolicy
}

// TransferResult describes a completed transfer
type TransferResult struct {
	Contract     *domain.ArtifactRecord
	NewOwner     *domain.ArtifactRecord
	TxHash       string
	BlockNumber  uint64
	Confirmation uint64
}

// Run sends transferOwnership and waits for the configured confirmations
func (uc *TransferArtifactOwnership) Run(ctx context.Context, params TransferParams) (*TransferResult, error) {
	profile, err := uc.registry.ResolveName(params.Network)
	if err != nil {
		return nil, err
	}
	if params.Credential == nil {
		return nil, &domain.ConfigurationError{NetworkID: profile.ID, Network: profile.Name, Reason: "no deployer credential"}
	}

	contract, err := uc.lookup(ctx, profile, params.Contract)
	if err != nil {
		return nil, err
	}
	owner, err := uc.lookup(ctx, profile, params.NewOwner)
	if err != nil {
		return nil, err
	}

	ledger, err := uc.ledgers.Connect(ctx, profile)
	if err != nil {
		return nil, &domain.ConfigurationError{NetworkID: profile.ID, Network: profile.Name,
			Reason: fmt.Sprintf("cannot connect to ledger: %v", err)}
	}
	defer ledger.Close()

	uc.log.Info("transferring ownership", "contract", contract.Name, "newOwner", owner.Name, "network", profile.Name)
	sub, err := ledger.TransferOwnership(ctx, params.Credential, contract.Address, owner.Address)
	if err != nil {
		return nil, &domain.SubmissionError{Step: contract.Name, Err: err}
	}

	conf, err := awaitConfirmation(context.WithoutCancel(ctx), ledger, params.Policy, contract.Name, sub)
	if err != nil {
		return nil, err
	}

	return &TransferResult{
		Contract:     contract,
		NewOwner:     owner,
		TxHash:       sub.TxHash,
		BlockNumber:  conf.BlockNumber,
		Confirmation: conf.Depth,
	}, nil
}

func (uc *TransferArtifactOwnership) lookup(ctx context.Context, profile *domain.NetworkProfile, name string) (*domain.ArtifactRecord, error) {
	rec, err := uc.records.Get(ctx, profile, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.DependencyUnresolvedError{Dependency: name, NetworkID: profile.ID}
		}
		return nil, err
	}
	return rec, nil
}
