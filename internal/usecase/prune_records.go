package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// PruneRecords removes deployment records whose contract no longer exists on
// chain, typically after a local node was restarted.
type PruneRecords struct {
	registry NetworkRegistry
	records  DeploymentRecords
	ledgers  LedgerConnector
	progress ProgressSink
	log      *slog.Logger
}

// NewPruneRecords creates a new PruneRecords use case
func NewPruneRecords(registry NetworkRegistry, records DeploymentRecords, ledgers LedgerConnector, progress ProgressSink, log *slog.Logger) *PruneRecords {
	if progress == nil {
		progress = NopProgress{}
	}
	return &PruneRecords{registry: registry, records: records, ledgers: ledgers, progress: progress, log: log}
}

// PruneParams contains parameters for pruning records
type PruneParams struct {
	Network string
	// DryRun only reports what would be removed
	DryRun bool
}

// PruneResult lists the stale records found
type PruneResult struct {
	Network string
	Checked int
	Stale   []*domain.ArtifactRecord
	Removed bool
}

// Run checks every record of the network against on-chain code
func (uc *PruneRecords) Run(ctx context.Context, params PruneParams) (*PruneResult, error) {
	profile, err := uc.registry.ResolveName(params.Network)
	if err != nil {
		return nil, err
	}

	records, err := uc.records.List(ctx, profile)
	if err != nil {
		return nil, err
	}
	result := &PruneResult{Network: profile.Name, Checked: len(records)}
	if len(records) == 0 {
		return result, nil
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "connect_ledger",
		Message: fmt.Sprintf("Connecting to %s", profile.Label()),
		Spinner: true,
	})
	ledger, err := uc.ledgers.Connect(ctx, profile)
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StagePruneComplete})
		return nil, &domain.ConfigurationError{NetworkID: profile.ID, Network: profile.Name,
			Reason: fmt.Sprintf("cannot connect to ledger: %v", err)}
	}
	defer ledger.Close()

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "check_records",
		Message: fmt.Sprintf("Checking %d records against on-chain state", len(records)),
		Total:   len(records),
		Spinner: true,
	})
	for _, rec := range records {
		ok, err := ledger.HasCode(ctx, rec.Address)
		if err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: StagePruneComplete})
			return nil, fmt.Errorf("%s: %w", rec.Name, err)
		}
		if !ok {
			uc.log.Debug("no code at recorded address", "name", rec.Name, "address", rec.Address)
			result.Stale = append(result.Stale, rec)
		}
	}
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StagePruneComplete})

	if params.DryRun || len(result.Stale) == 0 {
		return result, nil
	}

	for _, rec := range result.Stale {
		if err := uc.records.Remove(ctx, profile, rec.Name); err != nil {
			return nil, err
		}
	}
	result.Removed = true
	return result, nil
}
