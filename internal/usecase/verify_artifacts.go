package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// VerifyArtifacts re-runs source verification for recorded deployments
type VerifyArtifacts struct {
	registry NetworkRegistry
	records  DeploymentRecords
	verifier VerifierGateway
	log      *slog.Logger
}

// NewVerifyArtifacts creates a new verify use case
func NewVerifyArtifacts(registry NetworkRegistry, records DeploymentRecords, verifier VerifierGateway, log *slog.Logger) *VerifyArtifacts {
	return &VerifyArtifacts{registry: registry, records: records, verifier: verifier, log: log}
}

// VerifyParams contains parameters for verification
type VerifyParams struct {
	Network string
	// Names of the recorded artifacts; empty means all records on the network
	Names   []string
	Enabled bool
}

// VerifyOutcome is the result for one artifact
type VerifyOutcome struct {
	Name    string
	Address string
	Status  string // "verified", "skipped", "failed"
	Reason  string
}

// Run verifies the requested artifacts. Failures are reported per artifact,
// never as an error.
func (uc *VerifyArtifacts) Run(ctx context.Context, params VerifyParams) ([]VerifyOutcome, error) {
	profile, err := uc.registry.ResolveName(params.Network)
	if err != nil {
		return nil, err
	}

	records, err := uc.collect(ctx, profile, params.Names)
	if err != nil {
		return nil, err
	}

	var skipReason string
	switch {
	case profile.Local || uc.registry.IsLocal(profile.ID):
		skipReason = "local network"
	case !params.Enabled || uc.verifier == nil:
		skipReason = "verification not configured"
	}

	outcomes := make([]VerifyOutcome, 0, len(records))
	for _, rec := range records {
		outcome := VerifyOutcome{Name: rec.Name, Address: rec.Address}
		if skipReason != "" {
			outcome.Status = "skipped"
			outcome.Reason = skipReason
			outcomes = append(outcomes, outcome)
			continue
		}

		err := uc.verifier.Verify(ctx, VerifyRequest{
			Network:         profile,
			Name:            rec.Name,
			ContractName:    rec.Contract,
			SourceRef:       rec.ABIRef,
			Address:         rec.Address,
			ConstructorArgs: rec.ConstructorArgs,
			EncodedArgs:     rec.EncodedArgs,
		})
		if err != nil {
			uc.log.Warn("verification failed", "artifact", rec.Name, "error", err)
			outcome.Status = "failed"
			outcome.Reason = err.Error()
		} else {
			outcome.Status = "verified"
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (uc *VerifyArtifacts) collect(ctx context.Context, profile *domain.NetworkProfile, names []string) ([]*domain.ArtifactRecord, error) {
	if len(names) == 0 {
		records, err := uc.records.List(ctx, profile)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return records, nil
	}

	records := make([]*domain.ArtifactRecord, 0, len(names))
	for _, name := range names {
		rec, err := uc.records.Get(ctx, profile, name)
		if err != nil {
			return nil, fmt.Errorf("no deployment of %s recorded on %s: %w", name, profile.Name, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
