package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// ListNetworks lists configured network profiles
type ListNetworks struct {
	registry NetworkRegistry
	records  DeploymentRecords
}

// NewListNetworks creates a new list networks use case
func NewListNetworks(registry NetworkRegistry, records DeploymentRecords) *ListNetworks {
	return &ListNetworks{registry: registry, records: records}
}

// NetworkSummary describes one configured network
type NetworkSummary struct {
	Profile     *domain.NetworkProfile
	Deployments int
}

// Run lists the networks in chain id order
func (uc *ListNetworks) Run(ctx context.Context) ([]NetworkSummary, error) {
	var out []NetworkSummary
	for _, profile := range uc.registry.List() {
		summary := NetworkSummary{Profile: profile}
		if uc.records != nil {
			records, err := uc.records.List(ctx, profile)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("failed to list deployments on %s: %w", profile.Name, err)
			}
			summary.Deployments = len(records)
		}
		out = append(out, summary)
	}
	return out, nil
}
