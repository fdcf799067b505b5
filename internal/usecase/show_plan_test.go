package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-provision/internal/domain"
)

func TestShowPlan(t *testing.T) {
	records := newFakeRecords()
	records.add(localID, &domain.ArtifactRecord{Name: "Coin", Contract: "Coin", Address: priorAddressA})

	plan := &domain.DeploymentPlan{Name: "dsc", Steps: []domain.DeploymentStep{
		{Name: "Engine", DependsOn: []string{"Coin"}},
		{Name: "Coin"},
	}}
	uc := NewShowPlan(testRegistry(t), records)

	t.Run("marks recorded deployments", func(t *testing.T) {
		summary, err := uc.Run(context.Background(), ShowPlanParams{Network: "localhost", Plan: plan})
		require.NoError(t, err)

		assert.Equal(t, "dsc", summary.Plan)
		assert.Equal(t, localID, summary.Network.ID)
		require.Len(t, summary.Steps, 2)
		assert.Equal(t, "Coin", summary.Steps[0].Step.Name)
		require.NotNil(t, summary.Steps[0].Deployed)
		assert.Equal(t, priorAddressA, summary.Steps[0].Deployed.Address)
		assert.Nil(t, summary.Steps[1].Deployed)
	})

	t.Run("reset ignores records", func(t *testing.T) {
		summary, err := uc.Run(context.Background(), ShowPlanParams{Network: "31337", Plan: plan, Reset: true})
		require.NoError(t, err)
		for _, s := range summary.Steps {
			assert.Nil(t, s.Deployed)
		}
	})

	t.Run("unknown network", func(t *testing.T) {
		_, err := uc.Run(context.Background(), ShowPlanParams{Network: "mainnet", Plan: plan})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("outside dependency resolved from records", func(t *testing.T) {
		extension := &domain.DeploymentPlan{Name: "ext", Steps: []domain.DeploymentStep{
			{Name: "Engine", DependsOn: []string{"Coin"}},
		}}
		summary, err := uc.Run(context.Background(), ShowPlanParams{Network: "localhost", Plan: extension})
		require.NoError(t, err)
		assert.Len(t, summary.Steps, 1)

		_, err = uc.Run(context.Background(), ShowPlanParams{Network: "localhost", Plan: extension, Reset: true})
		assert.ErrorIs(t, err, domain.ErrPlanInvalid)
	})
}

func TestListNetworks(t *testing.T) {
	records := newFakeRecords()
	records.add(sepoliaID, &domain.ArtifactRecord{Name: "Coin", Address: priorAddressA})
	records.add(sepoliaID, &domain.ArtifactRecord{Name: "Engine", Address: priorAddressB})

	summaries, err := NewListNetworks(testRegistry(t), records).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "localhost", summaries[0].Profile.Name)
	assert.Equal(t, 0, summaries[0].Deployments)
	assert.Equal(t, "sepolia", summaries[1].Profile.Name)
	assert.Equal(t, 2, summaries[1].Deployments)
}
