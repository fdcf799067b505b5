package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-provision/internal/domain"
)

type fakeConfirmer struct {
	answer  bool
	err     error
	prompts []string
}

func (c *fakeConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	return c.answer, c.err
}

func newRunDeployment(t *testing.T, confirmer Confirmer) (*RunDeployment, *harness, *[]uint64) {
	t.Helper()
	h := newHarness(t)
	var depths []uint64
	h.ledger.waitFn = func(_ context.Context, _ *Submission, confirmations uint64) (*Confirmation, error) {
		depths = append(depths, confirmations)
		return &Confirmation{BlockNumber: 7, Depth: confirmations}, nil
	}
	return NewRunDeployment(testRegistry(t), h.records, h.uc, confirmer), h, &depths
}

func singleStepPlan() *domain.DeploymentPlan {
	return &domain.DeploymentPlan{Name: "dsc", Steps: []domain.DeploymentStep{{Name: "A"}, {Name: "B", DependsOn: []string{"A"}}}}
}

func TestRunDeployment_LocalNeverPrompts(t *testing.T) {
	confirmer := &fakeConfirmer{}
	uc, h, depths := newRunDeployment(t, confirmer)

	report, err := uc.Run(context.Background(), DeployParams{
		Network:    "localhost",
		Plan:       singleStepPlan(),
		Credential: fakeCredential("deployer"),
	})
	require.NoError(t, err)
	assert.True(t, report.Succeeded())
	assert.Empty(t, confirmer.prompts)
	assert.Equal(t, []string{"A", "B"}, h.ledger.deployedSteps())
	assert.Equal(t, []uint64{0, 0}, *depths)
}

func TestRunDeployment_RemotePrompt(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		confirmer := &fakeConfirmer{answer: false}
		uc, h, _ := newRunDeployment(t, confirmer)

		report, err := uc.Run(context.Background(), DeployParams{
			Network:    "sepolia",
			Plan:       singleStepPlan(),
			Credential: fakeCredential("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		})
		assert.ErrorIs(t, err, ErrDeploymentDeclined)
		assert.Nil(t, report)
		assert.Equal(t, []string{"Deploy dsc to sepolia from 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"}, confirmer.prompts)
		assert.Zero(t, h.connector.connects)
	})

	t.Run("prompt error", func(t *testing.T) {
		uc, h, _ := newRunDeployment(t, &fakeConfirmer{err: errors.New("no tty")})

		_, err := uc.Run(context.Background(), DeployParams{Network: "sepolia", Plan: singleStepPlan(), Credential: fakeCredential("d")})
		assert.EqualError(t, err, "no tty")
		assert.Zero(t, h.connector.connects)
	})

	t.Run("accepted uses network confirmations", func(t *testing.T) {
		confirmer := &fakeConfirmer{answer: true}
		uc, _, depths := newRunDeployment(t, confirmer)

		_, err := uc.Run(context.Background(), DeployParams{Network: "sepolia", Plan: singleStepPlan(), Credential: fakeCredential("d")})
		require.NoError(t, err)
		assert.Len(t, confirmer.prompts, 1)
		assert.Equal(t, []uint64{6, 6}, *depths)
	})

	t.Run("skip prompt with override", func(t *testing.T) {
		confirmer := &fakeConfirmer{}
		uc, _, depths := newRunDeployment(t, confirmer)
		two := uint64(2)

		_, err := uc.Run(context.Background(), DeployParams{
			Network:       "sepolia",
			Plan:          singleStepPlan(),
			Credential:    fakeCredential("d"),
			SkipPrompt:    true,
			Confirmations: &two,
		})
		require.NoError(t, err)
		assert.Empty(t, confirmer.prompts)
		assert.Equal(t, []uint64{2, 2}, *depths)
	})
}

func TestRunDeployment_Records(t *testing.T) {
	t.Run("recorded steps are reused", func(t *testing.T) {
		uc, h, _ := newRunDeployment(t, nil)
		h.records.add(localID, &domain.ArtifactRecord{Name: "A", Address: priorAddressA})

		report, err := uc.Run(context.Background(), DeployParams{Network: "localhost", Plan: singleStepPlan(), Credential: fakeCredential("d")})
		require.NoError(t, err)
		assert.Equal(t, []string{"B"}, h.ledger.deployedSteps())
		assert.Equal(t, domain.StepStatusSkipped, report.Step("A").Status)
		assert.Equal(t, priorAddressA, report.Step("A").Address)
	})

	t.Run("reset redeploys", func(t *testing.T) {
		uc, h, _ := newRunDeployment(t, nil)
		h.records.add(localID, &domain.ArtifactRecord{Name: "A", Address: priorAddressA})

		_, err := uc.Run(context.Background(), DeployParams{Network: "localhost", Plan: singleStepPlan(), Credential: fakeCredential("d"), Reset: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, h.ledger.deployedSteps())
	})
}

func TestRunDeployment_UnknownNetwork(t *testing.T) {
	uc, h, _ := newRunDeployment(t, nil)

	_, err := uc.Run(context.Background(), DeployParams{Network: "mainnet", Plan: singleStepPlan(), Credential: fakeCredential("d")})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Zero(t, h.connector.connects)
}
