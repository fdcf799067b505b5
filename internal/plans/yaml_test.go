package plans

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-provision/internal/artifacts"
	"github.com/trebuchet-org/treb-provision/internal/domain"
)

const dscPlanYAML = `
group: dsc
components:
  DSCEngine:
    deps: [DecentralisedStableCoin]
    args:
      - ["${profile.wethToken}"]
      - ["${profile.ethUsdPriceFeed}"]
      - ${artifact.DecentralisedStableCoin}
    tags: [all, dscEngine]
    post:
      - transfer_ownership:
          contract: DecentralisedStableCoin
          new_owner: DSCEngine
      - verify
  DecentralisedStableCoin:
    tags: [all, dscToken]
    post: [verify]
`

func TestParse_DSCPlan(t *testing.T) {
	plan, err := Parse([]byte(dscPlanYAML))
	require.NoError(t, err)

	assert.Equal(t, "dsc", plan.Name)
	require.Len(t, plan.Steps, 2)
	// declaration order is kept
	assert.Equal(t, DSCEngine, plan.Steps[0].Name)
	assert.Equal(t, DecentralisedStableCoin, plan.Steps[1].Name)

	engine := plan.Steps[0]
	assert.Equal(t, []string{DecentralisedStableCoin}, engine.DependsOn)
	assert.Equal(t, []string{"all", "dscEngine"}, engine.Tags)
	assert.Equal(t, []domain.PostAction{
		domain.TransferOwnership{Contract: DecentralisedStableCoin, NewOwner: DSCEngine},
		domain.VerifySource{},
	}, engine.PostActions)

	token := plan.Steps[1]
	assert.Empty(t, token.DependsOn)
	args, err := token.Args(sepolia(), artifacts.NewStore().ForNetwork(11155111))
	require.NoError(t, err)
	assert.Empty(t, args)

	store := artifacts.NewStore()
	require.NoError(t, store.Put(11155111, DecentralisedStableCoin, &domain.ArtifactRecord{Address: dscAddress}))
	args, err = engine.Args(sepolia(), store.ForNetwork(11155111))
	require.NoError(t, err)
	assert.Equal(t, []any{
		[]any{common.HexToAddress(sepoliaWETH)},
		[]any{common.HexToAddress(sepoliaFeed)},
		common.HexToAddress(dscAddress),
	}, args)
}

func TestParse_ArtifactReferencesAreDependencies(t *testing.T) {
	plan, err := Parse([]byte(`
components:
  Token: {}
  Vault:
    args: ["${artifact.Token}", 42, true]
`))
	require.NoError(t, err)

	vault := plan.Steps[1]
	assert.Equal(t, []string{"Token"}, vault.DependsOn)

	store := artifacts.NewStore()
	require.NoError(t, store.Put(1, "Token", &domain.ArtifactRecord{Address: dscAddress}))
	args, err := vault.Args(&domain.NetworkProfile{ID: 1, Name: "test"}, store.ForNetwork(1))
	require.NoError(t, err)
	assert.Equal(t, []any{common.HexToAddress(dscAddress), 42, true}, args)
}

func TestParse_ScaleAndEmbeddedReferences(t *testing.T) {
	plan, err := Parse([]byte(`
components:
  MockV3Aggregator:
    args: ["${scale.decimals}", "${scale.initialAnswer}", "feed-${scale.decimals}"]
`))
	require.NoError(t, err)

	args, err := plan.Steps[0].Args(sepolia(), artifacts.NewStore().ForNetwork(11155111))
	require.NoError(t, err)
	assert.Equal(t, []any{int64(8), int64(200000000000), "feed-8"}, args)

	profile := sepolia()
	profile.Scale = nil
	_, err = plan.Steps[0].Args(profile, artifacts.NewStore().ForNetwork(11155111))
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "no components", yaml: "group: empty\n", wantErr: "no components defined"},
		{name: "components not a mapping", yaml: "components: [a, b]\n", wantErr: "components must be a mapping"},
		{name: "unknown post action", yaml: "components:\n  A:\n    post: [explode]\n", wantErr: `unknown post action "explode"`},
		{name: "unknown reference", yaml: "components:\n  A:\n    args: [\"${env.HOME}\"]\n", wantErr: `unknown reference "${env.HOME}"`},
		{name: "path in component name", yaml: "components:\n  ../../x: {}\n", wantErr: "must not contain path separators"},
		{name: "malformed yaml", yaml: "components: [\n", wantErr: "failed to parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stablecoin.yaml")
	require.NoError(t, os.WriteFile(path, []byte("components:\n  Token: {}\n"), 0644))

	plan, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "stablecoin", plan.Name)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "plan file not found")
}
