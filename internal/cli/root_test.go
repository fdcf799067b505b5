package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-provision/internal/app"
	"github.com/trebuchet-org/treb-provision/internal/domain"
	"github.com/trebuchet-org/treb-provision/internal/domain/config"
	"github.com/trebuchet-org/treb-provision/internal/networks"
)

func TestRootCmd_Commands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"deploy", "plan", "verify", "transfer-ownership", "networks", "prune", "config", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	deploy, _, err := root.Find([]string{"deploy"})
	require.NoError(t, err)
	for _, flag := range []string{"plan", "tags", "reset", "yes", "skip-verify", "confirmations", "timeout"} {
		assert.NotNil(t, deploy.Flags().Lookup(flag), flag)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("network"))
}

func TestVersionCmd(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "provision version dev")
}

func TestTransferOwnershipCmd_Args(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"transfer-ownership", "OnlyOne"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.PersistentPreRunE = nil

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s), received 1")
}

func TestGetApp(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, err := getApp(cmd)
	assert.EqualError(t, err, "app not initialized")

	want := &app.App{}
	cmd.SetContext(context.WithValue(context.Background(), appKey, want))
	got, err := getApp(cmd)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func testApp(t *testing.T, cfg *config.RuntimeConfig) *app.App {
	t.Helper()
	registry, err := networks.NewRegistry(
		domain.NetworkProfile{ID: 31337, Name: "localhost", Local: true},
		domain.NetworkProfile{ID: 11155111, Name: "sepolia", Confirmations: 6},
	)
	require.NoError(t, err)
	return &app.App{Config: cfg, Registry: registry, Log: discardLogger()}
}

func TestLoadCredential(t *testing.T) {
	a := testApp(t, &config.RuntimeConfig{})
	local, err := a.Registry.ResolveName("localhost")
	require.NoError(t, err)
	sepolia, err := a.Registry.ResolveName("sepolia")
	require.NoError(t, err)

	cred, err := loadCredential(a, local)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", cred.Identity())

	_, err = loadCredential(a, sepolia)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "PRIVATE_KEY is not set")

	a.Config.PrivateKey = "not-a-key"
	_, err = loadCredential(a, sepolia)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestResolveNetwork(t *testing.T) {
	a := testApp(t, &config.RuntimeConfig{Network: "Sepolia"})

	network, err := resolveNetwork(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, uint64(11155111), network.ID)
	assert.Equal(t, "11155111", networkRef(network))

	a.Config.Network = "sepol"
	_, err = resolveNetwork(context.Background(), a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean: sepolia?")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
