package verification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-provision/internal/domain"
	"github.com/trebuchet-org/treb-provision/internal/domain/config"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

var sepolia = &domain.NetworkProfile{ID: 11155111, Name: "sepolia", ExplorerURL: "https://sepolia.etherscan.io"}

type fakeRunner struct {
	dir    string
	args   []string
	output string
	err    error
}

func (f *fakeRunner) run(_ context.Context, dir string, args ...string) ([]byte, error) {
	f.dir = dir
	f.args = args
	return []byte(f.output), f.err
}

func newTestVerifier(apiKey string, runner *fakeRunner) *ForgeVerifier {
	v := NewForgeVerifier(&config.RuntimeConfig{ProjectRoot: "/project", EtherscanAPIKey: apiKey},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	v.run = runner.run
	return v
}

func engineRequest() usecase.VerifyRequest {
	return usecase.VerifyRequest{
		Network:      sepolia,
		Name:         "DSCEngine",
		ContractName: "DSCEngine",
		SourceRef:    "src/DSCEngine.sol:DSCEngine",
		Address:      "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
		EncodedArgs:  "0x00ff",
	}
}

func TestForgeVerifier_Args(t *testing.T) {
	runner := &fakeRunner{output: "Contract successfully verified"}
	v := newTestVerifier("KEY", runner)

	require.NoError(t, v.Verify(context.Background(), engineRequest()))
	assert.Equal(t, "/project", runner.dir)
	assert.Equal(t, []string{
		"verify-contract",
		"0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
		"src/DSCEngine.sol:DSCEngine",
		"--chain-id", "11155111",
		"--watch",
		"--etherscan-api-key", "KEY",
		"--constructor-args", "00ff",
	}, runner.args)
}

func TestForgeVerifier_ArgsWithoutKeyOrConstructorArgs(t *testing.T) {
	req := engineRequest()
	req.SourceRef = ""
	req.EncodedArgs = "0x"

	v := newTestVerifier("", &fakeRunner{})
	assert.Equal(t,
		"forge verify-contract 0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512 DSCEngine --chain-id 11155111 --watch",
		v.DumpCommand(req))
}

func TestForgeVerifier_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		err     error
		wantErr string
	}{
		{name: "verified", output: "Submitted contract for verification\nContract successfully verified"},
		{name: "already verified", output: "Contract [src/DSCEngine.sol:DSCEngine] is already verified. Skipping verification."},
		{name: "already verified exit code", output: "Error: Already Verified", err: errors.New("exit status 1")},
		{name: "failure", output: "Error: Invalid API Key", err: errors.New("exit status 1"), wantErr: "verification failed: Error: Invalid API Key"},
		{name: "failure without output", err: errors.New("executable file not found"), wantErr: "verification failed: executable file not found"},
		{name: "unclear", output: "Pending in queue", wantErr: "verification status unclear: Pending in queue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestVerifier("KEY", &fakeRunner{output: tt.output, err: tt.err})
			err := v.Verify(context.Background(), engineRequest())
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestForgeVerifier_RequiresNetwork(t *testing.T) {
	req := engineRequest()
	req.Network = nil
	assert.Error(t, newTestVerifier("", &fakeRunner{}).Verify(context.Background(), req))
}

func TestExplorerURL(t *testing.T) {
	assert.Equal(t, "https://sepolia.etherscan.io/address/0x01#code", ExplorerURL("https://sepolia.etherscan.io/", "0x01"))
	assert.Empty(t, ExplorerURL("", "0x01"))
}
