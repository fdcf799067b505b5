package verification

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/trebuchet-org/treb-provision/internal/domain/config"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// CommandRunner runs forge in dir and returns its combined output
type CommandRunner func(ctx context.Context, dir string, args ...string) ([]byte, error)

// ForgeVerifier registers sources with Etherscan through forge verify-contract
type ForgeVerifier struct {
	projectRoot string
	apiKey      string
	log         *slog.Logger
	run         CommandRunner
}

// NewForgeVerifier creates a verifier using the configured Etherscan API key
func NewForgeVerifier(cfg *config.RuntimeConfig, log *slog.Logger) *ForgeVerifier {
	return &ForgeVerifier{
		projectRoot: cfg.ProjectRoot,
		apiKey:      cfg.EtherscanAPIKey,
		log:         log,
		run:         runForge,
	}
}

// Verify submits the deployment's source for verification
func (v *ForgeVerifier) Verify(ctx context.Context, req usecase.VerifyRequest) error {
	if req.Network == nil {
		return fmt.Errorf("no network given")
	}
	if req.SourceRef == "" && req.ContractName == "" {
		return fmt.Errorf("%s: no contract to verify", req.Name)
	}

	args := v.buildArgs(req)
	v.log.Debug("verifying contract", "name", req.Name, "address", req.Address, "cmd", "forge "+strings.Join(args, " "))

	output, err := v.run(ctx, v.projectRoot, args...)
	if err := interpretOutput(string(output), err); err != nil {
		return err
	}

	if url := ExplorerURL(req.Network.ExplorerURL, req.Address); url != "" {
		v.log.Info("contract verified", "name", req.Name, "url", url)
	}
	return nil
}

// DumpCommand returns the forge command Verify would run
func (v *ForgeVerifier) DumpCommand(req usecase.VerifyRequest) string {
	return "forge " + strings.Join(v.buildArgs(req), " ")
}

func (v *ForgeVerifier) buildArgs(req usecase.VerifyRequest) []string {
	contractPath := req.SourceRef
	if contractPath == "" {
		contractPath = req.ContractName
	}

	args := []string{
		"verify-contract",
		req.Address,
		contractPath,
		"--chain-id", fmt.Sprintf("%d", req.Network.ID),
		"--watch",
	}
	if v.apiKey != "" {
		args = append(args, "--etherscan-api-key", v.apiKey)
	}
	if constructorArgs := strings.TrimPrefix(req.EncodedArgs, "0x"); constructorArgs != "" {
		args = append(args, "--constructor-args", constructorArgs)
	}
	return args
}

// interpretOutput decides success from forge's output. Already verified
// contracts count as verified.
func interpretOutput(output string, runErr error) error {
	output = strings.TrimSpace(output)
	if alreadyVerified(output) {
		return nil
	}
	if runErr != nil {
		if output == "" {
			return fmt.Errorf("verification failed: %w", runErr)
		}
		return fmt.Errorf("verification failed: %s", output)
	}
	if strings.Contains(output, "Contract successfully verified") {
		return nil
	}
	return fmt.Errorf("verification status unclear: %s", output)
}

func alreadyVerified(output string) bool {
	return strings.Contains(output, "Already Verified") ||
		strings.Contains(strings.ToLower(output), "already verified")
}

// ExplorerURL links to the verified code of address
func ExplorerURL(explorer, address string) string {
	if explorer == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s#code", strings.TrimSuffix(explorer, "/"), address)
}

func runForge(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "forge", args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

var _ usecase.VerifierGateway = (*ForgeVerifier)(nil)
