package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/treb-provision/internal/config"
	"github.com/trebuchet-org/treb-provision/internal/domain"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// DialFunc opens an RPC connection
type DialFunc func(ctx context.Context, rpcURL string) (Backend, error)

// Connector opens ledger sessions over JSON-RPC
type Connector struct {
	contracts ContractSource
	log       *slog.Logger
	dial      DialFunc
}

// NewConnector creates a connector deploying contracts from source
func NewConnector(source ContractSource, log *slog.Logger) *Connector {
	return &Connector{
		contracts: source,
		log:       log,
		dial: func(ctx context.Context, rpcURL string) (Backend, error) {
			return ethclient.DialContext(ctx, rpcURL)
		},
	}
}

// Connect dials the network's RPC endpoint and checks it serves the
// expected chain
func (c *Connector) Connect(ctx context.Context, network *domain.NetworkProfile) (usecase.Ledger, error) {
	if network.RPCURL == "" {
		return nil, fmt.Errorf("no RPC URL configured for %s (set rpc_url in networks.toml or %s)",
			network.Name, config.GenerateEnvVarName(network.Name))
	}

	backend, err := c.dial(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if chainID.Uint64() != network.ID {
		backend.Close()
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", network.ID, chainID.Uint64())
	}

	c.log.Debug("connected", "network", network.Name, "chainId", chainID.Uint64())
	return NewSession(backend, chainID, c.contracts, c.log), nil
}

var _ usecase.LedgerConnector = (*Connector)(nil)
