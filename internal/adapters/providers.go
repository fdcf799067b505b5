package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/treb-provision/internal/adapters/contracts"
	"github.com/trebuchet-org/treb-provision/internal/adapters/fs"
	"github.com/trebuchet-org/treb-provision/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-provision/internal/adapters/ledger"
	"github.com/trebuchet-org/treb-provision/internal/adapters/records"
	"github.com/trebuchet-org/treb-provision/internal/adapters/verification"
	"github.com/trebuchet-org/treb-provision/internal/artifacts"
	"github.com/trebuchet-org/treb-provision/internal/domain/config"
	"github.com/trebuchet-org/treb-provision/internal/networks"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// ProvideNetworkRegistry builds the registry from the loaded profiles
func ProvideNetworkRegistry(cfg *config.RuntimeConfig) (*networks.Registry, error) {
	return networks.NewRegistry(cfg.Networks...)
}

// ProvideContractRepository reads compiled contracts from the artifacts directory
func ProvideContractRepository(cfg *config.RuntimeConfig) *contracts.Repository {
	return contracts.NewRepository(cfg.ArtifactsDir)
}

// NetworkSet provides the network registry and the per-run artifact store
var NetworkSet = wire.NewSet(
	ProvideNetworkRegistry,
	wire.Bind(new(usecase.NetworkRegistry), new(*networks.Registry)),

	artifacts.NewStore,
	wire.Bind(new(usecase.ArtifactStore), new(*artifacts.Store)),
)

// LedgerSet provides the go-ethereum backed ledger
var LedgerSet = wire.NewSet(
	ProvideContractRepository,
	wire.Bind(new(ledger.ContractSource), new(*contracts.Repository)),

	ledger.NewConnector,
	wire.Bind(new(usecase.LedgerConnector), new(*ledger.Connector)),
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	records.NewStore,
	wire.Bind(new(usecase.DeploymentRecords), new(*records.Store)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigStore), new(*fs.LocalConfigStoreAdapter)),
)

// VerificationSet provides the forge based verifier
var VerificationSet = wire.NewSet(
	verification.NewForgeVerifier,
	wire.Bind(new(usecase.VerifierGateway), new(*verification.ForgeVerifier)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter providers
var AllAdapters = wire.NewSet(
	NetworkSet,
	LedgerSet,
	FSSet,
	VerificationSet,
	InteractiveSet,
)
