package app

import (
	"log/slog"

	"github.com/trebuchet-org/treb-provision/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-provision/internal/domain/config"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Registry usecase.NetworkRegistry
	Selector *interactive.SelectorAdapter

	// Use cases
	RunDeployment     *usecase.RunDeployment
	ShowPlan          *usecase.ShowPlan
	ListNetworks      *usecase.ListNetworks
	VerifyArtifacts   *usecase.VerifyArtifacts
	TransferOwnership *usecase.TransferArtifactOwnership
	ShowConfig        *usecase.ShowConfig
	SetConfig         *usecase.SetConfig
	RemoveConfig      *usecase.RemoveConfig
	PruneRecords      *usecase.PruneRecords
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	registry usecase.NetworkRegistry,
	selector *interactive.SelectorAdapter,
	runDeployment *usecase.RunDeployment,
	showPlan *usecase.ShowPlan,
	listNetworks *usecase.ListNetworks,
	verifyArtifacts *usecase.VerifyArtifacts,
	transferOwnership *usecase.TransferArtifactOwnership,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
	pruneRecords *usecase.PruneRecords,
) (*App, error) {
	return &App{
		Config:            cfg,
		Log:               log,
		Registry:          registry,
		Selector:          selector,
		RunDeployment:     runDeployment,
		ShowPlan:          showPlan,
		ListNetworks:      listNetworks,
		VerifyArtifacts:   verifyArtifacts,
		TransferOwnership: transferOwnership,
		ShowConfig:        showConfig,
		SetConfig:         setConfig,
		RemoveConfig:      removeConfig,
		PruneRecords:      pruneRecords,
	}, nil
}
