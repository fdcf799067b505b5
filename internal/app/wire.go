//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-provision/internal/adapters"
	"github.com/trebuchet-org/treb-provision/internal/config"
	"github.com/trebuchet-org/treb-provision/internal/logging"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployPlan,
		usecase.NewRunDeployment,
		usecase.NewShowPlan,
		usecase.NewListNetworks,
		usecase.NewVerifyArtifacts,
		usecase.NewTransferArtifactOwnership,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,
		usecase.NewPruneRecords,

		// App
		NewApp,
	)
	return nil, nil
}
