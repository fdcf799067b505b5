package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/trebuchet-org/treb-provision/internal/adapters/ledger"
	"github.com/trebuchet-org/treb-provision/internal/app"
	"github.com/trebuchet-org/treb-provision/internal/config"
	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// resolveNetwork returns the network named by --network, or asks for one
func resolveNetwork(ctx context.Context, a *app.App) (*domain.NetworkProfile, error) {
	if a.Config.Network != "" {
		return a.Registry.ResolveName(a.Config.Network)
	}
	return a.Selector.SelectNetwork(ctx, a.Registry.List())
}

// networkRef is the unambiguous reference passed to use cases
func networkRef(network *domain.NetworkProfile) string {
	return strconv.FormatUint(network.ID, 10)
}

// loadCredential builds the deployer key from PRIVATE_KEY. Local networks
// fall back to the first dev account.
func loadCredential(a *app.App, network *domain.NetworkProfile) (*ledger.KeyCredential, error) {
	key := a.Config.PrivateKey
	if key == "" {
		if !network.Local {
			return nil, &domain.ConfigurationError{
				NetworkID: network.ID,
				Network:   network.Name,
				Reason:    fmt.Sprintf("%s is not set", config.EnvPrivateKey),
			}
		}
		a.Log.Warn("no private key configured, using the local dev account", "network", network.Name)
		key = ledger.DevPrivateKey
	}

	credential, err := ledger.NewKeyCredential(key)
	if err != nil {
		return nil, &domain.ConfigurationError{NetworkID: network.ID, Network: network.Name, Reason: err.Error()}
	}
	return credential, nil
}
