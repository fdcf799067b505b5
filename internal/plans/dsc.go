// Package plans provides deployment plans: the built-in stablecoin plan and
// plans loaded from YAML files.
package plans

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// Step and contract names of the stablecoin plan
const (
	DecentralisedStableCoin = "DecentralisedStableCoin"
	DSCEngine               = "DSCEngine"
)

// External addresses every network profile must provide for the DSC plan
const (
	AddressWETH            = "wethToken"
	AddressETHUSDPriceFeed = "ethUsdPriceFeed"
)

// Tags of the stablecoin plan
const (
	TagAll       = "all"
	TagDSCToken  = "dscToken"
	TagDSCEngine = "dscEngine"
)

// DSC returns the stablecoin plan: the token, then the engine collateralised
// by WETH with the ETH/USD feed. Token ownership moves to the engine once the
// engine is deployed.
func DSC() *domain.DeploymentPlan {
	return &domain.DeploymentPlan{
		Name: "dsc",
		Steps: []domain.DeploymentStep{
			{
				Name:        DecentralisedStableCoin,
				Args:        domain.NoArgs,
				PostActions: []domain.PostAction{domain.VerifySource{}},
				Tags:        []string{TagAll, TagDSCToken},
			},
			{
				Name:      DSCEngine,
				DependsOn: []string{DecentralisedStableCoin},
				Args:      dscEngineArgs,
				PostActions: []domain.PostAction{
					domain.TransferOwnership{Contract: DecentralisedStableCoin, NewOwner: DSCEngine},
					domain.VerifySource{},
				},
				Tags: []string{TagAll, TagDSCEngine},
			},
		},
	}
}

// dscEngineArgs builds (address[] tokens, address[] priceFeeds, address dsc)
func dscEngineArgs(profile *domain.NetworkProfile, artifacts domain.ArtifactView) ([]any, error) {
	weth, err := externalAddress(profile, AddressWETH)
	if err != nil {
		return nil, err
	}
	feed, err := externalAddress(profile, AddressETHUSDPriceFeed)
	if err != nil {
		return nil, err
	}
	dsc, err := artifacts.Get(DecentralisedStableCoin)
	if err != nil {
		return nil, err
	}

	return []any{
		[]common.Address{weth},
		[]common.Address{feed},
		common.HexToAddress(dsc.Address),
	}, nil
}

func externalAddress(profile *domain.NetworkProfile, name string) (common.Address, error) {
	addr, ok := profile.Address(name)
	if !ok {
		return common.Address{}, &domain.ConfigurationError{
			NetworkID: profile.ID,
			Network:   profile.Name,
			Reason:    fmt.Sprintf("external address %q is not configured", name),
		}
	}
	return common.HexToAddress(addr), nil
}
