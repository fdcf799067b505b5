package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// NetworksFile is the project-level override of the built-in profiles
const NetworksFile = "networks.toml"

//go:embed networks.default.toml
var defaultNetworksTOML []byte

// devChainNames are always treated as local development networks
var devChainNames = []string{"hardhat", "localhost", "anvil"}

type networksTOML struct {
	Networks map[string]profileTOML `toml:"networks"`
}

// profileTOML is one [networks.<name>] table. Scalar fields are pointers so an
// override can set them back to their zero value.
type profileTOML struct {
	ID            *uint64           `toml:"chain_id"`
	Name          *string           `toml:"name"`
	DisplayName   *string           `toml:"display_name"`
	Local         *bool             `toml:"local"`
	Confirmations *uint64           `toml:"confirmations"`
	RPCURL        *string           `toml:"rpc_url"`
	ExplorerURL   *string           `toml:"explorer_url"`
	Addresses     map[string]string `toml:"addresses"`
	Scale         map[string]int64  `toml:"scale"`
}

// DefaultNetworks returns the built-in profiles
func DefaultNetworks() ([]domain.NetworkProfile, error) {
	var raw networksTOML
	if _, err := toml.NewDecoder(bytes.NewReader(defaultNetworksTOML)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse built-in networks: %w", err)
	}
	return normalizeProfiles(raw.Networks), nil
}

// LoadNetworks returns the built-in profiles merged with networks.toml from
// projectRoot, if present, and the source they came from. RPC URLs are
// expanded from the environment.
func LoadNetworks(projectRoot string) ([]domain.NetworkProfile, string, error) {
	var base networksTOML
	if _, err := toml.NewDecoder(bytes.NewReader(defaultNetworksTOML)).Decode(&base); err != nil {
		return nil, "", fmt.Errorf("failed to parse built-in networks: %w", err)
	}
	source := "embedded"

	path := filepath.Join(projectRoot, NetworksFile)
	if _, err := os.Stat(path); err == nil {
		var override networksTOML
		if _, err := toml.DecodeFile(path, &override); err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", NetworksFile, err)
		}
		for key, profile := range override.Networks {
			base.Networks[key] = mergeProfile(base.Networks[key], profile)
		}
		source = path
	}

	profiles := normalizeProfiles(base.Networks)
	for i := range profiles {
		profiles[i].RPCURL = ResolveRPCURL(&profiles[i])
	}
	return profiles, source, nil
}

func normalizeProfiles(networks map[string]profileTOML) []domain.NetworkProfile {
	if networks == nil {
		return nil
	}
	out := make([]domain.NetworkProfile, 0, len(networks))
	for key, raw := range networks {
		profile := domain.NetworkProfile{
			ID:          lo.FromPtr(raw.ID),
			Name:        lo.FromPtrOr(raw.Name, key),
			DisplayName: lo.FromPtr(raw.DisplayName),
			RPCURL:      lo.FromPtr(raw.RPCURL),
			ExplorerURL: lo.FromPtr(raw.ExplorerURL),
			Addresses:   raw.Addresses,
			Scale:       raw.Scale,
		}
		if profile.Name == "" {
			profile.Name = key
		}
		profile.Local = lo.FromPtrOr(raw.Local, lo.Contains(devChainNames, strings.ToLower(profile.Name)))

		defaultConfirmations := uint64(1)
		if profile.Local {
			defaultConfirmations = 0
		}
		profile.Confirmations = lo.FromPtrOr(raw.Confirmations, defaultConfirmations)
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// mergeProfile overlays the fields set in override on base. Address and
// scale entries are merged key by key.
func mergeProfile(base, override profileTOML) profileTOML {
	merged := base
	merged.ID = lo.CoalesceOrEmpty(override.ID, base.ID)
	merged.Name = lo.CoalesceOrEmpty(override.Name, base.Name)
	merged.DisplayName = lo.CoalesceOrEmpty(override.DisplayName, base.DisplayName)
	merged.Local = lo.CoalesceOrEmpty(override.Local, base.Local)
	merged.Confirmations = lo.CoalesceOrEmpty(override.Confirmations, base.Confirmations)
	merged.RPCURL = lo.CoalesceOrEmpty(override.RPCURL, base.RPCURL)
	merged.ExplorerURL = lo.CoalesceOrEmpty(override.ExplorerURL, base.ExplorerURL)
	if len(override.Addresses) > 0 {
		merged.Addresses = lo.Assign(base.Addresses, override.Addresses)
	}
	if len(override.Scale) > 0 {
		merged.Scale = lo.Assign(base.Scale, override.Scale)
	}
	return merged
}

// ResolveRPCURL expands the profile's RPC URL from the environment. When it is
// empty the conventional <NAME>_RPC_URL variable is used.
func ResolveRPCURL(profile *domain.NetworkProfile) string {
	if profile.RPCURL != "" {
		return os.ExpandEnv(profile.RPCURL)
	}
	return os.Getenv(GenerateEnvVarName(profile.Name))
}

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Examples: sepolia -> SEPOLIA_RPC_URL, celo-sepolia -> CELO_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}
