package config

import (
	"time"

	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot    string
	DataDir        string // .provision
	DeploymentsDir string // deployment records, one directory per network
	ArtifactsDir   string // compiled contracts (forge out/)

	// Context settings
	Network  string // name or chain id from --network; empty until a command needs it
	Networks []domain.NetworkProfile

	// Credentials, normally from .env
	PrivateKey      string //nolint:gosec // resolved from the environment, never written back
	EtherscanAPIKey string

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration
	// Confirmations overrides the network default when set
	Confirmations *uint64

	// Source of the network profiles ("embedded" or the networks.toml path)
	NetworksSource string
}

// VerificationEnabled reports whether explorer credentials are configured
func (c *RuntimeConfig) VerificationEnabled() bool {
	return c.EtherscanAPIKey != ""
}
