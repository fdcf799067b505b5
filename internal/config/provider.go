package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-provision/internal/domain/config"
)

const (
	// DataDir holds local settings
	DataDir = ".provision"
	// DeploymentsDir holds one directory of deployment records per network
	DeploymentsDir = "deployments"
)

// projectMarkers identify a project root, in order of preference
var projectMarkers = []string{NetworksFile, "foundry.toml", DataDir}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	LoadDotEnv(projectRoot)

	networks, source, err := LoadNetworks(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:     projectRoot,
		DataDir:         filepath.Join(projectRoot, DataDir),
		DeploymentsDir:  resolvePath(projectRoot, v.GetString("deployments_dir")),
		ArtifactsDir:    resolvePath(projectRoot, v.GetString("artifacts_dir")),
		Network:         v.GetString("network"),
		Networks:        networks,
		NetworksSource:  source,
		PrivateKey:      os.Getenv(EnvPrivateKey),
		EtherscanAPIKey: os.Getenv(EnvEtherscanAPIKey),
		Debug:           v.GetBool("debug"),
		NonInteractive:  v.GetBool("non_interactive"),
		Timeout:         v.GetDuration("timeout"),
	}

	if v.IsSet("confirmations") && v.GetInt64("confirmations") >= 0 {
		confirmations := v.GetUint64("confirmations")
		cfg.Confirmations = &confirmations
	}

	return cfg, nil
}

func resolvePath(projectRoot, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectRoot, path)
}

// FindProjectRoot walks up from the current directory to the first directory
// holding networks.toml, foundry.toml or .provision. Without any marker the
// current directory is the project root.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDir))

	// Set up environment variables
	v.SetEnvPrefix("PROVISION")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)
	v.SetDefault("deployments_dir", DeploymentsDir)
	v.SetDefault("artifacts_dir", "out")

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}
