package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables read from the process or the project's .env files
const (
	EnvPrivateKey      = "PRIVATE_KEY"
	EnvEtherscanAPIKey = "ETHERSCAN_API_KEY"
)

// LoadDotEnv loads .env and .env.local from projectRoot. Variables already set
// in the process environment win.
func LoadDotEnv(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}
