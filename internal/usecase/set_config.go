package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-provision/internal/domain/config"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	Value         string
}

// SetConfig is a use case for setting configuration values
type SetConfig struct {
	store    LocalConfigStore
	registry NetworkRegistry
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(store LocalConfigStore, registry NetworkRegistry) *SetConfig {
	return &SetConfig{
		store:    store,
		registry: registry,
	}
}

// Run validates and saves one value. Networks are stored by profile name.
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	value := strings.TrimSpace(params.Value)
	switch key {
	case config.ConfigKeyNetwork:
		profile, err := uc.registry.ResolveName(value)
		if err != nil {
			return nil, err
		}
		value = profile.Name
		local.Network = value
	case config.ConfigKeyConfirmations:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("confirmations must be a non-negative integer, got %q", params.Value)
		}
		local.Confirmations = &n
	case config.ConfigKeyTimeout:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("timeout must be a positive duration such as 5m, got %q", params.Value)
		}
		value = d.String()
		local.Timeout = value
	}

	if err := uc.store.Save(ctx, local); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &SetConfigResult{
		UpdatedConfig: local,
		ConfigPath:    uc.store.GetPath(),
		Key:           key,
		Value:         value,
	}, nil
}

func parseConfigKey(raw string) (config.ConfigKey, error) {
	key := config.NormalizeConfigKey(strings.ToLower(raw))
	if key == "" {
		valid := lo.Map(config.ValidConfigKeys(), func(k config.ConfigKey, _ int) string { return string(k) })
		return "", fmt.Errorf("unknown config key: %s\nAvailable keys: %s", raw, strings.Join(valid, ", "))
	}
	return key, nil
}
