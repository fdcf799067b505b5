package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-provision/internal/domain"
	"github.com/trebuchet-org/treb-provision/internal/domain/config"
)

type memoryConfigStore struct {
	local *config.LocalConfig
	saves int
}

func (s *memoryConfigStore) Exists() bool { return s.local != nil }

func (s *memoryConfigStore) Load(ctx context.Context) (*config.LocalConfig, error) {
	if s.local == nil {
		return &config.LocalConfig{}, nil
	}
	copied := *s.local
	return &copied, nil
}

func (s *memoryConfigStore) Save(ctx context.Context, local *config.LocalConfig) error {
	s.saves++
	copied := *local
	s.local = &copied
	return nil
}

func (s *memoryConfigStore) GetPath() string { return "/project/.provision/config.json" }

func TestSetConfig(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		want    string
		check   func(t *testing.T, local *config.LocalConfig)
		wantErr string
	}{
		{
			name:  "network by chain id stored by name",
			key:   "network",
			value: "11155111",
			want:  "sepolia",
			check: func(t *testing.T, local *config.LocalConfig) { assert.Equal(t, "sepolia", local.Network) },
		},
		{
			name:  "short key",
			key:   "NET",
			value: "localhost",
			want:  "localhost",
		},
		{
			name:  "confirmations",
			key:   "confirmations",
			value: "3",
			want:  "3",
			check: func(t *testing.T, local *config.LocalConfig) {
				require.NotNil(t, local.Confirmations)
				assert.Equal(t, uint64(3), *local.Confirmations)
			},
		},
		{
			name:  "timeout normalized",
			key:   "timeout",
			value: "90s",
			want:  "1m30s",
		},
		{name: "unknown key", key: "namespace", value: "x", wantErr: "unknown config key: namespace"},
		{name: "unknown network", key: "network", value: "mainnet", wantErr: "no network profile configured"},
		{name: "negative confirmations", key: "confirmations", value: "-1", wantErr: "non-negative integer"},
		{name: "bad timeout", key: "timeout", value: "soon", wantErr: "positive duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryConfigStore{}
			result, err := NewSetConfig(store, testRegistry(t)).Run(context.Background(), SetConfigParams{Key: tt.key, Value: tt.value})
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.Zero(t, store.saves)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, 1, store.saves)
			if tt.check != nil {
				tt.check(t, store.local)
			}
		})
	}
}

func TestSetConfig_UnknownNetworkIsConfigurationError(t *testing.T) {
	_, err := NewSetConfig(&memoryConfigStore{}, testRegistry(t)).Run(context.Background(), SetConfigParams{Key: "network", Value: "sepolai"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestRemoveConfig(t *testing.T) {
	confirmations := uint64(2)
	store := &memoryConfigStore{local: &config.LocalConfig{Network: "sepolia", Confirmations: &confirmations}}

	result, err := NewRemoveConfig(store).Run(context.Background(), RemoveConfigParams{Key: "confs"})
	require.NoError(t, err)
	assert.Equal(t, config.ConfigKeyConfirmations, result.Key)
	assert.Equal(t, "2", result.RemovedValue)
	assert.Nil(t, store.local.Confirmations)
	assert.Equal(t, "sepolia", store.local.Network)
}

func TestRemoveConfig_NoFile(t *testing.T) {
	_, err := NewRemoveConfig(&memoryConfigStore{}).Run(context.Background(), RemoveConfigParams{Key: "network"})
	assert.ErrorContains(t, err, "no config file found")
}

func TestShowConfig(t *testing.T) {
	result, err := NewShowConfig(&memoryConfigStore{}).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Exists)
	assert.Equal(t, "/project/.provision/config.json", result.ConfigPath)
}
