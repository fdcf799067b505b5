package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-provision/internal/domain/config"
)

func TestLocalConfigStore(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: filepath.Join(dir, ".provision")})
	ctx := context.Background()

	assert.False(t, store.Exists())
	local, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, &config.LocalConfig{}, local)

	confirmations := uint64(3)
	require.NoError(t, store.Save(ctx, &config.LocalConfig{Network: "sepolia", Confirmations: &confirmations}))
	assert.True(t, store.Exists())

	data, err := os.ReadFile(filepath.Join(dir, ".provision", "config.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"network":"sepolia","confirmations":3}`, string(data))

	local, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sepolia", local.Network)
	assert.Equal(t, "3", local.Value(config.ConfigKeyConfirmations))
	assert.Empty(t, local.Timeout)
}

func TestLocalConfigStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{"), 0644))

	store := NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: dir})
	_, err := store.Load(context.Background())
	assert.ErrorContains(t, err, "failed to parse")
}
