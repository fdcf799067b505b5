package networks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-provision/internal/domain"
)

func fixtureProfiles() []domain.NetworkProfile {
	return []domain.NetworkProfile{
		{
			ID:            11155111,
			Name:          "sepolia",
			Confirmations: 6,
			Addresses: map[string]string{
				"ethUsdPriceFeed": "0x694AA1769357215DE4FAC081bf1f309aDC325306",
				"wethToken":       "0x7b79995e5f793a07bc00c21412e50ecae098e7f9",
			},
		},
		{
			ID:            31337,
			Name:          "localhost",
			Local:         true,
			Confirmations: 1,
			Scale:         map[string]int64{"decimals": 8},
		},
	}
}

func TestRegistry_Resolve(t *testing.T) {
	reg, err := NewRegistry(fixtureProfiles()...)
	require.NoError(t, err)

	p, err := reg.Resolve(11155111)
	require.NoError(t, err)
	assert.Equal(t, "sepolia", p.Name)
	// addresses are normalised to checksum form
	addr, ok := p.Address("wethToken")
	require.True(t, ok)
	assert.Equal(t, "0x7b79995e5f793A07Bc00c21412e50Ecae098E7f9", addr)

	_, err = reg.Resolve(1)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestRegistry_ResolveName(t *testing.T) {
	reg, err := NewRegistry(fixtureProfiles()...)
	require.NoError(t, err)

	t.Run("by name", func(t *testing.T) {
		p, err := reg.ResolveName("Sepolia")
		require.NoError(t, err)
		assert.Equal(t, uint64(11155111), p.ID)
	})

	t.Run("by chain id", func(t *testing.T) {
		p, err := reg.ResolveName("31337")
		require.NoError(t, err)
		assert.Equal(t, "localhost", p.Name)
	})

	t.Run("unknown name suggests close matches", func(t *testing.T) {
		_, err := reg.ResolveName("sep")
		var cfgErr *domain.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, []string{"sepolia"}, cfgErr.Suggestions)
	})
}

func TestRegistry_LocalClassification(t *testing.T) {
	reg, err := NewRegistry(fixtureProfiles()...)
	require.NoError(t, err)

	assert.True(t, reg.IsLocal(31337))
	assert.False(t, reg.IsLocal(11155111))
	assert.False(t, reg.IsLocal(999))
	assert.Equal(t, []uint64{31337}, reg.LocalNetworks())
	assert.Equal(t, []string{"localhost", "sepolia"}, reg.Names())
}

func TestRegistry_IsImmutable(t *testing.T) {
	profiles := fixtureProfiles()
	reg, err := NewRegistry(profiles...)
	require.NoError(t, err)

	profiles[0].Addresses["wethToken"] = "0x0000000000000000000000000000000000000001"

	p, err := reg.Resolve(11155111)
	require.NoError(t, err)
	assert.Equal(t, "0x7b79995e5f793A07Bc00c21412e50Ecae098E7f9", p.Addresses["wethToken"])

	p.Addresses["wethToken"] = "0x0000000000000000000000000000000000000bad"
	p.Local = true
	listed := reg.List()
	listed[1].Addresses["wethToken"] = "0x0000000000000000000000000000000000000bad"
	byName, err := reg.ResolveName("sepolia")
	require.NoError(t, err)
	byName.Local = true

	again, err := reg.Resolve(11155111)
	require.NoError(t, err)
	assert.Equal(t, "0x7b79995e5f793A07Bc00c21412e50Ecae098E7f9", again.Addresses["wethToken"])
	assert.False(t, again.Local)
	assert.False(t, reg.IsLocal(11155111))
}

func TestNewRegistry_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		profiles []domain.NetworkProfile
	}{
		{
			name:     "duplicate id",
			profiles: []domain.NetworkProfile{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}},
		},
		{
			name:     "duplicate name",
			profiles: []domain.NetworkProfile{{ID: 1, Name: "a"}, {ID: 2, Name: "A"}},
		},
		{
			name:     "missing id",
			profiles: []domain.NetworkProfile{{Name: "a"}},
		},
		{
			name: "bad address",
			profiles: []domain.NetworkProfile{{
				ID: 1, Name: "a", Addresses: map[string]string{"weth": "not-an-address"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.profiles...)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}
