package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devKey = DevPrivateKey

func TestNewKeyCredential(t *testing.T) {
	for _, key := range []string{devKey, devKey[2:], "  " + devKey + "\n"} {
		cred, err := NewKeyCredential(key)
		require.NoError(t, err)
		assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", cred.Identity())
		assert.Equal(t, cred.Identity(), cred.Address().Hex())
	}
}

func TestNewKeyCredential_Invalid(t *testing.T) {
	_, err := NewKeyCredential("")
	assert.EqualError(t, err, "private key is empty")

	_, err = NewKeyCredential("0xzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid private key")
}
