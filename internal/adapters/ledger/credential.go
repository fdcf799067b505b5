package ledger

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// KeyCredential signs transactions with an in-memory private key
type KeyCredential struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewKeyCredential parses a hex private key, with or without 0x prefix
func NewKeyCredential(privateKeyHex string) (*KeyCredential, error) {
	privateKeyHex = strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	if privateKeyHex == "" {
		return nil, fmt.Errorf("private key is empty")
	}

	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &KeyCredential{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Identity returns the deployer address
func (c *KeyCredential) Identity() string {
	return c.address.Hex()
}

// Address returns the deployer address
func (c *KeyCredential) Address() common.Address {
	return c.address
}

var _ domain.Credential = (*KeyCredential)(nil)

// DevPrivateKey is the first account of anvil and hardhat local nodes. It is
// only used for local networks when no key is configured.
const DevPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
