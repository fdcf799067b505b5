package domain

import (
	"fmt"
	"strings"
	"time"
)

// ArtifactRecord is a deployed contract instance on one network.
// Records are never patched in place: re-deploying produces a new record.
type ArtifactRecord struct {
	Name      string `json:"name"`
	Contract  string `json:"contract"`
	NetworkID uint64 `json:"chainId"`
	Address   string `json:"address"`

	// ConstructorArgs are the resolved arguments in declaration order.
	ConstructorArgs []any `json:"args"`
	// EncodedArgs is the ABI-encoded constructor argument blob, 0x prefixed.
	EncodedArgs string `json:"encodedArgs,omitempty"`

	TxHash              string    `json:"transactionHash,omitempty"`
	BlockNumber         uint64    `json:"blockNumber,omitempty"`
	ConfirmedBlockDepth uint64    `json:"confirmations"`
	ABIRef              string    `json:"abiRef,omitempty"`

	// RunID identifies the run that deployed the artifact
	RunID      string    `json:"runId,omitempty"`
	DeployedAt time.Time `json:"deployedAt"`
}

// Clone returns a copy that shares no slices with r.
func (r *ArtifactRecord) Clone() *ArtifactRecord {
	c := *r
	if r.ConstructorArgs != nil {
		c.ConstructorArgs = append([]any(nil), r.ConstructorArgs...)
	}
	return &c
}

// ArtifactView is a read-only view of the artifacts deployed on one network.
type ArtifactView interface {
	NetworkID() uint64
	Get(name string) (*ArtifactRecord, error)
	Has(name string) bool
}

// Credential is the opaque identity used to send deployment transactions.
// It is resolved once per run and never mutated.
type Credential interface {
	// Identity returns a printable, non-secret identifier (usually the sender address).
	Identity() string
}

// ValidateArtifactName checks that name can key a record file: it must be
// non-empty and must not contain path separators or "..".
func ValidateArtifactName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("artifact name is empty")
	case strings.ContainsAny(name, `/\`), strings.Contains(name, ".."):
		return fmt.Errorf("artifact name %q must not contain path separators or \"..\"", name)
	}
	return nil
}
