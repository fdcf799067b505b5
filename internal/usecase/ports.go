package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-provision/internal/domain"
	"github.com/trebuchet-org/treb-provision/internal/domain/config"
)

// NetworkRegistry resolves network profiles
type NetworkRegistry interface {
	Resolve(id uint64) (*domain.NetworkProfile, error)
	ResolveName(ref string) (*domain.NetworkProfile, error)
	IsLocal(id uint64) bool
	List() []*domain.NetworkProfile
}

// ArtifactStore holds the artifacts deployed during a run, per network
type ArtifactStore interface {
	Put(networkID uint64, name string, record *domain.ArtifactRecord) error
	Get(networkID uint64, name string) (*domain.ArtifactRecord, error)
	Has(networkID uint64, name string) bool
	ForNetwork(networkID uint64) domain.ArtifactView
}

// DeploymentRecords persists artifact records between runs
type DeploymentRecords interface {
	// Get returns domain.ErrNotFound when nothing was recorded for name
	Get(ctx context.Context, network *domain.NetworkProfile, name string) (*domain.ArtifactRecord, error)
	Save(ctx context.Context, network *domain.NetworkProfile, record *domain.ArtifactRecord) error
	List(ctx context.Context, network *domain.NetworkProfile) ([]*domain.ArtifactRecord, error)
	// Remove deletes the record for name; a missing record is not an error
	Remove(ctx context.Context, network *domain.NetworkProfile, name string) error
}

// Ledger Ports

// LedgerConnector opens a ledger session for a network
type LedgerConnector interface {
	Connect(ctx context.Context, network *domain.NetworkProfile) (Ledger, error)
}

// Ledger sends transactions to one network
type Ledger interface {
	// Deploy submits a contract creation transaction. It does not wait for inclusion.
	Deploy(ctx context.Context, credential domain.Credential, req DeployRequest) (*Submission, error)
	// TransferOwnership submits transferOwnership(newOwner) on contract.
	TransferOwnership(ctx context.Context, credential domain.Credential, contract, newOwner string) (*Submission, error)
	// WaitForConfirmations blocks until the transaction is buried under the given
	// number of blocks. A reverted transaction is an error; so is ctx expiring.
	WaitForConfirmations(ctx context.Context, sub *Submission, confirmations uint64) (*Confirmation, error)
	// HasCode reports whether contract code exists at address
	HasCode(ctx context.Context, address string) (bool, error)
	Close()
}

// DeployRequest describes one contract creation
type DeployRequest struct {
	Step     string
	Contract string
	Args     []any
}

// Submission is a transaction accepted by the network
type Submission struct {
	TxHash string
	// Address of the contract created by the transaction, empty for calls
	Address     string
	EncodedArgs string
	ABIRef      string
}

// Confirmation is the observed inclusion of a submission
type Confirmation struct {
	BlockNumber uint64
	Depth       uint64
}

// VerifierGateway registers deployed sources with an explorer.
// Errors are downgraded to warnings by callers.
type VerifierGateway interface {
	Verify(ctx context.Context, req VerifyRequest) error
}

// VerifyRequest carries what the explorer needs to match a deployment
type VerifyRequest struct {
	Network         *domain.NetworkProfile
	Name            string
	ContractName    string
	// SourceRef is the compiled source reference, "src/Token.sol:Token"
	SourceRef       string
	Address         string
	ConstructorArgs []any
	EncodedArgs     string
}

// Confirmer asks the operator before broadcasting
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// LocalConfigStore persists project defaults
type LocalConfigStore interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, local *config.LocalConfig) error
	GetPath() string
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Progress stages emitted by DeployPlan and PruneRecords
const (
	StagePlanCreated    = "plan_created"
	StageStepStarting   = "step_starting"
	StageStepState      = "step_state"
	StageStepCompleted  = "step_completed"
	StageDeployComplete = "deploy_completed"
	StagePruneComplete  = "prune_completed"
)
