package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/treb-provision/internal/adapters/contracts"
	"github.com/trebuchet-org/treb-provision/internal/domain"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// DefaultPollInterval is how often the head block is polled while waiting
// for confirmation depth
const DefaultPollInterval = 2 * time.Second

// Backend is the part of an RPC client a session needs. *ethclient.Client
// satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BlockNumber(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

// ContractSource provides compiled contracts by name
type ContractSource interface {
	Load(name string) (*contracts.CompiledContract, error)
}

// Session is a connection to one network
type Session struct {
	backend      Backend
	chainID      *big.Int
	contracts    ContractSource
	log          *slog.Logger
	pollInterval time.Duration

	mu      sync.Mutex
	pending map[common.Hash]*types.Transaction
}

// NewSession wraps a connected backend
func NewSession(backend Backend, chainID *big.Int, source ContractSource, log *slog.Logger) *Session {
	return &Session{
		backend:      backend,
		chainID:      chainID,
		contracts:    source,
		log:          log,
		pollInterval: DefaultPollInterval,
		pending:      make(map[common.Hash]*types.Transaction),
	}
}

// Deploy sends the contract creation transaction. It does not wait for it.
func (s *Session) Deploy(ctx context.Context, credential domain.Credential, req usecase.DeployRequest) (*usecase.Submission, error) {
	key, err := keyOf(credential)
	if err != nil {
		return nil, err
	}

	contract, err := s.contracts.Load(req.Contract)
	if err != nil {
		return nil, err
	}

	inputs := contract.ABI.Constructor.Inputs
	args, err := CoerceArgs(inputs, req.Args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.Contract, err)
	}
	encoded, err := inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode constructor arguments: %w", req.Contract, err)
	}

	opts, err := s.transactor(ctx, key)
	if err != nil {
		return nil, err
	}

	address, tx, _, err := bind.DeployContract(opts, contract.ABI, contract.Bytecode, s.backend, args...)
	if err != nil {
		return nil, err
	}
	s.track(tx)
	s.log.Debug("contract creation sent", "contract", req.Contract, "tx", tx.Hash().Hex(), "nonce", tx.Nonce())

	return &usecase.Submission{
		TxHash:      tx.Hash().Hex(),
		Address:     address.Hex(),
		EncodedArgs: hexutil.Encode(encoded),
		ABIRef:      contract.Reference(),
	}, nil
}

// TransferOwnership calls transferOwnership(newOwner) on an Ownable contract
func (s *Session) TransferOwnership(ctx context.Context, credential domain.Credential, contract, newOwner string) (*usecase.Submission, error) {
	key, err := keyOf(credential)
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(contract) || !common.IsHexAddress(newOwner) {
		return nil, fmt.Errorf("transferOwnership(%s, %s): %w", contract, newOwner, domain.ErrInvalidAddress)
	}

	opts, err := s.transactor(ctx, key)
	if err != nil {
		return nil, err
	}

	bound := bind.NewBoundContract(common.HexToAddress(contract), ownableABI, s.backend, s.backend, s.backend)
	tx, err := bound.Transact(opts, "transferOwnership", common.HexToAddress(newOwner))
	if err != nil {
		return nil, err
	}
	s.track(tx)

	return &usecase.Submission{TxHash: tx.Hash().Hex(), Address: common.HexToAddress(contract).Hex()}, nil
}

// WaitForConfirmations waits until the transaction is mined successfully and
// buried under confirmations blocks. Zero confirmations returns at once.
func (s *Session) WaitForConfirmations(ctx context.Context, sub *usecase.Submission, confirmations uint64) (*usecase.Confirmation, error) {
	if confirmations == 0 {
		return &usecase.Confirmation{}, nil
	}

	receipt, err := s.waitMined(ctx, common.HexToHash(sub.TxHash))
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction %s reverted in block %d", sub.TxHash, receipt.BlockNumber.Uint64())
	}

	mined := receipt.BlockNumber.Uint64()
	for {
		head, err := s.backend.BlockNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read head block: %w", err)
		}
		depth := uint64(0)
		if head >= mined {
			depth = head - mined + 1
		}
		if depth >= confirmations {
			return &usecase.Confirmation{BlockNumber: mined, Depth: depth}, nil
		}

		s.log.Debug("waiting for confirmations", "tx", sub.TxHash, "depth", depth, "want", confirmations)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

// HasCode reports whether contract code exists at address on the latest block
func (s *Session) HasCode(ctx context.Context, address string) (bool, error) {
	if !common.IsHexAddress(address) {
		return false, fmt.Errorf("%s: %w", address, domain.ErrInvalidAddress)
	}
	code, err := s.backend.CodeAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return false, fmt.Errorf("failed to read code at %s: %w", address, err)
	}
	return len(code) > 0, nil
}

// Close releases the RPC connection
func (s *Session) Close() {
	s.backend.Close()
}

func (s *Session) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	s.mu.Lock()
	tx, ok := s.pending[hash]
	s.mu.Unlock()

	if ok {
		receipt, err := bind.WaitMined(ctx, s.backend, tx)
		if err == nil {
			s.mu.Lock()
			delete(s.pending, hash)
			s.mu.Unlock()
		}
		return receipt, err
	}

	// not sent by this session: poll the receipt directly
	for {
		receipt, err := s.backend.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

func (s *Session) transactor(ctx context.Context, key *KeyCredential) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(key.key, s.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

func (s *Session) track(tx *types.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[tx.Hash()] = tx
}

func keyOf(credential domain.Credential) (*KeyCredential, error) {
	key, ok := credential.(*KeyCredential)
	if !ok {
		return nil, fmt.Errorf("unsupported credential %T", credential)
	}
	return key, nil
}

var _ usecase.Ledger = (*Session)(nil)
