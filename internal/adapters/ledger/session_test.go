package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-provision/internal/domain"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// fakeBackend serves receipts and the head block. Methods it does not
// override panic through the nil embedded interface.
type fakeBackend struct {
	Backend

	mu        sync.Mutex
	receipts  map[common.Hash]*types.Receipt
	misses    int // receipt lookups answered with NotFound before the receipt shows up
	head      uint64
	advance   bool
	headCalls int
	code      map[common.Address][]byte
	closed    bool
}

func (b *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.misses > 0 {
		b.misses--
		return nil, ethereum.NotFound
	}
	receipt, ok := b.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (b *fakeBackend) BlockNumber(context.Context) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.headCalls++
	head := b.head
	if b.advance {
		b.head++
	}
	return head, nil
}

func (b *fakeBackend) CodeAt(_ context.Context, addr common.Address, _ *big.Int) ([]byte, error) {
	return b.code[addr], nil
}

func (b *fakeBackend) Close() {
	b.closed = true
}

func newTestSession(backend *fakeBackend) *Session {
	s := NewSession(backend, big.NewInt(31337), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.pollInterval = time.Millisecond
	return s
}

func minedTx(t *testing.T, backend *fakeBackend, block uint64, status uint64) *types.Transaction {
	t.Helper()
	tx := types.NewTx(&types.LegacyTx{Nonce: block, Gas: 21000, GasPrice: big.NewInt(1)})
	if backend.receipts == nil {
		backend.receipts = make(map[common.Hash]*types.Receipt)
	}
	backend.receipts[tx.Hash()] = &types.Receipt{
		Status:      status,
		TxHash:      tx.Hash(),
		BlockNumber: new(big.Int).SetUint64(block),
	}
	return tx
}

func TestWaitForConfirmations(t *testing.T) {
	tests := []struct {
		name          string
		mined         uint64
		head          uint64
		advance       bool
		confirmations uint64
		wantDepth     uint64
	}{
		{name: "included in head block", mined: 10, head: 10, confirmations: 1, wantDepth: 1},
		{name: "already deep enough", mined: 10, head: 14, confirmations: 3, wantDepth: 5},
		{name: "waits for new blocks", mined: 10, head: 10, advance: true, confirmations: 6, wantDepth: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{head: tt.head, advance: tt.advance}
			tx := minedTx(t, backend, tt.mined, types.ReceiptStatusSuccessful)
			s := newTestSession(backend)
			s.track(tx)

			conf, err := s.WaitForConfirmations(context.Background(), &usecase.Submission{TxHash: tx.Hash().Hex()}, tt.confirmations)
			require.NoError(t, err)
			assert.Equal(t, tt.mined, conf.BlockNumber)
			assert.Equal(t, tt.wantDepth, conf.Depth)
		})
	}
}

func TestWaitForConfirmations_Zero(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestSession(backend)

	conf, err := s.WaitForConfirmations(context.Background(), &usecase.Submission{TxHash: "0x01"}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), conf.Depth)
	assert.Zero(t, backend.headCalls)
}

func TestWaitForConfirmations_Reverted(t *testing.T) {
	backend := &fakeBackend{head: 20}
	tx := minedTx(t, backend, 12, types.ReceiptStatusFailed)
	s := newTestSession(backend)
	s.track(tx)

	_, err := s.WaitForConfirmations(context.Background(), &usecase.Submission{TxHash: tx.Hash().Hex()}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reverted in block 12")
}

func TestWaitForConfirmations_Timeout(t *testing.T) {
	backend := &fakeBackend{head: 10}
	tx := minedTx(t, backend, 10, types.ReceiptStatusSuccessful)
	s := newTestSession(backend)
	s.track(tx)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.WaitForConfirmations(ctx, &usecase.Submission{TxHash: tx.Hash().Hex()}, 3)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestWaitForConfirmations_UntrackedTransaction(t *testing.T) {
	backend := &fakeBackend{head: 11, misses: 2}
	tx := minedTx(t, backend, 11, types.ReceiptStatusSuccessful)
	s := newTestSession(backend)

	conf, err := s.WaitForConfirmations(context.Background(), &usecase.Submission{TxHash: tx.Hash().Hex()}, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), conf.BlockNumber)
	assert.Zero(t, backend.misses)
}

func TestSession_RejectsForeignCredential(t *testing.T) {
	s := newTestSession(&fakeBackend{})

	_, err := s.Deploy(context.Background(), foreignCredential{}, usecase.DeployRequest{Contract: "Token"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported credential")
}

func TestSession_TransferOwnershipValidatesAddresses(t *testing.T) {
	cred, err := NewKeyCredential(devKey)
	require.NoError(t, err)
	s := newTestSession(&fakeBackend{})

	_, err = s.TransferOwnership(context.Background(), cred, "DecentralisedStableCoin", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestSession_Close(t *testing.T) {
	backend := &fakeBackend{}
	newTestSession(backend).Close()
	assert.True(t, backend.closed)
}

type foreignCredential struct{}

func (foreignCredential) Identity() string { return "foreign" }

func TestSession_HasCode(t *testing.T) {
	deployed := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	s := newTestSession(&fakeBackend{code: map[common.Address][]byte{deployed: {0x60, 0x80}}})
	ctx := context.Background()

	ok, err := s.HasCode(ctx, deployed.Hex())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasCode(ctx, "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.HasCode(ctx, "engine")
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}
