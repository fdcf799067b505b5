package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/trebuchet-org/treb-provision/internal/domain"
)

type fakeCredential string

func (c fakeCredential) Identity() string { return string(c) }

// fakeLedger records every call; addresses are handed out sequentially
type fakeLedger struct {
	mu         sync.Mutex
	deployed   []DeployRequest
	transfers  [][2]string
	waits      int
	counter    int
	deployErrs map[string]error
	waitFn     func(ctx context.Context, sub *Submission, confirmations uint64) (*Confirmation, error)
	noCode     map[string]bool
	closed     bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{deployErrs: make(map[string]error)}
}

func (l *fakeLedger) Deploy(ctx context.Context, credential domain.Credential, req DeployRequest) (*Submission, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.deployed = append(l.deployed, req)
	if err := l.deployErrs[req.Step]; err != nil {
		return nil, err
	}
	l.counter++
	return &Submission{
		TxHash:      fmt.Sprintf("0x%064d", l.counter),
		Address:     fmt.Sprintf("0x%040d", l.counter),
		EncodedArgs: "0x",
		ABIRef:      req.Contract,
	}, nil
}

func (l *fakeLedger) TransferOwnership(ctx context.Context, credential domain.Credential, contract, newOwner string) (*Submission, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.transfers = append(l.transfers, [2]string{contract, newOwner})
	l.counter++
	return &Submission{TxHash: fmt.Sprintf("0x%064d", l.counter)}, nil
}

func (l *fakeLedger) WaitForConfirmations(ctx context.Context, sub *Submission, confirmations uint64) (*Confirmation, error) {
	l.mu.Lock()
	l.waits++
	waitFn := l.waitFn
	l.mu.Unlock()

	if waitFn != nil {
		return waitFn(ctx, sub, confirmations)
	}
	return &Confirmation{BlockNumber: 100, Depth: confirmations}, nil
}

func (l *fakeLedger) HasCode(ctx context.Context, address string) (bool, error) {
	return !l.noCode[address], nil
}

func (l *fakeLedger) Close() { l.closed = true }

func (l *fakeLedger) deployedSteps() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.deployed))
	for _, req := range l.deployed {
		out = append(out, req.Step)
	}
	return out
}

type fakeConnector struct {
	ledger   *fakeLedger
	connects int
	err      error
}

func (c *fakeConnector) Connect(ctx context.Context, network *domain.NetworkProfile) (Ledger, error) {
	c.connects++
	if c.err != nil {
		return nil, c.err
	}
	return c.ledger, nil
}

type verifyCall struct {
	Network string
	Name    string
	Address string
}

type fakeVerifier struct {
	calls []verifyCall
	err   error
}

func (v *fakeVerifier) Verify(ctx context.Context, req VerifyRequest) error {
	v.calls = append(v.calls, verifyCall{Network: req.Network.Name, Name: req.Name, Address: req.Address})
	return v.err
}

// fakeRecords is an in-memory DeploymentRecords keyed by chain id
type fakeRecords struct {
	byNetwork map[uint64]map[string]*domain.ArtifactRecord
	saveErr   error
	saved     []string
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{byNetwork: make(map[uint64]map[string]*domain.ArtifactRecord)}
}

func (r *fakeRecords) add(networkID uint64, rec *domain.ArtifactRecord) {
	if r.byNetwork[networkID] == nil {
		r.byNetwork[networkID] = make(map[string]*domain.ArtifactRecord)
	}
	rec.NetworkID = networkID
	r.byNetwork[networkID][rec.Name] = rec
}

func (r *fakeRecords) Get(ctx context.Context, network *domain.NetworkProfile, name string) (*domain.ArtifactRecord, error) {
	rec, ok := r.byNetwork[network.ID][name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec.Clone(), nil
}

func (r *fakeRecords) Save(ctx context.Context, network *domain.NetworkProfile, record *domain.ArtifactRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, record.Name)
	r.add(network.ID, record.Clone())
	return nil
}

func (r *fakeRecords) List(ctx context.Context, network *domain.NetworkProfile) ([]*domain.ArtifactRecord, error) {
	var out []*domain.ArtifactRecord
	for _, rec := range r.byNetwork[network.ID] {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeRecords) Remove(ctx context.Context, network *domain.NetworkProfile, name string) error {
	delete(r.byNetwork[network.ID], name)
	return nil
}

// recordingProgress collects stages in order
type recordingProgress struct {
	NopProgress
	stages []string
}

func (p *recordingProgress) OnProgress(ctx context.Context, event ProgressEvent) {
	p.stages = append(p.stages, event.Stage)
}
