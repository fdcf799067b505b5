// Package artifacts keeps the contracts deployed during a run, partitioned by
// network so an address from one chain can never be read on another.
package artifacts

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// Store is an in-memory index of artifact records keyed by (network, name).
// Within one run only the orchestrator writes to a given partition; the lock
// covers concurrent runs against different networks.
type Store struct {
	mu         sync.RWMutex
	partitions map[uint64]map[string]*domain.ArtifactRecord
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		partitions: make(map[uint64]map[string]*domain.ArtifactRecord),
	}
}

// Put records an artifact under name on networkID. An existing record with the
// same name is replaced by the new one.
func (s *Store) Put(networkID uint64, name string, record *domain.ArtifactRecord) error {
	if name == "" {
		return fmt.Errorf("artifact name is required")
	}
	if record == nil {
		return fmt.Errorf("artifact %s: nil record", name)
	}
	if !common.IsHexAddress(record.Address) {
		return fmt.Errorf("artifact %s: %w %q", name, domain.ErrInvalidAddress, record.Address)
	}

	stored := record.Clone()
	stored.Name = name
	stored.NetworkID = networkID
	stored.Address = common.HexToAddress(record.Address).Hex()

	s.mu.Lock()
	defer s.mu.Unlock()

	partition, ok := s.partitions[networkID]
	if !ok {
		partition = make(map[string]*domain.ArtifactRecord)
		s.partitions[networkID] = partition
	}
	partition[name] = stored
	return nil
}

// Get returns a copy of the named record or a DependencyUnresolvedError.
func (s *Store) Get(networkID uint64, name string) (*domain.ArtifactRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.partitions[networkID][name]
	if !ok {
		return nil, &domain.DependencyUnresolvedError{Dependency: name, NetworkID: networkID}
	}
	return record.Clone(), nil
}

// Has reports whether name is deployed on networkID.
func (s *Store) Has(networkID uint64, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.partitions[networkID][name]
	return ok
}

// Names lists the artifacts recorded on networkID in sorted order.
func (s *Store) Names(networkID uint64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.partitions[networkID]))
	for name := range s.partitions[networkID] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForNetwork returns a read-only view bound to networkID.
func (s *Store) ForNetwork(networkID uint64) domain.ArtifactView {
	return &view{store: s, networkID: networkID}
}

type view struct {
	store     *Store
	networkID uint64
}

func (v *view) NetworkID() uint64 { return v.networkID }

func (v *view) Get(name string) (*domain.ArtifactRecord, error) {
	return v.store.Get(v.networkID, name)
}

func (v *view) Has(name string) bool {
	return v.store.Has(v.networkID, name)
}

var _ domain.ArtifactView = (*view)(nil)
