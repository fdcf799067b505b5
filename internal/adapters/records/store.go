package records

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/trebuchet-org/treb-provision/internal/domain"
	"github.com/trebuchet-org/treb-provision/internal/domain/config"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// ChainIDFile marks the chain a network directory belongs to
const ChainIDFile = ".chainId"

// Store keeps one JSON file per deployed artifact:
//
//	deployments/<network>/<Name>.json
//	deployments/<network>/.chainId
type Store struct {
	root string
	mu   sync.RWMutex
}

// NewStore creates a store rooted at the configured deployments directory
func NewStore(cfg *config.RuntimeConfig) *Store {
	root := cfg.DeploymentsDir
	if !filepath.IsAbs(root) {
		root = filepath.Join(cfg.ProjectRoot, root)
	}
	return &Store{root: root}
}

// Get loads the record saved for name
func (s *Store) Get(ctx context.Context, network *domain.NetworkProfile, name string) (*domain.ArtifactRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.recordPath(network, name)
	if err != nil {
		return nil, err
	}
	record, err := readRecord(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if record.NetworkID != 0 && record.NetworkID != network.ID {
		return nil, fmt.Errorf("record %s belongs to chain %d, not %d", name, record.NetworkID, network.ID)
	}
	return record, nil
}

// Save writes the record, replacing any earlier one for the same name
func (s *Store) Save(ctx context.Context, network *domain.NetworkProfile, record *domain.ArtifactRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.recordPath(network, record.Name)
	if err != nil {
		return fmt.Errorf("cannot save record: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create deployments directory: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, ChainIDFile), []byte(strconv.FormatUint(network.ID, 10))); err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return writeAtomic(path, data)
}

// List returns every record of the network sorted by name
func (s *Store) List(ctx context.Context, network *domain.NetworkProfile) ([]*domain.ArtifactRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir, err := s.networkDir(network)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read deployments directory: %w", err)
	}

	var result []*domain.ArtifactRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		record, err := readRecord(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Remove deletes the record for name
func (s *Store) Remove(ctx context.Context, network *domain.NetworkProfile, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.recordPath(network, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove record %s: %w", name, err)
	}
	return nil
}

func (s *Store) recordPath(network *domain.NetworkProfile, name string) (string, error) {
	if err := domain.ValidateArtifactName(name); err != nil {
		return "", err
	}
	dir, err := s.networkDir(network)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".json"), nil
}

func (s *Store) networkDir(network *domain.NetworkProfile) (string, error) {
	if network == nil || network.Name == "" {
		return "", fmt.Errorf("network has no name")
	}
	return filepath.Join(s.root, network.Name), nil
}

func readRecord(path string) (*domain.ArtifactRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record domain.ArtifactRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if record.Name == "" {
		record.Name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return &record, nil
}

func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return os.Rename(tmpPath, path)
}

var _ usecase.DeploymentRecords = (*Store)(nil)
