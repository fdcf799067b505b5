package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// CompiledContract is a deployable contract from the forge output directory
type CompiledContract struct {
	Name         string
	SourcePath   string
	ArtifactPath string
	ABI          abi.ABI
	Bytecode     []byte
}

// Reference returns the "path:Name" identifier used by forge
func (c *CompiledContract) Reference() string {
	if c.SourcePath == "" {
		return c.Name
	}
	return fmt.Sprintf("%s:%s", c.SourcePath, c.Name)
}

// foundryArtifact is the subset of a forge artifact file we read
type foundryArtifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode struct {
		Object string `json:"object"`
	} `json:"bytecode"`
	Metadata struct {
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	} `json:"metadata"`
}

// Repository loads compiled contracts from a forge out/ directory
type Repository struct {
	outDir string

	mu    sync.Mutex
	cache map[string]*CompiledContract
}

// NewRepository creates a repository over outDir
func NewRepository(outDir string) *Repository {
	return &Repository{
		outDir: outDir,
		cache:  make(map[string]*CompiledContract),
	}
}

// Load returns the compiled contract called name. It looks at
// out/<name>.sol/<name>.json first and then searches the output directory.
func (r *Repository) Load(name string) (*CompiledContract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.cache[name]; ok {
		return c, nil
	}

	path := filepath.Join(r.outDir, name+".sol", name+".json")
	if _, err := os.Stat(path); err != nil {
		path, err = r.search(name)
		if err != nil {
			return nil, err
		}
	}

	c, err := parseArtifact(path, name)
	if err != nil {
		return nil, err
	}
	r.cache[name] = c
	return c, nil
}

func (r *Repository) search(name string) (string, error) {
	var matches []string
	err := filepath.WalkDir(r.outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == "build-info" {
			return filepath.SkipDir
		}
		if !d.IsDir() && d.Name() == name+".json" {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("contract %s: output directory %s not found (run forge build): %w", name, r.outDir, domain.ErrNotFound)
		}
		return "", fmt.Errorf("failed to search %s: %w", r.outDir, err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("contract %s: no compiled artifact in %s: %w", name, r.outDir, domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("contract %s is ambiguous: %s", name, strings.Join(matches, ", "))
	}
}

func parseArtifact(path, name string) (*CompiledContract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var artifact foundryArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	if artifact.Bytecode.Object == "" || artifact.Bytecode.Object == "0x" {
		return nil, fmt.Errorf("contract %s has no bytecode (abstract or interface?)", name)
	}
	if !strings.HasPrefix(artifact.Bytecode.Object, "0x") {
		artifact.Bytecode.Object = "0x" + artifact.Bytecode.Object
	}
	bytecode, err := hexutil.Decode(artifact.Bytecode.Object)
	if err != nil {
		return nil, fmt.Errorf("contract %s: invalid bytecode (unlinked libraries?): %w", name, err)
	}

	contractABI, err := abi.JSON(strings.NewReader(string(artifact.ABI)))
	if err != nil {
		return nil, fmt.Errorf("contract %s: invalid ABI: %w", name, err)
	}

	c := &CompiledContract{
		Name:         name,
		ArtifactPath: path,
		ABI:          contractABI,
		Bytecode:     bytecode,
	}
	for source, contract := range artifact.Metadata.Settings.CompilationTarget {
		if contract == name {
			c.SourcePath = source
		}
	}
	return c, nil
}
