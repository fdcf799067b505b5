// Package networks holds the immutable registry of target network profiles.
package networks

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// maxSuggestions bounds the "did you mean" list of unknown network errors
const maxSuggestions = 3

// Registry maps network ids to profiles. It is built once at start-up and
// shared by reference; nothing mutates it afterwards.
type Registry struct {
	byID   map[uint64]*domain.NetworkProfile
	byName map[string]uint64
	ids    []uint64
}

// NewRegistry validates and indexes profiles. Profiles are deep-copied.
func NewRegistry(profiles ...domain.NetworkProfile) (*Registry, error) {
	r := &Registry{
		byID:   make(map[uint64]*domain.NetworkProfile, len(profiles)),
		byName: make(map[string]uint64, len(profiles)),
	}

	for i := range profiles {
		p := profiles[i].Clone()
		if err := validateProfile(p); err != nil {
			return nil, err
		}
		if _, dup := r.byID[p.ID]; dup {
			return nil, &domain.ConfigurationError{NetworkID: p.ID, Reason: "duplicate network profile"}
		}
		name := strings.ToLower(p.Name)
		if other, dup := r.byName[name]; dup {
			return nil, &domain.ConfigurationError{
				NetworkID: p.ID,
				Reason:    fmt.Sprintf("name %q already used by network %d", p.Name, other),
			}
		}

		r.byID[p.ID] = p
		r.byName[name] = p.ID
		r.ids = append(r.ids, p.ID)
	}

	sort.Slice(r.ids, func(i, j int) bool { return r.ids[i] < r.ids[j] })
	return r, nil
}

func validateProfile(p *domain.NetworkProfile) error {
	if p.ID == 0 {
		return &domain.ConfigurationError{Network: p.Name, Reason: "chain id is required"}
	}
	if p.Name == "" {
		return &domain.ConfigurationError{NetworkID: p.ID, Reason: "name is required"}
	}
	for _, key := range p.AddressNames() {
		addr := p.Addresses[key]
		if !common.IsHexAddress(addr) {
			return &domain.ConfigurationError{
				NetworkID: p.ID,
				Network:   p.Name,
				Reason:    fmt.Sprintf("external address %s=%q: %v", key, addr, domain.ErrInvalidAddress),
			}
		}
		p.Addresses[key] = common.HexToAddress(addr).Hex()
	}
	return nil
}

// Resolve returns a copy of the profile for id.
func (r *Registry) Resolve(id uint64) (*domain.NetworkProfile, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, &domain.ConfigurationError{NetworkID: id, Reason: "no network profile configured"}
	}
	return p.Clone(), nil
}

// ResolveName resolves a network name or a decimal chain id.
func (r *Registry) ResolveName(ref string) (*domain.NetworkProfile, error) {
	if id, ok := r.byName[strings.ToLower(ref)]; ok {
		return r.Resolve(id)
	}
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return r.Resolve(id)
	}
	return nil, &domain.ConfigurationError{
		Network:     ref,
		Reason:      "no network profile configured",
		Suggestions: r.suggest(ref),
	}
}

func (r *Registry) suggest(ref string) []string {
	names := r.Names()
	matches := fuzzy.Find(strings.ToLower(ref), names)
	var out []string
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// IsLocal reports whether id is a development network. Unknown ids are not local.
func (r *Registry) IsLocal(id uint64) bool {
	p, ok := r.byID[id]
	return ok && p.Local
}

// LocalNetworks enumerates the development network ids.
func (r *Registry) LocalNetworks() []uint64 {
	var out []uint64
	for _, id := range r.ids {
		if r.byID[id].Local {
			out = append(out, id)
		}
	}
	return out
}

// List returns copies of all profiles ordered by chain id.
func (r *Registry) List() []*domain.NetworkProfile {
	out := make([]*domain.NetworkProfile, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.byID[id].Clone())
	}
	return out
}

// Names returns the lower-cased network names ordered by chain id.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, strings.ToLower(r.byID[id].Name))
	}
	return out
}
