package domain

import (
	"sort"
)

// NetworkProfile holds the static configuration of one target network.
// Profiles are built once by the registry and must not be mutated afterwards.
type NetworkProfile struct {
	ID          uint64            `toml:"chain_id" json:"chainId"`
	Name        string            `toml:"name" json:"name"`
	DisplayName string            `toml:"display_name" json:"displayName,omitempty"`
	Local       bool              `toml:"local" json:"local"`
	Addresses   map[string]string `toml:"addresses" json:"addresses,omitempty"`
	Scale       map[string]int64  `toml:"scale" json:"scale,omitempty"`

	// Confirmations is the default confirmation depth for this network.
	Confirmations uint64 `toml:"confirmations" json:"confirmations"`
	RPCURL        string `toml:"rpc_url" json:"rpcUrl,omitempty"`
	ExplorerURL   string `toml:"explorer_url" json:"explorerUrl,omitempty"`
}

// Label returns the display name, falling back to the short name.
func (p *NetworkProfile) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}

// Address returns the named external dependency address.
func (p *NetworkProfile) Address(name string) (string, bool) {
	addr, ok := p.Addresses[name]
	return addr, ok
}

// ScaleConstant returns the named numeric constant.
func (p *NetworkProfile) ScaleConstant(name string) (int64, bool) {
	v, ok := p.Scale[name]
	return v, ok
}

// AddressNames returns the external address names in sorted order.
func (p *NetworkProfile) AddressNames() []string {
	names := make([]string, 0, len(p.Addresses))
	for name := range p.Addresses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the profile.
func (p *NetworkProfile) Clone() *NetworkProfile {
	c := *p
	c.Addresses = make(map[string]string, len(p.Addresses))
	for k, v := range p.Addresses {
		c.Addresses[k] = v
	}
	c.Scale = make(map[string]int64, len(p.Scale))
	for k, v := range p.Scale {
		c.Scale[k] = v
	}
	return &c
}
