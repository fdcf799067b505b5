package config

import "strconv"

// LocalConfig holds per-project defaults stored in .provision/config.json.
// The keys match the viper keys read at startup, so a saved value applies
// whenever the corresponding flag is not given.
type LocalConfig struct {
	Network       string  `json:"network,omitempty"`
	Confirmations *uint64 `json:"confirmations,omitempty"`
	Timeout       string  `json:"timeout,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyNetwork       ConfigKey = "network"
	ConfigKeyConfirmations ConfigKey = "confirmations"
	ConfigKeyTimeout       ConfigKey = "timeout"
)

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyNetwork,
		ConfigKeyConfirmations,
		ConfigKeyTimeout,
	}
}

// IsValidConfigKey checks if a key is valid
func IsValidConfigKey(key string) bool {
	return NormalizeConfigKey(key) != ""
}

// NormalizeConfigKey maps a key or its short form to the canonical key.
// Unknown keys normalize to "".
func NormalizeConfigKey(key string) ConfigKey {
	switch key {
	case "network", "net":
		return ConfigKeyNetwork
	case "confirmations", "confs":
		return ConfigKeyConfirmations
	case "timeout":
		return ConfigKeyTimeout
	}
	return ""
}

// Value returns the string form of key, or "" when unset
func (c *LocalConfig) Value(key ConfigKey) string {
	switch key {
	case ConfigKeyNetwork:
		return c.Network
	case ConfigKeyConfirmations:
		if c.Confirmations == nil {
			return ""
		}
		return strconv.FormatUint(*c.Confirmations, 10)
	case ConfigKeyTimeout:
		return c.Timeout
	}
	return ""
}

