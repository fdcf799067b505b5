package plans

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// DefaultPlan is deployed when no plan is named
const DefaultPlan = "dsc"

var builtin = map[string]func() *domain.DeploymentPlan{
	"dsc": DSC,
}

// Names lists the built-in plans
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load returns the plan named ref. References ending in .yaml or .yml are
// read from disk; anything else names a built-in plan.
func Load(ref string) (*domain.DeploymentPlan, error) {
	if ref == "" {
		ref = DefaultPlan
	}
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".yaml", ".yml":
		return LoadFile(ref)
	}
	build, ok := builtin[ref]
	if !ok {
		return nil, fmt.Errorf("unknown plan %q (built-in plans: %s)", ref, strings.Join(Names(), ", "))
	}
	return build(), nil
}
