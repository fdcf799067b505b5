package plans

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-provision/internal/domain"
	"gopkg.in/yaml.v3"
)

// PlanFile is the YAML form of a deployment plan:
//
//	group: dsc
//	components:
//	  DecentralisedStableCoin:
//	    tags: [all, dscToken]
//	    post: [verify]
//	  DSCEngine:
//	    deps: [DecentralisedStableCoin]
//	    args:
//	      - ["${profile.wethToken}"]
//	      - ["${profile.ethUsdPriceFeed}"]
//	      - ${artifact.DecentralisedStableCoin}
//	    post:
//	      - transfer_ownership: {contract: DecentralisedStableCoin, new_owner: DSCEngine}
//	      - verify
//
// Components are deployed in dependency order; components that are ready at
// the same time keep their order in the file.
type PlanFile struct {
	Group      string        `yaml:"group"`
	Components componentList `yaml:"components"`
}

// ComponentConfig is one deployment step of a plan file
type ComponentConfig struct {
	Name     string             `yaml:"-"`
	Contract string             `yaml:"contract,omitempty"`
	Deps     []string           `yaml:"deps,omitempty"`
	Args     []any              `yaml:"args,omitempty"`
	Tags     []string           `yaml:"tags,omitempty"`
	Post     []PostActionConfig `yaml:"post,omitempty"`
}

// componentList keeps the declaration order of the components mapping
type componentList []*ComponentConfig

func (l *componentList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: components must be a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, body := value.Content[i], value.Content[i+1]
		component := &ComponentConfig{}
		if body.Kind != yaml.ScalarNode || body.Tag != "!!null" {
			if err := body.Decode(component); err != nil {
				return fmt.Errorf("component %s: %w", key.Value, err)
			}
		}
		component.Name = key.Value
		*l = append(*l, component)
	}
	return nil
}

// PostActionConfig is either the scalar "verify" or a single-key mapping
// naming the action.
type PostActionConfig struct {
	TransferOwnership *domain.TransferOwnership `yaml:"transfer_ownership,omitempty"`
	Verify            bool                      `yaml:"-"`
}

func (p *PostActionConfig) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Value != "verify" {
			return fmt.Errorf("line %d: unknown post action %q", value.Line, value.Value)
		}
		p.Verify = true
		return nil
	case yaml.MappingNode:
		if len(value.Content) != 2 {
			return fmt.Errorf("line %d: post action must have exactly one key", value.Line)
		}
		switch name := value.Content[0].Value; name {
		case "verify":
			p.Verify = true
			return nil
		case "transfer_ownership":
			var transfer domain.TransferOwnership
			if err := value.Content[1].Decode(&transfer); err != nil {
				return fmt.Errorf("transfer_ownership: %w", err)
			}
			p.TransferOwnership = &transfer
			return nil
		default:
			return fmt.Errorf("line %d: unknown post action %q", value.Line, name)
		}
	default:
		return fmt.Errorf("line %d: invalid post action", value.Line)
	}
}

func (p PostActionConfig) action() domain.PostAction {
	if p.TransferOwnership != nil {
		return *p.TransferOwnership
	}
	return domain.VerifySource{}
}

// LoadFile parses a plan file
func LoadFile(path string) (*domain.DeploymentPlan, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("plan file not found: %s", absPath)
		}
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	plan, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(absPath), err)
	}
	if plan.Name == "" {
		plan.Name = strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))
	}
	return plan, nil
}

// Parse builds a deployment plan from YAML data
func Parse(data []byte) (*domain.DeploymentPlan, error) {
	var file PlanFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(file.Components) == 0 {
		return nil, &domain.PlanInvalidError{Reason: "no components defined"}
	}

	plan := &domain.DeploymentPlan{Name: file.Group}
	for _, component := range file.Components {
		step, err := component.step()
		if err != nil {
			return nil, err
		}
		plan.Steps = append(plan.Steps, step)
	}
	return plan, nil
}

func (c *ComponentConfig) step() (domain.DeploymentStep, error) {
	if err := domain.ValidateArtifactName(c.Name); err != nil {
		return domain.DeploymentStep{}, &domain.PlanInvalidError{Reason: err.Error(), Steps: []string{c.Name}}
	}
	refs, err := collectRefs(c.Args)
	if err != nil {
		return domain.DeploymentStep{}, &domain.PlanInvalidError{Reason: err.Error(), Steps: []string{c.Name}}
	}

	// Referenced artifacts are implicit dependencies.
	deps := append([]string{}, c.Deps...)
	for _, ref := range refs {
		if ref.kind == refArtifact && ref.name != c.Name {
			deps = append(deps, ref.name)
		}
	}

	step := domain.DeploymentStep{
		Name:      c.Name,
		Contract:  c.Contract,
		DependsOn: lo.Uniq(deps),
		Tags:      c.Tags,
		Args:      domain.NoArgs,
	}
	if len(c.Args) > 0 {
		step.Args = argsResolver(c.Args)
	}
	for _, post := range c.Post {
		step.PostActions = append(step.PostActions, post.action())
	}
	return step, nil
}

const (
	refProfile  = "profile"
	refScale    = "scale"
	refArtifact = "artifact"
)

var refPattern = regexp.MustCompile(`\$\{([A-Za-z]+)\.([A-Za-z0-9_]+)\}`)

type reference struct {
	kind string
	name string
}

func collectRefs(value any) ([]reference, error) {
	var refs []reference
	switch v := value.(type) {
	case string:
		for _, m := range refPattern.FindAllStringSubmatch(v, -1) {
			switch m[1] {
			case refProfile, refScale, refArtifact:
				refs = append(refs, reference{kind: m[1], name: m[2]})
			default:
				return nil, fmt.Errorf("unknown reference %q", m[0])
			}
		}
	case []any:
		for _, item := range v {
			nested, err := collectRefs(item)
			if err != nil {
				return nil, err
			}
			refs = append(refs, nested...)
		}
	}
	return refs, nil
}

// argsResolver resolves the references of a plan file's args at run time.
// A string made of a single reference yields a typed value (common.Address or
// int64); references embedded in longer strings are substituted as text.
func argsResolver(args []any) domain.ArgResolver {
	return func(profile *domain.NetworkProfile, artifacts domain.ArtifactView) ([]any, error) {
		out := make([]any, 0, len(args))
		for _, arg := range args {
			v, err := resolveValue(arg, profile, artifacts)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
}

func resolveValue(value any, profile *domain.NetworkProfile, artifacts domain.ArtifactView) (any, error) {
	switch v := value.(type) {
	case string:
		return resolveString(v, profile, artifacts)
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			resolved, err := resolveValue(item, profile, artifacts)
			if err != nil {
				return nil, err
			}
			out = append(out, resolved)
		}
		return out, nil
	default:
		return value, nil
	}
}

func resolveString(s string, profile *domain.NetworkProfile, artifacts domain.ArtifactView) (any, error) {
	if loc := refPattern.FindStringSubmatchIndex(s); loc != nil && loc[0] == 0 && loc[1] == len(s) {
		return resolveRef(reference{kind: s[loc[2]:loc[3]], name: s[loc[4]:loc[5]]}, profile, artifacts)
	}

	var firstErr error
	out := refPattern.ReplaceAllStringFunc(s, func(match string) string {
		m := refPattern.FindStringSubmatch(match)
		v, err := resolveRef(reference{kind: m[1], name: m[2]}, profile, artifacts)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return match
		}
		return fmt.Sprint(v)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func resolveRef(ref reference, profile *domain.NetworkProfile, artifacts domain.ArtifactView) (any, error) {
	switch ref.kind {
	case refProfile:
		return externalAddress(profile, ref.name)
	case refScale:
		v, ok := profile.ScaleConstant(ref.name)
		if !ok {
			return nil, &domain.ConfigurationError{
				NetworkID: profile.ID,
				Network:   profile.Name,
				Reason:    fmt.Sprintf("scale constant %q is not configured", ref.name),
			}
		}
		return v, nil
	case refArtifact:
		rec, err := artifacts.Get(ref.name)
		if err != nil {
			return nil, err
		}
		return common.HexToAddress(rec.Address), nil
	default:
		return nil, fmt.Errorf("unknown reference kind %q", ref.kind)
	}
}
