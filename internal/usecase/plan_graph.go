package usecase

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-provision/internal/domain"
)

// OrderPlan selects the steps matching tags (all steps when tags is empty)
// together with their in-plan dependencies, validates them, and returns them
// in dependency order. Steps that are ready at the same time keep their
// declared order. available reports whether a dependency that is not part of
// the selection is already deployed; it may be nil.
//
// Every error is a *domain.PlanInvalidError and is raised before anything is
// sent to the ledger.
func OrderPlan(plan *domain.DeploymentPlan, tags []string, available func(name string) bool) ([]*domain.DeploymentStep, error) {
	if plan == nil || len(plan.Steps) == 0 {
		return nil, &domain.PlanInvalidError{Reason: "plan has no steps"}
	}

	index := make(map[string]int, len(plan.Steps))
	for i := range plan.Steps {
		name := plan.Steps[i].Name
		if name == "" {
			return nil, &domain.PlanInvalidError{Reason: fmt.Sprintf("step #%d has no name", i+1)}
		}
		if err := domain.ValidateArtifactName(name); err != nil {
			return nil, &domain.PlanInvalidError{Reason: err.Error(), Steps: []string{name}}
		}
		if _, dup := index[name]; dup {
			return nil, &domain.PlanInvalidError{Reason: "duplicate step name", Steps: []string{name}}
		}
		index[name] = i
	}

	selected, err := selectSteps(plan, index, tags)
	if err != nil {
		return nil, err
	}

	if err := validateSelection(plan, index, selected, available); err != nil {
		return nil, err
	}

	return sortSelection(plan, index, selected)
}

// selectSteps returns the declared indexes of the tagged steps and their
// transitive in-plan dependencies.
func selectSteps(plan *domain.DeploymentPlan, index map[string]int, tags []string) (map[int]bool, error) {
	selected := make(map[int]bool, len(plan.Steps))
	if len(tags) == 0 {
		for i := range plan.Steps {
			selected[i] = true
		}
		return selected, nil
	}

	var queue []int
	for i := range plan.Steps {
		step := &plan.Steps[i]
		if lo.SomeBy(tags, step.HasTag) {
			selected[i] = true
			queue = append(queue, i)
		}
	}
	if len(queue) == 0 {
		return nil, &domain.PlanInvalidError{Reason: fmt.Sprintf("no steps match tags %v", tags)}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range plan.Steps[current].DependsOn {
			if j, ok := index[dep]; ok && !selected[j] {
				selected[j] = true
				queue = append(queue, j)
			}
		}
	}
	return selected, nil
}

func validateSelection(plan *domain.DeploymentPlan, index map[string]int, selected map[int]bool, available func(string) bool) error {
	owners := make(map[string]string)

	for _, i := range sortedKeys(selected) {
		step := &plan.Steps[i]
		for _, dep := range step.DependsOn {
			if dep == step.Name {
				return &domain.PlanInvalidError{Reason: "step depends on itself", Steps: []string{step.Name}}
			}
			if j, ok := index[dep]; ok && selected[j] {
				continue
			}
			if available != nil && available(dep) {
				continue
			}
			return &domain.PlanInvalidError{
				Reason: fmt.Sprintf("dependency %q is neither part of the plan nor deployed", dep),
				Steps:  []string{step.Name},
			}
		}

		for _, action := range step.PostActions {
			transfer, ok := domain.AsTransferOwnership(action)
			if !ok {
				continue
			}
			if transfer.NewOwner == "" {
				return &domain.PlanInvalidError{Reason: "transferOwnership without new owner", Steps: []string{step.Name}}
			}
			owned := transfer.OwnedContract(step.Name)
			if other, dup := owners[owned]; dup {
				return &domain.PlanInvalidError{
					Reason: fmt.Sprintf("ownership of %s is transferred more than once", owned),
					Steps:  []string{other, step.Name},
				}
			}
			owners[owned] = step.Name
		}
	}
	return nil
}

// sortSelection is Kahn's algorithm over the selected steps, always taking the
// ready step with the lowest declared index.
func sortSelection(plan *domain.DeploymentPlan, index map[string]int, selected map[int]bool) ([]*domain.DeploymentStep, error) {
	inDegree := make(map[int]int, len(selected))
	dependents := make(map[int][]int)

	for i := range selected {
		inDegree[i] = 0
	}
	for i := range selected {
		for _, dep := range lo.Uniq(plan.Steps[i].DependsOn) {
			j, ok := index[dep]
			if !ok || !selected[j] {
				continue
			}
			inDegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	var ready []int
	for i, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, i)
		}
	}

	result := make([]*domain.DeploymentStep, 0, len(selected))
	for len(ready) > 0 {
		sort.Ints(ready)
		current := ready[0]
		ready = ready[1:]
		result = append(result, &plan.Steps[current])

		for _, dependent := range dependents[current] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(result) != len(selected) {
		var cycle []string
		for _, i := range sortedKeys(selected) {
			if inDegree[i] > 0 {
				cycle = append(cycle, plan.Steps[i].Name)
			}
		}
		return nil, &domain.PlanInvalidError{Reason: "circular dependency detected", Steps: cycle}
	}

	return result, nil
}

func sortedKeys(m map[int]bool) []int {
	keys := lo.Keys(m)
	sort.Ints(keys)
	return keys
}
