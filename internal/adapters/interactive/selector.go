package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/treb-provision/internal/domain"
	"github.com/trebuchet-org/treb-provision/internal/domain/config"
	"github.com/trebuchet-org/treb-provision/internal/usecase"
)

// ErrNonInteractive is returned when a prompt would be needed in
// non-interactive mode
var ErrNonInteractive = errors.New("interactive prompt not available in non-interactive mode")

// SelectorAdapter handles interactive prompts
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// Confirm asks a yes/no question. Anything but yes declines.
func (s *SelectorAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return false, ErrNonInteractive
	}

	confirm := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if _, err := confirm.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, fmt.Errorf("prompt interrupted: %w", err)
		}
		return false, err
	}
	return true, nil
}

// SelectNetwork asks for the target network when none was given
func (s *SelectorAdapter) SelectNetwork(ctx context.Context, networks []*domain.NetworkProfile) (*domain.NetworkProfile, error) {
	if len(networks) == 0 {
		return nil, fmt.Errorf("no networks configured")
	}
	if len(networks) == 1 {
		return networks[0], nil
	}
	if s.config.NonInteractive {
		return nil, fmt.Errorf("no network given: %w", ErrNonInteractive)
	}

	options := formatNetworkOptions(networks)
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             "Select network",
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return networks[index], nil
}

// formatNetworkOptions creates display strings like "sepolia (11155111)"
func formatNetworkOptions(networks []*domain.NetworkProfile) []string {
	options := make([]string, len(networks))
	for i, n := range networks {
		name := color.New(color.FgWhite, color.Bold).Sprint(n.Label())
		id := color.New(color.FgBlue).Sprintf("%d", n.ID)
		if n.Local {
			options[i] = fmt.Sprintf("%s (%s) %s", name, id, color.New(color.FgYellow).Sprint("[local]"))
		} else {
			options[i] = fmt.Sprintf("%s (%s)", name, id)
		}
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])
		if strings.Contains(item, input) {
			return true
		}
		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var _ usecase.Confirmer = (*SelectorAdapter)(nil)
