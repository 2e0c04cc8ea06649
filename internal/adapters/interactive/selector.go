package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/domain/models"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectProposal selects a proposal from a list
func (s *SelectorAdapter) SelectProposal(ctx context.Context, proposals []*models.Proposal, prompt string) (*models.Proposal, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(proposals) == 0 {
		return nil, fmt.Errorf("no proposals provided for selection")
	}

	if len(proposals) == 1 {
		return proposals[0], nil
	}

	options := FormatProposalOptions(proposals)

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         selectTemplates(),
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return proposals[index], nil
}

// PromptVoteChoice asks for a ballot on proposal
func (s *SelectorAdapter) PromptVoteChoice(ctx context.Context, proposal *models.Proposal) (models.VoteChoice, error) {
	if s.config.NonInteractive {
		return 0, fmt.Errorf("vote choice is required in non-interactive mode")
	}

	choices := []models.VoteChoice{models.VoteFor, models.VoteAgainst}
	promptSelect := promptui.Select{
		Label:     fmt.Sprintf("Vote on %s", proposal.ShortID()),
		Items:     []string{"for", "against"},
		Templates: selectTemplates(),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return 0, fmt.Errorf("selection cancelled: %w", err)
	}
	return choices[index], nil
}

func selectTemplates() *promptui.SelectTemplates {
	return &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}
}

// FormatProposalOptions creates display strings for proposal selection
func FormatProposalOptions(proposals []*models.Proposal) []string {
	options := make([]string, len(proposals))
	for i, p := range proposals {
		id := color.New(color.FgWhite, color.Bold).Sprint(p.ShortID())
		status := color.New(color.FgYellow).Sprintf("[%s]", p.Status)

		desc := p.Description
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		if desc == "" {
			options[i] = fmt.Sprintf("%s %s #%d", id, status, p.Sequence)
		} else {
			options[i] = fmt.Sprintf("%s %s #%d %s", id, status, p.Sequence, desc)
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

		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

var (
	_ usecase.ProposalSelector   = (*SelectorAdapter)(nil)
	_ usecase.VoteChoicePrompter = (*SelectorAdapter)(nil)
)
