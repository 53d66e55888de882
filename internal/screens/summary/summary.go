// Package summary shows the end-of-quiz recap across the tiers played.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/saranya/tutorquest/internal/quiz"
	"github.com/saranya/tutorquest/internal/router"
	"github.com/saranya/tutorquest/internal/scoring"
	"github.com/saranya/tutorquest/internal/ui/layout"
	"github.com/saranya/tutorquest/internal/ui/theme"
)

// TierResult is the scored outcome of one completed tier.
type TierResult struct {
	Tier   quiz.Tier
	Result scoring.Result
}

// SummaryScreen displays the quiz run recap.
type SummaryScreen struct {
	results []TierResult
}

var _ router.Screen = (*SummaryScreen)(nil)
var _ router.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen for the given tier results.
func New(results []TierResult) *SummaryScreen {
	return &SummaryScreen{results: results}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			// Pop the summary and the quiz screen underneath it.
			return s, func() tea.Msg { return router.GoHomeMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Quiz complete!"))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 50)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	totalCoins := 0
	for _, tr := range s.results {
		totalCoins += tr.Result.CoinsEarned
		line := fmt.Sprintf("  %-8s  %6s   %5.1f%%   +%d coins",
			tr.Tier.DisplayName(), tr.Result.Score, tr.Result.Percentage, tr.Result.CoinsEarned)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Body.Render(line)))
		b.WriteString("\n")
	}

	if len(s.results) == 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Subtitle.Render("No levels were completed this time.")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.CoinAmount.Render(fmt.Sprintf("Coins earned: %d", totalCoins))))
	b.WriteString("\n")

	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
