// Package app hosts the root Bubble Tea model: window sizing, the shared
// header/footer frame and global key handling.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/saranya/tutorquest/internal/gateway"
	"github.com/saranya/tutorquest/internal/perks"
	"github.com/saranya/tutorquest/internal/remote"
	"github.com/saranya/tutorquest/internal/reward"
	"github.com/saranya/tutorquest/internal/router"
	"github.com/saranya/tutorquest/internal/scoring"
	"github.com/saranya/tutorquest/internal/screens/home"
	"github.com/saranya/tutorquest/internal/ui/layout"
)

// Options carries the wired services the interface runs on.
type Options struct {
	Gateway *gateway.Gateway
	Scorer  remote.Scorer
	Ledger  *reward.Ledger
	Shop    *perks.Shop
	Chapter gateway.ChapterRequest
	Meta    scoring.Context
	Log     *zap.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	router *router.Router
	ledger *reward.Ledger
	width  int
	height int
}

// NewModel creates the root model with the home screen at the bottom of
// the stack.
func NewModel(opts Options) Model {
	homeScreen := home.New(opts.Gateway, opts.Scorer, opts.Ledger, opts.Shop, opts.Chapter, opts.Meta, opts.Log)
	return Model{
		router: router.New(homeScreen),
		ledger: opts.Ledger,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	coins := 0
	if m.ledger != nil {
		coins = m.ledger.State().Coins
	}
	header := layout.RenderHeader(title, coins, m.width)

	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if provider, ok := active.(router.KeyHintProvider); ok {
		if custom := provider.KeyHints(); len(custom) > 0 {
			hints = custom
		}
	}
	footer := layout.RenderFooter(hints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
