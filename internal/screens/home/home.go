// Package home implements the landing screen with the main menu and the
// daily progress readout.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/saranya/tutorquest/internal/gateway"
	"github.com/saranya/tutorquest/internal/perks"
	"github.com/saranya/tutorquest/internal/remote"
	"github.com/saranya/tutorquest/internal/reward"
	"github.com/saranya/tutorquest/internal/router"
	"github.com/saranya/tutorquest/internal/scoring"
	quizscreen "github.com/saranya/tutorquest/internal/screens/quiz"
	shopscreen "github.com/saranya/tutorquest/internal/screens/shop"
	"github.com/saranya/tutorquest/internal/ui/components"
	"github.com/saranya/tutorquest/internal/ui/layout"
	"github.com/saranya/tutorquest/internal/ui/theme"
)

// HomeScreen is the landing screen of the application.
type HomeScreen struct {
	menu   components.Menu
	ledger *reward.Ledger
}

var _ router.Screen = (*HomeScreen)(nil)

// New creates the home screen with its navigation menu.
func New(gw *gateway.Gateway, scorer remote.Scorer, ledger *reward.Ledger, shop *perks.Shop, chapter gateway.ChapterRequest, meta scoring.Context, log *zap.Logger) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START QUIZ", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: quizscreen.New(gw, scorer, ledger, chapter, meta, log),
				}
			}
		}},
		{Label: "PERK SHOP", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: shopscreen.New(shop, ledger)}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:   components.NewMenu(items),
		ledger: ledger,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) View(width, height int) string {
	state := h.ledger.State()

	var b strings.Builder
	b.WriteString(theme.Title.Render("TutorQuest"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Learn. Play. Earn."))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Quizzes: %d    Lifetime coins: %d    Today: %d quiz, %d video",
		state.QuizzesCompleted, state.TotalCoinsEarned,
		state.Daily.Quizzes, state.Daily.Videos)
	b.WriteString(theme.Subtitle.Render(stats))
	b.WriteString("\n\n")
	b.WriteString(h.menu.View())

	return layout.Center(b.String(), width, height)
}
