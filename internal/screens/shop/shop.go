// Package shop implements the perk shop screen.
package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/saranya/tutorquest/internal/perks"
	"github.com/saranya/tutorquest/internal/reward"
	"github.com/saranya/tutorquest/internal/router"
	"github.com/saranya/tutorquest/internal/ui/components"
	"github.com/saranya/tutorquest/internal/ui/layout"
	"github.com/saranya/tutorquest/internal/ui/theme"
)

// ShopScreen lists the perk catalog and handles purchases.
type ShopScreen struct {
	shop    *perks.Shop
	ledger  *reward.Ledger
	menu    components.Menu
	message string
	isError bool
}

var _ router.Screen = (*ShopScreen)(nil)
var _ router.KeyHintProvider = (*ShopScreen)(nil)

// buyPerkMsg requests a purchase. The purchase itself runs in Update so
// the ledger is only ever mutated on the UI loop.
type buyPerkMsg struct {
	Perk string
}

// New creates the shop screen.
func New(shop *perks.Shop, ledger *reward.Ledger) *ShopScreen {
	s := &ShopScreen{shop: shop, ledger: ledger}
	s.menu = components.NewMenu(s.buildItems())
	return s
}

func (s *ShopScreen) buildItems() []components.MenuItem {
	var items []components.MenuItem
	for _, p := range perks.Catalog() {
		perk := p
		detail := fmt.Sprintf("%d coins", perk.Cost)
		if s.shop.Owned(perk.Name) {
			detail = "owned"
		}
		items = append(items, components.MenuItem{
			Label:    perk.Name,
			Detail:   detail,
			Disabled: s.shop.Owned(perk.Name),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return buyPerkMsg{Perk: perk.Name}
				}
			},
		})
	}
	return items
}

func (s *ShopScreen) Init() tea.Cmd {
	return nil
}

func (s *ShopScreen) Title() string {
	return "Perk Shop"
}

func (s *ShopScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Browse"},
		{Key: "Enter", Description: "Buy"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ShopScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case buyPerkMsg:
		err := s.shop.Purchase(context.Background(), msg.Perk)
		switch {
		case errors.Is(err, reward.ErrInsufficientFunds):
			s.message = "Not enough coins yet. Finish a quiz to earn more!"
			s.isError = true
		case err != nil:
			s.message = err.Error()
			s.isError = true
		default:
			s.message = fmt.Sprintf("Unlocked %s!", msg.Perk)
			s.isError = false
			selected := s.menu.Selected
			s.menu = components.NewMenu(s.buildItems())
			s.menu.Selected = selected
		}
		return s, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ShopScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.CoinAmount.Render(
		fmt.Sprintf("Balance: %d coins", s.ledger.State().Coins)))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())

	// Description for the highlighted perk.
	catalog := perks.Catalog()
	if s.menu.Selected >= 0 && s.menu.Selected < len(catalog) {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(catalog[s.menu.Selected].Description))
	}

	if s.message != "" {
		b.WriteString("\n\n")
		style := lipgloss.NewStyle().Foreground(theme.Success)
		if s.isError {
			style = style.Foreground(theme.Error)
		}
		b.WriteString(style.Render(s.message))
	}

	return layout.Center(b.String(), width, height)
}
