// Package perks holds the static cosmetic perk catalog and the purchase
// flow. Perks only ever spend coins; nothing here produces rewards.
package perks

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/saranya/tutorquest/internal/reward"
)

var (
	// ErrUnknownPerk is returned for a name not in the catalog.
	ErrUnknownPerk = errors.New("unknown perk")

	// ErrAlreadyOwned is returned when the perk was purchased before.
	ErrAlreadyOwned = errors.New("perk already owned")
)

// Perk is one purchasable cosmetic item.
type Perk struct {
	Name        string
	Cost        int
	Description string
}

// Catalog returns the perks in display order.
func Catalog() []Perk {
	return []Perk{
		{Name: "dark-theme", Cost: 50, Description: "A sleek dark look for night-owl study sessions"},
		{Name: "gold-badge", Cost: 100, Description: "A golden badge on your profile"},
		{Name: "confetti-burst", Cost: 75, Description: "Confetti every time you finish a quiz"},
		{Name: "mascot-wizard", Cost: 150, Description: "Your mascot dons a wizard hat"},
		{Name: "streak-flame", Cost: 200, Description: "A flame next to your daily streak"},
	}
}

// Find returns the catalog entry for name.
func Find(name string) (Perk, bool) {
	for _, p := range Catalog() {
		if p.Name == name {
			return p, true
		}
	}
	return Perk{}, false
}

// Shop performs perk purchases against the reward ledger.
type Shop struct {
	ledger *reward.Ledger
	log    *zap.Logger
}

// NewShop creates a Shop.
func NewShop(ledger *reward.Ledger, log *zap.Logger) *Shop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Shop{ledger: ledger, log: log}
}

// Purchase buys the named perk. Failures leave the game state unchanged;
// an insufficient balance surfaces as reward.ErrInsufficientFunds.
func (s *Shop) Purchase(ctx context.Context, name string) error {
	perk, ok := Find(name)
	if !ok {
		return ErrUnknownPerk
	}
	if s.ledger.State().UnlockedPerks[name] {
		return ErrAlreadyOwned
	}
	return s.ledger.Debit(ctx, perk.Cost, perk.Name)
}

// Owned reports whether the perk has been unlocked.
func (s *Shop) Owned(name string) bool {
	return s.ledger.State().UnlockedPerks[name]
}
