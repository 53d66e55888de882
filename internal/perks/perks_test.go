package perks

import (
	"context"
	"errors"
	"testing"

	"github.com/saranya/tutorquest/internal/reward"
)

func newTestShop(coins int) (*Shop, *reward.Ledger) {
	ledger := reward.NewLedger(nil, nil, nil)
	if coins > 0 {
		ledger.Credit(context.Background(), coins, "Quiz Correct Answers")
	}
	return NewShop(ledger, nil), ledger
}

func TestPurchase(t *testing.T) {
	shop, ledger := newTestShop(100)

	if err := shop.Purchase(context.Background(), "dark-theme"); err != nil {
		t.Fatalf("Purchase returned error: %v", err)
	}

	if ledger.State().Coins != 50 {
		t.Errorf("coins = %d, want 50", ledger.State().Coins)
	}
	if !shop.Owned("dark-theme") {
		t.Error("expected perk to be owned")
	}
}

func TestPurchase_InsufficientFunds(t *testing.T) {
	shop, ledger := newTestShop(10)

	err := shop.Purchase(context.Background(), "gold-badge")
	if !errors.Is(err, reward.ErrInsufficientFunds) {
		t.Fatalf("error = %v, want ErrInsufficientFunds", err)
	}
	if ledger.State().Coins != 10 {
		t.Errorf("coins = %d, want 10 (unchanged)", ledger.State().Coins)
	}
	if shop.Owned("gold-badge") {
		t.Error("expected perk to remain locked")
	}
}

func TestPurchase_UnknownPerk(t *testing.T) {
	shop, ledger := newTestShop(500)

	err := shop.Purchase(context.Background(), "jetpack")
	if !errors.Is(err, ErrUnknownPerk) {
		t.Fatalf("error = %v, want ErrUnknownPerk", err)
	}
	if ledger.State().Coins != 500 {
		t.Errorf("coins = %d, want 500 (unchanged)", ledger.State().Coins)
	}
}

func TestPurchase_AlreadyOwned(t *testing.T) {
	shop, ledger := newTestShop(500)

	if err := shop.Purchase(context.Background(), "confetti-burst"); err != nil {
		t.Fatalf("first purchase failed: %v", err)
	}
	err := shop.Purchase(context.Background(), "confetti-burst")
	if !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("error = %v, want ErrAlreadyOwned", err)
	}
	if ledger.State().Coins != 425 {
		t.Errorf("coins = %d, want 425 (charged once)", ledger.State().Coins)
	}
}

func TestCatalog(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Catalog() {
		if p.Name == "" || p.Cost <= 0 {
			t.Errorf("bad catalog entry: %+v", p)
		}
		if seen[p.Name] {
			t.Errorf("duplicate perk name %q", p.Name)
		}
		seen[p.Name] = true
	}

	if _, ok := Find("dark-theme"); !ok {
		t.Error("expected dark-theme in catalog")
	}
	if _, ok := Find("nope"); ok {
		t.Error("expected nope to be absent")
	}
}
