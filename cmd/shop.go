package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saranya/tutorquest/internal/perks"
	"github.com/saranya/tutorquest/internal/reward"
	"github.com/saranya/tutorquest/internal/store"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "List perks and your coin balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		shop, ledger, closeStore, err := openShop(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		fmt.Printf("Balance: %d coins\n\n", ledger.State().Coins)
		for _, p := range perks.Catalog() {
			marker := " "
			if shop.Owned(p.Name) {
				marker = "*"
			}
			fmt.Printf("%s %-16s %4d coins   %s\n", marker, p.Name, p.Cost, p.Description)
		}
		fmt.Println("\n* = owned. Buy with: tutorquest shop buy <perk>")
		return nil
	},
}

var shopBuyCmd = &cobra.Command{
	Use:   "buy <perk>",
	Short: "Purchase a perk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shop, ledger, closeStore, err := openShop(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		name := args[0]
		if err := shop.Purchase(context.Background(), name); err != nil {
			return err
		}
		fmt.Printf("Unlocked %s! Balance: %d coins\n", name, ledger.State().Coins)
		return nil
	},
}

// openShop wires a shop over the persisted game state. The returned func
// closes the store.
func openShop(cmd *cobra.Command) (*perks.Shop, *reward.Ledger, func(), error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}

	stateRepo := st.GameStates()
	state, err := stateRepo.Load(context.Background())
	if err != nil {
		st.Close()
		return nil, nil, nil, fmt.Errorf("load game state: %w", err)
	}

	ledger := reward.NewLedger(state, stateRepo, nil)
	return perks.NewShop(ledger, nil), ledger, func() { st.Close() }, nil
}

func init() {
	shopCmd.AddCommand(shopBuyCmd)
}
