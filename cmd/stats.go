package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saranya/tutorquest/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress and remote service statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		state, err := st.GameStates().Load(ctx)
		if err != nil {
			return fmt.Errorf("load game state: %w", err)
		}

		fmt.Println("Progress")
		fmt.Printf("  Coins:             %d\n", state.Coins)
		fmt.Printf("  Lifetime earned:   %d\n", state.TotalCoinsEarned)
		fmt.Printf("  Quizzes completed: %d\n", state.QuizzesCompleted)
		fmt.Printf("  Videos watched:    %d\n", state.VideosWatched)
		fmt.Printf("  Perks unlocked:    %d\n", len(state.UnlockedPerks))
		fmt.Printf("  Reward events:     %d\n", len(state.Ledger))
		fmt.Printf("  Today (%s): %d quizzes, %d videos, %d perks\n",
			state.Daily.Day, state.Daily.Quizzes, state.Daily.Videos, state.Daily.Perks)

		stats, err := st.RequestEvents().Stats(ctx)
		if err != nil {
			return fmt.Errorf("load request stats: %w", err)
		}
		if len(stats) > 0 {
			fmt.Println("\nRemote services")
			for _, s := range stats {
				fmt.Printf("  %-12s %d calls, %d failed, avg %.0f ms\n",
					s.Service, s.Calls, s.Failures, s.AvgLatencyMs)
			}
		}

		return nil
	},
}
