package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/saranya/tutorquest/internal/reward"
)

// GameStateRepo persists the game state and the reward ledger. It
// implements reward.StateStore.
type GameStateRepo struct {
	db *sql.DB
}

// GameStates returns the game state repository.
func (s *Store) GameStates() *GameStateRepo {
	return &GameStateRepo{db: s.db}
}

// Load reads the persisted game state. A fresh database yields a default
// state so first runs need no special casing.
func (r *GameStateRepo) Load(ctx context.Context) (*reward.GameState, error) {
	state := reward.NewGameState(time.Now())

	row := r.db.QueryRowContext(ctx, `
		SELECT coins, total_coins_earned, quizzes_completed, videos_watched,
		       daily_day, daily_quizzes, daily_videos, daily_perks
		FROM game_state WHERE id = 1`)

	err := row.Scan(
		&state.Coins, &state.TotalCoinsEarned,
		&state.QuizzesCompleted, &state.VideosWatched,
		&state.Daily.Day, &state.Daily.Quizzes,
		&state.Daily.Videos, &state.Daily.Perks,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load game state: %w", err)
	}

	if state.Ledger, err = r.loadLedger(ctx); err != nil {
		return nil, err
	}
	if state.UnlockedPerks, err = r.loadPerks(ctx); err != nil {
		return nil, err
	}
	return state, nil
}

func (r *GameStateRepo) loadLedger(ctx context.Context) ([]reward.RewardEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, amount, running_total, timestamp
		FROM reward_events ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("load reward events: %w", err)
	}
	defer rows.Close()

	var events []reward.RewardEvent
	for rows.Next() {
		var ev reward.RewardEvent
		var ts string
		if err := rows.Scan(&ev.ID, &ev.Source, &ev.Amount, &ev.RunningTotal, &ts); err != nil {
			return nil, fmt.Errorf("scan reward event: %w", err)
		}
		if ev.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse reward event timestamp %q: %w", ts, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *GameStateRepo) loadPerks(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM unlocked_perks`)
	if err != nil {
		return nil, fmt.Errorf("load unlocked perks: %w", err)
	}
	defer rows.Close()

	perks := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan unlocked perk: %w", err)
		}
		perks[name] = true
	}
	return perks, rows.Err()
}

// SaveState writes the scalar counters and syncs the unlocked perk set.
// The ledger is not rewritten here; events arrive through
// AppendRewardEvent only.
func (r *GameStateRepo) SaveState(ctx context.Context, state *reward.GameState) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO game_state (
			id, coins, total_coins_earned, quizzes_completed, videos_watched,
			daily_day, daily_quizzes, daily_videos, daily_perks
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			coins = excluded.coins,
			total_coins_earned = excluded.total_coins_earned,
			quizzes_completed = excluded.quizzes_completed,
			videos_watched = excluded.videos_watched,
			daily_day = excluded.daily_day,
			daily_quizzes = excluded.daily_quizzes,
			daily_videos = excluded.daily_videos,
			daily_perks = excluded.daily_perks`,
		state.Coins, state.TotalCoinsEarned,
		state.QuizzesCompleted, state.VideosWatched,
		state.Daily.Day, state.Daily.Quizzes,
		state.Daily.Videos, state.Daily.Perks,
	)
	if err != nil {
		return fmt.Errorf("save game state: %w", err)
	}

	for name := range state.UnlockedPerks {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO unlocked_perks (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("save unlocked perk %q: %w", name, err)
		}
	}

	return tx.Commit()
}

// AppendRewardEvent appends one ledger event. Events are immutable once
// written.
func (r *GameStateRepo) AppendRewardEvent(ctx context.Context, ev reward.RewardEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reward_events (id, source, amount, running_total, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		ev.ID, ev.Source, ev.Amount, ev.RunningTotal,
		ev.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append reward event: %w", err)
	}
	return nil
}

// Reset deletes all persisted progress.
func (r *GameStateRepo) Reset(ctx context.Context) error {
	for _, table := range []string{"game_state", "reward_events", "unlocked_perks", "request_events"} {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
