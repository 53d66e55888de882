package reward

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInsufficientFunds is returned by Debit when the spendable balance
// cannot cover the requested amount.
var ErrInsufficientFunds = errors.New("insufficient coins")

// ErrInvalidAmount is returned by Debit for a non-positive amount.
var ErrInvalidAmount = errors.New("invalid debit amount")

// StateStore persists ledger mutations. Reward events are written to an
// append-only log; scalar state is overwritten after every mutation.
type StateStore interface {
	SaveState(ctx context.Context, state *GameState) error
	AppendRewardEvent(ctx context.Context, event RewardEvent) error
}

// Ledger owns the GameState and is the only component allowed to mutate
// coin balances and activity counters. Execution is single-threaded and
// cooperative: every mutation is a single read-modify-write step with no
// suspension point in between, so no locking is needed.
type Ledger struct {
	state *GameState
	store StateStore
	log   *zap.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// NewLedger creates a Ledger around an existing GameState. A nil state
// starts a fresh one; a nil store disables persistence (tests).
func NewLedger(state *GameState, store StateStore, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Ledger{
		state: state,
		store: store,
		log:   log,
		now:   time.Now,
	}
	if l.state == nil {
		l.state = NewGameState(l.now())
	}
	if l.state.UnlockedPerks == nil {
		l.state.UnlockedPerks = make(map[string]bool)
	}
	return l
}

// State returns the underlying GameState for read access. Callers must not
// mutate it directly.
func (l *Ledger) State() *GameState {
	return l.state
}

// Credit awards coins and appends a RewardEvent. Amounts <= 0 leave all
// state unchanged. Returns the appended event, or nil for a no-op.
func (l *Ledger) Credit(ctx context.Context, amount int, source string) *RewardEvent {
	if amount <= 0 {
		return nil
	}

	event := RewardEvent{
		ID:           uuid.NewString(),
		Source:       source,
		Amount:       amount,
		RunningTotal: l.state.lastRunningTotal() + amount,
		Timestamp:    l.now(),
	}

	l.state.Ledger = append(l.state.Ledger, event)
	l.state.Coins += amount
	l.state.TotalCoinsEarned += amount

	l.persistEvent(ctx, event)
	l.persistState(ctx)

	l.log.Info("coins credited",
		zap.Int("amount", amount),
		zap.String("source", source),
		zap.Int("balance", l.state.Coins))

	return &event
}

// Debit spends coins on a perk. Non-positive amounts and short balances
// are rejected and leave coins and unlocked perks unchanged.
func (l *Ledger) Debit(ctx context.Context, amount int, perk string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if l.state.Coins < amount {
		l.log.Info("perk purchase rejected",
			zap.String("perk", perk),
			zap.Int("cost", amount),
			zap.Int("balance", l.state.Coins))
		return ErrInsufficientFunds
	}

	l.RolloverDaily(l.now())
	l.state.Coins -= amount
	l.state.UnlockedPerks[perk] = true
	l.state.Daily.Perks++

	l.persistState(ctx)

	l.log.Info("perk unlocked",
		zap.String("perk", perk),
		zap.Int("cost", amount),
		zap.Int("balance", l.state.Coins))

	return nil
}

// RecordQuizCompleted increments the quiz counters by exactly one unit.
// Called by the scoring engine once per completed session.
func (l *Ledger) RecordQuizCompleted(ctx context.Context) {
	l.RolloverDaily(l.now())
	l.state.QuizzesCompleted++
	l.state.Daily.Quizzes++
	l.persistState(ctx)
}

// RecordVideoWatched increments the video counters by exactly one unit.
func (l *Ledger) RecordVideoWatched(ctx context.Context) {
	l.RolloverDaily(l.now())
	l.state.VideosWatched++
	l.state.Daily.Videos++
	l.persistState(ctx)
}

// RolloverDaily resets the daily counters when the calendar day has
// changed. This is the only operation permitted to decrement activity
// counters. Lifetime counters are untouched.
func (l *Ledger) RolloverDaily(now time.Time) {
	stamp := DayStamp(now)
	if l.state.Daily.Day == stamp {
		return
	}
	l.log.Info("daily counters rolled over",
		zap.String("from", l.state.Daily.Day),
		zap.String("to", stamp))
	l.state.Daily = DailyProgress{Day: stamp}
}

func (l *Ledger) persistEvent(ctx context.Context, event RewardEvent) {
	if l.store == nil {
		return
	}
	if err := l.store.AppendRewardEvent(ctx, event); err != nil {
		l.log.Warn("append reward event failed", zap.Error(err))
	}
}

func (l *Ledger) persistState(ctx context.Context) {
	if l.store == nil {
		return
	}
	if err := l.store.SaveState(ctx, l.state); err != nil {
		l.log.Warn("save game state failed", zap.Error(err))
	}
}
