package reward

import "time"

// RewardEvent is one entry in the append-only coin ledger. Events are
// immutable once created; RunningTotal is the lifetime-earned balance
// after this event was applied.
type RewardEvent struct {
	ID           string
	Source       string
	Amount       int
	RunningTotal int
	Timestamp    time.Time
}

// DailyProgress tracks per-activity counters for a single day. Day is the
// calendar date the counters belong to, formatted as YYYY-MM-DD.
type DailyProgress struct {
	Day     string
	Quizzes int
	Videos  int
	Perks   int
}

// GameState is the single source of truth for the student's coin balance,
// lifetime totals, and activity counters. It is shared read/write across
// the quiz, video, and perk features.
type GameState struct {
	// Coins is the spendable balance.
	Coins int

	// TotalCoinsEarned is the lifetime-earned total. Coins never exceeds it.
	TotalCoinsEarned int

	QuizzesCompleted int
	VideosWatched    int

	Daily DailyProgress

	// Ledger is the ordered list of reward events, oldest first.
	Ledger []RewardEvent

	// UnlockedPerks is the set of perk names the student has purchased.
	UnlockedPerks map[string]bool
}

// NewGameState returns a GameState with initialized collections and the
// daily counters stamped for the given time.
func NewGameState(now time.Time) *GameState {
	return &GameState{
		UnlockedPerks: make(map[string]bool),
		Daily:         DailyProgress{Day: DayStamp(now)},
	}
}

// DayStamp formats a time as the calendar-date key used by DailyProgress.
func DayStamp(t time.Time) string {
	return t.Format("2006-01-02")
}

// lastRunningTotal returns the running total after the newest ledger event,
// or 0 for an empty ledger.
func (s *GameState) lastRunningTotal() int {
	if len(s.Ledger) == 0 {
		return 0
	}
	return s.Ledger[len(s.Ledger)-1].RunningTotal
}
