package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/saranya/tutorquest/internal/remote"
	"github.com/saranya/tutorquest/internal/reward"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoad_FreshDatabase(t *testing.T) {
	s := openTestStore(t)

	state, err := s.GameStates().Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if state.Coins != 0 || state.TotalCoinsEarned != 0 {
		t.Errorf("fresh state = %+v, want zero counters", state)
	}
	if state.Daily.Day == "" {
		t.Error("expected Daily.Day to be initialized")
	}
	if state.UnlockedPerks == nil {
		t.Error("expected non-nil UnlockedPerks map")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.GameStates()
	ctx := context.Background()

	state := reward.NewGameState(time.Now())
	state.Coins = 40
	state.TotalCoinsEarned = 90
	state.QuizzesCompleted = 3
	state.VideosWatched = 2
	state.Daily.Quizzes = 1
	state.UnlockedPerks["dark-theme"] = true

	if err := repo.SaveState(ctx, state); err != nil {
		t.Fatalf("SaveState returned error: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Coins != 40 || loaded.TotalCoinsEarned != 90 {
		t.Errorf("loaded coins = %d/%d, want 40/90", loaded.Coins, loaded.TotalCoinsEarned)
	}
	if loaded.QuizzesCompleted != 3 || loaded.VideosWatched != 2 {
		t.Errorf("loaded counters = %d/%d, want 3/2", loaded.QuizzesCompleted, loaded.VideosWatched)
	}
	if loaded.Daily.Quizzes != 1 {
		t.Errorf("loaded Daily.Quizzes = %d, want 1", loaded.Daily.Quizzes)
	}
	if !loaded.UnlockedPerks["dark-theme"] {
		t.Error("expected dark-theme to survive the round trip")
	}
}

func TestSaveState_Idempotent(t *testing.T) {
	s := openTestStore(t)
	repo := s.GameStates()
	ctx := context.Background()

	state := reward.NewGameState(time.Now())
	state.Coins = 10
	if err := repo.SaveState(ctx, state); err != nil {
		t.Fatalf("first save: %v", err)
	}
	state.Coins = 20
	if err := repo.SaveState(ctx, state); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Coins != 20 {
		t.Errorf("coins = %d, want 20 (single upserted row)", loaded.Coins)
	}
}

func TestAppendRewardEvent_OrderPreserved(t *testing.T) {
	s := openTestStore(t)
	repo := s.GameStates()
	ctx := context.Background()

	now := time.Now().UTC()
	events := []reward.RewardEvent{
		{ID: "e1", Source: "Quiz Correct Answers", Amount: 30, RunningTotal: 30, Timestamp: now},
		{ID: "e2", Source: "Quiz Correct Answers", Amount: 10, RunningTotal: 40, Timestamp: now.Add(time.Minute)},
		{ID: "e3", Source: "dark-theme", Amount: -50, RunningTotal: 40, Timestamp: now.Add(2 * time.Minute)},
	}
	for _, ev := range events {
		if err := repo.AppendRewardEvent(ctx, ev); err != nil {
			t.Fatalf("AppendRewardEvent(%s) returned error: %v", ev.ID, err)
		}
	}
	if err := repo.SaveState(ctx, reward.NewGameState(now)); err != nil {
		t.Fatalf("SaveState returned error: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded.Ledger) != 3 {
		t.Fatalf("ledger length = %d, want 3", len(loaded.Ledger))
	}
	for i, want := range []string{"e1", "e2", "e3"} {
		if loaded.Ledger[i].ID != want {
			t.Errorf("ledger[%d].ID = %q, want %q", i, loaded.Ledger[i].ID, want)
		}
	}
	if loaded.Ledger[2].Amount != -50 || loaded.Ledger[2].RunningTotal != 40 {
		t.Errorf("debit event = %+v", loaded.Ledger[2])
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.GameStates()
	ctx := context.Background()

	state := reward.NewGameState(time.Now())
	state.Coins = 99
	state.UnlockedPerks["gold-badge"] = true
	if err := repo.SaveState(ctx, state); err != nil {
		t.Fatalf("SaveState returned error: %v", err)
	}
	if err := repo.AppendRewardEvent(ctx, reward.RewardEvent{ID: "e1", Timestamp: time.Now()}); err != nil {
		t.Fatalf("AppendRewardEvent returned error: %v", err)
	}

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Coins != 0 || len(loaded.Ledger) != 0 || len(loaded.UnlockedPerks) != 0 {
		t.Errorf("state after reset = %+v, want defaults", loaded)
	}
}

func TestRequestEvents_Stats(t *testing.T) {
	s := openTestStore(t)
	repo := s.RequestEvents()
	ctx := context.Background()

	calls := []remote.RequestEventData{
		{Service: "scoring", Operation: "score", LatencyMs: 100, Success: true},
		{Service: "scoring", Operation: "score", LatencyMs: 300, Success: false, ErrorMessage: "timeout"},
		{Service: "generation", Operation: "generate", LatencyMs: 50, Success: true},
	}
	for _, c := range calls {
		if err := repo.AppendRequestEvent(ctx, c); err != nil {
			t.Fatalf("AppendRequestEvent returned error: %v", err)
		}
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats length = %d, want 2", len(stats))
	}
	// Ordered by service name: generation first.
	if stats[0].Service != "generation" || stats[0].Calls != 1 || stats[0].Failures != 0 {
		t.Errorf("generation stats = %+v", stats[0])
	}
	if stats[1].Service != "scoring" || stats[1].Calls != 2 || stats[1].Failures != 1 {
		t.Errorf("scoring stats = %+v", stats[1])
	}
	if stats[1].AvgLatencyMs != 200 {
		t.Errorf("scoring avg latency = %f, want 200", stats[1].AvgLatencyMs)
	}
}
