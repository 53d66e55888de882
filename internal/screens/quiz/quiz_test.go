package quiz

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/saranya/tutorquest/internal/gateway"
	quizcore "github.com/saranya/tutorquest/internal/quiz"
	"github.com/saranya/tutorquest/internal/remote"
	"github.com/saranya/tutorquest/internal/reward"
	"github.com/saranya/tutorquest/internal/scoring"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func enterKey() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

func twoQuestionSets() quizcore.TierSets {
	qs := []quizcore.Question{
		{ID: "q1", Prompt: "2+2?", Options: []string{"3", "4"}, CorrectIndex: 1},
		{ID: "q2", Prompt: "3+3?", Options: []string{"6", "7"}, CorrectIndex: 0},
	}
	return quizcore.TierSets{quizcore.TierBasic: qs}
}

func newTestScreen(sets quizcore.TierSets) (*QuizScreen, *reward.Ledger) {
	ledger := reward.NewLedger(nil, nil, nil)
	s := New(nil, remote.NewMockScorer(), ledger, gateway.ChapterRequest{}, scoring.Context{}, nil)
	s.Update(tiersLoadedMsg{Sets: sets})
	return s, ledger
}

func TestTiersLoaded_StartsLowestAvailableTier(t *testing.T) {
	s, _ := newTestScreen(quizcore.TierSets{
		quizcore.TierMedium: []quizcore.Question{
			{Prompt: "q", Options: []string{"a", "b"}, CorrectIndex: 0},
		},
	})

	if s.phase != phaseQuestion {
		t.Fatalf("phase = %d, want question", s.phase)
	}
	if s.session().Tier != quizcore.TierMedium {
		t.Errorf("tier = %s, want medium (basic is empty)", s.session().Tier)
	}
}

func TestTiersLoaded_NoQuestionsAnywhere(t *testing.T) {
	s, _ := newTestScreen(quizcore.TierSets{})

	if s.phase != phaseEmpty {
		t.Errorf("phase = %d, want empty", s.phase)
	}
}

func TestAnswerFlow_FeedbackThenAdvance(t *testing.T) {
	s, _ := newTestScreen(twoQuestionSets())

	// Answer the first question correctly via number key.
	s.Update(keyPress('2'))
	if s.phase != phaseFeedback {
		t.Fatalf("phase = %d, want feedback", s.phase)
	}
	if !s.wasCorrect {
		t.Error("expected correct answer feedback")
	}

	// Any key dismisses feedback and advances.
	s.Update(keyPress(' '))
	if s.phase != phaseQuestion {
		t.Fatalf("phase = %d, want question", s.phase)
	}
	if s.session().CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1", s.session().CurrentIndex)
	}
}

func TestLastAnswer_SubmitsLevel(t *testing.T) {
	s, ledger := newTestScreen(twoQuestionSets())

	s.Update(keyPress('2')) // q1 correct
	s.Update(keyPress(' '))
	s.Update(keyPress('1')) // q2 correct
	_, cmd := s.Update(keyPress(' '))

	if s.phase != phaseScoring {
		t.Fatalf("phase = %d, want scoring", s.phase)
	}
	if cmd == nil {
		t.Fatal("expected a scoring command")
	}

	// Input is ignored while the level is being scored.
	s.Update(enterKey())
	if s.phase != phaseScoring {
		t.Errorf("phase = %d, want scoring to persist through key presses", s.phase)
	}

	// Drive the batched command to completion. Resolving the score off
	// the UI loop must not touch the ledger; only delivering the message
	// applies the reward.
	msg := drainForScore(t, cmd)
	if ledger.State().Coins != 0 {
		t.Errorf("ledger coins = %d before scoredMsg delivery, want 0", ledger.State().Coins)
	}
	s.Update(msg)

	if s.phase != phaseResult {
		t.Fatalf("phase = %d, want result", s.phase)
	}
	// Mock scorer queue is empty, so the local path awards 2 x 10 coins.
	if s.result.CoinsEarned != 20 {
		t.Errorf("CoinsEarned = %d, want 20", s.result.CoinsEarned)
	}
	if ledger.State().Coins != 20 {
		t.Errorf("ledger coins = %d, want 20", ledger.State().Coins)
	}
	if len(s.results) != 1 {
		t.Errorf("tier results = %d, want 1", len(s.results))
	}
}

func TestResult_NoNextTierShowsSummary(t *testing.T) {
	s, _ := newTestScreen(twoQuestionSets())

	s.Update(keyPress('2'))
	s.Update(keyPress(' '))
	s.Update(keyPress('1'))
	_, cmd := s.Update(keyPress(' '))
	s.Update(drainForScore(t, cmd))

	// Basic is the only tier with questions, so Enter ends the run.
	_, cmd = s.Update(enterKey())
	if cmd == nil {
		t.Fatal("expected a navigation command to the summary")
	}
}

// drainForScore executes cmd (possibly a batch) until a scoredMsg appears.
func drainForScore(t *testing.T, cmd tea.Cmd) scoredMsg {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case scoredMsg:
			return msg
		case tea.BatchMsg:
			queue = append(queue, msg...)
		}
	}
	t.Fatal("no scoredMsg produced")
	return scoredMsg{}
}
