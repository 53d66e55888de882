package scoring

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/saranya/tutorquest/internal/quiz"
	"github.com/saranya/tutorquest/internal/remote"
	"github.com/saranya/tutorquest/internal/reward"
)

// CoinsPerCorrect is the fixed fallback reward rate.
const CoinsPerCorrect = 10

// creditSource is the ledger source label for quiz rewards.
const creditSource = "Quiz Correct Answers"

// Result is the outcome of scoring one completed session.
type Result struct {
	// Score is the "correct/total" display string.
	Score string

	// Percentage is in the 0-100 range.
	Percentage float64

	CoinsEarned int

	// Message is the user-facing line shown with the score.
	Message string
}

// Context identifies the student and chapter a session was scored for,
// passed through to the remote scoring service.
type Context struct {
	StudentID string
	ChapterID string
	SubjectID string
	Tier      quiz.Tier
}

// SessionGuard answers whether a session is still the active one. Results
// that resolve after the student moved on are discarded instead of being
// applied to whatever session is currently active.
type SessionGuard interface {
	IsActive(sessionID string) bool
}

// Engine converts a completed answer set into a Result and credits the
// ledger exactly once per session. The work is split in two: Resolve
// performs the remote round trip (any failure is absorbed into the
// deterministic local fallback, so it never fails) and has no side
// effects, which makes it safe to run off the UI loop; Apply books the
// reward and must run on the UI loop, where all GameState mutations
// happen.
type Engine struct {
	scorer remote.Scorer
	ledger *reward.Ledger
	guard  SessionGuard
	log    *zap.Logger

	// credited holds session IDs whose reward has been applied, so a
	// duplicate resolution can never credit twice.
	credited map[string]bool
}

// NewEngine creates an Engine. A nil guard disables staleness checking
// (tests); a nil scorer always takes the fallback path.
func NewEngine(scorer remote.Scorer, ledger *reward.Ledger, guard SessionGuard, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		scorer:   scorer,
		ledger:   ledger,
		guard:    guard,
		log:      log,
		credited: make(map[string]bool),
	}
}

// Resolve produces the Result for a completed session: the remote
// result when available, the deterministic fallback otherwise. It
// mutates nothing; the caller hands the result to Apply once it is
// back on the UI loop.
func (e *Engine) Resolve(ctx context.Context, sess *quiz.Session, meta Context) Result {
	if e.scorer == nil {
		return Fallback(sess.Answers, sess.Questions)
	}

	req := remote.ScoreRequest{
		Answers:        sess.Answers,
		CorrectAnswers: correctIndexes(sess.Questions),
		Difficulty:     string(meta.Tier),
		ChapterID:      meta.ChapterID,
		SubjectID:      meta.SubjectID,
		StudentID:      meta.StudentID,
	}

	resp, err := e.scorer.Score(ctx, req)
	if err != nil {
		e.log.Warn("remote scoring unavailable, using fallback",
			zap.String("session", sess.ID),
			zap.Error(err))
		return Fallback(sess.Answers, sess.Questions)
	}

	return Result{
		Score:       resp.Score,
		Percentage:  resp.Percentage,
		CoinsEarned: resp.CoinsEarned,
		Message:     resp.Message,
	}
}

// Apply credits the ledger and bumps the quiz counters, exactly once per
// session regardless of how many times a result resolves for it. A
// result for a session that is no longer active is discarded: no
// credit, no counters.
func (e *Engine) Apply(ctx context.Context, sessionID string, result Result) {
	if e.guard != nil && !e.guard.IsActive(sessionID) {
		e.log.Info("discarding stale scoring result",
			zap.String("session", sessionID))
		return
	}
	if e.credited[sessionID] {
		return
	}
	e.credited[sessionID] = true

	if e.ledger != nil {
		e.ledger.Credit(ctx, result.CoinsEarned, creditSource)
		e.ledger.RecordQuizCompleted(ctx)
	}
}

// Fallback computes the deterministic local score. It applies the same
// correctness predicate the remote service is contracted to use: strict
// index equality, so the unanswered sentinel never matches and unanswered
// questions count as wrong.
func Fallback(answers []int, questions []quiz.Question) Result {
	correct := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectIndex {
			correct++
		}
	}

	total := len(questions)
	percentage := 0.0
	if total > 0 {
		percentage = 100 * float64(correct) / float64(total)
	}

	message := "Keep practicing, you'll get there!"
	if correct > 0 {
		message = fmt.Sprintf("Great job! You got %d answers right.", correct)
	}

	return Result{
		Score:       fmt.Sprintf("%d/%d", correct, total),
		Percentage:  percentage,
		CoinsEarned: correct * CoinsPerCorrect,
		Message:     message,
	}
}

func correctIndexes(questions []quiz.Question) []int {
	idx := make([]int, len(questions))
	for i, q := range questions {
		idx[i] = q.CorrectIndex
	}
	return idx
}
