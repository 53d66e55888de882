package quiz

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Unanswered is the sentinel stored in a session's answer slots before the
// student picks an option. It can never equal a valid option index, which
// is what makes unanswered questions score as wrong.
const Unanswered = -1

// ErrGenerationUnavailable indicates a tier's question set is empty. The
// tier is skippable, not fatal.
var ErrGenerationUnavailable = errors.New("question generation unavailable for tier")

// Status is the lifecycle state of a session. It only moves forward:
// Idle -> Active -> Completed. A restart replaces the session object.
type Status int

const (
	StatusIdle Status = iota
	StatusActive
	StatusCompleted
)

// String returns the status name for logging.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Session holds the per-attempt state for one difficulty tier. It lives
// only for the duration of the attempt and is replaced on tier change or
// restart, never persisted.
type Session struct {
	// ID identifies this session instance so that late-resolving network
	// calls issued against an abandoned session can be discarded.
	ID           string
	Tier         Tier
	Questions    []Question
	Answers      []int
	CurrentIndex int
	Status       Status
}

// TierSets maps each difficulty tier to its normalized question set, as
// returned by the generation gateway's combined response. An absent or
// empty set means the tier is unavailable.
type TierSets map[Tier][]Question

// Controller drives one student through the tier progression. It owns the
// active session and gates tier transitions; scoring side effects belong to
// the scoring engine.
type Controller struct {
	sets    TierSets
	session *Session
	log     *zap.Logger
}

// NewController creates a Controller over the combined question sets
// fetched at quiz start.
func NewController(sets TierSets, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if sets == nil {
		sets = TierSets{}
	}
	return &Controller{sets: sets, log: log}
}

// Session returns the active session, or nil before the first StartLevel.
func (c *Controller) Session() *Session {
	return c.session
}

// IsActive reports whether sessionID identifies the current session. Used
// by resolution handlers to discard stale results.
func (c *Controller) IsActive(sessionID string) bool {
	return c.session != nil && c.session.ID == sessionID
}

// StartLevel begins a fresh session for the given tier. An empty question
// set returns ErrGenerationUnavailable and leaves no active session; the
// caller treats the tier as skipped.
func (c *Controller) StartLevel(tier Tier) error {
	questions := c.sets[tier]
	if len(questions) == 0 {
		c.log.Warn("tier has no questions, skipping",
			zap.String("tier", string(tier)))
		return ErrGenerationUnavailable
	}

	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = Unanswered
	}

	c.session = &Session{
		ID:        uuid.NewString(),
		Tier:      tier,
		Questions: questions,
		Answers:   answers,
		Status:    StatusActive,
	}

	c.log.Info("level started",
		zap.String("tier", string(tier)),
		zap.String("session", c.session.ID),
		zap.Int("questions", len(questions)))

	return nil
}

// RecordAnswer stores the student's selection for the question at index.
// It is a no-op when the index is out of range, the session is not active,
// or the slot was already answered (first write wins, which makes duplicate
// tap events harmless). The returned bool is immediate UI feedback only;
// scoring recomputes correctness independently.
func (c *Controller) RecordAnswer(index, selectedOption int) bool {
	s := c.session
	if s == nil || s.Status != StatusActive {
		return false
	}
	if index < 0 || index >= len(s.Questions) {
		c.log.Warn("answer index out of range, ignoring",
			zap.Int("index", index),
			zap.Int("questions", len(s.Questions)))
		return false
	}
	if s.Answers[index] != Unanswered {
		return s.Answers[index] == s.Questions[index].CorrectIndex
	}

	s.Answers[index] = selectedOption
	return selectedOption == s.Questions[index].CorrectIndex
}

// Advance moves to the next question. It re-checks what the UI should
// already gate: no advance past the last question, and no advance while
// the current question is unanswered.
func (c *Controller) Advance() {
	s := c.session
	if s == nil || s.Status != StatusActive {
		return
	}
	if s.CurrentIndex >= len(s.Questions)-1 {
		return
	}
	if s.Answers[s.CurrentIndex] == Unanswered {
		return
	}
	s.CurrentIndex++
}

// SubmitLevel completes the session. Unanswered questions stay at the
// sentinel and score as wrong. The first call returns the session with
// ok=true, meaning the caller must score it; any repeat call returns
// ok=false so a double-submit can never reach the scoring engine twice.
func (c *Controller) SubmitLevel() (*Session, bool) {
	s := c.session
	if s == nil || s.Status != StatusActive {
		return s, false
	}

	s.Status = StatusCompleted

	c.log.Info("level submitted",
		zap.String("tier", string(s.Tier)),
		zap.String("session", s.ID),
		zap.Int("answered", s.answeredCount()))

	return s, true
}

// NextLevel starts the tier after the completed one. It is permitted only
// from a completed session; when the next tier is missing or empty the
// attempt simply ends (ok=false, no error).
func (c *Controller) NextLevel() (Tier, bool) {
	s := c.session
	if s == nil || s.Status != StatusCompleted {
		return "", false
	}

	next, ok := s.Tier.Next()
	if !ok {
		return "", false
	}
	if err := c.StartLevel(next); err != nil {
		return "", false
	}
	return next, true
}

func (s *Session) answeredCount() int {
	n := 0
	for _, a := range s.Answers {
		if a != Unanswered {
			n++
		}
	}
	return n
}
