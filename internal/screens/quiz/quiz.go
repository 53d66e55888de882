// Package quiz implements the interactive quiz screen: tier loading, the
// question loop, answer feedback and level scoring.
package quiz

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/saranya/tutorquest/internal/gateway"
	quizcore "github.com/saranya/tutorquest/internal/quiz"
	"github.com/saranya/tutorquest/internal/remote"
	"github.com/saranya/tutorquest/internal/reward"
	"github.com/saranya/tutorquest/internal/router"
	"github.com/saranya/tutorquest/internal/scoring"
	"github.com/saranya/tutorquest/internal/screens/summary"
	"github.com/saranya/tutorquest/internal/ui/components"
	"github.com/saranya/tutorquest/internal/ui/layout"
	"github.com/saranya/tutorquest/internal/ui/theme"
)

type phase int

const (
	phaseLoading phase = iota
	phaseQuestion
	phaseFeedback
	phaseScoring
	phaseResult
	phaseEmpty
)

// QuizScreen drives one quiz run from tier loading through scoring.
type QuizScreen struct {
	gw      *gateway.Gateway
	scorer  remote.Scorer
	ledger  *reward.Ledger
	chapter gateway.ChapterRequest
	meta    scoring.Context
	log     *zap.Logger

	controller *quizcore.Controller
	engine     *scoring.Engine
	phase      phase
	spin       spinner.Model
	choice     components.MultiChoice
	wasCorrect bool
	result     scoring.Result
	results    []summary.TierResult
}

var _ router.Screen = (*QuizScreen)(nil)
var _ router.KeyHintProvider = (*QuizScreen)(nil)

// New creates the quiz screen. The question sets are fetched when the
// screen initializes; the scoring engine is built per run so the session
// controller can vouch for session freshness.
func New(gw *gateway.Gateway, scorer remote.Scorer, ledger *reward.Ledger, chapter gateway.ChapterRequest, meta scoring.Context, log *zap.Logger) *QuizScreen {
	if log == nil {
		log = zap.NewNop()
	}
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	return &QuizScreen{
		gw:      gw,
		scorer:  scorer,
		ledger:  ledger,
		chapter: chapter,
		meta:    meta,
		log:     log,
		spin:    spin,
	}
}

type tiersLoadedMsg struct {
	Sets quizcore.TierSets
}

type scoredMsg struct {
	Session *quizcore.Session
	Result  scoring.Result
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(s.spin.Tick, s.fetchTiers())
}

func (s *QuizScreen) Title() string {
	if sess := s.session(); sess != nil {
		return fmt.Sprintf("Quiz · %s", sess.Tier.DisplayName())
	}
	return "Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "↑↓/1-4", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Esc", Description: "Leave quiz"},
		}
	case phaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case phaseResult:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next level"},
			{Key: "Esc", Description: "Home"},
		}
	case phaseEmpty:
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	default:
		return nil
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tiersLoadedMsg:
		return s.handleTiersLoaded(msg)

	case scoredMsg:
		return s.handleScored(msg)

	case spinner.TickMsg:
		if s.phase == phaseLoading || s.phase == phaseScoring {
			var cmd tea.Cmd
			s.spin, cmd = s.spin.Update(msg)
			return s, cmd
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

// fetchTiers loads the three tier question sets off the UI loop.
func (s *QuizScreen) fetchTiers() tea.Cmd {
	return func() tea.Msg {
		sets := s.gw.FetchChapterQuiz(context.Background(), s.chapter)
		return tiersLoadedMsg{Sets: sets}
	}
}

func (s *QuizScreen) handleTiersLoaded(msg tiersLoadedMsg) (router.Screen, tea.Cmd) {
	s.controller = quizcore.NewController(msg.Sets, s.log)
	s.engine = scoring.NewEngine(s.scorer, s.ledger, s.controller, s.log)

	// Start at the lowest tier that has questions.
	for _, tier := range quizcore.AllTiers() {
		if err := s.controller.StartLevel(tier); err == nil {
			s.beginQuestion()
			return s, nil
		}
	}

	s.phase = phaseEmpty
	return s, nil
}

// handleScored runs on the UI loop, which is why the reward is applied
// here and not in the command that resolved the score.
func (s *QuizScreen) handleScored(msg scoredMsg) (router.Screen, tea.Cmd) {
	s.engine.Apply(context.Background(), msg.Session.ID, msg.Result)

	s.result = msg.Result
	s.results = append(s.results, summary.TierResult{
		Tier:   msg.Session.Tier,
		Result: msg.Result,
	})
	s.phase = phaseResult
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	switch s.phase {
	case phaseQuestion:
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		if s.choice.Submitted {
			sess := s.session()
			s.wasCorrect = s.controller.RecordAnswer(sess.CurrentIndex, s.choice.ChosenIndex)
			s.phase = phaseFeedback
		}
		return s, cmd

	case phaseFeedback:
		return s.afterFeedback()

	case phaseResult:
		if msg.String() == "enter" {
			if _, ok := s.controller.NextLevel(); ok {
				s.beginQuestion()
				return s, nil
			}
			return s, s.showSummary()
		}
		return s, nil

	case phaseEmpty:
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	// Loading and scoring ignore input; a level can only be submitted once.
	return s, nil
}

// afterFeedback advances to the next question, or submits the level when
// the last question has been answered.
func (s *QuizScreen) afterFeedback() (router.Screen, tea.Cmd) {
	sess := s.session()
	before := sess.CurrentIndex
	s.controller.Advance()

	if s.session().CurrentIndex != before {
		s.beginQuestion()
		return s, nil
	}

	submitted, ok := s.controller.SubmitLevel()
	if !ok {
		return s, nil
	}

	s.phase = phaseScoring
	meta := s.meta
	meta.Tier = submitted.Tier
	engine := s.engine
	// The command only resolves the score; the reward side effects wait
	// until the message lands back on the UI loop.
	return s, tea.Batch(s.spin.Tick, func() tea.Msg {
		return scoredMsg{
			Session: submitted,
			Result:  engine.Resolve(context.Background(), submitted, meta),
		}
	})
}

func (s *QuizScreen) beginQuestion() {
	sess := s.session()
	q := sess.Questions[sess.CurrentIndex]
	s.choice = components.NewMultiChoice(q.Prompt, q.Options, q.CorrectIndex)
	s.phase = phaseQuestion
}

func (s *QuizScreen) showSummary() tea.Cmd {
	results := s.results
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: summary.New(results)}
	}
}

func (s *QuizScreen) session() *quizcore.Session {
	if s.controller == nil {
		return nil
	}
	return s.controller.Session()
}

func (s *QuizScreen) View(width, height int) string {
	switch s.phase {
	case phaseLoading:
		return layout.Center(s.spin.View()+" Preparing your quiz...", width, height)

	case phaseEmpty:
		msg := theme.Subtitle.Render("No questions are available right now.\nTry again in a little while.")
		return layout.Center(msg, width, height)

	case phaseScoring:
		return layout.Center(s.spin.View()+" Checking your answers...", width, height)

	case phaseResult:
		return s.renderResult(width, height)

	case phaseQuestion, phaseFeedback:
		return s.renderQuestion(width, height)
	}
	return ""
}

func (s *QuizScreen) renderQuestion(width, height int) string {
	sess := s.session()
	total := len(sess.Questions)

	var b strings.Builder
	bar := components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", sess.CurrentIndex+1, total),
		float64(sess.CurrentIndex)/float64(total),
		false,
		min(width-8, 60),
	)
	b.WriteString(bar.View())
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())

	if s.phase == phaseFeedback {
		b.WriteString("\n")
		if s.wasCorrect {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite."))
		}
		q := sess.Questions[sess.CurrentIndex]
		if q.Explanation != "" {
			b.WriteString("\n" + theme.Hint.Render(q.Explanation))
		}
	}

	return layout.Center(b.String(), width, height)
}

func (s *QuizScreen) renderResult(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Level complete!"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("Score: %s  (%.0f%%)", s.result.Score, s.result.Percentage)))
	b.WriteString("\n")
	b.WriteString(theme.CoinAmount.Render(fmt.Sprintf("+%d coins", s.result.CoinsEarned)))
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Render(s.result.Message))

	return layout.Center(theme.Card.Render(b.String()), width, height)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
