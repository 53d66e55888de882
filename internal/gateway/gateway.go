// Package gateway fetches the combined three-tier question sets from the
// generation service and normalizes their heterogeneous shapes into the
// canonical quiz.Question. Field-name variants are resolved here and only
// here.
package gateway

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saranya/tutorquest/internal/quiz"
	"github.com/saranya/tutorquest/internal/remote"
)

// ChapterRequest identifies the chapter a quiz is generated for.
type ChapterRequest struct {
	StudentID         string
	SubjectID         string
	GradeBand         string
	ChapterID         string
	ChapterSummary    string
	SubchapterID      string
	SubchapterSummary string
	NumQuestions      int
}

// Gateway is the QuizGenerationGateway. Remote failures are absorbed at
// this boundary: the worst case is an empty tier set, which the session
// controller treats as a skippable tier.
type Gateway struct {
	gen remote.Generator
	log *zap.Logger
}

// New creates a Gateway over the given generation client.
func New(gen remote.Generator, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{gen: gen, log: log}
}

// FetchChapterQuiz requests the combined question sets for a chapter.
// Every failure mode collapses to "fewer (possibly zero) available tiers",
// never an error that would abort the quiz.
func (g *Gateway) FetchChapterQuiz(ctx context.Context, req ChapterRequest) quiz.TierSets {
	sets := quiz.TierSets{}
	if g.gen == nil {
		return sets
	}

	resp, err := g.gen.Generate(ctx, remote.GenerateRequest{
		StudentID:         req.StudentID,
		SubjectID:         req.SubjectID,
		GradeBand:         req.GradeBand,
		ChapterID:         req.ChapterID,
		ChapterSummary:    req.ChapterSummary,
		SubchapterID:      req.SubchapterID,
		SubchapterSummary: req.SubchapterSummary,
		NumQuestions:      req.NumQuestions,
		Difficulty:        "all",
	})
	if err != nil {
		g.log.Warn("question generation failed, no tiers available",
			zap.String("chapter", req.ChapterID),
			zap.Error(err))
		return sets
	}

	for tier, batches := range map[quiz.Tier][]remote.QuestionSet{
		quiz.TierBasic:  resp.Basic,
		quiz.TierMedium: resp.Medium,
		quiz.TierHard:   resp.Hard,
	} {
		questions := g.normalizeTier(tier, batches)
		if len(questions) == 0 {
			g.log.Info("tier unavailable",
				zap.String("tier", string(tier)),
				zap.String("chapter", req.ChapterID))
			continue
		}
		sets[tier] = questions
	}

	return sets
}

// normalizeTier flattens a tier's batches into canonical questions,
// dropping any that fail normalization.
func (g *Gateway) normalizeTier(tier quiz.Tier, batches []remote.QuestionSet) []quiz.Question {
	var questions []quiz.Question
	for _, batch := range batches {
		for _, raw := range batch.Questions {
			q, ok := normalizeQuestion(raw)
			if !ok {
				g.log.Warn("dropping malformed question",
					zap.String("tier", string(tier)),
					zap.String("prompt", raw.Prompt()))
				continue
			}
			questions = append(questions, q)
		}
	}
	return questions
}

// normalizeQuestion converts one duck-typed source question into the
// canonical shape. Questions without a prompt, with fewer than two
// options, or with an out-of-range answer key are rejected.
func normalizeQuestion(raw remote.RawQuestion) (quiz.Question, bool) {
	prompt := raw.Prompt()
	if prompt == "" {
		return quiz.Question{}, false
	}
	if len(raw.Options) < 2 {
		return quiz.Question{}, false
	}

	correct, ok := raw.CorrectIndex()
	if !ok || correct < 0 || correct >= len(raw.Options) {
		return quiz.Question{}, false
	}

	id := raw.ID
	if id == "" {
		id = uuid.NewString()
	}

	return quiz.Question{
		ID:           id,
		Prompt:       prompt,
		Options:      raw.Options,
		CorrectIndex: correct,
		Explanation:  raw.Explanation,
	}, true
}
