package remote

import "context"

// Scorer is the client abstraction for the authoritative scoring service.
// Any error from Score is absorbed by the caller's local fallback.
type Scorer interface {
	Score(ctx context.Context, req ScoreRequest) (*ScoreResponse, error)
}

// Generator is the client abstraction for the question generation service.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// ScoreRequest is the scoring service wire contract.
type ScoreRequest struct {
	Answers        []int  `json:"answers"`
	CorrectAnswers []int  `json:"correct_answers"`
	Difficulty     string `json:"difficulty"`
	ChapterID      string `json:"chapter_id"`
	SubjectID      string `json:"subject_id"`
	StudentID      string `json:"student_id"`
}

// ScoreResponse is trusted verbatim on success.
type ScoreResponse struct {
	Score       string  `json:"score"`
	Percentage  float64 `json:"percentage"`
	CoinsEarned int     `json:"coins_earned"`
	Message     string  `json:"message"`
}

// GenerateRequest is the generation service wire contract.
type GenerateRequest struct {
	StudentID         string `json:"studentId"`
	SubjectID         string `json:"subjectId"`
	GradeBand         string `json:"gradeBand"`
	ChapterID         string `json:"chapterId"`
	ChapterSummary    string `json:"chapterSummary"`
	SubchapterID      string `json:"subchapterId,omitempty"`
	SubchapterSummary string `json:"subchapterSummary,omitempty"`
	NumQuestions      int    `json:"numQuestions"`
	Difficulty        string `json:"difficulty"`
}

// GenerateResponse carries the combined per-tier question sets. An absent
// or empty array for a tier means that tier is unavailable.
type GenerateResponse struct {
	Basic  []QuestionSet `json:"basic"`
	Medium []QuestionSet `json:"medium"`
	Hard   []QuestionSet `json:"hard"`
}

// QuestionSet is one generated batch of questions for a tier.
type QuestionSet struct {
	Questions []RawQuestion `json:"questions"`
}

// RawQuestion is the duck-typed source shape. The generation service emits
// either question_text or question for the prompt, and either
// correct_option_index or correct for the answer key. The gateway
// normalizes this into the canonical shape; nothing else reads RawQuestion.
type RawQuestion struct {
	ID                 string   `json:"id"`
	QuestionText       string   `json:"question_text"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex *int     `json:"correct_option_index"`
	Correct            *int     `json:"correct"`
	Explanation        string   `json:"explanation"`
}

// Prompt returns the prompt text regardless of which source field carried it.
func (q RawQuestion) Prompt() string {
	if q.QuestionText != "" {
		return q.QuestionText
	}
	return q.Question
}

// CorrectIndex returns the answer key regardless of which source field
// carried it, or false when neither field was present.
func (q RawQuestion) CorrectIndex() (int, bool) {
	if q.CorrectOptionIndex != nil {
		return *q.CorrectOptionIndex, true
	}
	if q.Correct != nil {
		return *q.Correct, true
	}
	return 0, false
}
