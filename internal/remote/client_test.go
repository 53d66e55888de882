package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testScoreRequest() ScoreRequest {
	return ScoreRequest{
		Answers:        []int{1, 0, 2},
		CorrectAnswers: []int{1, 1, 2},
		Difficulty:     "basic",
		ChapterID:      "ch-1",
		SubjectID:      "math",
		StudentID:      "student-1",
	}
}

func TestClientScore_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"score":"2/3","percentage":66.67,"coins_earned":20,"message":"Nice work!"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{ScoringURL: srv.URL})
	resp, err := client.Score(context.Background(), testScoreRequest())
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}

	if resp.Score != "2/3" {
		t.Errorf("Score = %q, want 2/3", resp.Score)
	}
	if resp.CoinsEarned != 20 {
		t.Errorf("CoinsEarned = %d, want 20", resp.CoinsEarned)
	}
}

func TestClientScore_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{ScoringURL: srv.URL})
	_, err := client.Score(context.Background(), testScoreRequest())

	var unavail *ErrServiceUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("error = %v, want ErrServiceUnavailable", err)
	}
	if unavail.Service != "scoring" {
		t.Errorf("Service = %q, want scoring", unavail.Service)
	}
}

func TestClientScore_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(Config{ScoringURL: srv.URL})
	_, err := client.Score(context.Background(), testScoreRequest())

	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("error = %v, want ErrRateLimit", err)
	}
	if rl.RetryAfter != 2*time.Second {
		t.Errorf("RetryAfter = %s, want 2s", rl.RetryAfter)
	}
}

func TestClientScore_MalformedPayload(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `<html>boom</html>`},
		{"missing fields", `{"score":"2/3"}`},
		{"wrong types", `{"score":3,"percentage":"a lot","coins_earned":20,"message":"hi"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient(Config{ScoringURL: srv.URL})
			_, err := client.Score(context.Background(), testScoreRequest())

			var invalid *ErrInvalidResponse
			if !errors.As(err, &invalid) {
				t.Fatalf("error = %v, want ErrInvalidResponse", err)
			}
		})
	}
}

func TestClientScore_NoEndpoint(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.Score(context.Background(), testScoreRequest())

	var unavail *ErrServiceUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("error = %v, want ErrServiceUnavailable", err)
	}
}

func TestClientGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"basic": [{"questions": [
				{"question_text": "2+2?", "options": ["3","4"], "correct_option_index": 1}
			]}],
			"medium": [],
			"hard": []
		}`))
	}))
	defer srv.Close()

	client := NewClient(Config{GenerationURL: srv.URL})
	resp, err := client.Generate(context.Background(), GenerateRequest{StudentID: "s", Difficulty: "all"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if len(resp.Basic) != 1 || len(resp.Basic[0].Questions) != 1 {
		t.Fatalf("unexpected basic sets: %+v", resp.Basic)
	}
	q := resp.Basic[0].Questions[0]
	if q.Prompt() != "2+2?" {
		t.Errorf("Prompt = %q, want 2+2?", q.Prompt())
	}
	if idx, ok := q.CorrectIndex(); !ok || idx != 1 {
		t.Errorf("CorrectIndex = %d, %v", idx, ok)
	}
	if len(resp.Medium) != 0 {
		t.Errorf("Medium sets = %d, want 0", len(resp.Medium))
	}
}

func TestRawQuestion_DuckTypedFields(t *testing.T) {
	one := 1
	two := 2

	q := RawQuestion{Question: "alt prompt", Correct: &two}
	if q.Prompt() != "alt prompt" {
		t.Errorf("Prompt = %q, want alt prompt", q.Prompt())
	}
	if idx, ok := q.CorrectIndex(); !ok || idx != 2 {
		t.Errorf("CorrectIndex = %d, %v, want 2, true", idx, ok)
	}

	// question_text wins over question, correct_option_index over correct.
	q = RawQuestion{QuestionText: "primary", Question: "alt", CorrectOptionIndex: &one, Correct: &two}
	if q.Prompt() != "primary" {
		t.Errorf("Prompt = %q, want primary", q.Prompt())
	}
	if idx, _ := q.CorrectIndex(); idx != 1 {
		t.Errorf("CorrectIndex = %d, want 1", idx)
	}

	q = RawQuestion{QuestionText: "no key"}
	if _, ok := q.CorrectIndex(); ok {
		t.Error("expected no correct index")
	}
}
