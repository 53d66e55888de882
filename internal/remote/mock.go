package remote

import (
	"context"
	"sync"
)

// MockScoreResponse is a canned response for the MockScorer.
type MockScoreResponse struct {
	Resp *ScoreResponse
	Err  error
}

// MockScorer is a deterministic Scorer for testing. It returns canned
// responses in FIFO order and records all requests.
type MockScorer struct {
	mu        sync.Mutex
	responses []MockScoreResponse
	Calls     []ScoreRequest
}

// NewMockScorer creates a MockScorer with the given canned responses.
func NewMockScorer(responses ...MockScoreResponse) *MockScorer {
	return &MockScorer{responses: responses}
}

// Score returns the next canned response or ErrServiceUnavailable if the
// queue is empty.
func (m *MockScorer) Score(_ context.Context, req ScoreRequest) (*ScoreResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrServiceUnavailable{Service: "scoring"}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Resp, nil
}

// CallCount returns the number of Score calls made.
func (m *MockScorer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockGenerateResponse is a canned response for the MockGenerator.
type MockGenerateResponse struct {
	Resp *GenerateResponse
	Err  error
}

// MockGenerator is a deterministic Generator for testing.
type MockGenerator struct {
	mu        sync.Mutex
	responses []MockGenerateResponse
	Calls     []GenerateRequest
}

// NewMockGenerator creates a MockGenerator with the given canned responses.
func NewMockGenerator(responses ...MockGenerateResponse) *MockGenerator {
	return &MockGenerator{responses: responses}
}

// Generate returns the next canned response or ErrServiceUnavailable if
// the queue is empty.
func (m *MockGenerator) Generate(_ context.Context, req GenerateRequest) (*GenerateResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		return nil, &ErrServiceUnavailable{Service: "generation"}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Resp, nil
}
