package llm

import (
	"context"
	"strings"
	"sync"
)

// MockResponse is a canned response for the MockProvider. Chunks, when set,
// are delivered one delta at a time by Stream; otherwise Stream delivers
// Text as a single delta. Err, when set, is returned after the chunks.
type MockResponse struct {
	Text   string
	Chunks []string
	Usage  Usage
	Err    error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) next(req Request) (MockResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		return MockResponse{}, false
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, true
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	resp, ok := m.next(req)
	if !ok {
		return nil, &ErrProviderUnavailable{}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}

	text := resp.Text
	if text == "" {
		text = strings.Join(resp.Chunks, "")
	}
	return &Response{
		Text:       text,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// Stream replays the next canned response as deltas. It honors ctx
// cancellation between deltas.
func (m *MockProvider) Stream(ctx context.Context, req Request, onDelta DeltaFunc) (*Response, error) {
	resp, ok := m.next(req)
	if !ok {
		return nil, &ErrProviderUnavailable{}
	}

	chunks := resp.Chunks
	if len(chunks) == 0 && resp.Text != "" {
		chunks = []string{resp.Text}
	}

	var text strings.Builder
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text.WriteString(c)
		if err := onDelta(c); err != nil {
			return nil, err
		}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Text:       text.String(),
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate and Stream calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
