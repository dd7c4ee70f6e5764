package questiongen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/worksheetgen/internal/llm"
	"github.com/abhisek/worksheetgen/internal/store"
	"github.com/abhisek/worksheetgen/internal/worksheet"
)

func testRequest(count int) worksheet.Request {
	return worksheet.Request{Grade: "Grade 4", Topic: "Fractions", Count: count, Types: bothTypes, WithKey: true}
}

func testGenerator(p llm.Provider) *Generator {
	return New(p, DefaultConfig(), nil)
}

// chunk splits s into pieces of at most n bytes.
func chunk(s string, n int) []string {
	var out []string
	for len(s) > n {
		out = append(out, s[:n])
		s = s[n:]
	}
	return append(out, s)
}

func TestGenerator_StreamModelSuccess(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Chunks: chunk(validArray, 7),
		Usage:  llm.Usage{InputTokens: 100, OutputTokens: 80},
	})
	g := testGenerator(mock)

	var updates, changes int
	res, err := g.Stream(context.Background(), testRequest(2), func(u Update) error {
		updates++
		if u.Changed {
			changes++
			assert.NotEmpty(t, u.Questions)
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, SourceModel, res.Source)
	assert.Empty(t, res.FallbackReason)
	assert.Len(t, res.Questions, 2)
	assert.Equal(t, "mock", res.Model)
	assert.Equal(t, 180, res.Usage.InputTokens+res.Usage.OutputTokens)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, len(chunk(validArray, 7)), updates)
	assert.Equal(t, 1, changes)

	require.Len(t, mock.Calls, 1)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Topic: Fractions")
}

// Scenario: the provider fails before any token arrives.
func TestGenerator_TransportFailureFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}})
	g := testGenerator(mock)

	res, err := g.Stream(context.Background(), testRequest(5), nil)
	require.NoError(t, err)

	assert.Equal(t, SourceFallback, res.Source)
	assert.Contains(t, res.FallbackReason, "connection refused")
	require.Len(t, res.Questions, 5)
	for i, q := range res.Questions {
		assert.Equal(t, i+1, q.ID)
		assert.Contains(t, q.Question, "Fractions")
		assert.Contains(t, q.Question, fmt.Sprintf("Question %d", i+1))
	}
}

func TestGenerator_MidStreamFailureFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Chunks: chunk(validArray, 20),
		Err:    &llm.ErrProviderUnavailable{Err: errors.New("stream reset")},
	})
	g := testGenerator(mock)

	res, err := g.Stream(context.Background(), testRequest(3), nil)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Len(t, res.Questions, 3)
}

func TestGenerator_UnparseableOutputFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Chunks: []string{"Sorry, ", "I can't help with that."}})
	g := testGenerator(mock)

	res, err := g.Stream(context.Background(), testRequest(4), nil)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Contains(t, res.FallbackReason, "parse question array")
	assert.Len(t, res.Questions, 4)
}

func TestGenerator_CancelDiscardsResult(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Chunks: chunk(validArray, 10)})
	g := testGenerator(mock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	res, err := g.Stream(ctx, testRequest(2), func(Update) error {
		calls++
		if calls == 3 {
			cancel()
		}
		return nil
	})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, calls)
}

func TestGenerator_CallbackErrorAbandons(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Chunks: chunk(validArray, 10)})
	g := testGenerator(mock)

	errStop := errors.New("client went away")
	res, err := g.Stream(context.Background(), testRequest(2), func(Update) error {
		return errStop
	})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, errStop)
}

// blockingProvider waits until its context is done.
type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) Stream(ctx context.Context, _ llm.Request, _ llm.DeltaFunc) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestGenerator_TimeoutFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 20 * time.Millisecond
	g := New(blockingProvider{}, cfg, nil)

	res, err := g.Stream(context.Background(), testRequest(2), nil)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
	assert.Contains(t, res.FallbackReason, context.DeadlineExceeded.Error())

	res, err = g.Generate(context.Background(), testRequest(2))
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, res.Source)
}

func TestGenerator_TruncatesExtraQuestions(t *testing.T) {
	var items []string
	for i := 0; i < 6; i++ {
		items = append(items, fmt.Sprintf(`{"question":"q%d","type":"fill-in-blank","answer":"a"}`, i))
	}
	mock := llm.NewMockProvider(llm.MockResponse{Text: "[" + strings.Join(items, ",") + "]"})
	g := testGenerator(mock)

	res, err := g.Generate(context.Background(), testRequest(4))
	require.NoError(t, err)
	assert.Equal(t, SourceModel, res.Source)
	require.Len(t, res.Questions, 4)
	assert.Equal(t, "q3", res.Questions[3].Question)
}

func TestGenerator_GenerateFailures(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}},
		llm.MockResponse{Text: "no json here"},
	)
	g := testGenerator(mock)

	for i := 0; i < 2; i++ {
		res, err := g.Generate(context.Background(), testRequest(3))
		require.NoError(t, err)
		assert.Equal(t, SourceFallback, res.Source)
		assert.Len(t, res.Questions, 3)
	}
}

func TestGenerator_GenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := testGenerator(blockingProvider{}).Generate(ctx, testRequest(2))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
}

type capturingRepo struct {
	store.NopEventRepo
	mu     sync.Mutex
	events []store.LLMRequestEventData
}

func (r *capturingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return nil
}

func TestGenerator_UsageEventCarriesSession(t *testing.T) {
	repo := &capturingRepo{}
	mock := llm.NewMockProvider(llm.MockResponse{Text: validArray})
	g := testGenerator(llm.WithLogging(mock, "mock", repo, nil))

	res, err := g.Stream(context.Background(), testRequest(2), nil)
	require.NoError(t, err)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, res.SessionID, ev.SessionID)
	assert.Equal(t, "worksheet", ev.Purpose)
	assert.Equal(t, "stream", ev.Mode)
	assert.True(t, ev.Success)
}
