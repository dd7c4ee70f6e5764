package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/worksheetgen/internal/logger"
	"github.com/abhisek/worksheetgen/internal/store"
)

type recordingRepo struct {
	store.NopEventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	r.events = append(r.events, d)
	return r.err
}

func TestLoggingProvider_RecordsStreamMetadata(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Chunks: []string{"[", "]"},
		Usage:  Usage{InputTokens: 7, OutputTokens: 3},
	})
	p := WithLogging(mock, "mock", repo, logger.Nop())

	ctx := WithSession(WithPurpose(context.Background(), "worksheet"), "sess-1")
	if _, err := p.Stream(ctx, Request{}, func(string) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.Mode != "stream" || e.Purpose != "worksheet" || e.SessionID != "sess-1" {
		t.Fatalf("unexpected labels %+v", e)
	}
	if !e.Success || e.InputTokens != 7 || e.ResponseLen != 2 {
		t.Fatalf("unexpected metadata %+v", e)
	}
}

func TestLoggingProvider_RecordsFailureAndPassesErrorThrough(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	boom := &ErrProviderUnavailable{Err: errors.New("down")}
	p := WithLogging(NewMockProvider(MockResponse{Err: boom}), "mock", repo, nil)

	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if len(repo.events) != 1 || repo.events[0].Success {
		t.Fatalf("expected one failed event, got %+v", repo.events)
	}
	if repo.events[0].ErrorMessage == "" {
		t.Fatal("expected error message to be recorded")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected mock model, got %q", p.ModelID())
	}
	if _, ok := p.(*LoggingProvider); !ok {
		t.Fatalf("expected logging wrapper, got %T", p)
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "nope"}, nil, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
