package llm

import (
	"context"
	"time"

	"github.com/abhisek/worksheetgen/internal/logger"
	"github.com/abhisek/worksheetgen/internal/store"
)

// LoggingProvider is a decorator that records every LLM call as a usage
// event and a structured log line. Prompt and response bodies are not
// recorded.
type LoggingProvider struct {
	inner     Provider
	vendor    string
	eventRepo store.EventRepo
	log       *logger.Logger
}

// WithLogging wraps a Provider with event logging. A nil repo or logger
// disables that sink.
func WithLogging(p Provider, vendor string, repo store.EventRepo, log *logger.Logger) Provider {
	if repo == nil {
		repo = store.NopEventRepo{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, vendor: vendor, eventRepo: repo, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	l.record(ctx, "generate", start, resp, err)
	return resp, err
}

func (l *LoggingProvider) Stream(ctx context.Context, req Request, onDelta DeltaFunc) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Stream(ctx, req, onDelta)
	l.record(ctx, "stream", start, resp, err)
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) record(ctx context.Context, mode string, start time.Time, resp *Response, err error) {
	data := store.LLMRequestEventData{
		SessionID: SessionFrom(ctx),
		Provider:  l.vendor,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		Mode:      mode,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.ResponseLen = len(resp.Text)
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	fields := []any{
		"session_id", data.SessionID,
		"provider", data.Provider,
		"model", data.Model,
		"purpose", data.Purpose,
		"mode", mode,
		"latency_ms", data.LatencyMs,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
	}
	if err != nil {
		l.log.Warn("llm call failed", append(fields, "error", err)...)
	} else {
		l.log.Info("llm call", fields...)
	}

	// The usage log must never fail the call; ctx may already be cancelled.
	if logErr := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
		l.log.Warn("failed to record LLM request event", "error", logErr)
	}
}
