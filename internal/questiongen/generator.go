package questiongen

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/worksheetgen/internal/llm"
	"github.com/abhisek/worksheetgen/internal/logger"
	"github.com/abhisek/worksheetgen/internal/worksheet"
)

const purpose = "worksheet"

// Source records where a result's questions came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Result is the outcome of one generation session. It always carries a
// complete, normalized question list.
type Result struct {
	SessionID string               `json:"session_id"`
	Questions []worksheet.Question `json:"questions"`
	Source    Source               `json:"source"`

	// FallbackReason explains why Source is SourceFallback.
	FallbackReason string `json:"fallback_reason,omitempty"`

	Model string    `json:"model,omitempty"`
	Usage llm.Usage `json:"-"`
}

// Update is delivered to a streaming caller once per received delta.
type Update struct {
	Delta string

	// Questions is the current best parse, nil until the first success.
	Questions []worksheet.Question

	// Changed is true when this delta produced a new successful parse.
	Changed bool
}

// UpdateFunc observes streaming progress. Returning an error abandons the
// session.
type UpdateFunc func(Update) error

// Generator turns worksheet requests into question lists using an LLM
// provider, falling back to placeholder questions on any failure.
type Generator struct {
	provider llm.Provider
	config   Config
	log      *logger.Logger
	tracer   trace.Tracer
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{
		provider: provider,
		config:   cfg,
		log:      log,
		tracer:   otel.Tracer("github.com/abhisek/worksheetgen/internal/questiongen"),
	}
}

func (g *Generator) request(req worksheet.Request) llm.Request {
	return llm.UserPrompt(BuildPrompt(req), g.config.MaxTokens, g.config.Temperature)
}

func (g *Generator) start(ctx context.Context, name string, req worksheet.Request) (context.Context, trace.Span, string) {
	sessionID := uuid.NewString()
	ctx = llm.WithSession(llm.WithPurpose(ctx, purpose), sessionID)
	ctx, span := g.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("worksheet.session_id", sessionID),
		attribute.String("worksheet.grade", req.Grade),
		attribute.Int("worksheet.count", req.Count),
		attribute.String("llm.model", g.provider.ModelID()),
	))
	return ctx, span, sessionID
}

func (g *Generator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.config.Timeout > 0 {
		return context.WithTimeout(ctx, g.config.Timeout)
	}
	return context.WithCancel(ctx)
}

// Generate makes a single non-streaming provider call. The only error it
// returns is the caller's context error; every other failure produces a
// fallback Result.
func (g *Generator) Generate(ctx context.Context, req worksheet.Request) (*Result, error) {
	ctx, span, sessionID := g.start(ctx, "questiongen.Generate", req)
	defer span.End()
	log := g.log.With("session_id", sessionID)

	callCtx, cancel := g.callContext(ctx)
	resp, err := g.provider.Generate(callCtx, g.request(req))
	cancel()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, g.abandon(span, log, ctxErr)
		}
		return g.fallback(span, log, sessionID, req, fmt.Errorf("provider: %w", err)), nil
	}

	qs, err := Extract(resp.Text, req.Types, true)
	if err != nil {
		return g.fallback(span, log, sessionID, req, err), nil
	}
	return g.finish(span, log, sessionID, req, qs, resp), nil
}

// Stream makes a single streaming provider call. onUpdate runs synchronously
// for every delta, after the extractor, before the next delta is read. If ctx
// is cancelled or onUpdate returns an error, the partial result is discarded
// and the error is returned. Every other failure produces a fallback Result.
func (g *Generator) Stream(ctx context.Context, req worksheet.Request, onUpdate UpdateFunc) (*Result, error) {
	ctx, span, sessionID := g.start(ctx, "questiongen.Stream", req)
	defer span.End()
	log := g.log.With("session_id", sessionID)

	acc := NewStream(req.Types, log)
	var callbackErr error

	callCtx, cancel := g.callContext(ctx)
	resp, err := g.provider.Stream(callCtx, g.request(req), func(delta string) error {
		qs, changed := acc.Append(delta)
		if onUpdate == nil {
			return nil
		}
		if err := onUpdate(Update{Delta: delta, Questions: qs, Changed: changed}); err != nil {
			callbackErr = err
			return err
		}
		return nil
	})
	cancel()

	if err != nil {
		if callbackErr != nil && errors.Is(err, callbackErr) {
			return nil, g.abandon(span, log, callbackErr)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, g.abandon(span, log, ctxErr)
		}
		return g.fallback(span, log, sessionID, req, fmt.Errorf("provider: %w", err)), nil
	}

	qs, err := acc.Finish()
	if err != nil {
		return g.fallback(span, log, sessionID, req, err), nil
	}
	span.SetAttributes(attribute.Int("worksheet.parses", acc.Parses()))
	return g.finish(span, log, sessionID, req, qs, resp), nil
}

func (g *Generator) finish(span trace.Span, log *logger.Logger, sessionID string, req worksheet.Request, qs []worksheet.Question, resp *llm.Response) *Result {
	if req.Count > 0 && len(qs) > req.Count {
		log.Debug("model returned extra questions", "got", len(qs), "want", req.Count)
		qs = qs[:req.Count]
	} else if len(qs) < req.Count {
		log.Warn("model returned fewer questions than requested", "got", len(qs), "want", req.Count)
	}

	span.SetAttributes(
		attribute.String("worksheet.source", string(SourceModel)),
		attribute.Int("worksheet.questions", len(qs)),
	)
	log.Info("worksheet generated", "questions", len(qs), "model", resp.Model)

	return &Result{
		SessionID: sessionID,
		Questions: qs,
		Source:    SourceModel,
		Model:     resp.Model,
		Usage:     resp.Usage,
	}
}

func (g *Generator) fallback(span trace.Span, log *logger.Logger, sessionID string, req worksheet.Request, cause error) *Result {
	log.Warn("using fallback questions", "reason", cause.Error(), "count", req.Count)
	span.SetAttributes(attribute.String("worksheet.source", string(SourceFallback)))
	span.RecordError(cause)

	return &Result{
		SessionID:      sessionID,
		Questions:      Fallback(req),
		Source:         SourceFallback,
		FallbackReason: cause.Error(),
	}
}

func (g *Generator) abandon(span trace.Span, log *logger.Logger, err error) error {
	log.Info("generation abandoned", "reason", err.Error())
	span.SetStatus(codes.Error, "abandoned")
	return err
}
