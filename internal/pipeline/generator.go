package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"storyreel/internal/brief"
	"storyreel/internal/logging"
	"storyreel/internal/prompt"
	"storyreel/internal/scenario"
	"storyreel/internal/services/genai"
)

// Provider produces raw scenario text for a built request.
type Provider interface {
	GenerateDocument(ctx context.Context, req *prompt.Request) (string, error)
}

// Options tune validation behavior for every run of a generator.
type Options struct {
	// DriftRatio overrides the duration drift tolerance ratio. Zero keeps
	// the validator default.
	DriftRatio float64
	// Sampling overrides the default sampling parameters when non-zero.
	Sampling prompt.Sampling
}

// Result is a completed, validated generation run.
type Result struct {
	RunID    string
	Brief    *brief.Brief
	Document *scenario.Document
	Elapsed  time.Duration
}

// Generator wires the pipeline stages together. It is safe for concurrent
// use; runs share no state.
type Generator struct {
	provider Provider
	logger   *slog.Logger
	opts     Options
}

// NewGenerator constructs a generator. A nil logger disables logging.
func NewGenerator(provider Provider, logger *slog.Logger, opts Options) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{
		provider: provider,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		opts:     opts,
	}
}

// Generate runs one full generation. Each run gets a fresh correlation id;
// the returned error is a *Error carrying it, except context cancellation
// and deadline expiry, which pass through so callers can tell deliberate
// shutdown from provider trouble.
func (g *Generator) Generate(ctx context.Context, raw brief.RawInput) (*Result, error) {
	runID := uuid.NewString()
	started := time.Now()
	logger := g.logger.With(slog.String("run_id", runID))

	b, err := brief.Assemble(raw)
	if err != nil {
		logger.Warn("input rejected", slog.Any("error", err))
		return nil, &Error{Kind: FailureInputRejected, RunID: runID, Err: err}
	}
	logger.Info("brief assembled",
		slog.Int("total_seconds", b.TotalSeconds),
		slog.Int("cut_count", b.CutCount),
		slog.String("locale", b.Locale))

	req, err := prompt.Build(b)
	if err != nil {
		return nil, &Error{Kind: FailureInputRejected, RunID: runID, Err: err}
	}
	if g.opts.Sampling != (prompt.Sampling{}) {
		req.Sampling = g.opts.Sampling
	}

	rawText, err := g.provider.GenerateDocument(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("run canceled", slog.Any("error", err))
			return nil, err
		}
		kind := classifyProviderError(err)
		logger.Error("provider call failed",
			slog.String("kind", string(kind)),
			slog.Any("error", err))
		return nil, &Error{Kind: kind, RunID: runID, Err: err}
	}
	logger.Info("provider responded", slog.Int("payload_bytes", len(rawText)))

	doc, err := scenario.Decode(rawText)
	if err != nil {
		kind := FailureMalformedPayload
		if errors.Is(err, scenario.ErrEmptyPayload) {
			kind = FailureEmptyResponse
		}
		logger.Error("payload rejected",
			slog.String("kind", string(kind)),
			slog.Any("error", err))
		return nil, &Error{Kind: kind, RunID: runID, Err: err}
	}

	accepted, err := scenario.Validate(doc, scenario.ValidateOptions{
		RequestedSeconds: b.TotalSeconds,
		CutSeconds:       b.CutSeconds,
		CutCount:         b.CutCount,
		DriftRatio:       g.opts.DriftRatio,
	})
	if err != nil {
		logger.Error("document rejected", slog.Any("error", err))
		return nil, &Error{Kind: FailureInvariantViolation, RunID: runID, Err: err}
	}

	elapsed := time.Since(started)
	logger.Info("document accepted",
		slog.String("title", accepted.Title),
		slog.Int("scenes", len(accepted.Scenes)),
		slog.Duration("elapsed", elapsed))
	return &Result{RunID: runID, Brief: b, Document: accepted, Elapsed: elapsed}, nil
}

func classifyProviderError(err error) FailureKind {
	if errors.Is(err, genai.ErrEmptyResponse) {
		return FailureEmptyResponse
	}
	return FailureProviderUnavailable
}
