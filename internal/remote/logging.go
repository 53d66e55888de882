package remote

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RequestEventData captures one remote call for the request log.
type RequestEventData struct {
	Service      string
	Operation    string
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RequestLog appends remote call records. The store implements it; a nil
// log disables persistence.
type RequestLog interface {
	AppendRequestEvent(ctx context.Context, data RequestEventData) error
}

// loggingScorer and loggingGenerator are decorators that record every
// remote call as a request event and a structured log line.
type loggingScorer struct {
	inner Scorer
	repo  RequestLog
	log   *zap.Logger
}

type loggingGenerator struct {
	inner Generator
	repo  RequestLog
	log   *zap.Logger
}

// WithScoreLogging wraps a Scorer with request logging.
func WithScoreLogging(s Scorer, repo RequestLog, log *zap.Logger) Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &loggingScorer{inner: s, repo: repo, log: log}
}

// WithGenerateLogging wraps a Generator with request logging.
func WithGenerateLogging(g Generator, repo RequestLog, log *zap.Logger) Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &loggingGenerator{inner: g, repo: repo, log: log}
}

func (l *loggingScorer) Score(ctx context.Context, req ScoreRequest) (*ScoreResponse, error) {
	start := time.Now()
	resp, err := l.inner.Score(ctx, req)
	l.record(ctx, "scoring", "score", start, err)
	return resp, err
}

func (l *loggingScorer) record(ctx context.Context, service, op string, start time.Time, err error) {
	recordRequest(ctx, l.repo, l.log, service, op, start, err)
}

func (l *loggingGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	recordRequest(ctx, l.repo, l.log, "generation", "generate", start, err)
	return resp, err
}

func recordRequest(ctx context.Context, repo RequestLog, log *zap.Logger, service, op string, start time.Time, err error) {
	latencyMs := time.Since(start).Milliseconds()

	data := RequestEventData{
		Service:   service,
		Operation: op,
		LatencyMs: latencyMs,
		Success:   err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	if err != nil {
		log.Warn("remote call failed",
			zap.String("service", service),
			zap.String("operation", op),
			zap.Int64("latency_ms", latencyMs),
			zap.Error(err))
	} else {
		log.Debug("remote call ok",
			zap.String("service", service),
			zap.String("operation", op),
			zap.Int64("latency_ms", latencyMs))
	}

	// Record the event but don't fail the request if logging fails.
	if repo != nil {
		if logErr := repo.AppendRequestEvent(ctx, data); logErr != nil {
			log.Warn("failed to log request event", zap.Error(logErr))
		}
	}
}
