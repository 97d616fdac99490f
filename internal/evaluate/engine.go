package evaluate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"markwise/internal/ai"
	"markwise/internal/bank"
)

const defaultGatewayTimeout = 45 * time.Second

// Engine grades one answer per call: derive weights, build the prompt,
// make exactly one gateway call, parse the output, aggregate locally.
// Engines hold no mutable state, so one instance can grade answers from
// any number of goroutines.
type Engine struct {
	gateway ai.Gateway
	model   string
	runsDir string
	timeout time.Duration
	logger  zerolog.Logger
}

type EngineOptions struct {
	// Model is forwarded to the gateway; it never changes scoring.
	Model string
	// RunsDir enables the response cache when non-empty.
	RunsDir string
	// Timeout bounds each gateway call. Ignored when the caller's context
	// already carries a deadline.
	Timeout time.Duration
	Logger  zerolog.Logger
}

func NewEngine(gw ai.Gateway, opts EngineOptions) *Engine {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}
	return &Engine{
		gateway: gw,
		model:   opts.Model,
		runsDir: opts.RunsDir,
		timeout: timeout,
		logger:  opts.Logger,
	}
}

// Evaluate grades a single answer. Gateway failures surface as
// *ai.GatewayError values and are never retried here; retry policy, if
// any, belongs to the batch caller.
func (e *Engine) Evaluate(ctx context.Context, q bank.Question, answer bank.Answer) (EvaluationResult, error) {
	if q.MaxScore <= 0 {
		return EvaluationResult{}, fmt.Errorf("%w: question %s max_score must be positive", ErrConfiguration, q.ID)
	}

	weights := DeriveWeights(q)
	raw, model, err := e.rawResponse(ctx, q, weights, answer.Text)
	if err != nil {
		return EvaluationResult{}, err
	}

	card := ParseScores(raw)
	if card.Degraded {
		e.logger.Warn().
			Str("question_id", q.ID).
			Str("student_id", answer.StudentID).
			Strs("defaulted", card.Defaulted).
			Msg("degraded model response, sub-scores defaulted")
	}

	result := Aggregate(q, weights, card)
	result.StudentID = answer.StudentID
	result.Model = model
	result.PromptVersion = promptVersion
	return result, nil
}

func (e *Engine) rawResponse(ctx context.Context, q bank.Question, w DimensionWeights, answer string) (string, string, error) {
	key := ""
	if e.runsDir != "" {
		key = cacheKey(q, answer, e.model)
		if cached, err := loadCache(e.runsDir, key); err == nil {
			e.logger.Debug().Str("question_id", q.ID).Msg("gateway cache hit")
			return cached.RawText, cached.Model, nil
		}
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	resp, err := e.gateway.Generate(ctx, ai.Request{
		SystemPrompt:    buildSystemPrompt(),
		UserPrompt:      buildUserPrompt(q, w, answer),
		ResponseSchema:  scoreResponseSchema(),
		Temperature:     0,
		MaxOutputTokens: 1024,
		Model:           e.model,
	})
	if err != nil {
		return "", "", err
	}

	if key != "" {
		entry := CachedResponse{
			Model:         resp.Model,
			PromptVersion: promptVersion,
			RawText:       resp.Text,
			Usage:         resp.Usage,
		}
		if err := saveCache(e.runsDir, key, entry); err != nil {
			e.logger.Warn().Err(err).Msg("gateway cache save failed")
		}
	}
	return resp.Text, resp.Model, nil
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.timeout)
}
