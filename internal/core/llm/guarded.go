package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"github.com/markdave123-py/Pressroom/internal/core"
	"github.com/markdave123-py/Pressroom/internal/logger"
)

var tracer = otel.Tracer("github.com/markdave123-py/Pressroom/internal/core/llm")

// Guard throttles calls to an upstream model API and stops calling it while
// it keeps failing. It never retries.
type Guard struct {
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// NewGuard allows rpm calls per minute (rpm <= 0 means unlimited). The breaker
// opens once at least 3 calls in a 60s window fail at a 60% ratio, and
// half-opens after 30s.
func NewGuard(name string, rpm int) *Guard {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if rpm > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), max(1, rpm/10))
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
		// The caller giving up says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Guard{breaker: breaker, limiter: limiter}
}

// Do waits for a rate token, then runs fn through the breaker.
func (g *Guard) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	if err := g.limiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("llm.rate_limited", true))
		span.SetStatus(codes.Error, "rate limit wait")
		return fmt.Errorf("%w: %s: rate limit wait: %w", core.ErrModel, op, err)
	}

	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		span.SetAttributes(attribute.Bool("llm.circuit_open", true))
		err = fmt.Errorf("%w: %s: %w", core.ErrModel, op, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// State exposes the breaker state for health reporting.
func (g *Guard) State() gobreaker.State {
	return g.breaker.State()
}

var _ core.LLMProvider = (*GuardedLLM)(nil)

// GuardedLLM routes every Generate call through a Guard.
type GuardedLLM struct {
	next  core.LLMProvider
	guard *Guard
}

func NewGuardedLLM(next core.LLMProvider, guard *Guard) *GuardedLLM {
	return &GuardedLLM{next: next, guard: guard}
}

func (g *GuardedLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var out string
	err := g.guard.Do(ctx, "llm.generate", func(ctx context.Context) error {
		var err error
		out, err = g.next.Generate(ctx, systemPrompt, userPrompt)
		return err
	})
	return out, err
}

var _ core.EmbeddingProvider = (*GuardedEmbedder)(nil)

// GuardedEmbedder routes every EmbedTexts call through a Guard.
type GuardedEmbedder struct {
	next  core.EmbeddingProvider
	guard *Guard
}

func NewGuardedEmbedder(next core.EmbeddingProvider, guard *Guard) *GuardedEmbedder {
	return &GuardedEmbedder{next: next, guard: guard}
}

func (g *GuardedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := g.guard.Do(ctx, "llm.embed", func(ctx context.Context) error {
		var err error
		out, err = g.next.EmbedTexts(ctx, texts)
		return err
	})
	return out, err
}
