package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Pressroom/internal/core"
)

type stubLLM struct {
	calls int
	err   error
}

func (s *stubLLM) Generate(_ context.Context, _, userPrompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "echo: " + userPrompt, nil
}

type stubEmbedder struct{ calls int }

func (s *stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i)}
	}
	return out, nil
}

func TestGuardedLLM_PassesThrough(t *testing.T) {
	next := &stubLLM{}
	g := NewGuardedLLM(next, NewGuard("test", 0))

	out, err := g.Generate(context.Background(), "", "hello")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", out)
	assert.Equal(t, 1, next.calls)
}

func TestGuardedLLM_OpensAfterRepeatedFailures(t *testing.T) {
	next := &stubLLM{err: fmt.Errorf("%w: 503 unavailable", core.ErrModel)}
	guard := NewGuard("test", 0)
	g := NewGuardedLLM(next, guard)

	for range 3 {
		_, err := g.Generate(context.Background(), "", "p")
		assert.ErrorIs(t, err, core.ErrModel)
	}
	assert.Equal(t, gobreaker.StateOpen, guard.State())

	_, err := g.Generate(context.Background(), "", "p")
	assert.ErrorIs(t, err, core.ErrModel)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, next.calls, "open breaker must not reach the model")
}

func TestGuard_CancellationDoesNotTrip(t *testing.T) {
	guard := NewGuard("test", 0)

	for range 5 {
		err := guard.Do(context.Background(), "op", func(context.Context) error {
			return context.Canceled
		})
		assert.True(t, errors.Is(err, context.Canceled))
	}
	assert.Equal(t, gobreaker.StateClosed, guard.State())
}

func TestGuard_RateLimitWaitFailsOnDoneContext(t *testing.T) {
	guard := NewGuard("test", 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := guard.Do(ctx, "op", func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, core.ErrModel)
	assert.False(t, called)
}

func TestGuardedEmbedder(t *testing.T) {
	next := &stubEmbedder{}
	g := NewGuardedEmbedder(next, NewGuard("test", 600))

	vecs, err := g.EmbedTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Equal(t, 1, next.calls)
}

func TestNewClients_RequireAPIKey(t *testing.T) {
	_, err := NewGeminiLLM(context.Background(), "", "", 0.4)
	assert.Error(t, err)
	_, err = NewGeminiEmbedder(context.Background(), "", "")
	assert.Error(t, err)
}

func TestCandidateText_Nil(t *testing.T) {
	assert.Equal(t, "", candidateText(nil))
}
