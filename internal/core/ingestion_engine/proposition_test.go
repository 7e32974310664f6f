package ingestion_engine

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Pressroom/internal/core"
	"github.com/markdave123-py/Pressroom/internal/core/prompts"
)

func testPrompts(t *testing.T) *prompts.Set {
	t.Helper()
	set, err := prompts.Defaults()
	require.NoError(t, err)
	return set
}

func TestPropositionExtractor_AllSlices(t *testing.T) {
	llm := &mockLLM{reply: func(p string) (string, error) {
		return fmt.Sprintf(`["%d"]`, len(p)), nil
	}}
	p := NewPropositionExtractor(llm, testPrompts(t), 5, false)

	out, err := p.Extract(context.Background(), "aaaaabbbbbcc")
	require.NoError(t, err)

	assert.Len(t, out, 3)
	require.Len(t, llm.prompts, 3)
	assert.Contains(t, llm.prompts[0], "Content: aaaaa")
	assert.Contains(t, llm.prompts[1], "Content: bbbbb")
	assert.Contains(t, llm.prompts[2], "Content: cc")
}

func TestPropositionExtractor_FirstSliceOnly(t *testing.T) {
	llm := &mockLLM{}
	p := NewPropositionExtractor(llm, testPrompts(t), 5, true)

	out, err := p.Extract(context.Background(), strings.Repeat("x", 20))
	require.NoError(t, err)

	assert.Equal(t, []string{"[]"}, out)
	assert.Len(t, llm.prompts, 1)
}

func TestPropositionExtractor_ModelErrorAborts(t *testing.T) {
	calls := 0
	llm := &mockLLM{reply: func(string) (string, error) {
		calls++
		if calls == 2 {
			return "", fmt.Errorf("%w: quota exceeded", core.ErrModel)
		}
		return "[]", nil
	}}
	p := NewPropositionExtractor(llm, testPrompts(t), 2, false)

	_, err := p.Extract(context.Background(), "aabbcc")
	assert.ErrorIs(t, err, core.ErrModel)
	assert.Equal(t, 2, calls)
}

func TestPropositionExtractor_EmptyText(t *testing.T) {
	llm := &mockLLM{}
	p := NewPropositionExtractor(llm, testPrompts(t), 14000, false)

	out, err := p.Extract(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, llm.prompts)
}
