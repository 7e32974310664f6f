package retriever

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Pressroom/internal/core"
	"github.com/markdave123-py/Pressroom/internal/models"
)

type fakeIndex struct {
	results   []models.ScoredChunk
	err       error
	lastLimit int
	lastID    string
}

func (f *fakeIndex) InitTable(context.Context, string) error { return nil }
func (f *fakeIndex) Populate(context.Context, string, []models.Chunk) error {
	return nil
}
func (f *fakeIndex) DropTable(context.Context, string) error { return nil }

func (f *fakeIndex) Search(_ context.Context, id string, _ []float32, limit int) ([]models.ScoredChunk, error) {
	f.lastID, f.lastLimit = id, limit
	return f.results, f.err
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vec
	}
	return out, nil
}

func scored(content string, emb ...float32) models.ScoredChunk {
	return models.ScoredChunk{Chunk: models.Chunk{Content: content}, Embedding: emb}
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 3}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 0}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, []float32{1, 0}))
}

func TestMaxMarginalRelevance(t *testing.T) {
	query := []float32{1, 0}
	candidates := [][]float32{
		{1, 0},
		{0.99, 0.14},
		{0.7, 0.7},
		{0, 1},
	}

	t.Run("relevance only", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2, 3}, MaxMarginalRelevance(query, candidates, 4, 1))
	})
	t.Run("diversity heavy", func(t *testing.T) {
		assert.Equal(t, []int{0, 3}, MaxMarginalRelevance(query, candidates, 2, 0.25))
	})
	t.Run("k larger than candidates", func(t *testing.T) {
		assert.Len(t, MaxMarginalRelevance(query, candidates, 10, 0.5), 4)
	})
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, MaxMarginalRelevance(query, nil, 4, 0.5))
		assert.Empty(t, MaxMarginalRelevance(query, candidates, 0, 0.5))
	})
}

func TestMaxMarginalRelevance_SkipsNearDuplicates(t *testing.T) {
	query := []float32{1, 1}
	candidates := [][]float32{
		{1, 0.9},
		{1, 0.92},
		{0.6, 1},
	}

	assert.Equal(t, []int{1, 2}, MaxMarginalRelevance(query, candidates, 2, 0.5))
}

func TestRetrieve(t *testing.T) {
	idx := &fakeIndex{results: []models.ScoredChunk{
		scored("Acme Corp revenue grew 10%", 1, 0),
		scored("Acme Corp revenue grew ten percent", 0.99, 0.14),
		scored("Acme opened a plant in Ohio", 0, 1),
	}}
	r := NewMMRRetriever(idx, &fakeEmbedder{vec: []float32{1, 0}}, Options{K: 2, FetchK: 20, Lambda: 0.25})

	chunks, err := r.Retrieve(context.Background(), "c1", "How did Acme grow?")
	require.NoError(t, err)

	assert.Equal(t, "c1", idx.lastID)
	assert.Equal(t, 20, idx.lastLimit)
	require.Len(t, chunks, 2)
	assert.Equal(t, "Acme Corp revenue grew 10%", chunks[0].Content)
	assert.Equal(t, "Acme opened a plant in Ohio", chunks[1].Content)
}

func TestRetrieve_EmptyIndex(t *testing.T) {
	r := NewMMRRetriever(&fakeIndex{}, &fakeEmbedder{vec: []float32{1}}, Options{})

	chunks, err := r.Retrieve(context.Background(), "c1", "anything")
	require.NoError(t, err)
	assert.Empty(t, chunks)
	assert.Equal(t, "", CombineDocuments(chunks))
}

func TestRetrieve_Errors(t *testing.T) {
	modelErr := fmt.Errorf("%w: quota", core.ErrModel)
	r := NewMMRRetriever(&fakeIndex{}, &fakeEmbedder{err: modelErr}, Options{})
	_, err := r.Retrieve(context.Background(), "c1", "q")
	assert.ErrorIs(t, err, core.ErrModel)

	indexErr := fmt.Errorf("%w: function missing", core.ErrIndex)
	r = NewMMRRetriever(&fakeIndex{err: indexErr}, &fakeEmbedder{vec: []float32{1}}, Options{})
	_, err = r.Retrieve(context.Background(), "c1", "q")
	assert.ErrorIs(t, err, core.ErrIndex)
}

func TestNewMMRRetriever_Defaults(t *testing.T) {
	r := NewMMRRetriever(nil, nil, Options{K: 30, Lambda: 2})
	assert.Equal(t, 30, r.opts.K)
	assert.Equal(t, 30, r.opts.FetchK)
	assert.Equal(t, 0.5, r.opts.Lambda)

	r = NewMMRRetriever(nil, nil, Options{})
	assert.Equal(t, DefaultOptions, r.opts)
}

func TestCombineDocuments(t *testing.T) {
	out := CombineDocuments([]models.Chunk{{Content: "one"}, {Content: "two"}})
	assert.Equal(t, "one\n\ntwo", out)
}
