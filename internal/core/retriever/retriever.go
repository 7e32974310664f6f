// Package retriever finds the chunks of a container most useful for a prompt.
package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/markdave123-py/Pressroom/internal/core"
	"github.com/markdave123-py/Pressroom/internal/models"
)

// Options tune retrieval.
//
// K:      chunks returned.
// FetchK: candidates pulled from the index before re-ranking.
// Lambda: in (0, 1]; 1 ranks by relevance only, lower values favour diversity.
type Options struct {
	K      int
	FetchK int
	Lambda float64
}

// DefaultOptions are used for any zero field.
var DefaultOptions = Options{K: 4, FetchK: 20, Lambda: 0.5}

// MMRRetriever searches one container's vector index and re-ranks the
// candidates by maximal marginal relevance.
type MMRRetriever struct {
	index    core.VectorIndex
	embedder core.EmbeddingProvider
	opts     Options
}

func NewMMRRetriever(index core.VectorIndex, embedder core.EmbeddingProvider, opts Options) *MMRRetriever {
	if opts.K <= 0 {
		opts.K = DefaultOptions.K
	}
	if opts.FetchK <= 0 {
		opts.FetchK = DefaultOptions.FetchK
	}
	opts.FetchK = max(opts.FetchK, opts.K)
	if opts.Lambda <= 0 || opts.Lambda > 1 {
		opts.Lambda = DefaultOptions.Lambda
	}
	return &MMRRetriever{index: index, embedder: embedder, opts: opts}
}

// Retrieve returns up to K chunks in selection order.
func (r *MMRRetriever) Retrieve(ctx context.Context, containerID, query string) ([]models.Chunk, error) {
	vecs, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: embed query: got %d vectors", core.ErrModel, len(vecs))
	}

	candidates, err := r.index.Search(ctx, containerID, vecs[0], r.opts.FetchK)
	if err != nil {
		return nil, err
	}

	embeddings := make([][]float32, len(candidates))
	for i := range candidates {
		embeddings[i] = candidates[i].Embedding
	}

	picked := MaxMarginalRelevance(vecs[0], embeddings, r.opts.K, r.opts.Lambda)
	out := make([]models.Chunk, 0, len(picked))
	for _, i := range picked {
		out = append(out, candidates[i].Chunk)
	}
	return out, nil
}

// CombineDocuments joins chunk contents with a blank line between them.
func CombineDocuments(chunks []models.Chunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, "\n\n")
}
