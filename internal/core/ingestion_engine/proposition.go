package ingestion_engine

import (
	"context"
	"fmt"

	"github.com/markdave123-py/Pressroom/internal/core"
	"github.com/markdave123-py/Pressroom/internal/core/prompts"
	"github.com/markdave123-py/Pressroom/internal/logger"
)

// PropositionExtractor rewrites raw text into self-contained statements by
// sending fixed-size slices through the decomposition prompt.
type PropositionExtractor struct {
	llm            core.LLMProvider
	prompts        *prompts.Set
	sliceSize      int
	firstSliceOnly bool
}

func NewPropositionExtractor(llm core.LLMProvider, set *prompts.Set, sliceSize int, firstSliceOnly bool) *PropositionExtractor {
	return &PropositionExtractor{llm: llm, prompts: set, sliceSize: sliceSize, firstSliceOnly: firstSliceOnly}
}

// Extract returns one raw model output per slice, in slice order. Outputs are
// not parsed; they are re-chunked downstream as plain text. With
// firstSliceOnly set, only the first slice is sent.
func (p *PropositionExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	slices := SliceFixed(text, p.sliceSize)

	outputs := make([]string, 0, len(slices))
	for i, slice := range slices {
		out, err := p.llm.Generate(ctx, "", p.prompts.RenderDecompose(slice))
		if err != nil {
			return nil, fmt.Errorf("decompose slice %d: %w", i, err)
		}
		outputs = append(outputs, out)

		if p.firstSliceOnly {
			if len(slices) > 1 {
				logger.Warn("proposition extraction stopped after first slice", "skipped_slices", len(slices)-1)
			}
			break
		}
	}
	return outputs, nil
}
