package ingestion_engine

import (
	"fmt"
	"strings"

	"github.com/markdave123-py/Pressroom/internal/core"
	"github.com/markdave123-py/Pressroom/internal/models"
)

// SliceFixed cuts text into consecutive, non-overlapping windows of size
// characters (runes). The last window may be shorter. Concatenating the
// result gives back text exactly.
func SliceFixed(text string, size int) []string {
	if text == "" || size <= 0 {
		return nil
	}
	runes := []rune(text)
	out := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		out = append(out, string(runes[start:end]))
	}
	return out
}

// Splitter produces overlapping chunks for embedding.
//
// ChunkSize:    characters (runes) per chunk.
// ChunkOverlap: characters shared by consecutive chunks of the same input.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
}

func (s Splitter) validate() error {
	if s.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", core.ErrInvalidInput, s.ChunkSize)
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be in [0, %d)", core.ErrInvalidInput, s.ChunkOverlap, s.ChunkSize)
	}
	return nil
}

// Split chunks every input in order. Inputs that are blank contribute nothing.
// Each chunk's metadata carries the input index ("source") and its position
// within that input ("position"); sources, when given, name the inputs.
func (s Splitter) Split(texts []string, sources ...string) ([]models.Chunk, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	var out []models.Chunk
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		for pos, content := range s.window(text) {
			meta := map[string]any{
				"source":   i,
				"position": pos,
			}
			if i < len(sources) && sources[i] != "" {
				meta["file_name"] = sources[i]
			}
			out = append(out, models.Chunk{Content: content, Metadata: meta})
		}
	}
	return out, nil
}

// window slides a ChunkSize window over text in steps of
// ChunkSize-ChunkOverlap and stops once the window reaches the end.
func (s Splitter) window(text string) []string {
	runes := []rune(text)
	step := s.ChunkSize - s.ChunkOverlap

	var out []string
	for start := 0; ; start += step {
		end := min(start+s.ChunkSize, len(runes))
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}
