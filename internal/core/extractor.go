package core

import (
	"context"
)

// DocumentExtractor turns an uploaded file into plain text.
type DocumentExtractor interface {
	// ExtractText returns the whitespace-normalised text of data. The filename's
	// extension selects the parser; unknown extensions yield "" and no error.
	ExtractText(ctx context.Context, data []byte, filename string) (string, error)
}
