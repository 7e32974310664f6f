package ingestion_engine

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"

	"github.com/markdave123-py/Pressroom/internal/core"
)

var _ core.DocumentExtractor = (*FileExtractor)(nil)

// FileExtractor implements core.DocumentExtractor for PDF (ledongthuc/pdf)
// and DOCX (sajari/docconv) uploads.
type FileExtractor struct{}

func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

// ExtractText picks a parser from the filename's extension and returns the
// normalised text. Unknown extensions produce "" without error.
func (e *FileExtractor) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch fileExtension(filename) {
	case "pdf":
		text, err = extractPDF(data)
	case "docx":
		text, err = extractDocx(data)
	default:
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", core.ErrExtraction, filename, err)
	}
	return NormalizeWhitespace(text), nil
}

// fileExtension is the lower-cased extension without the dot.
func fileExtension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

func extractDocx(data []byte) (string, error) {
	body, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("docx: %w", err)
	}
	return body, nil
}

// extractPDF walks every page's positioned text and lays it out with
// renderRuns. The pdf package panics on some malformed content streams, so
// panics are turned into errors.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf: malformed document: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		runs := mergeGlyphs(page.Content().Text)
		if len(runs) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderRuns(runs))
	}
	return b.String(), nil
}

var (
	newlineRun    = regexp.MustCompile(`\n+`)
	whitespaceRun = regexp.MustCompile(`\s{2,}`)
)

// NormalizeWhitespace collapses newline runs into a space, then any run of
// two or more whitespace characters into one space, then trims.
func NormalizeWhitespace(s string) string {
	s = newlineRun.ReplaceAllString(s, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
