package ingestion_engine

import (
	"context"

	"github.com/markdave123-py/Pressroom/internal/models"
)

// Ingestor turns a batch of uploads into a container.
type Ingestor interface {
	Ingest(ctx context.Context, files []UploadedFile, opts IngestOptions) (*models.Container, error)
}
