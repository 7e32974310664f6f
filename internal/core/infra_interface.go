package core

import (
	"context"
	"io"

	"github.com/markdave123-py/Pressroom/internal/models"
)

// ContainerStore owns container rows and their file records.
// It abstracts Postgres so higher layers never depend on a specific DB.
type ContainerStore interface {
	CreateContainer(ctx context.Context) (*models.Container, error)
	GetContainer(ctx context.Context, id string) (*models.Container, error)
	SetEmbeddingsTable(ctx context.Context, id string, table string) error
	DeleteContainer(ctx context.Context, id string) error

	AddContainerFile(ctx context.Context, file *models.ContainerFile) error
	ListContainerFiles(ctx context.Context, containerID string) ([]models.ContainerFile, error)

	Ping(ctx context.Context) error
}

// VectorIndex owns one embedding table (plus match function) per container.
type VectorIndex interface {
	InitTable(ctx context.Context, containerID string) error
	Populate(ctx context.Context, containerID string, chunks []models.Chunk) error
	Search(ctx context.Context, containerID string, queryVec []float32, limit int) ([]models.ScoredChunk, error)
	DropTable(ctx context.Context, containerID string) error
}

// ObjectClient defines interactions with S3 or any object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, key string) error
	GetFile(ctx context.Context, key string) ([]byte, error)
}
