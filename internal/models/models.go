package models

import (
	"time"
)

// Container represents one ingestion session and its vector table.
type Container struct {
	ID              string    `db:"id" json:"id"`
	EmbeddingsTable *string   `db:"embeddings_table" json:"embeddings_table"` // nil until the vector table is populated
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// HasIndex reports whether the container's vector table has been populated.
func (c *Container) HasIndex() bool {
	return c != nil && c.EmbeddingsTable != nil && *c.EmbeddingsTable != ""
}

// ContainerFile records one uploaded file that fed a container.
type ContainerFile struct {
	ID          string    `db:"id" json:"id"`
	ContainerID string    `db:"container_id" json:"container_id"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType string    `db:"content_type" json:"content_type"`
	StorageURL  string    `db:"storage_url" json:"storage_url,omitempty"` // empty when archiving is disabled
	CharCount   int       `db:"char_count" json:"char_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Chunk is one piece of text headed for (or read back from) a vector table.
type Chunk struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ScoredChunk is a vector table row returned by similarity search.
type ScoredChunk struct {
	ID         int64     `db:"id" json:"id"`
	Chunk      Chunk     `json:"chunk"`
	Embedding  []float32 `db:"embedding" json:"-"`
	Similarity float64   `db:"similarity" json:"similarity"`
}
