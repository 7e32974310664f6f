package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/markdave123-py/Pressroom/internal/core"
	"github.com/markdave123-py/Pressroom/internal/models"
)

var _ core.VectorIndex = (*VectorIndex)(nil)

// VectorIndex stores chunk embeddings in one pgvector table per container and
// searches them through that container's match function.
type VectorIndex struct {
	db        *sql.DB
	embedder  core.EmbeddingProvider
	dim       int
	batchSize int
}

func NewVectorIndex(db *sql.DB, embedder core.EmbeddingProvider, dim, batchSize int) *VectorIndex {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &VectorIndex{db: db, embedder: embedder, dim: dim, batchSize: batchSize}
}

// createTableSQL is idempotent so a retried ingestion can reuse it.
func createTableSQL(containerID string, dim int) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id        bigserial PRIMARY KEY,
			content   text NOT NULL,
			metadata  jsonb NOT NULL DEFAULT '{}'::jsonb,
			embedding vector(%d) NOT NULL
		)`, quote(TableName(containerID)), dim)
}

func createIndexSQL(containerID string) string {
	return fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s ON %s USING hnsw (embedding vector_cosine_ops)`,
		quote(TableName(containerID)+"_embedding_idx"), quote(TableName(containerID)))
}

// createMatchFunctionSQL returns rows ordered by cosine distance, with
// similarity = 1 - distance, optionally filtered by metadata containment.
func createMatchFunctionSQL(containerID string, dim int) string {
	return fmt.Sprintf(`
		CREATE OR REPLACE FUNCTION %[1]s (
			query_embedding vector(%[3]d),
			match_count     int DEFAULT NULL,
			filter          jsonb DEFAULT '{}'
		) RETURNS TABLE (
			id         bigint,
			content    text,
			metadata   jsonb,
			embedding  vector,
			similarity float
		)
		LANGUAGE plpgsql
		AS $$
		#variable_conflict use_column
		BEGIN
			RETURN QUERY
			SELECT t.id, t.content, t.metadata, t.embedding,
			       1 - (t.embedding <=> query_embedding) AS similarity
			FROM %[2]s AS t
			WHERE t.metadata @> filter
			ORDER BY t.embedding <=> query_embedding
			LIMIT match_count;
		END;
		$$`, quote(QueryName(containerID)), quote(TableName(containerID)), dim)
}

// InitTable creates the container's table, its ANN index and its match
// function in one transaction.
func (v *VectorIndex) InitTable(ctx context.Context, containerID string) error {
	if err := validContainerID(containerID); err != nil {
		return err
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %w", core.ErrIndex, err)
	}
	for _, stmt := range []string{
		createTableSQL(containerID, v.dim),
		createIndexSQL(containerID),
		createMatchFunctionSQL(containerID, v.dim),
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: init table %s: %w", core.ErrIndex, TableName(containerID), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit init table: %w", core.ErrIndex, err)
	}
	return nil
}

// Populate embeds chunks in batches and inserts every row in a single
// transaction. Zero chunks is a no-op.
func (v *VectorIndex) Populate(ctx context.Context, containerID string, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := validContainerID(containerID); err != nil {
		return err
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}
	vecs, err := embedInBatches(ctx, v.embedder, texts, v.batchSize, v.dim)
	if err != nil {
		return err
	}

	tx, err := v.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx: %w", core.ErrIndex, err)
	}

	q := fmt.Sprintf(`INSERT INTO %s (content, metadata, embedding) VALUES ($1, $2, $3)`,
		quote(TableName(containerID)))
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: prepare insert: %w", core.ErrIndex, err)
	}
	defer stmt.Close()

	for i := range chunks {
		meta, err := metadataJSON(chunks[i].Metadata)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: chunk %d metadata: %w", core.ErrIndex, i, err)
		}
		if _, err := stmt.ExecContext(ctx, chunks[i].Content, meta, pgvector.NewVector(vecs[i])); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: insert chunk %d: %w", core.ErrIndex, i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit populate: %w", core.ErrIndex, err)
	}
	return nil
}

// Search returns up to limit rows closest to queryVec, most similar first.
func (v *VectorIndex) Search(ctx context.Context, containerID string, queryVec []float32, limit int) ([]models.ScoredChunk, error) {
	if err := validContainerID(containerID); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT id, content, metadata, embedding, similarity FROM %s($1, $2)`,
		quote(QueryName(containerID)))
	rows, err := v.db.QueryContext(ctx, q, pgvector.NewVector(queryVec), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: search %s: %w", core.ErrIndex, QueryName(containerID), err)
	}
	defer rows.Close()

	var out []models.ScoredChunk
	for rows.Next() {
		var (
			sc   models.ScoredChunk
			meta []byte
			emb  pgvector.Vector
		)
		if err := rows.Scan(&sc.ID, &sc.Chunk.Content, &meta, &emb, &sc.Similarity); err != nil {
			return nil, fmt.Errorf("%w: scan match: %w", core.ErrIndex, err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &sc.Chunk.Metadata); err != nil {
				return nil, fmt.Errorf("%w: decode metadata: %w", core.ErrIndex, err)
			}
		}
		sc.Embedding = emb.Slice()
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: search rows: %w", core.ErrIndex, err)
	}
	return out, nil
}

// DropTable removes the match function and the table. Missing objects are
// not an error.
func (v *VectorIndex) DropTable(ctx context.Context, containerID string) error {
	if err := validContainerID(containerID); err != nil {
		return err
	}

	stmts := []string{
		fmt.Sprintf(`DROP FUNCTION IF EXISTS %s(vector, int, jsonb)`, quote(QueryName(containerID))),
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quote(TableName(containerID))),
	}
	for _, s := range stmts {
		if _, err := v.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("%w: drop %s: %w", core.ErrIndex, TableName(containerID), err)
		}
	}
	return nil
}

// embedInBatches calls the embedder batchSize texts at a time and checks
// that every returned vector has the expected dimension.
func embedInBatches(ctx context.Context, embedder core.EmbeddingProvider, texts []string, batchSize, dim int) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))

		vecs, err := embedder.EmbedTexts(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch at %d: %w", start, err)
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("%w: embed size mismatch: got %d want %d", core.ErrIndex, len(vecs), end-start)
		}
		for i, vec := range vecs {
			if dim > 0 && len(vec) != dim {
				return nil, fmt.Errorf("%w: embedding %d has dimension %d, table expects %d", core.ErrIndex, start+i, len(vec), dim)
			}
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func metadataJSON(meta map[string]any) (string, error) {
	if len(meta) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
