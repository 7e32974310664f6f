package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pressroom")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 500, cfg.ChunkOverlap)
	assert.Equal(t, 14000, cfg.PropositionSliceSize)
	assert.Equal(t, 2000, cfg.PropositionChunkSize)
	assert.Equal(t, 4, cfg.RetrievalK)
	assert.Equal(t, 20, cfg.RetrievalFetchK)
	assert.InDelta(t, 0.5, cfg.RetrievalMMRLambda, 1e-9)
	assert.InDelta(t, 0.4, cfg.GenTemperature, 1e-9)
	assert.False(t, cfg.PropositionsEnabled)
	assert.False(t, cfg.PropositionFirstChunkOnly)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pressroom")
	t.Setenv("RETRIEVAL_K", "6")
	t.Setenv("PROPOSITIONS_ENABLED", "true")
	t.Setenv("RETRIEVAL_MMR_LAMBDA", "0.7")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("AWS_ACCESS_KEY", "ak")
	t.Setenv("AWS_SECRET_KEY", "sk")
	t.Setenv("BUCKET_NAME", "uploads")

	cfg := LoadConfig()

	assert.Equal(t, 6, cfg.RetrievalK)
	assert.True(t, cfg.PropositionsEnabled)
	assert.InDelta(t, 0.7, cfg.RetrievalMMRLambda, 1e-9)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsOrigins)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestLoadConfig_BadValuesFallBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pressroom")
	t.Setenv("CHUNK_SIZE", "lots")
	t.Setenv("PROPOSITIONS_ENABLED", "maybe")
	t.Setenv("GEN_TEMPERATURE", "warm")

	cfg := LoadConfig()

	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.False(t, cfg.PropositionsEnabled)
	assert.InDelta(t, 0.4, cfg.GenTemperature, 1e-9)
}
