package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/markdave123-py/Pressroom/internal/config"
	"github.com/markdave123-py/Pressroom/internal/core"
)

func TestNewApp_RejectsBadChunking(t *testing.T) {
	cfg := &config.Config{
		ChunkSize:               500,
		ChunkOverlap:            500,
		PropositionChunkSize:    2000,
		PropositionChunkOverlap: 500,
	}

	a, err := NewApp(context.Background(), cfg)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Contains(t, err.Error(), "chunking config")
}

func TestIngestConfigFromEnvConfig(t *testing.T) {
	cfg := &config.Config{
		ChunkSize:               1000,
		ChunkOverlap:            500,
		PropositionChunkSize:    2000,
		PropositionChunkOverlap: 500,
		PropositionsEnabled:     true,
	}

	got := ingestConfig(cfg)
	assert.Equal(t, 1000, got.Direct.ChunkSize)
	assert.Equal(t, 500, got.Proposition.ChunkOverlap)
	assert.True(t, got.PropositionsEnabled)
	assert.NoError(t, got.Validate())
}
