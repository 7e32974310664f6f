package ingestion_engine

import (
	"context"
	"sync"

	"github.com/markdave123-py/Pressroom/internal/models"
)

type mockLLM struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (string, error)
}

func (m *mockLLM) Generate(_ context.Context, _ string, userPrompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, userPrompt)
	m.mu.Unlock()
	if m.reply == nil {
		return "[]", nil
	}
	return m.reply(userPrompt)
}

type mockExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (m *mockExtractor) ExtractText(_ context.Context, _ []byte, filename string) (string, error) {
	if err := m.errs[filename]; err != nil {
		return "", err
	}
	return m.texts[filename], nil
}

type mockCreator struct {
	emptyCalls int
	chunks     []models.Chunk
	files      []ExtractedFile
	err        error
}

func (m *mockCreator) CreateEmpty(context.Context) (*models.Container, error) {
	m.emptyCalls++
	return &models.Container{ID: "empty"}, m.err
}

func (m *mockCreator) CreateFor(_ context.Context, chunks []models.Chunk, files []ExtractedFile) (*models.Container, error) {
	m.chunks = chunks
	m.files = files
	if m.err != nil {
		return nil, m.err
	}
	id := "populated"
	return &models.Container{ID: id, EmbeddingsTable: &id}, nil
}
