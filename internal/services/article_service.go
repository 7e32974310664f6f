package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/markdave123-py/Pressroom/internal/core"
	"github.com/markdave123-py/Pressroom/internal/core/prompts"
	"github.com/markdave123-py/Pressroom/internal/core/retriever"
	"github.com/markdave123-py/Pressroom/internal/logger"
	"github.com/markdave123-py/Pressroom/internal/models"
)

// Retriever returns the chunks of a container most relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, containerID, query string) ([]models.Chunk, error)
}

// ArticleResult is a generated article and the model's rating of it.
type ArticleResult struct {
	Article string `json:"article"`
	Rating  string `json:"rating"`
}

// ArticleService writes articles grounded in a container and rates them.
type ArticleService struct {
	containers core.ContainerStore
	retriever  Retriever
	llm        core.LLMProvider
	prompts    *prompts.Set
}

func NewArticleService(containers core.ContainerStore, r Retriever, llm core.LLMProvider, set *prompts.Set) *ArticleService {
	return &ArticleService{containers: containers, retriever: r, llm: llm, prompts: set}
}

// Generate retrieves company information from the container, writes an
// article for prompt and rates it.
func (s *ArticleService) Generate(ctx context.Context, containerID, prompt string) (*ArticleResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", core.ErrInvalidInput)
	}
	if strings.TrimSpace(containerID) == "" {
		return nil, fmt.Errorf("%w: container is required", core.ErrInvalidInput)
	}

	c, err := s.containers.GetContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}
	if !c.HasIndex() {
		return nil, fmt.Errorf("%w: container %s has no indexed documents", core.ErrInvalidInput, containerID)
	}

	chunks, err := s.retriever.Retrieve(ctx, *c.EmbeddingsTable, prompt)
	if err != nil {
		return nil, err
	}
	companyInfo := retriever.CombineDocuments(chunks)

	article, err := s.llm.Generate(ctx, "", s.prompts.RenderGenerate(companyInfo, prompt))
	if err != nil {
		return nil, fmt.Errorf("generate article: %w", err)
	}

	rating, err := s.Rate(ctx, article)
	if err != nil {
		return nil, err
	}

	logger.Info("article generated", "container_id", containerID, "chunks", len(chunks), "article_chars", len(article))
	return &ArticleResult{Article: article, Rating: rating}, nil
}

// Rate asks the model for a 0-10 rating of article and returns its reply
// unparsed. An empty article is still rated.
func (s *ArticleService) Rate(ctx context.Context, article string) (string, error) {
	rating, err := s.llm.Generate(ctx, "", s.prompts.RenderRate(article))
	if err != nil {
		return "", fmt.Errorf("rate article: %w", err)
	}
	return rating, nil
}
