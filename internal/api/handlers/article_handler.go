package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/markdave123-py/Pressroom/internal/core"
	"github.com/markdave123-py/Pressroom/internal/services"
)

// ArticleWriter generates and rates articles.
type ArticleWriter interface {
	Generate(ctx context.Context, containerID, prompt string) (*services.ArticleResult, error)
	Rate(ctx context.Context, article string) (string, error)
}

type ArticleHandler struct {
	articles ArticleWriter
}

func NewArticleHandler(articles ArticleWriter) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

type GenerateArticleRequest struct {
	Prompt    string `json:"prompt"`
	Container string `json:"container"`
}

type RateArticleRequest struct {
	Article string `json:"article"`
}

func (h *ArticleHandler) GenerateArticle(w http.ResponseWriter, r *http.Request) {
	var req GenerateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body: %w", core.ErrInvalidInput, err))
		return
	}

	res, err := h.articles.Generate(r.Context(), req.Container, req.Prompt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Msg: "Article generated", Data: res})
}

func (h *ArticleHandler) RateArticle(w http.ResponseWriter, r *http.Request) {
	var req RateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid request body: %w", core.ErrInvalidInput, err))
		return
	}

	rating, err := h.articles.Rate(r.Context(), req.Article)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"rating": rating})
}
