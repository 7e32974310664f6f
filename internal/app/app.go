package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/markdave123-py/Pressroom/internal/config"
	"github.com/markdave123-py/Pressroom/internal/core"
	db "github.com/markdave123-py/Pressroom/internal/core/database"
	"github.com/markdave123-py/Pressroom/internal/core/ingestion_engine"
	"github.com/markdave123-py/Pressroom/internal/core/llm"
	objectclient "github.com/markdave123-py/Pressroom/internal/core/object-client"
	"github.com/markdave123-py/Pressroom/internal/core/prompts"
	"github.com/markdave123-py/Pressroom/internal/core/retriever"
	"github.com/markdave123-py/Pressroom/internal/logger"
	"github.com/markdave123-py/Pressroom/internal/services"
)

type App struct {
	DB       *sql.DB
	Embedder *llm.GeminiEmbedder
	LLM      *llm.GeminiLLM
	Server   *Server
}

// NewApp constructs every dependency explicitly and wires the HTTP server.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	ingestCfg := ingestConfig(cfg)
	if err := ingestCfg.Validate(); err != nil {
		return nil, fmt.Errorf("chunking config: %w", err)
	}

	set, err := prompts.Load(cfg.PromptsFile)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	sqlDB, err := db.Open(appCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("database initialized and ready")

	a := &App{DB: sqlDB}

	a.Embedder, err = llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("couldn't initialize the embedder: %w", err)
	}
	a.LLM, err = llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel, cfg.GenTemperature)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("couldn't initialize the llm: %w", err)
	}

	// One guard per upstream API: both share the Gemini quota but fail independently.
	embedder := llm.NewGuardedEmbedder(a.Embedder, llm.NewGuard("gemini-embed", cfg.LLMRequestsPM))
	model := llm.NewGuardedLLM(a.LLM, llm.NewGuard("gemini-generate", cfg.LLMRequestsPM))

	var archive core.ObjectClient
	if cfg.ArchiveEnabled() {
		s3Client, err := objectclient.NewS3Client(appCtx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		archive = s3Client
	}

	store := db.NewContainerStore(sqlDB)
	index := db.NewVectorIndex(sqlDB, embedder, cfg.EmbedDim, cfg.EmbedBatchSize)
	containers := services.NewContainerService(store, index, archive)

	pipeline := ingestion_engine.NewPipeline(
		ingestion_engine.NewFileExtractor(),
		ingestion_engine.NewPropositionExtractor(model, set, cfg.PropositionSliceSize, cfg.PropositionFirstChunkOnly),
		containers,
		ingestCfg,
	)

	mmr := retriever.NewMMRRetriever(index, embedder, retriever.Options{
		K:      cfg.RetrievalK,
		FetchK: cfg.RetrievalFetchK,
		Lambda: cfg.RetrievalMMRLambda,
	})
	articles := services.NewArticleService(store, mmr, model, set)

	if !staticDirExists(cfg.StaticDir) {
		logger.Warn("landing page not found", "static_dir", cfg.StaticDir)
	}

	a.Server = NewServer(cfg, Dependencies{
		Ingestor:   pipeline,
		Containers: containers,
		Articles:   articles,
		Health:     containers,
	})
	return a, nil
}

func ingestConfig(cfg *config.Config) ingestion_engine.IngestConfig {
	return ingestion_engine.IngestConfig{
		Direct:              ingestion_engine.Splitter{ChunkSize: cfg.ChunkSize, ChunkOverlap: cfg.ChunkOverlap},
		Proposition:         ingestion_engine.Splitter{ChunkSize: cfg.PropositionChunkSize, ChunkOverlap: cfg.PropositionChunkOverlap},
		PropositionsEnabled: cfg.PropositionsEnabled,
	}
}

func (a *App) Close() {
	if a.Embedder != nil {
		_ = a.Embedder.Close()
	}
	if a.LLM != nil {
		_ = a.LLM.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
