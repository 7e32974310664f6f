package app

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/markdave123-py/Pressroom/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/Pressroom/internal/api/middlewares"
	"github.com/markdave123-py/Pressroom/internal/config"
	"github.com/markdave123-py/Pressroom/internal/core/ingestion_engine"
	"github.com/markdave123-py/Pressroom/internal/logger"
)

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	Ingestor   ingestion_engine.Ingestor
	Containers handlers.ContainerReader
	Articles   handlers.ArticleWriter
	Health     handlers.Pinger
}

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(NewRouter(cfg, deps), "pressroom"),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{httpServer: httpSrv}
}

// NewRouter registers every route on a chi router.
func NewRouter(cfg *config.Config, deps Dependencies) chi.Router {
	containerHandler := handlers.NewContainerHandler(deps.Ingestor, deps.Containers, cfg.MaxUploadMB)
	articleHandler := handlers.NewArticleHandler(deps.Articles)
	healthHandler := handlers.NewHealthHandler(deps.Health)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appMiddleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Get("/healthz", healthHandler.Healthz)

	r.Post("/create_container", containerHandler.CreateContainer)
	r.Post("/create_container2", containerHandler.CreateContainerWithPropositions)
	r.Get("/containers/{id}", containerHandler.GetContainer)
	r.Get("/containers/{id}/files/{name}", containerHandler.DownloadFile)

	r.Post("/generate_article", articleHandler.GenerateArticle)
	r.Post("/rate_article", articleHandler.RateArticle)

	// Serve the landing page and static assets from the web directory.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(cfg.StaticDir, "index.html"))
	})
	r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))

	return r
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// staticDirExists reports whether the landing page can be served.
func staticDirExists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "index.html"))
	return err == nil && !info.IsDir()
}
