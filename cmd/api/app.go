package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docduel/docduel/internal/api/handlers"
	"github.com/docduel/docduel/internal/api/middleware"
	"github.com/docduel/docduel/internal/config"
	"github.com/docduel/docduel/internal/embeddings"
	"github.com/docduel/docduel/internal/llm"
	"github.com/docduel/docduel/internal/repository"
	"github.com/docduel/docduel/internal/service"
)

// App holds all server dependencies and coordinates startup and shutdown.
type App struct {
	cfg    *config.Config
	db     *pgxpool.Pool
	server *http.Server
}

// NewApp builds and wires all components: provider clients, repositories,
// services, handlers, and the HTTP server. It does not start listening;
// call Run to start and block until shutdown or failure.
func NewApp(cfg *config.Config, db *pgxpool.Pool) (*App, error) {
	anthropic, err := llm.NewAnthropicProvider(llm.AnthropicConfig{
		APIKey:  cfg.AnthropicAPIKey,
		Timeout: cfg.ProviderTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create anthropic provider: %w", err)
	}

	openai := llm.NewOpenAIProvider(cfg.OpenAIAPIKey)
	dual := service.NewDualGenerator(anthropic, openai, cfg.ProviderTimeout)

	embedder := embeddings.NewOpenAIClient(cfg.OpenAIAPIKey, embeddings.WithRateLimit(cfg.EmbeddingRPS))

	documentsRepo := repository.NewDocumentsRepository(db)
	chunksRepo := repository.NewChunksRepository(db)
	summariesRepo := repository.NewSummariesRepository(db)
	queriesRepo := repository.NewQueriesRepository(db)
	votesRepo := repository.NewVotesRepository(db)
	statsRepo := repository.NewStatsRepository(documentsRepo, summariesRepo, queriesRepo, votesRepo)

	logger := slog.Default()

	ingestionService := service.NewIngestionService(
		documentsRepo, chunksRepo, embedder, cfg.ChunkSize, cfg.ChunkOverlap, logger,
	)
	summaryService := service.NewSummaryService(documentsRepo, summariesRepo, dual, logger)

	queryCache, err := lru.New[string, []float32](cfg.QueryCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create query cache: %w", err)
	}

	queryService := service.NewQueryService(service.QueryServiceParams{
		Docs:       documentsRepo,
		Chunks:     chunksRepo,
		Queries:    queriesRepo,
		Embedder:   embedder,
		TopK:       cfg.TopK,
		Dual:       dual,
		QueryCache: queryCache,
		Logger:     logger,
	})

	voteService := service.NewVoteService(votesRepo, summariesRepo, queriesRepo, logger)
	statsService := service.NewStatsService(statsRepo, service.Pricing{
		ClaudeInputPerToken:  cfg.ClaudeInputCostPerToken,
		ClaudeOutputPerToken: cfg.ClaudeOutputCostPerToken,
		OpenAIInputPerToken:  cfg.OpenAIInputCostPerToken,
		OpenAIOutputPerToken: cfg.OpenAIOutputCostPerToken,
	})

	server := newHTTPServer(cfg,
		handlers.NewHealthHandler(),
		handlers.NewDocumentsHandler(ingestionService),
		handlers.NewSummariesHandler(summaryService),
		handlers.NewQueriesHandler(queryService),
		handlers.NewVotesHandler(voteService),
		handlers.NewStatsHandler(statsService),
	)

	return &App{cfg: cfg, db: db, server: server}, nil
}

// newHTTPServer builds the mux and middleware chain:
// RequestID -> Logging -> MaxBody -> mux.
func newHTTPServer(
	cfg *config.Config,
	health *handlers.HealthHandler,
	documents *handlers.DocumentsHandler,
	summaries *handlers.SummariesHandler,
	queries *handlers.QueriesHandler,
	votes *handlers.VotesHandler,
	stats *handlers.StatsHandler,
) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health.Check)

	mux.HandleFunc("POST /v1/documents", documents.Upload)
	mux.HandleFunc("GET /v1/documents/{id}", documents.Get)
	mux.HandleFunc("POST /v1/documents/{id}/ingest", documents.Ingest)
	mux.HandleFunc("POST /v1/documents/{id}/summarize", summaries.Summarize)
	mux.HandleFunc("GET /v1/documents/{id}/summaries", summaries.Get)
	mux.HandleFunc("POST /v1/documents/{id}/query", queries.Ask)
	mux.HandleFunc("POST /v1/feedback", votes.SubmitFeedback)
	mux.HandleFunc("POST /v1/comparisons", votes.SubmitComparison)
	mux.HandleFunc("GET /v1/stats", stats.Get)
	mux.HandleFunc("GET /v1/stats/export", stats.Export)

	handler := middleware.MaxBody(cfg.MaxRequestBodyBytes)(mux)
	handler = middleware.Logging(slog.Default())(handler)
	handler = middleware.RequestID(handler)

	const (
		readTimeout = 30 * time.Second
		idleTimeout = 60 * time.Second
	)

	return &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: readTimeout,
		// Write timeout must cover a full dual-provider generation.
		WriteTimeout: cfg.ProviderTimeout + readTimeout,
		IdleTimeout:  idleTimeout,
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled (e.g. signal)
// or the server fails. Caller should then call Shutdown.
func (a *App) Run(ctx context.Context) error {
	runErr := make(chan error, 1)

	go func() {
		slog.Info("Starting server", "port", a.cfg.Port)

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case runErr <- fmt.Errorf("server: %w", err):
			default:
			}
		}
	}()

	select {
	case err := <-runErr:
		return err
	case <-ctx.Done():
		return nil
	}
}

// Shutdown drains in-flight requests. Call after Run returns.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
