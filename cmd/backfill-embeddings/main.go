// backfill-embeddings ingests every document that was uploaded but never
// segmented (chunk backlog after an outage or a bulk import). Run it as a
// one-off; the API server is not required.
package main

import (
	"context"
	"log/slog"
	"os"

	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/docduel/docduel/internal/config"
	"github.com/docduel/docduel/internal/embeddings"
	"github.com/docduel/docduel/internal/observability"
	"github.com/docduel/docduel/internal/repository"
	"github.com/docduel/docduel/internal/service"
	"github.com/docduel/docduel/pkg/database"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)

		return exitFailure
	}

	slog.SetDefault(observability.NewLogger(cfg.LogLevel))

	ctx := context.Background()

	db, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, database.WithAfterConnect(pgxvec.RegisterTypes))
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)

		return exitFailure
	}
	defer db.Close()

	documentsRepo := repository.NewDocumentsRepository(db)
	chunksRepo := repository.NewChunksRepository(db)
	embedder := embeddings.NewOpenAIClient(cfg.OpenAIAPIKey, embeddings.WithRateLimit(cfg.EmbeddingRPS))

	svc := service.NewIngestionService(
		documentsRepo, chunksRepo, embedder, cfg.ChunkSize, cfg.ChunkOverlap, slog.Default(),
	)

	ids, err := documentsRepo.ListIDsWithoutChunks(ctx)
	if err != nil {
		slog.Error("Failed to list pending documents", "error", err)

		return exitFailure
	}

	if len(ids) == 0 {
		slog.Info("No documents pending ingestion")

		return exitSuccess
	}

	var failed int

	for _, id := range ids {
		result, err := svc.Ingest(ctx, id)
		if err != nil {
			slog.Error("Ingestion failed", "document_id", id, "error", err)
			failed++

			continue
		}

		slog.Info("Document ingested", "document_id", id, "chunks", result.ChunkCount)
	}

	slog.Info("Backfill complete", "total", len(ids), "failed", failed)

	if failed > 0 {
		return exitFailure
	}

	return exitSuccess
}
