package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/repository/implementation"
	"ai-docchat-be/pkg/database"
	"ai-docchat-be/pkg/embedding"

	"github.com/fatih/color"
)

// Connectivity and index sanity checks. Run with a query argument to also
// probe the similarity search end to end:
//
//	go run ./cmd/diagnose "what does the report say about revenue"
func main() {
	cfg := config.Load()

	color.Cyan("🚀 Document Chat Diagnostic\n")

	fmt.Println("=" + strings.Repeat("=", 59))
	fmt.Println("BACKEND REACHABILITY")
	fmt.Println("=" + strings.Repeat("=", 59))

	// 1. Database
	color.Yellow("\n[1] Postgres (pgvector)")
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Connected: %s", redactDSN(cfg.Database.Connection))

	ctx := context.Background()
	docRepo := implementation.NewDocumentRepository(db)
	chunkRepo := implementation.NewChunkRepository(db)

	docCount, err := docRepo.Count(ctx)
	if err != nil {
		color.Red("Registry count failed: %v", err)
	} else {
		color.Green("Registry rows: %d", docCount)
	}

	chunkCount, err := chunkRepo.Count(ctx)
	if err != nil {
		color.Red("Chunk count failed: %v", err)
	} else {
		color.Green("Indexed chunks: %d", chunkCount)
	}

	// 2. Embedding backend
	color.Yellow("\n[2] Embedding Provider (%s)", cfg.Ai.EmbeddingProvider)
	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		provider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	} else {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	}

	res, err := provider.Generate("connectivity probe", constant.TaskTypeQuery)
	if err != nil {
		color.Red("Failed: %v", err)
		color.Red("Chat and ingestion will both fail until this is reachable.")
		os.Exit(1)
	}
	color.Green("Embedding OK (%d dimensions)", len(res.Embedding.Values))

	if len(res.Embedding.Values) != constant.EmbeddingDimensions {
		color.Red("Dimension mismatch: got %d, index column is vector(%d)",
			len(res.Embedding.Values), constant.EmbeddingDimensions)
	}

	// 3. Optional probe search
	if len(os.Args) > 1 {
		query := os.Args[1]
		color.Yellow("\n[3] Probe Search: %q", query)

		queryRes, err := provider.Generate(query, constant.TaskTypeQuery)
		if err != nil {
			log.Fatalf("Query embedding failed: %v", err)
		}

		hits, err := chunkRepo.SimilaritySearch(ctx, queryRes.Embedding.Values, 5)
		if err != nil {
			log.Fatalf("Similarity search failed: %v", err)
		}

		if len(hits) == 0 {
			color.Yellow("No chunks indexed yet.")
		}
		for i, hit := range hits {
			conv := hit.Chunk.ConversationId()
			if conv == "" {
				conv = "(none)"
			}
			preview := hit.Chunk.Text
			if len(preview) > 60 {
				preview = preview[:57] + "..."
			}
			fmt.Printf("%d. %-12.4f conv=%-12s %s\n", i+1, hit.Similarity, conv, preview)
		}
	}

	fmt.Println()
	color.Cyan("Diagnostic complete.")
}

func redactDSN(dsn string) string {
	// password=... never belongs on a terminal
	parts := strings.Fields(dsn)
	for i, p := range parts {
		if strings.HasPrefix(p, "password=") {
			parts[i] = "password=***"
		}
	}
	return strings.Join(parts, " ")
}
