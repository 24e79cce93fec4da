// Loads a markdown FAQ file into the vector index.
//
//	go run ./cmd/ingest --file data/fintech_faqs.md
//	go run ./cmd/ingest --file data/fintech_faqs.md --reset
package main

import (
	"context"
	"flag"
	"log"

	"fintech-assistant-be/internal/bootstrap"
	"fintech-assistant-be/internal/config"
	"fintech-assistant-be/internal/repository/implementation"
	"fintech-assistant-be/pkg/database"
	"fintech-assistant-be/pkg/faq"
	"fintech-assistant-be/pkg/vectorindex"

	"github.com/fatih/color"
)

func main() {
	filePath := flag.String("file", "data/fintech_faqs.md", "markdown FAQ file to ingest")
	reset := flag.Bool("reset", false, "delete all existing vectors before ingesting")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}

	provider := bootstrap.NewEmbeddingProvider(cfg)
	repo := implementation.NewFaqEmbeddingRepository(db)
	index := vectorindex.New(provider, repo)

	ctx := context.Background()
	if err := index.EnsureReady(ctx); err != nil {
		log.Fatalf("Failed to prepare vector index: %v", err)
	}

	if *reset {
		color.Yellow("Resetting index...")
		if err := index.DeleteAll(ctx); err != nil {
			log.Fatalf("Failed to reset index: %v", err)
		}
	}

	docs, err := faq.ParseFile(*filePath)
	if err != nil {
		log.Fatalf("Failed to parse %s: %v", *filePath, err)
	}
	color.Cyan("Parsed %d FAQ documents from %s", len(docs), *filePath)

	if err := index.Upsert(ctx, docs); err != nil {
		log.Fatalf("Failed to upsert documents: %v", err)
	}

	total, err := index.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count vectors: %v", err)
	}
	color.Green("Done. Index now holds %d vectors.", total)
}
