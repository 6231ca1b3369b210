package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mlehane/shelfscout/internal/config"
	"github.com/mlehane/shelfscout/internal/llm"
	"github.com/mlehane/shelfscout/internal/service"
	"github.com/mlehane/shelfscout/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// createOrchestrator builds the provider fallback chain from configuration.
func createOrchestrator() *llm.Orchestrator {
	cfg := config.LoadLLMConfig()
	chain := llm.NewChain(cfg)
	return llm.NewOrchestrator(chain, slog.Default())
}
