package bootstrap

import (
	"context"
	"log"

	"fintech-assistant-be/internal/config"
	"fintech-assistant-be/internal/controller"
	"fintech-assistant-be/internal/pkg/logger"
	"fintech-assistant-be/internal/repository/implementation"
	"fintech-assistant-be/internal/repository/unitofwork"
	"fintech-assistant-be/internal/service"
	"fintech-assistant-be/pkg/embedding"
	"fintech-assistant-be/pkg/llm/factory"
	"fintech-assistant-be/pkg/rag"
	"fintech-assistant-be/pkg/vectorindex"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	SessionController controller.ISessionController
	AuthController    controller.IAuthController

	// Exposed for cmd tooling
	VectorIndex *vectorindex.Index
	Logger      logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. AI providers, chosen once at startup
	embeddingProvider := NewEmbeddingProvider(cfg)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.GeminiModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiApiKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.GeminiModel)

	// 3. Retrieval stack
	faqRepo := implementation.NewFaqEmbeddingRepository(db)
	index := vectorindex.New(embeddingProvider, faqRepo)
	if err := index.EnsureReady(context.Background()); err != nil {
		log.Fatalf("[FATAL] Failed to prepare vector index: %v", err)
	}

	orchestrator := rag.NewOrchestrator(index, llmProvider, sysLogger, cfg.Ai.SearchTopK)

	// 4. Services
	sessionService := service.NewSessionService(uowFactory, sysLogger)
	chatbotService := service.NewChatbotService(sessionService, orchestrator, sysLogger)
	authService := service.NewAuthService(uowFactory, sessionService, cfg.Auth, sysLogger)

	// 5. Controllers
	return &Container{
		ChatController:    controller.NewChatController(chatbotService),
		SessionController: controller.NewSessionController(sessionService),
		AuthController:    controller.NewAuthController(authService, sessionService),
		VectorIndex:       index,
		Logger:            sysLogger,
	}
}

// NewEmbeddingProvider picks the embedding backend from config. Shared with
// the ingest command so both sides of the index use the same vectors.
func NewEmbeddingProvider(cfg *config.Config) embedding.Provider {
	if cfg.Ai.EmbeddingProvider == "ollama" {
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	}
	log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.EmbeddingModel)
	return embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey, cfg.Ai.EmbeddingModel)
}
