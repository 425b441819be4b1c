package bootstrap

import (
	"context"
	"log"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/controller"
	"ai-docchat-be/internal/handler"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/internal/repository/implementation"
	"ai-docchat-be/internal/repository/memory"
	redisrepo "ai-docchat-be/internal/repository/redis"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/internal/websocket"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/llm/factory"
	"ai-docchat-be/pkg/loader"
	"ai-docchat-be/pkg/rag/retrieval"
	"ai-docchat-be/pkg/rag/turnlog"

	pktNats "ai-docchat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	ChatController     controller.IChatController
	HealthController   controller.IHealthController
	AdminController    controller.IAdminController

	// Background Services (Exposed for main.go to run)
	CleanupConsumerService service.ICleanupConsumerService

	// WebSockets & Events
	EventHandler *handler.EventHandler
	WebSocketHub *websocket.Hub

	// TurnLogger is exposed so main can drain it on shutdown.
	TurnLogger *turnlog.Logger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Document loaders (txt/md/docx/pdf/xlsx)
	loaders := loader.NewRegistry()

	// 2.5 Infrastructure (Moved up for dependency injection)
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	redisUp := true
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		redisUp = false
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Turn counter: Redis survives restarts and replicas, memory covers dev
	var turnCounter contract.TurnCounterRepository
	if redisUp {
		turnCounter = redisrepo.NewTurnCounterRepository(rdb)
		log.Printf("[INFO] Turn counter: redis")
	} else {
		turnCounter = memory.NewTurnCounterRepository()
		log.Printf("[INFO] Turn counter: in-process memory")
	}

	// Conversation audit log (JSONL, async)
	turnLogger, err := turnlog.New(cfg.Rag.TurnLogPath, log.Default())
	if err != nil {
		log.Fatalf("[FATAL] Failed to open turn log at %s: %v", cfg.Rag.TurnLogPath, err)
	}

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, constant.TopicChunkCleanup)
	cleanupConsumerService := service.NewCleanupConsumerService(
		pubSub,
		constant.TopicChunkCleanup,
		uowFactory,
	)

	documentService := service.NewDocumentService(
		uowFactory,
		loaders,
		embeddingProvider, // Injected
		publisherService,
		natsPub,
	)

	retrievalCfg := retrieval.DefaultConfig()
	if cfg.Rag.TopK > 0 {
		retrievalCfg.TopK = cfg.Rag.TopK
	}
	gate := retrieval.NewGate(embeddingProvider, implementation.NewChunkRepository(db), log.Default())

	chatService := service.NewChatService(
		gate,
		retrievalCfg,
		llmProvider, // Injected
		turnCounter,
		turnLogger,
	)

	adminService := service.NewAdminService(documentService, sysLogger)

	// 4.5 Event Stream (NATS -> WebSocket)
	eventStreamService := service.NewEventStreamService(natsSub, wsHub, wsLogger) // Hub implements EventDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go eventStreamService.Start()
	}

	// Handler
	eventHandler := handler.NewEventHandler(natsPub, wsHub, wsLogger)

	// 5. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		EventHandler:       eventHandler,
		WebSocketHub:       wsHub,
		DocumentController: controller.NewDocumentController(documentService, loaders, cfg.Rag.UploadDir),
		ChatController:     controller.NewChatController(chatService),
		HealthController:   controller.NewHealthController(db, cfg, natsPub),
		AdminController:    controller.NewAdminController(adminService),

		CleanupConsumerService: cleanupConsumerService,
		TurnLogger:             turnLogger,
	}
}
