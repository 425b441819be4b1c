package controller

import (
	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/pkg/serverutils"
	pktNats "ai-docchat-be/pkg/nats"
	"ai-docchat-be/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Check(ctx *fiber.Ctx) error
}

type healthController struct {
	db     *gorm.DB
	cfg    *config.Config
	events *pktNats.Publisher
}

func NewHealthController(db *gorm.DB, cfg *config.Config, events *pktNats.Publisher) IHealthController {
	return &healthController{
		db:     db,
		cfg:    cfg,
		events: events,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/health/v1")
	h.Get("", c.Check)
}

// Check reports whether the index database is reachable plus the active
// pipeline configuration, so a frontend can explain degraded answers.
func (c *healthController) Check(ctx *fiber.Ctx) error {
	status := "ok"
	dbStatus := "up"

	sqlDB, err := c.db.DB()
	if err != nil {
		status = "degraded"
		dbStatus = "down: " + err.Error()
	} else if err := sqlDB.PingContext(ctx.Context()); err != nil {
		status = "degraded"
		dbStatus = "down: " + err.Error()
	}

	eventsStatus := "down"
	if c.events.IsConnected() {
		eventsStatus = "up"
	}

	snapshot := fiber.Map{
		"status":     status,
		"database":   dbStatus,
		"events_bus": eventsStatus,
		"components": fiber.Map{
			"embedding_provider": c.cfg.Ai.EmbeddingProvider,
			"embedding_model":    c.cfg.Ai.OllamaModel,
			"llm_provider":       c.cfg.Ai.LLMProvider,
			"llm_model":          c.cfg.Ai.LLMModel,
			"chunk_size":         utils.DefaultChunkSize,
			"chunk_overlap":      utils.DefaultChunkOverlap,
			"retrieval_top_k":    c.cfg.Rag.TopK,
			"embedding_dim":      constant.EmbeddingDimensions,
		},
	}

	if status != "ok" {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.SuccessResponse("Health check", snapshot))
	}
	return ctx.JSON(serverutils.SuccessResponse("Health check", snapshot))
}
