package app

import (
	"github.com/gin-gonic/gin"

	redisclient "github.com/langflix/langflix-backend/internal/clients/redis"
	"github.com/langflix/langflix-backend/internal/content"
	"github.com/langflix/langflix-backend/internal/http/handlers"
	"github.com/langflix/langflix-backend/internal/platform/clock"
	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/services"
	"github.com/langflix/langflix-backend/internal/types"
)

// App owns the full dependency graph.
type App struct {
	Log    *logger.Logger
	Config Config
	Router *gin.Engine

	Orchestrator services.Orchestrator
	Feed         services.FeedService
	Catalog      *content.Catalog
}

// New wires services bottom-up: store, interpreter, profiles, engine, scorer,
// feed, then the orchestrator and HTTP layer on top.
func New(log *logger.Logger, cfg Config, items []types.ContentItem) *App {
	clk := clock.New()

	store := services.NewSignalStore(log, clk)
	interpreter := services.NewSignalInterpreter(log, store)
	profiles := services.NewProfileService(log, clk)
	engine := services.NewAdjustmentEngine(log, profiles, clk)
	scorer := services.NewDifficultyScorer(log)
	catalog := content.NewCatalog(items)

	// Redis is optional; without it the feed cache lives in process.
	var cache services.FeedCache
	if cfg.RedisAddr != "" {
		rc, err := redisclient.NewFeedCache(log)
		if err != nil {
			log.Warn("redis feed cache unavailable, using in-memory cache", "error", err)
		} else {
			cache = rc
		}
	}
	if cache == nil {
		cache = services.NewMemoryFeedCache(clk)
	}

	feed := services.NewFeedService(log, profiles, interpreter, scorer, catalog, cache, cfg.FeedTTL, clk)
	vocab := content.NewVocabulary(content.SeedRanks())
	orch := services.NewOrchestrator(log, store, interpreter, profiles, engine, scorer, feed, vocab)

	adaptive := handlers.NewAdaptiveHandler(log, orch, feed)
	router := NewRouter(log, adaptive)

	return &App{
		Log:          log,
		Config:       cfg,
		Router:       router,
		Orchestrator: orch,
		Feed:         feed,
		Catalog:      catalog,
	}
}

func (a *App) Run() error {
	a.Log.Info("server listening", "port", a.Config.Port)
	return a.Router.Run(":" + a.Config.Port)
}
