package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/styleum/internal/api/handlers"
	"github.com/your-org/styleum/internal/api/ws"
	"github.com/your-org/styleum/internal/auth"
	"github.com/your-org/styleum/internal/pipeline"
	"github.com/your-org/styleum/internal/queue"
	"github.com/your-org/styleum/internal/storage"
)

type RouterConfig struct {
	APIKey   string
	DB       *storage.PostgresStore
	Photos   *storage.PhotoStore
	Producer *queue.Producer
	Hub      *ws.Hub
	Pipeline *pipeline.Pipeline
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.DB, cfg.Photos, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.APIKey))

	// WebSocket
	v1.GET("/ws", cfg.Hub.HandleWS)

	// Items
	itemH := handlers.NewItemHandler(cfg.DB, cfg.Photos)
	v1.POST("/items", itemH.Create)
	v1.GET("/items", itemH.List)
	v1.GET("/items/:id", itemH.Get)
	v1.GET("/items/:id/photo", itemH.Photo)

	// Analysis
	analyzeH := handlers.NewAnalyzeHandler(cfg.DB, cfg.Photos, cfg.Producer, cfg.Pipeline)
	v1.POST("/items/:id/analyze", analyzeH.Analyze)
	v1.POST("/items/:id/reanalyze", analyzeH.Reanalyze)

	// Corrections
	corrH := handlers.NewCorrectionHandler(cfg.DB, cfg.Photos, cfg.Producer)
	v1.POST("/corrections", corrH.Create)
	v1.GET("/corrections", corrH.List)

	// Search & anchors
	searchH := handlers.NewSearchHandler(cfg.DB)
	v1.POST("/search/similar", searchH.Similar)
	v1.GET("/anchors", searchH.Anchors)

	return r
}
