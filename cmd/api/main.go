package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/your-org/styleum/internal/api"
	"github.com/your-org/styleum/internal/api/handlers"
	"github.com/your-org/styleum/internal/api/ws"
	"github.com/your-org/styleum/internal/config"
	"github.com/your-org/styleum/internal/models"
	"github.com/your-org/styleum/internal/observability"
	"github.com/your-org/styleum/internal/pipeline"
	"github.com/your-org/styleum/internal/queue"
	"github.com/your-org/styleum/internal/storage"
	"github.com/your-org/styleum/pkg/dto"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting styleum API service", "port", cfg.Server.Port)

	// Connect to Postgres
	db, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to MinIO
	photos, err := storage.NewPhotoStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}
	if err := photos.EnsureBucket(context.Background()); err != nil {
		slog.Warn("ensure minio bucket", "error", err)
	}

	// Connect to NATS
	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureStreams(context.Background()); err != nil {
		slog.Warn("ensure nats streams", "error", err)
	}

	// Local embedding runtime, only for the onnx backend
	if cfg.Models.EmbeddingBackend == "onnx" {
		ort.SetSharedLibraryPath(getONNXLibPath())
		if err := ort.InitializeEnvironment(); err != nil {
			slog.Error("init onnx runtime", "error", err)
			os.Exit(1)
		}
		defer ort.DestroyEnvironment()
	}

	// Analysis pipeline (used by the synchronous /analyze endpoint)
	pipe, cleanup, err := pipeline.Build(cfg.Models, cfg.Pipeline, db, db, db)
	if err != nil {
		slog.Error("init analysis pipeline", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Consume annotation events from workers and broadcast them
	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create event consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = consumer.ConsumeEvents(ctx, "api-events", func(ctx context.Context, msg jetstream.Msg) error {
		var evt models.AnnotationEvent
		if err := json.Unmarshal(msg.Data(), &evt); err != nil {
			return err
		}

		wsEvent := &dto.WSEvent{
			ItemID: evt.ItemID,
			UserID: evt.UserID,
		}
		if evt.Status == "completed" {
			wsEvent.Type = "item_analyzed"
			item, err := db.GetItem(ctx, evt.ItemID)
			if err == nil && item != nil {
				resp := handlers.NewItemResponse(item, "")
				wsEvent.Data = &resp
			}
		} else {
			wsEvent.Type = "item_failed"
			wsEvent.Error = evt.Error
		}

		hub.BroadcastEvent(wsEvent)
		return nil
	})
	if err != nil {
		slog.Warn("start event consumer", "error", err)
	}

	// Setup router
	router := api.NewRouter(api.RouterConfig{
		APIKey:   cfg.Server.APIKey,
		DB:       db,
		Photos:   photos,
		Producer: producer,
		Hub:      hub,
		Pipeline: pipe,
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("API server stopped")
}

// getONNXLibPath returns the ONNX Runtime shared library path.
func getONNXLibPath() string {
	switch runtime.GOOS {
	case "windows":
		return "onnxruntime.dll"
	case "linux":
		return "libonnxruntime.so"
	case "darwin":
		return "libonnxruntime.dylib"
	default:
		return "onnxruntime.dll"
	}
}
