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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/your-org/styleum/internal/config"
	"github.com/your-org/styleum/internal/models"
	"github.com/your-org/styleum/internal/observability"
	"github.com/your-org/styleum/internal/pipeline"
	"github.com/your-org/styleum/internal/queue"
	"github.com/your-org/styleum/internal/storage"
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

	slog.Info("starting styleum analysis worker",
		"workers", cfg.Pipeline.WorkerCount,
		"cpu_cores", runtime.NumCPU(),
	)

	// Local embedding runtime, only for the onnx backend
	if cfg.Models.EmbeddingBackend == "onnx" {
		ort.SetSharedLibraryPath(getONNXLibPath())
		if err := ort.InitializeEnvironment(); err != nil {
			slog.Error("init onnx runtime", "error", err)
			os.Exit(1)
		}
		defer ort.DestroyEnvironment()
	}

	// Connect to Postgres
	db, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to NATS
	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats producer", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureStreams(context.Background()); err != nil {
		slog.Warn("ensure nats streams", "error", err)
	}

	// Assemble the analysis pipeline
	pipe, cleanup, err := pipeline.Build(cfg.Models, cfg.Pipeline, db, db, db)
	if err != nil {
		slog.Error("init analysis pipeline", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	slog.Info("analysis pipeline initialized", "embedding_dimensions", pipe.Dimensions())

	// Create NATS consumer
	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start consuming analysis tasks
	err = consumer.ConsumeTasks(ctx, "analysis-workers", func(ctx context.Context, msg jetstream.Msg) error {
		var task models.AnalysisTask
		if err := json.Unmarshal(msg.Data(), &task); err != nil {
			slog.Error("unmarshal analysis task", "error", err)
			return nil // Don't retry on unmarshal errors
		}

		analysis, err := pipe.Analyze(ctx, models.AnalysisRequest{
			ItemID:   task.ItemID,
			ImageURL: task.ImageURL,
			UserID:   task.UserID,
		})

		evt := models.AnnotationEvent{
			ItemID:     task.ItemID,
			UserID:     task.UserID,
			AnalyzedAt: time.Now().UTC(),
		}
		if err != nil {
			evt.Status = "failed"
			evt.Error = err.Error()
		} else {
			evt.Status = "completed"
			evt.Analysis = analysis
			evt.Dimensions = pipe.Dimensions()
			observability.AnalysesCompleted.WithLabelValues("queue").Inc()
		}

		if pubErr := producer.PublishEvent(ctx, task.ItemID.String(), evt); pubErr != nil {
			slog.Error("publish annotation event", "item_id", task.ItemID, "error", pubErr)
		}

		if err != nil {
			return fmt.Errorf("analyze item %s: %w", task.ItemID, err)
		}
		return nil
	}, cfg.Pipeline.WorkerCount)
	if err != nil {
		slog.Error("start task consumer", "error", err)
		os.Exit(1)
	}

	// Metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		slog.Info("worker metrics listening", "addr", ":8082")
		if err := http.ListenAndServe(":8082", mux); err != nil {
			slog.Error("metrics server error", "error", err)
		}
	}()

	// Periodically report queue depth
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				depth, err := producer.QueueDepth(ctx)
				if err == nil {
					observability.QueueDepth.Set(float64(depth))
				}
			}
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down worker...")
	cancel()
	time.Sleep(2 * time.Second)
	slog.Info("worker stopped")
}

// getONNXLibPath returns the ONNX Runtime shared library path
// based on the operating system.
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
