package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	ort "github.com/yalue/onnxruntime_go"
	"gopkg.in/yaml.v3"

	"github.com/your-org/styleum/internal/ai"
	"github.com/your-org/styleum/internal/config"
	"github.com/your-org/styleum/internal/observability"
	"github.com/your-org/styleum/internal/storage"
)

// anchorSeed is one entry of the seed file: a vibe name and a reference
// image whose embedding becomes the anchor.
type anchorSeed struct {
	Name     string `yaml:"name"`
	ImageURL string `yaml:"image_url"`
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	seedPath := flag.String("seeds", "configs/anchors.yaml", "path to anchor seed file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("seeding vibe anchors", "seeds", *seedPath)

	data, err := os.ReadFile(*seedPath)
	if err != nil {
		slog.Error("read seed file", "error", err)
		os.Exit(1)
	}
	var seeds []anchorSeed
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		slog.Error("parse seed file", "error", err)
		os.Exit(1)
	}

	db, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var embedder ai.EmbeddingModel
	switch cfg.Models.EmbeddingBackend {
	case "onnx":
		ort.SetSharedLibraryPath(getONNXLibPath())
		if err := ort.InitializeEnvironment(); err != nil {
			slog.Error("init onnx runtime", "error", err)
			os.Exit(1)
		}
		defer ort.DestroyEnvironment()

		onnx, err := ai.NewONNXEmbedder(cfg.Models.EmbeddingONNXPath, cfg.Models.EmbeddingDim)
		if err != nil {
			slog.Error("init onnx embedder", "error", err)
			os.Exit(1)
		}
		defer onnx.Close()
		embedder = onnx
	default:
		embedder = ai.NewRemoteEmbedder(
			cfg.Models.EmbeddingURL,
			cfg.Models.APIKey,
			cfg.Models.EmbeddingModel,
			cfg.Models.EmbeddingDim,
			cfg.Models.VisionTimeout,
		)
	}

	ctx := context.Background()
	seeded := 0
	for _, seed := range seeds {
		if seed.Name == "" || seed.ImageURL == "" {
			slog.Warn("skipping incomplete seed entry", "name", seed.Name)
			continue
		}

		embedding, err := embedder.Embed(ctx, seed.ImageURL)
		if err != nil {
			slog.Error("embed anchor reference", "name", seed.Name, "error", err)
			continue
		}

		anchor, err := db.UpsertAnchor(ctx, seed.Name, embedding)
		if err != nil {
			slog.Error("upsert anchor", "name", seed.Name, "error", err)
			continue
		}

		slog.Info("anchor seeded", "name", anchor.Name, "id", anchor.ID)
		seeded++
	}

	slog.Info("seeding complete", "seeded", seeded, "total", len(seeds))
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
