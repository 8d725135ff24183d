package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  user: styleum
  password: secret
  name: styleum
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 20, cfg.Database.MaxConns)
	assert.Equal(t, "gpt-4o", cfg.Models.VisionPrimary)
	assert.Equal(t, "gpt-4o-mini", cfg.Models.VisionFallback)
	assert.Equal(t, cfg.Models.VisionPrimary, cfg.Models.OCRPrimary)
	assert.Equal(t, 60*time.Second, cfg.Models.ReasoningTimeout)
	assert.Equal(t, "remote", cfg.Models.EmbeddingBackend)
	assert.Equal(t, 512, cfg.Models.EmbeddingDim)
	assert.Equal(t, 0.25, cfg.Pipeline.AnchorThreshold)
	assert.Equal(t, 5, cfg.Pipeline.AnchorTopK)
	assert.Equal(t, 5, cfg.Pipeline.CorrectionLimit)
	assert.Equal(t, 0.5, cfg.Pipeline.VibeTagThreshold)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
models:
  vision_primary: gpt-5-vision
  embedding_backend: onnx
  embedding_dim: 768
pipeline:
  worker_count: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "gpt-5-vision", cfg.Models.VisionPrimary)
	assert.Equal(t, 60*time.Second, cfg.Models.ReasoningTimeout, "default applies when unset")
	assert.Equal(t, "onnx", cfg.Models.EmbeddingBackend)
	assert.Equal(t, 768, cfg.Models.EmbeddingDim)
	assert.Equal(t, 8, cfg.Pipeline.WorkerCount)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STYLEUM_SERVER_PORT", "7777")
	t.Setenv("STYLEUM_DB_HOST", "db.internal")
	t.Setenv("STYLEUM_MODELS_API_KEY", "sk-env")
	t.Setenv("STYLEUM_EMBEDDING_BACKEND", "onnx")

	path := writeConfig(t, `
server:
  port: 9000
database:
  host: localhost
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "sk-env", cfg.Models.APIKey)
	assert.Equal(t, "onnx", cfg.Models.EmbeddingBackend)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "localhost", Port: 5432,
		Name: "styleum", User: "app", Password: "pw",
	}
	assert.Equal(t, "postgres://app:pw@localhost:5432/styleum?sslmode=disable", cfg.DSN())
}
