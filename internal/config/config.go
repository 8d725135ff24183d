package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Models   ModelsConfig   `yaml:"models"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type MinIOConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	AccessKey string        `yaml:"access_key"`
	SecretKey string        `yaml:"secret_key"`
	Bucket    string        `yaml:"bucket"`
	UseSSL    bool          `yaml:"use_ssl"`
	URLExpiry time.Duration `yaml:"url_expiry"`
}

// ModelsConfig describes the external model endpoints the pipeline invokes.
// Vision and OCR each carry a primary and a fallback model name; reasoning
// has no fallback. The embedding backend is either "remote" (HTTP endpoint
// returning a vector for an image URL) or "onnx" (local CLIP-style session).
type ModelsConfig struct {
	BaseURL          string        `yaml:"base_url"`
	APIKey           string        `yaml:"api_key"`
	VisionPrimary    string        `yaml:"vision_primary"`
	VisionFallback   string        `yaml:"vision_fallback"`
	OCRPrimary       string        `yaml:"ocr_primary"`
	OCRFallback      string        `yaml:"ocr_fallback"`
	Reasoning        string        `yaml:"reasoning"`
	ReasoningTimeout time.Duration `yaml:"reasoning_timeout"`
	VisionTimeout    time.Duration `yaml:"vision_timeout"`

	EmbeddingBackend  string `yaml:"embedding_backend"` // remote | onnx
	EmbeddingURL      string `yaml:"embedding_url"`
	EmbeddingModel    string `yaml:"embedding_model"`
	EmbeddingDim      int    `yaml:"embedding_dim"`
	EmbeddingONNXPath string `yaml:"embedding_onnx_path"`
}

type PipelineConfig struct {
	AnchorThreshold  float64 `yaml:"anchor_threshold"`
	AnchorTopK       int     `yaml:"anchor_top_k"`
	CorrectionLimit  int     `yaml:"correction_limit"`
	WorkerCount      int     `yaml:"worker_count"`
	VibeTagThreshold float64 `yaml:"vibe_tag_threshold"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 20
	}
	if cfg.MinIO.URLExpiry == 0 {
		cfg.MinIO.URLExpiry = 15 * time.Minute
	}
	if cfg.Models.VisionPrimary == "" {
		cfg.Models.VisionPrimary = "gpt-4o"
	}
	if cfg.Models.VisionFallback == "" {
		cfg.Models.VisionFallback = "gpt-4o-mini"
	}
	if cfg.Models.OCRPrimary == "" {
		cfg.Models.OCRPrimary = cfg.Models.VisionPrimary
	}
	if cfg.Models.OCRFallback == "" {
		cfg.Models.OCRFallback = cfg.Models.VisionFallback
	}
	if cfg.Models.Reasoning == "" {
		cfg.Models.Reasoning = "gpt-4o"
	}
	if cfg.Models.ReasoningTimeout == 0 {
		cfg.Models.ReasoningTimeout = 60 * time.Second
	}
	if cfg.Models.VisionTimeout == 0 {
		cfg.Models.VisionTimeout = 30 * time.Second
	}
	if cfg.Models.EmbeddingBackend == "" {
		cfg.Models.EmbeddingBackend = "remote"
	}
	if cfg.Models.EmbeddingDim == 0 {
		cfg.Models.EmbeddingDim = 512
	}
	if cfg.Pipeline.AnchorThreshold == 0 {
		cfg.Pipeline.AnchorThreshold = 0.25
	}
	if cfg.Pipeline.AnchorTopK == 0 {
		cfg.Pipeline.AnchorTopK = 5
	}
	if cfg.Pipeline.CorrectionLimit == 0 {
		cfg.Pipeline.CorrectionLimit = 5
	}
	if cfg.Pipeline.WorkerCount == 0 {
		cfg.Pipeline.WorkerCount = 4
	}
	if cfg.Pipeline.VibeTagThreshold == 0 {
		cfg.Pipeline.VibeTagThreshold = 0.5
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STYLEUM_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("STYLEUM_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("STYLEUM_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("STYLEUM_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("STYLEUM_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("STYLEUM_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("STYLEUM_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("STYLEUM_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("STYLEUM_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("STYLEUM_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("STYLEUM_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("STYLEUM_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("STYLEUM_MODELS_BASE_URL"); v != "" {
		cfg.Models.BaseURL = v
	}
	if v := os.Getenv("STYLEUM_MODELS_API_KEY"); v != "" {
		cfg.Models.APIKey = v
	}
	if v := os.Getenv("STYLEUM_EMBEDDING_URL"); v != "" {
		cfg.Models.EmbeddingURL = v
	}
	if v := os.Getenv("STYLEUM_EMBEDDING_BACKEND"); v != "" {
		cfg.Models.EmbeddingBackend = v
	}
	if v := os.Getenv("STYLEUM_PIPELINE_WORKER_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.WorkerCount = n
		}
	}
}
