package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig indicates the loaded configuration failed validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Embedding provider names accepted in EmbeddingProvider.
const (
	ProviderBedrock = "bedrock"
	ProviderOllama  = "ollama"
	ProviderOpenAI  = "openai"
)

// Vector backend names accepted in VectorBackend.
const (
	BackendS3Vectors = "s3vectors"
	BackendSQLite    = "sqlite"
	BackendMemory    = "memory"
)

// Config holds every tunable the CLI, MCP server and crawler read.
type Config struct {
	// Source
	RepoURL     string `toml:"repo_url" env:"REPO_URL"`
	Branch      string `toml:"branch" env:"BRANCH"`
	GitHubToken string `toml:"github_token" env:"GITHUB_TOKEN"`

	// Chunking
	ChunkSize    int `toml:"chunk_size" env:"CHUNK_SIZE"`
	ChunkOverlap int `toml:"chunk_overlap" env:"CHUNK_OVERLAP"`

	// Crawling
	MaxFiles     int      `toml:"max_files" env:"MAX_FILES"`
	SkipPatterns []string `toml:"skip_patterns" env:"SKIP_PATTERNS" envSeparator:","`
	EmbedWorkers int      `toml:"embed_workers" env:"EMBED_WORKERS"`

	// Embedding
	EmbeddingProvider   string `toml:"embedding_provider" env:"EMBEDDING_PROVIDER"`
	EmbeddingModelID    string `toml:"embedding_model_id" env:"EMBEDDING_MODEL_ID"`
	EmbeddingDimensions int    `toml:"embedding_dimensions" env:"EMBEDDING_DIMENSIONS"`
	OllamaURL           string `toml:"ollama_url" env:"OLLAMA_URL"`
	OpenAIAPIKey        string `toml:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL       string `toml:"openai_base_url" env:"OPENAI_BASE_URL"`

	// Vector storage
	VectorBackend string `toml:"vector_backend" env:"VECTOR_BACKEND"`
	BucketName    string `toml:"bucket_name" env:"BUCKET_NAME"`
	IndexName     string `toml:"index_name" env:"INDEX_NAME"`
	AWSRegion     string `toml:"aws_region" env:"AWS_REGION"`
	SQLitePath    string `toml:"sqlite_path" env:"SQLITE_PATH"`

	// Logging
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Branch:              "main",
		ChunkSize:           1024,
		ChunkOverlap:        200,
		MaxFiles:            100,
		EmbedWorkers:        4,
		EmbeddingProvider:   ProviderBedrock,
		EmbeddingModelID:    "amazon.titan-embed-text-v2:0",
		EmbeddingDimensions: 1024,
		OllamaURL:           "http://localhost:11434",
		VectorBackend:       BackendS3Vectors,
		AWSRegion:           "us-east-2",
		LogLevel:            "info",
	}
}

// DefaultDir returns the wikivec config directory (~/.wikivec).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".wikivec"), nil
}

// DefaultPath returns the config file path (~/.wikivec/config.toml).
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load builds the effective configuration: defaults, overlaid by the
// TOML file at path (missing files are fine), overlaid by environment
// variables. A .env file in the working directory is autoloaded
// first. An empty path means the default location.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// First run; defaults and environment carry it.
	default:
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	_ = godotenv.Load()

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.SQLitePath == "" {
		if dir, err := DefaultDir(); err == nil {
			cfg.SQLitePath = filepath.Join(dir, "vectors.db")
		}
	}

	return cfg, nil
}

// Validate checks the configuration for values no command could run
// with. Command-specific requirements (a repository URL for crawl, a
// token for GitHub sources) are checked at the command layer.
func (c Config) Validate() error {
	var problems []string

	if c.ChunkSize <= 0 {
		problems = append(problems, "chunk_size must be positive")
	}
	if c.ChunkOverlap < 0 {
		problems = append(problems, "chunk_overlap must not be negative")
	}
	if c.MaxFiles < 0 {
		problems = append(problems, "max_files must not be negative")
	}
	if c.EmbedWorkers <= 0 {
		problems = append(problems, "embed_workers must be positive")
	}
	if c.EmbeddingDimensions <= 0 {
		problems = append(problems, "embedding_dimensions must be positive")
	}

	switch c.EmbeddingProvider {
	case ProviderBedrock, ProviderOllama:
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			problems = append(problems, "openai_api_key is required for the openai provider")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown embedding_provider %q", c.EmbeddingProvider))
	}

	switch c.VectorBackend {
	case BackendS3Vectors:
		if c.BucketName == "" {
			problems = append(problems, "bucket_name is required for the s3vectors backend")
		}
		if c.IndexName == "" {
			problems = append(problems, "index_name is required for the s3vectors backend")
		}
	case BackendSQLite, BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown vector_backend %q", c.VectorBackend))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
