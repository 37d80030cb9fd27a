package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS"`
	ChatModel           string `envconfig:"CHAT_MODEL"`

	ChunkMaxChars int `envconfig:"CHUNK_MAX_CHARS" default:"1000"`
	ChunkMinChars int `envconfig:"CHUNK_MIN_CHARS" default:"200"`
	ChunkOverlap  int `envconfig:"CHUNK_OVERLAP" default:"200"`

	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	MaxChunks      int   `envconfig:"MAX_CHUNKS" default:"100000"`

	AskTimeout    time.Duration `envconfig:"ASK_TIMEOUT" default:"60s"`
	ProbeInterval time.Duration `envconfig:"PROBE_INTERVAL" default:"30s"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("LEXORA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != "" || c.OpenAIBaseURL != ""
}
