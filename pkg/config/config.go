package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Analyzer failure modes
const (
	ModeStrict  = "strict"
	ModeLenient = "lenient"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Chunking   ChunkingConfig
	Scoring    ScoringConfig
	AssemblyAI AssemblyAIConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Webhook    WebhookConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
	RunTimeout      time.Duration
}

// ChunkingConfig holds transcript chunking configuration
type ChunkingConfig struct {
	TargetBlockDuration  time.Duration
	MinLastBlockDuration time.Duration
}

// ScoringConfig holds scoring service configuration
type ScoringConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	Temperature    float64
	MaxTokens      int
	RequestTimeout time.Duration
	MaxRetries     int
	Concurrency    int
	Mode           string
}

// Strict reports whether a failed block aborts the whole run
func (s ScoringConfig) Strict() bool {
	return s.Mode == ModeStrict
}

// AssemblyAIConfig holds transcription provider configuration
type AssemblyAIConfig struct {
	APIKey       string
	PollInterval time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	RunTTL   time.Duration
}

// StorageConfig holds artifact storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
}

// WebhookConfig holds inbound webhook configuration
type WebhookConfig struct {
	Secret string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
			RunTimeout:      getEnvAsDuration("RUN_TIMEOUT", "15m"),
		},
		Chunking: ChunkingConfig{
			TargetBlockDuration:  getEnvAsDuration("TARGET_BLOCK_DURATION", "30m"),
			MinLastBlockDuration: getEnvAsDuration("MIN_LAST_BLOCK_DURATION", "10m"),
		},
		Scoring: ScoringConfig{
			BaseURL:        getEnv("SCORING_BASE_URL", "https://api.openai.com/v1"),
			APIKey:         getEnv("SCORING_API_KEY", ""),
			Model:          getEnv("SCORING_MODEL", "gpt-4o"),
			Temperature:    getEnvAsFloat("SCORING_TEMPERATURE", 0.3),
			MaxTokens:      getEnvAsInt("SCORING_MAX_TOKENS", 2000),
			RequestTimeout: getEnvAsDuration("SCORING_REQUEST_TIMEOUT", "60s"),
			MaxRetries:     getEnvAsInt("SCORING_MAX_RETRIES", 3),
			Concurrency:    getEnvAsInt("SCORING_CONCURRENCY", 3),
			Mode:           getEnv("SCORING_MODE", ModeLenient),
		},
		AssemblyAI: AssemblyAIConfig{
			APIKey:       getEnv("ASSEMBLYAI_API_KEY", ""),
			PollInterval: getEnvAsDuration("ASSEMBLYAI_POLL_INTERVAL", "5s"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			RunTTL:   getEnvAsDuration("RUN_TTL", "24h"),
		},
		Storage: StorageConfig{
			// Empty endpoint leaves artifact uploads disabled
			Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "lecture-insight"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
		},
		Webhook: WebhookConfig{
			Secret: getEnv("WEBHOOK_SECRET", ""),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration. ASSEMBLYAI_API_KEY is not required:
// without it the service still analyzes webhook payloads that carry segments
// and inline transcripts, and rejects recording-URL runs at intake.
func (c *Config) Validate() error {
	if c.Scoring.APIKey == "" {
		return fmt.Errorf("SCORING_API_KEY is required")
	}
	if c.Scoring.Mode != ModeStrict && c.Scoring.Mode != ModeLenient {
		return fmt.Errorf("SCORING_MODE must be %q or %q, got %q", ModeStrict, ModeLenient, c.Scoring.Mode)
	}
	if c.Chunking.TargetBlockDuration <= 0 {
		return fmt.Errorf("TARGET_BLOCK_DURATION must be positive")
	}
	if c.Scoring.Concurrency < 1 {
		return fmt.Errorf("SCORING_CONCURRENCY must be at least 1")
	}
	if c.Scoring.RequestTimeout >= c.Server.RunTimeout {
		return fmt.Errorf("SCORING_REQUEST_TIMEOUT must be shorter than RUN_TIMEOUT")
	}
	return nil
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
