package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Provider identifies an AI backend. The set is closed; persisted legacy
// values are normalized to one of these once at load time.
type Provider string

const (
	ProviderOnDevice Provider = "on_device"
	ProviderCloud    Provider = "cloud"
	ProviderNone     Provider = "none"
)

// NormalizeProvider maps legacy/deprecated provider strings to the current
// closed enumeration. Unknown values fall back to on_device.
func NormalizeProvider(raw string) Provider {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on_device", "ondevice", "on-device", "local", "apple_intelligence", "foundation_models":
		return ProviderOnDevice
	case "cloud", "cloud_aggregator", "openrouter", "groq":
		return ProviderCloud
	case "none", "disabled", "":
		return ProviderNone
	default:
		return ProviderOnDevice
	}
}

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	AI       AIConfig
	Brief    BriefConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"relata"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret string        `envconfig:"JWT_ACCESS_SECRET" default:"your-access-secret-change-in-production"`
	AccessExpiry time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
}

// StorageConfig holds object storage configuration for transcript archival
type StorageConfig struct {
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"relata-transcripts"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// AIConfig holds AI provider and prompt configuration
type AIConfig struct {
	Primary  Provider `envconfig:"AI_PRIMARY_PROVIDER" default:"on_device"`
	Fallback Provider `envconfig:"AI_FALLBACK_PROVIDER" default:"cloud"`

	OnDeviceBaseURL string `envconfig:"AI_ONDEVICE_BASE_URL" default:"http://localhost:11434"`
	OnDeviceModel   string `envconfig:"AI_ONDEVICE_MODEL" default:"llama3.1"`

	CloudAPIKey  string `envconfig:"AI_CLOUD_API_KEY" default:""`
	CloudBaseURL string `envconfig:"AI_CLOUD_BASE_URL" default:"https://openrouter.ai/api/v1"`
	CloudModel   string `envconfig:"AI_CLOUD_MODEL" default:"openai/gpt-4o-mini"`

	// Custom prompt overrides; substituted verbatim into the default
	// templates when non-empty.
	SummaryPrompt string `envconfig:"AI_SUMMARY_PROMPT" default:""`
	BriefPrompt   string `envconfig:"AI_BRIEF_PROMPT" default:""`

	ChunkThreshold int           `envconfig:"AI_CHUNK_THRESHOLD" default:"150000"`
	ChunkOverlap   int           `envconfig:"AI_CHUNK_OVERLAP" default:"10000"`
	ChunkDelay     time.Duration `envconfig:"AI_CHUNK_DELAY" default:"2s"`

	// CurrentUserName is the owner of the contact directory; it never
	// appears as a participant in their own meetings.
	CurrentUserName string `envconfig:"AI_CURRENT_USER_NAME" default:""`
}

// BriefConfig holds brief cache configuration
type BriefConfig struct {
	TTL     time.Duration `envconfig:"BRIEF_CACHE_TTL" default:"1h"`
	Backend string        `envconfig:"BRIEF_CACHE_BACKEND" default:"memory"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to process environment configuration: %w", err)
	}

	// Normalize legacy provider values once here, not on every access.
	config.AI.Primary = NormalizeProvider(string(config.AI.Primary))
	config.AI.Fallback = NormalizeProvider(string(config.AI.Fallback))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.AI.ChunkThreshold <= 0 {
		return fmt.Errorf("AI_CHUNK_THRESHOLD must be positive")
	}
	if c.AI.ChunkOverlap < 0 || c.AI.ChunkOverlap >= c.AI.ChunkThreshold {
		return fmt.Errorf("AI_CHUNK_OVERLAP must be non-negative and smaller than AI_CHUNK_THRESHOLD")
	}
	if c.Brief.TTL <= 0 {
		return fmt.Errorf("BRIEF_CACHE_TTL must be positive")
	}
	switch c.Brief.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("BRIEF_CACHE_BACKEND must be memory or redis, got %q", c.Brief.Backend)
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
