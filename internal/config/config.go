package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	CDNCloudinary = "cloudinary"
	CDNSupabase   = "supabase"

	HistoryMongo    = "mongo"
	HistoryPostgres = "postgres"
)

type Config struct {
	// Cloudinary
	CDNProvider         string `yaml:"cdn_provider"`
	CloudinaryCloudName string `yaml:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string `yaml:"cloudinary_api_key"`
	CloudinaryAPISecret string `yaml:"cloudinary_api_secret"`

	// Supabase Storage (alternate CDN)
	SupabaseURL           string `yaml:"supabase_url"`
	SupabaseServiceKey    string `yaml:"supabase_service_key"`
	SupabaseStorageBucket string `yaml:"supabase_storage_bucket"`

	// Replicate
	ReplicateAPIToken      string `yaml:"replicate_api_token"`
	ReplicateModelVersion  string `yaml:"replicate_model_version"`
	ReplicateWebhookSecret string `yaml:"replicate_webhook_secret"`

	// Webhook
	WebhookBaseURL       string        `yaml:"webhook_base_url"`
	WebhookStoreAttempts int           `yaml:"webhook_store_attempts"`
	WebhookStoreDelay    time.Duration `yaml:"webhook_store_delay"`

	// Job Store
	RedisURL string        `yaml:"redis_url"`
	JobTTL   time.Duration `yaml:"job_ttl"`

	// History Store
	HistoryBackend  string `yaml:"history_backend"`
	MongoURI        string `yaml:"mongodb_uri"`
	MongoDatabase   string `yaml:"mongodb_database"`
	MongoCollection string `yaml:"mongodb_collection"`
	DatabaseURL     string `yaml:"database_url"`

	// Events
	AMQPURL      string `yaml:"amqp_url"`
	AMQPExchange string `yaml:"amqp_exchange"`

	// Auth
	AuthJWTSecret string `yaml:"auth_jwt_secret"`

	// Server
	Port            string        `yaml:"port"`
	Environment     string        `yaml:"environment"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`
}

// Load assembles the configuration once at startup: defaults, then the
// optional YAML file named by CONFIG_FILE, then the environment (seeded from
// a .env file when present). The result is validated before it is returned.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		CDNProvider:           CDNCloudinary,
		SupabaseStorageBucket: "videos",
		ReplicateModelVersion: "c23768236472c41b7a121ee735c8073e29080c01b32907740cfada61bff75320",
		WebhookStoreAttempts:  3,
		WebhookStoreDelay:     time.Second,
		JobTTL:                7 * 24 * time.Hour,
		HistoryBackend:        HistoryMongo,
		MongoDatabase:         "Replicate_Videos_Upscaler",
		MongoCollection:       "replicate_processed_videos",
		AMQPExchange:          "video_upscaler.events",
		Port:                  "8080",
		Environment:           "development",
		ShutdownTimeout:       15 * time.Second,
		LogLevel:              "info",
		LogFormat:             "console",
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.CDNProvider, "CDN_PROVIDER")
	setString(&c.CloudinaryCloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&c.CloudinaryAPIKey, "CLOUDINARY_API_KEY")
	setString(&c.CloudinaryAPISecret, "CLOUDINARY_API_SECRET")

	setString(&c.SupabaseURL, "SUPABASE_URL")
	setString(&c.SupabaseServiceKey, "SUPABASE_SERVICE_KEY")
	setString(&c.SupabaseStorageBucket, "SUPABASE_STORAGE_BUCKET")

	setString(&c.ReplicateAPIToken, "REPLICATE_API_TOKEN")
	setString(&c.ReplicateModelVersion, "REPLICATE_MODEL_VERSION")
	setString(&c.ReplicateWebhookSecret, "REPLICATE_WEBHOOK_SECRET")

	setString(&c.WebhookBaseURL, "WEBHOOK_BASE_URL")
	if err := setInt(&c.WebhookStoreAttempts, "WEBHOOK_STORE_ATTEMPTS"); err != nil {
		return err
	}
	if err := setDuration(&c.WebhookStoreDelay, "WEBHOOK_STORE_DELAY"); err != nil {
		return err
	}

	setString(&c.RedisURL, "REDIS_URL")
	if err := setDuration(&c.JobTTL, "JOB_TTL"); err != nil {
		return err
	}

	setString(&c.HistoryBackend, "HISTORY_BACKEND")
	setString(&c.MongoURI, "MONGODB_URI")
	setString(&c.MongoDatabase, "MONGODB_DATABASE")
	setString(&c.MongoCollection, "MONGODB_COLLECTION")
	setString(&c.DatabaseURL, "DATABASE_URL")

	setString(&c.AMQPURL, "AMQP_URL")
	setString(&c.AMQPExchange, "AMQP_EXCHANGE")

	setString(&c.AuthJWTSecret, "AUTH_JWT_SECRET")

	setString(&c.Port, "PORT")
	setString(&c.Environment, "ENVIRONMENT")
	if err := setDuration(&c.ShutdownTimeout, "SHUTDOWN_TIMEOUT"); err != nil {
		return err
	}

	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	setString(&c.LogFile, "LOG_FILE")
	return nil
}

func (c *Config) Validate() error {
	switch c.CDNProvider {
	case CDNCloudinary:
		if c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			return fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
		}
	case CDNSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required")
		}
	default:
		return fmt.Errorf("unknown CDN_PROVIDER %q", c.CDNProvider)
	}

	if c.ReplicateAPIToken == "" {
		return fmt.Errorf("REPLICATE_API_TOKEN is required")
	}
	if c.ReplicateModelVersion == "" {
		return fmt.Errorf("REPLICATE_MODEL_VERSION is required")
	}
	if c.WebhookBaseURL == "" {
		return fmt.Errorf("WEBHOOK_BASE_URL is required")
	}
	if c.WebhookStoreAttempts < 1 {
		return fmt.Errorf("WEBHOOK_STORE_ATTEMPTS must be at least 1")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	switch c.HistoryBackend {
	case HistoryMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
	case HistoryPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	default:
		return fmt.Errorf("unknown HISTORY_BACKEND %q", c.HistoryBackend)
	}

	if c.AuthJWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	return nil
}

// WebhookURL is the callback the upstream service invokes on job updates.
func (c *Config) WebhookURL() string {
	return strings.TrimSuffix(c.WebhookBaseURL, "/") + "/api/v1/replicate/webhook"
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setInt(dst *int, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
