// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	GetStoreDriver() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// LLMConfig provides settings for the OpenAI-compatible chat completion API.
type LLMConfig interface {
	GetLLMAPIKey() string
	GetLLMBaseURL() string
	GetLLMModel() string
	IsLLMEnabled() bool
}

// OrchestrationConfig provides tuning for the trigger engine.
type OrchestrationConfig interface {
	GetAICallTimeout() time.Duration
	GetOutreachConcurrency() int
	GetABTestCompletionDelay() time.Duration
}

// CampaignConfig provides settings for campaign spend tracking.
type CampaignConfig interface {
	GetBudgetAlertRatio() float64
}

// SchedulerConfig provides settings for the deferred task queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	IsSchedulerEnabled() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketSites() string
	IsMinIOEnabled() bool
}

// SMTPConfig provides settings for approval request mails.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetSMTPFrom() string
	GetApprovalNotifyEmail() string
	IsSMTPEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	DatabaseURL           string
	StoreDriver           string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	RateLimitRPS          float64
	RateLimitBurst        int
	LLMAPIKey             string
	LLMBaseURL            string
	LLMModel              string
	AICallTimeout         time.Duration
	OutreachConcurrency   int
	ABTestCompletionDelay time.Duration
	BudgetAlertRatio      float64
	RedisURL              string
	RedisTLSInsecure      bool
	AsynqQueueName        string
	AsynqConcurrency      int
	MinIOEndpoint         string
	MinIOAccessKey        string
	MinIOSecretKey        string
	MinIOUseSSL           bool
	MinioBucketSites      string
	SMTPHost              string
	SMTPPort              int
	SMTPUsername          string
	SMTPPassword          string
	SMTPFrom              string
	ApprovalNotifyEmail   string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }
func (c *Config) GetStoreDriver() string { return c.StoreDriver }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// LLMConfig implementation
func (c *Config) GetLLMAPIKey() string  { return c.LLMAPIKey }
func (c *Config) GetLLMBaseURL() string { return c.LLMBaseURL }
func (c *Config) GetLLMModel() string   { return c.LLMModel }
func (c *Config) IsLLMEnabled() bool    { return c.LLMAPIKey != "" }

// OrchestrationConfig implementation
func (c *Config) GetAICallTimeout() time.Duration         { return c.AICallTimeout }
func (c *Config) GetOutreachConcurrency() int             { return c.OutreachConcurrency }
func (c *Config) GetABTestCompletionDelay() time.Duration { return c.ABTestCompletionDelay }

// CampaignConfig implementation
func (c *Config) GetBudgetAlertRatio() float64 { return c.BudgetAlertRatio }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string        { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool  { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string  { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int   { return c.AsynqConcurrency }
func (c *Config) IsSchedulerEnabled() bool   { return c.RedisURL != "" }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string  { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool      { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketSites() string {
	return c.MinioBucketSites
}
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string            { return c.SMTPHost }
func (c *Config) GetSMTPPort() int               { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string        { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string        { return c.SMTPPassword }
func (c *Config) GetSMTPFrom() string            { return c.SMTPFrom }
func (c *Config) GetApprovalNotifyEmail() string { return c.ApprovalNotifyEmail }
func (c *Config) IsSMTPEnabled() bool {
	return c.SMTPHost != "" && c.ApprovalNotifyEmail != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds the configuration from a lookup function. Load uses the
// process environment; tests pass a map.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	getEnv := func(key, fallback string) string {
		if val, ok := lookup(key); ok {
			return val
		}
		return fallback
	}

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	databaseURL := getEnv("DATABASE_URL", "")
	defaultDriver := StoreDriverMemory
	if databaseURL != "" {
		defaultDriver = StoreDriverPostgres
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:           databaseURL,
		StoreDriver:           strings.ToLower(getEnv("STORE_DRIVER", defaultDriver)),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RateLimitRPS:          mustFloat(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:        mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		LLMAPIKey:             getEnv("LLM_API_KEY", ""),
		LLMBaseURL:            getEnv("LLM_BASE_URL", "https://api.moonshot.ai/v1"),
		LLMModel:              getEnv("LLM_MODEL", "kimi-k2-turbo-preview"),
		AICallTimeout:         mustDuration(getEnv("AI_CALL_TIMEOUT", "0s")),
		OutreachConcurrency:   mustInt(getEnv("OUTREACH_CONCURRENCY", "1")),
		ABTestCompletionDelay: mustDuration(getEnv("AB_TEST_COMPLETION_DELAY", "2s")),
		BudgetAlertRatio:      mustFloat(getEnv("BUDGET_ALERT_RATIO", "0.8")),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisTLSInsecure:      strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:        getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:      mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		MinIOEndpoint:         getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:        getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:           strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketSites:      getEnv("MINIO_BUCKET_SITES", "generated-sites"),
		SMTPHost:              getEnv("SMTP_HOST", ""),
		SMTPPort:              mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:              getEnv("SMTP_FROM", ""),
		ApprovalNotifyEmail:   getEnv("APPROVAL_NOTIFY_EMAIL", ""),
	}

	switch cfg.StoreDriver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is postgres")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	if cfg.BudgetAlertRatio <= 0 || cfg.BudgetAlertRatio > 1 {
		return nil, fmt.Errorf("BUDGET_ALERT_RATIO must be in (0,1], got %v", cfg.BudgetAlertRatio)
	}

	if cfg.SMTPHost != "" && cfg.SMTPFrom == "" {
		return nil, fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}

	if cfg.OutreachConcurrency < 1 {
		cfg.OutreachConcurrency = 1
	}
	if cfg.RateLimitBurst < 1 {
		cfg.RateLimitBurst = 1
	}

	return cfg, nil
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
