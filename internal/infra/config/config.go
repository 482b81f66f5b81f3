package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Corpus source kinds.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceObject   = "object"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	FAQ           FAQConfig           `yaml:"faq"`
	Valkey        ValkeyConfig        `yaml:"valkey"`
	Postgres      PostgresConfig      `yaml:"postgres"`
	ObjectStorage ObjectStorageConfig `yaml:"objectStorage"`
	Chat          ChatConfig          `yaml:"chat"`
	Plan          PlanConfig          `yaml:"plan"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// FAQConfig controls matching and where the corpus comes from.
type FAQConfig struct {
	Threshold      float64       `yaml:"threshold"`
	TopK           int           `yaml:"topK"`
	TrendingLimit  int           `yaml:"trendingLimit"`
	MaxImportBytes int64         `yaml:"maxImportBytes"`
	Source         SourceConfig  `yaml:"source"`
	Watch          bool          `yaml:"watch"`
	Debounce       time.Duration `yaml:"debounce"`
}

// SourceConfig selects the corpus source. Path applies to file sources,
// Table to postgres and ObjectKey to object storage.
type SourceConfig struct {
	Kind      string `yaml:"kind"`
	Path      string `yaml:"path"`
	Table     string `yaml:"table"`
	ObjectKey string `yaml:"objectKey"`
}

// ValkeyConfig contains connection information for the shared cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ObjectStorageConfig points at an S3-compatible bucket.
type ObjectStorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// ChatConfig controls per-session history.
type ChatConfig struct {
	HistoryLimit int           `yaml:"historyLimit"`
	TTL          time.Duration `yaml:"ttl"`
}

// PlanConfig controls the plan validator.
type PlanConfig struct {
	MinCredits     float64 `yaml:"minCredits"`
	CoreMapPath    string  `yaml:"coreMapPath"`
	PoliciesPath   string  `yaml:"policiesPath"`
	ContactsPath   string  `yaml:"contactsPath"`
	RulesVersion   string  `yaml:"rulesVersion"`
	MaxUploadBytes int64   `yaml:"maxUploadBytes"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("FAQ_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.Threshold = parsed
		}
	}
	if v := os.Getenv("FAQ_TOP_K"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.TopK = parsed
		}
	}
	if v := os.Getenv("FAQ_TRENDING_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.TrendingLimit = parsed
		}
	}
	if v := os.Getenv("FAQ_SOURCE_KIND"); v != "" {
		cfg.FAQ.Source.Kind = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("FAQ_SOURCE_PATH"); v != "" {
		cfg.FAQ.Source.Path = v
	}
	if v := os.Getenv("FAQ_SOURCE_TABLE"); v != "" {
		cfg.FAQ.Source.Table = v
	}
	if v := os.Getenv("FAQ_SOURCE_OBJECT_KEY"); v != "" {
		cfg.FAQ.Source.ObjectKey = v
	}
	if v := os.Getenv("FAQ_WATCH"); v != "" {
		cfg.FAQ.Watch = parseBool(v)
	}
	if v := os.Getenv("FAQ_WATCH_DEBOUNCE"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.FAQ.Debounce = parsed
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("OBJECT_STORAGE_ENDPOINT"); v != "" {
		cfg.ObjectStorage.Endpoint = v
	}
	if v := os.Getenv("OBJECT_STORAGE_ACCESS_KEY"); v != "" {
		cfg.ObjectStorage.AccessKey = v
	}
	if v := os.Getenv("OBJECT_STORAGE_SECRET_KEY"); v != "" {
		cfg.ObjectStorage.SecretKey = v
	}
	if v := os.Getenv("OBJECT_STORAGE_BUCKET"); v != "" {
		cfg.ObjectStorage.Bucket = v
	}
	if v := os.Getenv("OBJECT_STORAGE_REGION"); v != "" {
		cfg.ObjectStorage.Region = v
	}
	if v := os.Getenv("CHAT_HISTORY_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Chat.HistoryLimit = parsed
		}
	}
	if v := os.Getenv("CHAT_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Chat.TTL = parsed
		}
	}
	if v := os.Getenv("PLAN_MIN_CREDITS"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Plan.MinCredits = parsed
		}
	}
	if v := os.Getenv("PLAN_CORE_MAP_PATH"); v != "" {
		cfg.Plan.CoreMapPath = v
	}
	if v := os.Getenv("PLAN_POLICIES_PATH"); v != "" {
		cfg.Plan.PoliciesPath = v
	}
	if v := os.Getenv("PLAN_CONTACTS_PATH"); v != "" {
		cfg.Plan.ContactsPath = v
	}
	if v := os.Getenv("PLAN_RULES_VERSION"); v != "" {
		cfg.Plan.RulesVersion = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/faq/import",
					"/api/v1/plans/validate",
				},
			},
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		FAQ: FAQConfig{
			Threshold:      0.38,
			TopK:           3,
			TrendingLimit:  10,
			MaxImportBytes: 4 << 20,
			Source: SourceConfig{
				Kind:  SourceFile,
				Path:  "data/faq.csv",
				Table: "faq_entries",
			},
			Watch:    false,
			Debounce: 500 * time.Millisecond,
		},
		Valkey: ValkeyConfig{
			Enabled: false,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Chat: ChatConfig{
			HistoryLimit: 6,
			TTL:          2 * time.Hour,
		},
		Plan: PlanConfig{
			MinCredits:     12,
			CoreMapPath:    "data/core_map_simplified.csv",
			PoliciesPath:   "data/policies_simplified.csv",
			ContactsPath:   "data/contacts.csv",
			RulesVersion:   "0.1-simplified",
			MaxUploadBytes: 4 << 20,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if c.FAQ.Threshold < 0 || c.FAQ.Threshold > 1 {
		return errors.New("faq.threshold must be between 0 and 1")
	}
	if c.FAQ.TopK < 0 {
		return errors.New("faq.topK cannot be negative")
	}
	if c.FAQ.TrendingLimit < 0 {
		return errors.New("faq.trendingLimit cannot be negative")
	}
	if c.FAQ.MaxImportBytes < 0 {
		return errors.New("faq.maxImportBytes cannot be negative")
	}
	switch c.FAQ.Source.Kind {
	case SourceFile:
		if strings.TrimSpace(c.FAQ.Source.Path) == "" {
			return errors.New("faq.source.path cannot be empty for file sources")
		}
	case SourcePostgres:
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			return errors.New("postgres.dsn cannot be empty for postgres sources")
		}
	case SourceObject:
		if strings.TrimSpace(c.ObjectStorage.Bucket) == "" || strings.TrimSpace(c.FAQ.Source.ObjectKey) == "" {
			return errors.New("objectStorage.bucket and faq.source.objectKey are required for object sources")
		}
	default:
		return fmt.Errorf("faq.source.kind %q is not supported", c.FAQ.Source.Kind)
	}
	if c.FAQ.Watch && c.FAQ.Source.Kind != SourceFile {
		return errors.New("faq.watch requires a file source")
	}
	if c.FAQ.Debounce < 0 {
		return errors.New("faq.debounce cannot be negative")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Chat.HistoryLimit < 0 {
		return errors.New("chat.historyLimit cannot be negative")
	}
	if c.Chat.TTL < 0 {
		return errors.New("chat.ttl cannot be negative")
	}
	if c.Plan.MinCredits < 0 {
		return errors.New("plan.minCredits cannot be negative")
	}
	if c.Plan.MaxUploadBytes < 0 {
		return errors.New("plan.maxUploadBytes cannot be negative")
	}
	return nil
}
