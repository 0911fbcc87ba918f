// Package config handles loading and managing candidature configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lsmc/candidature/pkg/scoring"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Scoring   ScoringConfig   `yaml:"scoring"`
	Delivery  DeliveryConfig  `yaml:"delivery"`
	Export    ExportConfig    `yaml:"export"`
	Audit     AuditConfig     `yaml:"audit"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ScoringConfig tunes the authenticity engine. It is read once at startup.
type ScoringConfig struct {
	Threshold int            `yaml:"threshold"`
	Weights   map[string]int `yaml:"weights"` // keyed by signal family, e.g. self_reference
	Locale    string         `yaml:"locale"`  // default language for reasons: en or fr
}

// DeliveryConfig controls the chat webhook.
type DeliveryConfig struct {
	WebhookURL   string        `yaml:"webhook_url"`
	RateInterval time.Duration `yaml:"rate_interval"` // one message per interval; 0 disables limiting
	RateBurst    int           `yaml:"rate_burst"`
	Timeout      time.Duration `yaml:"timeout"`
}

// ExportConfig selects where submitted CSVs are stored.
type ExportConfig struct {
	Backend   string `yaml:"backend"` // "", local, s3, gcs
	Dir       string `yaml:"dir"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// AuditConfig selects the decision log backend.
type AuditConfig struct {
	Backend string `yaml:"backend"` // "", postgres, sqlite
	DSN     string `yaml:"dsn"`
	Migrate bool   `yaml:"migrate"`
}

// ServerConfig controls the HTTP daemon.
type ServerConfig struct {
	Port           string        `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	APIKey         string        `yaml:"api_key"`
	RateLimit      float64       `yaml:"rate_limit"` // requests per second per client IP; 0 disables
	RateBurst      int           `yaml:"rate_burst"`
	MaxSessions    int           `yaml:"max_sessions"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Mode  string `yaml:"mode"` // dev or prod
	Level string `yaml:"level"`
}

// TelemetryConfig controls tracing.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Environment string  `yaml:"environment"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	w := scoring.Defaults()
	return &Config{
		Scoring: ScoringConfig{
			Threshold: w.Threshold,
			Weights:   map[string]int{},
			Locale:    "en",
		},
		Delivery: DeliveryConfig{
			RateInterval: 2 * time.Second,
			RateBurst:    5,
			Timeout:      30 * time.Second,
		},
		Export: ExportConfig{
			Dir: "exports",
		},
		Audit: AuditConfig{
			Migrate: true,
		},
		Server: ServerConfig{
			Port:        "8080",
			RateLimit:   5,
			RateBurst:   20,
			MaxSessions: 256,
			SessionTTL:  30 * time.Minute,
		},
		Log: LogConfig{
			Mode:  "dev",
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "candidature",
			Environment: "development",
			SampleRatio: 1,
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Scoring.Weights == nil {
		cfg.Scoring.Weights = map[string]int{}
	}

	return cfg, nil
}

// FindConfigFile looks for .candidature/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".candidature", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Resolve loads path, or the nearest .candidature/config.yaml above the
// working directory when path is empty, then applies the environment and
// validates the result.
func Resolve(path string) (*Config, error) {
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = FindConfigFile(wd)
		}
	}

	cfg := DefaultConfig()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables on the loaded file.
func (c *Config) ApplyEnv() error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}

	str("PORT", &c.Server.Port)
	str("API_KEY", &c.Server.APIKey)
	str("WEBHOOK_URL", &c.Delivery.WebhookURL)
	str("CANDIDATURE_LOCALE", &c.Scoring.Locale)
	str("EXPORT_BACKEND", &c.Export.Backend)
	str("EXPORT_DIR", &c.Export.Dir)
	str("EXPORT_BUCKET", &c.Export.Bucket)
	str("AWS_REGION", &c.Export.Region)
	str("S3_ENDPOINT", &c.Export.Endpoint)
	str("AUDIT_BACKEND", &c.Audit.Backend)
	str("AUDIT_DSN", &c.Audit.DSN)
	str("LOG_MODE", &c.Log.Mode)
	str("LOG_LEVEL", &c.Log.Level)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &c.Telemetry.Endpoint)
	str("OTEL_SERVICE_NAME", &c.Telemetry.ServiceName)

	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Audit.DSN = v
		if c.Audit.Backend == "" {
			c.Audit.Backend = "postgres"
		}
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("OTEL_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("OTEL_ENABLED: %w", err)
		}
		c.Telemetry.Enabled = enabled
	}
	if v := os.Getenv("SCORING_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SCORING_THRESHOLD: %w", err)
		}
		c.Scoring.Threshold = n
	}
	return nil
}

// Validate rejects unknown backends and impossible scoring values.
func (c *Config) Validate() error {
	switch c.Export.Backend {
	case "", "local", "s3", "gcs":
	default:
		return fmt.Errorf("export.backend: unknown backend %q", c.Export.Backend)
	}
	switch c.Audit.Backend {
	case "", "none", "postgres", "sqlite":
	default:
		return fmt.Errorf("audit.backend: unknown backend %q", c.Audit.Backend)
	}
	if c.Audit.Backend != "" && c.Audit.Backend != "none" && c.Audit.DSN == "" {
		return fmt.Errorf("audit.dsn is required for backend %q", c.Audit.Backend)
	}
	if c.Scoring.Threshold <= 0 {
		return fmt.Errorf("scoring.threshold must be positive, got %d", c.Scoring.Threshold)
	}
	_, err := c.Scoring.weights()
	return err
}

// Engine builds the scoring engine described by the scoring section.
func (s ScoringConfig) Engine() (*scoring.Engine, error) {
	w, err := s.weights()
	if err != nil {
		return nil, err
	}
	return scoring.NewEngine(w.Threshold, scoring.DefaultSignals(w)...).Localized(scoring.ParseLocale(s.Locale)), nil
}

func (s ScoringConfig) weights() (scoring.Weights, error) {
	w := scoring.Defaults()
	if s.Threshold > 0 {
		w.Threshold = s.Threshold
	}
	w, err := w.WithOverrides(s.Weights)
	if err != nil {
		return w, fmt.Errorf("scoring.weights: %w", err)
	}
	return w, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
