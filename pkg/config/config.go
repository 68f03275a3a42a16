package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/mroc/live-display/repos/tba"
)

type Config struct {
	// Server
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	CORSHosts   string `yaml:"cors_hosts"`
	MetricsPath string `yaml:"metrics_path"`

	Firebase FirebaseConfig `yaml:"firebase"`
	TBA      TBAConfig      `yaml:"tba"`
	Webhook  WebhookConfig  `yaml:"webhook"`
}

type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsJSON string `yaml:"credentials_json"`
}

type TBAConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// WebhookConfig limits inbound webhook requests per client IP. Limiting is
// off unless RateLimit is positive.
type WebhookConfig struct {
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

func defaults() *Config {
	return &Config{
		Port:        "9930",
		Environment: "development",
		LogLevel:    "info",
		CORSHosts:   "*",
		MetricsPath: "/metrics",
		TBA: TBAConfig{
			BaseURL: tba.DefaultBaseURL,
			Timeout: 10 * time.Second,
		},
		Webhook: WebhookConfig{
			Burst: 20,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file at path
// and the environment, later sources winning. A .env file in the working
// directory is read into the environment first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, xerrors.Errorf("read .env: %w", err)
	}

	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, xerrors.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, xerrors.Errorf("decode config %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENV", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.CORSHosts = getEnv("CORS_HOSTS", cfg.CORSHosts)
	cfg.MetricsPath = getEnv("METRICS_PATH", cfg.MetricsPath)
	cfg.Firebase.ProjectID = getEnv("FIREBASE_PROJECT_ID", cfg.Firebase.ProjectID)
	cfg.Firebase.CredentialsJSON = getEnv("FIREBASE_CREDENTIALS_JSON", cfg.Firebase.CredentialsJSON)
	cfg.TBA.BaseURL = getEnv("TBA_BASE_URL", cfg.TBA.BaseURL)
	cfg.TBA.APIKey = getEnv("TBA_API_KEY", cfg.TBA.APIKey)
	cfg.TBA.Timeout = getEnvDuration("TBA_TIMEOUT", cfg.TBA.Timeout)
	cfg.Webhook.RateLimit = getEnvFloat("WEBHOOK_RATE_LIMIT", cfg.Webhook.RateLimit)
	cfg.Webhook.Burst = getEnvInt("WEBHOOK_BURST", cfg.Webhook.Burst)

	return cfg, nil
}

// Validate checks what the server cannot start without.
func (c *Config) Validate() error {
	if c.Firebase.ProjectID == "" {
		return xerrors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.TBA.APIKey == "" {
		return xerrors.New("TBA_API_KEY is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins splits CORSHosts on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSHosts, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Logger builds the process logger: JSON in production, text otherwise.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
