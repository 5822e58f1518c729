package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = "POS"
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Log     LogConfig
	Metrics MetricsConfig
	Outbox  OutboxConfig
}

// Load reads the configuration from the environment after applying the optional
// dotenv files. Variables already set in the environment win over dotenv values.
func Load(dotenvFiles ...string) (*Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading dotenv: %w", err)
	}
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Service string `envconfig:"POS_SERVICE_NAME" default:"pos-checkout"`
	Env     string `envconfig:"POS_APP_ENV" default:"dev"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	Addr            string        `envconfig:"POS_HTTP_ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"POS_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"POS_HTTP_WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"POS_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type LogConfig struct {
	Level string `envconfig:"POS_LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE"`
}

type MetricsConfig struct {
	Namespace string `envconfig:"POS_METRICS_NAMESPACE"`
	Path      string `envconfig:"POS_METRICS_PATH" default:"/metrics"`
}

type OutboxConfig struct {
	QueueSize      int           `envconfig:"POS_OUTBOX_QUEUE_SIZE" default:"1024"`
	HandlerTimeout time.Duration `envconfig:"POS_OUTBOX_HANDLER_TIMEOUT" default:"30s"`
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("config: POS_HTTP_ADDR is required")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("config: POS_METRICS_PATH must start with '/', got %q", c.Metrics.Path)
	}
	if c.Outbox.QueueSize <= 0 {
		return fmt.Errorf("config: POS_OUTBOX_QUEUE_SIZE must be positive, got %d", c.Outbox.QueueSize)
	}
	for _, d := range []struct {
		key   string
		value time.Duration
	}{
		{"POS_HTTP_READ_TIMEOUT", c.HTTP.ReadTimeout},
		{"POS_HTTP_WRITE_TIMEOUT", c.HTTP.WriteTimeout},
		{"POS_HTTP_SHUTDOWN_TIMEOUT", c.HTTP.ShutdownTimeout},
		{"POS_OUTBOX_HANDLER_TIMEOUT", c.Outbox.HandlerTimeout},
	} {
		if d.value <= 0 {
			return fmt.Errorf("config: %s must be positive, got %s", d.key, d.value)
		}
	}
	return nil
}
