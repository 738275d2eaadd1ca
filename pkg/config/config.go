package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Upstream  UpstreamConfig
	Directory DirectoryConfig
	Assistant AssistantConfig
	Redis     RedisConfig
	Fleet     FleetConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"SUPPLYNET_APP_ENV" default:"dev"`
	Port         string   `envconfig:"SUPPLYNET_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"SUPPLYNET_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"SUPPLYNET_LOG_WARN_STACK" default:"false"`
	LogFormat    string   `envconfig:"SUPPLYNET_LOG_FORMAT"`
	CORSOrigins  []string `envconfig:"SUPPLYNET_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig locates the store/order API and the assistant stream.
type UpstreamConfig struct {
	APIBaseURL     string        `envconfig:"SUPPLYNET_API_BASE_URL" default:"http://localhost:8000/api"`
	StreamURL      string        `envconfig:"SUPPLYNET_STREAM_URL" default:"ws://localhost:8000/api/gemini/ws/feedback-loop"`
	RequestTimeout time.Duration `envconfig:"SUPPLYNET_API_TIMEOUT" default:"10s"`
}

type DirectoryConfig struct {
	PollInterval time.Duration `envconfig:"SUPPLYNET_DIRECTORY_POLL_INTERVAL" default:"30s"`
	SnapshotTTL  time.Duration `envconfig:"SUPPLYNET_DIRECTORY_SNAPSHOT_TTL" default:"24h"`
}

type AssistantConfig struct {
	MaxIterations     int           `envconfig:"SUPPLYNET_ASSISTANT_MAX_ITERATIONS" default:"15"`
	FulfillingStoreID string        `envconfig:"SUPPLYNET_FULFILLING_STORE_ID" default:"507f1f77bcf86cd799439012"`
	HandshakeTimeout  time.Duration `envconfig:"SUPPLYNET_ASSISTANT_HANDSHAKE_TIMEOUT" default:"10s"`
	StopWriteTimeout  time.Duration `envconfig:"SUPPLYNET_ASSISTANT_WRITE_TIMEOUT" default:"5s"`
}

// RedisConfig is optional; without a URL or address the directory runs without a snapshot cache.
type RedisConfig struct {
	URL          string        `envconfig:"SUPPLYNET_REDIS_URL"`
	Address      string        `envconfig:"SUPPLYNET_REDIS_ADDR"`
	Password     string        `envconfig:"SUPPLYNET_REDIS_PASSWORD"`
	DB           int           `envconfig:"SUPPLYNET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SUPPLYNET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SUPPLYNET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SUPPLYNET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SUPPLYNET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SUPPLYNET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FleetConfig struct {
	File string `envconfig:"SUPPLYNET_FLEET_FILE"`
}

func (u *UpstreamConfig) validate() error {
	if err := checkURL(EnvAPIBaseURL, u.APIBaseURL, "http", "https"); err != nil {
		return err
	}
	if err := checkURL(EnvStreamURL, u.StreamURL, "ws", "wss"); err != nil {
		return err
	}
	u.APIBaseURL = strings.TrimRight(u.APIBaseURL, "/")
	return nil
}

func checkURL(name, raw string, schemes ...string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	for _, scheme := range schemes {
		if strings.EqualFold(parsed.Scheme, scheme) && parsed.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%s must be an absolute %s url, got %q", name, strings.Join(schemes, "/"), raw)
}
