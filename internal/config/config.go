package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "TODO"

// Auth strategies selectable per deployment.
const (
	StrategyBearer  = "bearer"
	StrategySession = "session"
	StrategyJWT     = "jwt"
)

// Config is the full runtime configuration of the service.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Locale    string          `mapstructure:"locale"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// Mode is the gin mode: debug, release or test.
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

// AuthConfig selects and tunes the request authenticator.
type AuthConfig struct {
	Strategy     string        `mapstructure:"strategy"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTTTL       time.Duration `mapstructure:"jwt_ttl"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	Exporter    string `mapstructure:"exporter"`
	ServiceName string `mapstructure:"service_name"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "./todo.db")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("auth.strategy", StrategyBearer)
	v.SetDefault("auth.session_ttl", 24*time.Hour)
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_ttl", 72*time.Hour)
	v.SetDefault("locale", "ru")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "otel-collector:4317")
	v.SetDefault("telemetry.exporter", "otlp")
	v.SetDefault("telemetry.service_name", "todo-api")
}

// Load builds the configuration from defaults, an optional YAML file and
// TODO_* environment variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Kept for compatibility with existing deployments.
	if err := v.BindEnv("redis.addr", "TODO_REDIS_ADDR", "REDIS_CONNSTRING"); err != nil {
		return nil, fmt.Errorf("failed to bind redis env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Auth.Strategy {
	case StrategyBearer, StrategySession:
	case StrategyJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required for the %q strategy", StrategyJWT)
		}
	default:
		return fmt.Errorf("unknown auth.strategy %q", c.Auth.Strategy)
	}

	switch c.Locale {
	case "ru", "en":
	default:
		return fmt.Errorf("unsupported locale %q", c.Locale)
	}

	switch c.Telemetry.Exporter {
	case "otlp", "stdout":
	default:
		return fmt.Errorf("unknown telemetry.exporter %q", c.Telemetry.Exporter)
	}
	return nil
}
