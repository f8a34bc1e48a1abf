// Package config loads runtime configuration from the environment (optionally
// seeded from a .env file) through viper.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"stock_ingest/internal/feature/ingest/domain/entity"
)

// Config holds all configuration for the binaries.
type Config struct {
	DB        DBConfig        `mapstructure:"db"`
	Binance   BinanceConfig   `mapstructure:"binance"`
	Yahoo     YahooConfig     `mapstructure:"yahoo"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Server    ServerConfig    `mapstructure:"server"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

type DBConfig struct {
	Host          string `mapstructure:"host"`
	Port          string `mapstructure:"port"`
	Name          string `mapstructure:"name"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	SSLMode       string `mapstructure:"sslmode"`
	RunMigrations bool   `mapstructure:"run_migrations"`
}

type BinanceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Symbols string `mapstructure:"symbols"`
}

// YahooConfig: CookieURL is fetched once per provider to obtain a session
// cookie before the crumb; empty skips that step.
type YahooConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	CookieURL string `mapstructure:"cookie_url"`
	Symbols   string `mapstructure:"symbols"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig is optional; an empty Host disables the read cache.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type SchedulerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Market   string        `mapstructure:"market"`
}

type LogConfig struct {
	Env string `mapstructure:"env"`
}

// envBindings maps each config key to its environment variable.
var envBindings = []struct {
	key, env string
	def      any
}{
	{"db.host", "POSTGRES_HOST", "localhost"},
	{"db.port", "POSTGRES_PORT", "5432"},
	{"db.name", "POSTGRES_DB", "stocks"},
	{"db.user", "POSTGRES_USER", "postgres"},
	{"db.password", "POSTGRES_PASSWORD", "pass"},
	{"db.sslmode", "POSTGRES_SSLMODE", "disable"},
	{"db.run_migrations", "RUN_MIGRATIONS", false},
	{"binance.base_url", "BINANCE_BASE_URL", "https://api.binance.com"},
	{"binance.symbols", "BINANCE_SYMBOLS", "BTCUSDT,ETHUSDT,BNBUSDT"},
	{"yahoo.base_url", "YAHOO_BASE_URL", "https://query2.finance.yahoo.com"},
	{"yahoo.cookie_url", "YAHOO_COOKIE_URL", "https://fc.yahoo.com"},
	{"yahoo.symbols", "EQUITY_SYMBOLS", "INFY.NS,TCS.NS,RELIANCE.NS"},
	{"http.timeout", "HTTP_TIMEOUT", "10s"},
	{"redis.host", "REDIS_HOST", ""},
	{"redis.port", "REDIS_PORT", "6379"},
	{"redis.password", "REDIS_PASSWORD", ""},
	{"server.port", "PORT", "8080"},
	{"scheduler.interval", "SCHEDULER_INTERVAL", "30m"},
	{"scheduler.market", "SCHEDULER_MARKET", "xnse"},
	{"log.env", "ENVIRONMENT", "production"},
}

// Load reads .env (if present) into the process environment and then builds Config
// from environment variables and defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, using process environment", "error", err)
	}
	return FromEnv()
}

// FromEnv builds Config from environment variables and defaults only.
func FromEnv() (*Config, error) {
	v := viper.New()
	for _, b := range envBindings {
		v.SetDefault(b.key, b.def)
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", b.env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late at first use.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("http.timeout must be positive"))
	}
	if c.Scheduler.Interval <= 0 {
		errs = append(errs, errors.New("scheduler.interval must be positive"))
	}
	if strings.TrimSpace(c.Binance.BaseURL) == "" {
		errs = append(errs, errors.New("binance.base_url must not be empty"))
	}
	if strings.TrimSpace(c.Yahoo.BaseURL) == "" {
		errs = append(errs, errors.New("yahoo.base_url must not be empty"))
	}
	if c.DB.Host == "" || c.DB.Name == "" {
		errs = append(errs, errors.New("db.host and db.name must not be empty"))
	}
	return errors.Join(errs...)
}

// CryptoSymbols returns the normalized exchange symbol list.
func (c *Config) CryptoSymbols() []string { return entity.ParseSymbols(c.Binance.Symbols) }

// EquitySymbols returns the normalized equity symbol list.
func (c *Config) EquitySymbols() []string { return entity.ParseSymbols(c.Yahoo.Symbols) }

// RedisEnabled reports whether a Redis host is configured.
func (c *Config) RedisEnabled() bool { return c.Redis.Host != "" }

// IsDevelopment reports whether ENVIRONMENT=development.
func (c *Config) IsDevelopment() bool { return strings.EqualFold(c.Log.Env, "development") }
