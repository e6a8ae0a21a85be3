package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

// DSN returns the lib/pq connection URL.
func (c PostgresConfig) DSN(connectTimeout time.Duration) string {
	secs := int(connectTimeout.Seconds())
	if secs < 1 {
		secs = 1
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	q.Set("connect_timeout", strconv.Itoa(secs))

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.DB,
		RawQuery: q.Encode(),
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String()
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type CheckConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	MaxAge          time.Duration `mapstructure:"max_age"`
	// RefreshInterval enables background refreshes when positive.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type CooldownConfig struct {
	Period time.Duration `mapstructure:"period"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Check     CheckConfig     `mapstructure:"check"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Cooldown  CooldownConfig  `mapstructure:"cooldown"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Load reads configuration from the environment. Keys map to variables by
// upper-casing and replacing dots, e.g. postgres.host is POSTGRES_HOST.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app.env", EnvDevelopment)
	v.SetDefault("server.address", ":8000")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.user", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("check.timeout", "5s")
	v.SetDefault("cache.max_age", "1m")
	v.SetDefault("cache.refresh_interval", "0s")
	v.SetDefault("cooldown.period", "30s")
	v.SetDefault("ratelimit.rps", 1.0)
	v.SetDefault("ratelimit.burst", 5)
	v.SetDefault("logging.level", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.App, validation.By(func(value interface{}) error {
			ac, _ := value.(AppConfig)
			return validation.ValidateStruct(&ac,
				validation.Field(&ac.Env, validation.Required, validation.In(EnvDevelopment, EnvStaging, EnvProduction)),
			)
		})),
		validation.Field(&c.Server, validation.By(func(value interface{}) error {
			sc, _ := value.(ServerConfig)
			return validation.ValidateStruct(&sc,
				validation.Field(&sc.Address, validation.Required, validation.By(validateHostPort)),
			)
		})),
		validation.Field(&c.Postgres, validation.By(func(value interface{}) error {
			pc, _ := value.(PostgresConfig)
			return validation.ValidateStruct(&pc,
				validation.Field(&pc.Host, validation.Required, is.Host),
				validation.Field(&pc.Port, validation.Required, validation.Min(1), validation.Max(65535)),
			)
		})),
		validation.Field(&c.Redis, validation.By(func(value interface{}) error {
			rc, _ := value.(RedisConfig)
			return validation.ValidateStruct(&rc,
				validation.Field(&rc.Host, validation.Required, is.Host),
				validation.Field(&rc.Port, validation.Required, validation.Min(1), validation.Max(65535)),
			)
		})),
		validation.Field(&c.Check, validation.By(func(value interface{}) error {
			cc, _ := value.(CheckConfig)
			return validation.ValidateStruct(&cc,
				validation.Field(&cc.Timeout, validation.Required, validation.Min(time.Second)),
			)
		})),
		validation.Field(&c.Cache, validation.By(func(value interface{}) error {
			cc, _ := value.(CacheConfig)
			return validation.ValidateStruct(&cc,
				validation.Field(&cc.MaxAge, validation.Required, validation.Min(time.Second)),
				validation.Field(&cc.RefreshInterval, validation.Min(time.Duration(0))),
			)
		})),
		validation.Field(&c.Cooldown, validation.By(func(value interface{}) error {
			cc, _ := value.(CooldownConfig)
			return validation.ValidateStruct(&cc,
				validation.Field(&cc.Period, validation.Required, validation.Min(time.Second)),
			)
		})),
		validation.Field(&c.RateLimit, validation.By(func(value interface{}) error {
			rc, _ := value.(RateLimitConfig)
			return validation.ValidateStruct(&rc,
				validation.Field(&rc.RPS, validation.Required, validation.Min(0.01)),
				validation.Field(&rc.Burst, validation.Required, validation.Min(1)),
			)
		})),
		validation.Field(&c.Logging, validation.By(func(value interface{}) error {
			lc, _ := value.(LoggingConfig)
			return validation.ValidateStruct(&lc,
				validation.Field(&lc.Level, validation.In("debug", "info", "warn", "error")),
			)
		})),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}
	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}
	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}
	return nil
}
