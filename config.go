package flickr_search

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIKey         string        `yaml:"api_key"`
	Endpoint       string        `yaml:"endpoint"`
	StaticEndpoint string        `yaml:"static_endpoint"`
	Timeout        time.Duration `yaml:"timeout"`
	Log            LogConfig     `yaml:"log"`
	Redis          RedisConfig   `yaml:"redis"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// RedisConfig enables the response cache when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

func DefaultConfig() Config {
	return Config{
		Endpoint: DefaultEndpoint,
		Timeout:  DefaultTimeout,
		Log:      LogConfig{Level: "info"},
		Redis:    RedisConfig{TTL: DefaultCacheTTL},
	}
}

// LoadConfig applies the YAML file at path (if any) over the defaults, then
// environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	overrideString(&cfg.APIKey, "FLICKR_API_KEY")
	overrideString(&cfg.Endpoint, "FLICKR_ENDPOINT")
	overrideString(&cfg.Redis.Addr, "FLICKR_REDIS_ADDR")
	overrideString(&cfg.Log.Level, "FLICKR_LOG_LEVEL")
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Endpoint == "" {
		return errors.New("endpoint must not be empty")
	}
	return nil
}

// NewClient builds a Client from the config. The returned close func releases
// the redis connection when a cache is configured.
func (c Config) NewClient(logger *zap.Logger) (*Client, func() error, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	opts := []Option{
		WithEndpoint(c.Endpoint),
		WithLogger(logger),
	}
	if c.StaticEndpoint != "" {
		opts = append(opts, WithStaticEndpoint(c.StaticEndpoint))
	}
	if c.Timeout > 0 {
		opts = append(opts, WithHTTPClient(newHTTPClient(c.Timeout)))
	}
	closeFn := func() error { return nil }
	if c.Redis.Addr != "" {
		rc := goredis.NewClient(&goredis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		opts = append(opts, WithCache(NewRedisCache(rc), c.Redis.TTL))
		closeFn = rc.Close
	}
	return NewClient(c.APIKey, opts...), closeFn, nil
}

func overrideString(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}
