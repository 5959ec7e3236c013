/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/rowmapper/cache"
	"github.com/suparena/rowmapper/datastore"
	"github.com/suparena/rowmapper/datastore/ddb"
	"github.com/suparena/rowmapper/datastore/mock"
	"github.com/suparena/rowmapper/datastore/redisstore"
	"github.com/suparena/rowmapper/errors"
	"github.com/suparena/rowmapper/storagemodels"
)

// Supported backends.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
)

// Upper bounds applied by Validate.
const (
	MaxCacheEntries  = 1_000_000
	MaxIdleTimeout   = 24 * time.Hour
	minIdleTimeout   = time.Second
	defaultCacheSize = cache.DefaultMaxEntries
)

// Config is the file and environment configuration of a mapper deployment.
type Config struct {
	Keyspace  string                   `yaml:"keyspace"`
	Backend   string                   `yaml:"backend"`
	DynamoDB  DynamoDBConfig           `yaml:"dynamodb"`
	Redis     RedisConfig              `yaml:"redis"`
	RateLimit RateLimitConfig          `yaml:"rate_limit"`
	Cache     CacheConfig              `yaml:"cache"`
	Tables    []storagemodels.TableDef `yaml:"tables"`
}

type DynamoDBConfig struct {
	Region     string        `yaml:"region"`
	AccessKey  string        `yaml:"access_key"`
	SecretKey  string        `yaml:"secret_key"`
	Endpoint   string        `yaml:"endpoint"`
	TableName  string        `yaml:"table_name"`
	MaxRetries int           `yaml:"max_retries"`
	Backoff    time.Duration `yaml:"backoff"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Prefix   string `yaml:"prefix"`
}

// RateLimitConfig caps backend requests per second. Zero RPS disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type CacheConfig struct {
	MaxEntries  int           `yaml:"max_entries"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

func def() Config {
	return Config{
		Backend: BackendMemory,
		DynamoDB: DynamoDBConfig{
			Region:     "us-east-1",
			MaxRetries: 3,
			Backoff:    100 * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
		},
		Cache: CacheConfig{
			MaxEntries:  defaultCacheSize,
			IdleTimeout: cache.DefaultIdleTimeout,
		},
	}
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	if v, err := strconv.Atoi(getenv(k, "")); err == nil {
		return v
	}
	return fallback
}

func getenvFloat(k string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(getenv(k, ""), 64); err == nil {
		return v
	}
	return fallback
}

func getenvDuration(k string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getenv(k, "")); err == nil {
		return v
	}
	return fallback
}

// Default returns the defaults with environment overrides applied.
func Default() *Config {
	cfg := def()
	applyEnv(&cfg)
	return &cfg
}

// Load reads the YAML file at path over the defaults, then applies .env
// files and environment overrides, then validates. An empty path skips the
// file. A missing .env file is not an error.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := def()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := loadEnvFiles(envFiles...); err != nil {
		return nil, err
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Keyspace = getenv("ROWMAP_KEYSPACE", cfg.Keyspace)
	cfg.Backend = strings.ToLower(getenv("ROWMAP_BACKEND", cfg.Backend))

	cfg.DynamoDB.Region = getenv("AWS_REGION", cfg.DynamoDB.Region)
	cfg.DynamoDB.AccessKey = getenv("AWS_ACCESS_KEY_ID", cfg.DynamoDB.AccessKey)
	cfg.DynamoDB.SecretKey = getenv("AWS_SECRET_ACCESS_KEY", cfg.DynamoDB.SecretKey)
	cfg.DynamoDB.Endpoint = getenv("DDB_ENDPOINT", cfg.DynamoDB.Endpoint)
	cfg.DynamoDB.TableName = getenv("DDB_TABLE_NAME", cfg.DynamoDB.TableName)

	cfg.Redis.Addr = getenv("ROWMAP_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getenv("ROWMAP_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getenvInt("ROWMAP_REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Prefix = getenv("ROWMAP_REDIS_PREFIX", cfg.Redis.Prefix)

	cfg.RateLimit.RPS = getenvFloat("ROWMAP_RATE_LIMIT_RPS", cfg.RateLimit.RPS)
	cfg.RateLimit.Burst = getenvInt("ROWMAP_RATE_LIMIT_BURST", cfg.RateLimit.Burst)

	cfg.Cache.MaxEntries = getenvInt("ROWMAP_CACHE_MAX_ENTRIES", cfg.Cache.MaxEntries)
	cfg.Cache.IdleTimeout = getenvDuration("ROWMAP_CACHE_IDLE_TIMEOUT", cfg.Cache.IdleTimeout)
}

// Validate clamps cache sizes into range, fills table keyspaces from
// Keyspace and checks the backend settings and table definitions.
func (c *Config) Validate() error {
	if c.Keyspace == "" {
		return errors.NewValidationError("keyspace", "keyspace is required")
	}

	switch {
	case c.Cache.MaxEntries <= 0:
		c.Cache.MaxEntries = defaultCacheSize
	case c.Cache.MaxEntries > MaxCacheEntries:
		c.Cache.MaxEntries = MaxCacheEntries
	}
	switch {
	case c.Cache.IdleTimeout <= 0:
		c.Cache.IdleTimeout = cache.DefaultIdleTimeout
	case c.Cache.IdleTimeout < minIdleTimeout:
		c.Cache.IdleTimeout = minIdleTimeout
	case c.Cache.IdleTimeout > MaxIdleTimeout:
		c.Cache.IdleTimeout = MaxIdleTimeout
	}
	if c.RateLimit.RPS < 0 {
		return errors.NewValidationError("rate_limit.rps", "must not be negative")
	}

	switch c.Backend {
	case BackendMemory:
	case BackendDynamoDB:
		if c.DynamoDB.TableName == "" {
			return errors.NewValidationError("dynamodb.table_name", "DynamoDB table name is required")
		}
		if c.DynamoDB.Region == "" {
			return errors.NewValidationError("dynamodb.region", "AWS region is required")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.NewValidationError("redis.addr", "redis address is required")
		}
	case "":
		return errors.NewValidationError("backend", "backend is required")
	default:
		return errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", c.Backend))
	}

	for i := range c.Tables {
		if c.Tables[i].Keyspace == "" {
			c.Tables[i].Keyspace = c.Keyspace
		}
		if err := c.Tables[i].Validate(); err != nil {
			return errors.NewValidationError("tables", err.Error())
		}
	}
	return nil
}

// CacheOptions returns the entity cache settings as cache options.
func (c *Config) CacheOptions() []cache.Option {
	return []cache.Option{
		cache.WithMaxEntries(c.Cache.MaxEntries),
		cache.WithIdleTimeout(c.Cache.IdleTimeout),
	}
}

// OpenStore builds the configured backend over the configured tables.
func OpenStore(ctx context.Context, cfg *Config, logger *slog.Logger) (datastore.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tables, err := datastore.NewTables(cfg.Tables...)
	if err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendMemory:
		logger.Info("opening in-memory store", "tables", len(cfg.Tables))
		store, err := mock.New(cfg.Tables...)
		if err != nil {
			return nil, err
		}
		return store, nil

	case BackendDynamoDB:
		client, err := ddb.NewDynamoDBClient(ctx, cfg.DynamoDB.AccessKey, cfg.DynamoDB.SecretKey,
			cfg.DynamoDB.Region, cfg.DynamoDB.Endpoint)
		if err != nil {
			return nil, err
		}
		store, err := ddb.New(client, cfg.DynamoDB.TableName, tables,
			ddb.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
			ddb.WithRetry(ddb.RetryOptions{MaxRetries: cfg.DynamoDB.MaxRetries, Backoff: cfg.DynamoDB.Backoff}),
			ddb.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return store, nil

	case BackendRedis:
		client, err := redisstore.Dial(ctx, redisstore.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, err
		}
		store, err := redisstore.New(client, tables,
			redisstore.WithPrefix(cfg.Redis.Prefix),
			redisstore.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
			redisstore.WithLogger(logger),
		)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return store, nil
	}
	return nil, errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", cfg.Backend))
}
