/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/rowmapper/column"
	"github.com/suparena/rowmapper/datastore/mock"
	"github.com/suparena/rowmapper/errors"
	"github.com/suparena/rowmapper/storagemodels"
)

const sampleYAML = `
keyspace: music
backend: memory
rate_limit:
  rps: 50
  burst: 10
cache:
  max_entries: 5000
  idle_timeout: 5m
tables:
  - name: songs
    primary_key: [id]
    columns:
      - {name: id, type: uuid}
      - {name: title, type: text}
      - {name: plays, type: varint}
`

var rowmapEnv = []string{
	"ROWMAP_KEYSPACE", "ROWMAP_BACKEND",
	"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "DDB_ENDPOINT", "DDB_TABLE_NAME",
	"ROWMAP_REDIS_ADDR", "ROWMAP_REDIS_PASSWORD", "ROWMAP_REDIS_DB", "ROWMAP_REDIS_PREFIX",
	"ROWMAP_RATE_LIMIT_RPS", "ROWMAP_RATE_LIMIT_BURST",
	"ROWMAP_CACHE_MAX_ENTRIES", "ROWMAP_CACHE_IDLE_TIMEOUT",
}

// clearEnv unsets every override for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range rowmapEnv {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeFile(t, "rowmap.yaml", sampleYAML), noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "music", cfg.Keyspace)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, 50.0, cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, 5000, cfg.Cache.MaxEntries)
	assert.Equal(t, 5*time.Minute, cfg.Cache.IdleTimeout)

	require.Len(t, cfg.Tables, 1)
	songs := cfg.Tables[0]
	assert.Equal(t, "music", songs.Keyspace, "table keyspace defaults to the config keyspace")
	assert.Equal(t, []string{"id"}, songs.PrimaryKey)
	typ, ok := songs.ColumnType("plays")
	require.True(t, ok)
	assert.Equal(t, column.Varint, typ)

	// Defaults survive for sections the file leaves out.
	assert.Equal(t, "us-east-1", cfg.DynamoDB.Region)
	assert.Equal(t, 3, cfg.DynamoDB.MaxRetries)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROWMAP_KEYSPACE", "films")
	t.Setenv("ROWMAP_BACKEND", "DynamoDB")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("DDB_TABLE_NAME", "films-table")
	t.Setenv("ROWMAP_CACHE_IDLE_TIMEOUT", "90s")
	t.Setenv("ROWMAP_RATE_LIMIT_RPS", "not-a-number")

	cfg, err := Load(writeFile(t, "rowmap.yaml", sampleYAML), noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "films", cfg.Keyspace)
	assert.Equal(t, BackendDynamoDB, cfg.Backend)
	assert.Equal(t, "eu-west-1", cfg.DynamoDB.Region)
	assert.Equal(t, "films-table", cfg.DynamoDB.TableName)
	assert.Equal(t, 90*time.Second, cfg.Cache.IdleTimeout)
	assert.Equal(t, 50.0, cfg.RateLimit.RPS, "unparsable overrides are ignored")
	assert.Equal(t, "films", cfg.Tables[0].Keyspace)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, "test.env", "ROWMAP_KEYSPACE=from_dotenv\nROWMAP_REDIS_PREFIX=app:\n")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", cfg.Keyspace)
	assert.Equal(t, "app:", cfg.Redis.Prefix)
	assert.Equal(t, BackendMemory, cfg.Backend)
}

func TestLoadEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROWMAP_KEYSPACE", "from_env")
	envFile := writeFile(t, "test.env", "ROWMAP_KEYSPACE=from_dotenv\n")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Keyspace)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnvFile(t))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "keyspace: [unterminated"), noEnvFile(t))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad-type.yaml", `
keyspace: music
tables:
  - name: songs
    primary_key: [id]
    columns:
      - {name: id, type: nosuchtype}
`), noEnvFile(t))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"missing keyspace", func(c *Config) { c.Keyspace = "" }, "keyspace"},
		{"missing backend", func(c *Config) { c.Backend = "" }, "backend"},
		{"unknown backend", func(c *Config) { c.Backend = "cassandra" }, "backend"},
		{"dynamodb without table", func(c *Config) { c.Backend = BackendDynamoDB }, "dynamodb.table_name"},
		{"redis without addr", func(c *Config) { c.Backend = BackendRedis; c.Redis.Addr = "" }, "redis.addr"},
		{"negative rps", func(c *Config) { c.RateLimit.RPS = -1 }, "rate_limit.rps"},
		{"bad table", func(c *Config) {
			c.Tables = []storagemodels.TableDef{{Name: "songs"}}
		}, "tables"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Keyspace = "music"
			tt.edit(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			var verr *errors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidateClampsCache(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.Keyspace = "music"

	cfg.Cache.MaxEntries = -5
	cfg.Cache.IdleTimeout = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, defaultCacheSize, cfg.Cache.MaxEntries)
	assert.Equal(t, 10*time.Minute, cfg.Cache.IdleTimeout)

	cfg.Cache.MaxEntries = MaxCacheEntries * 10
	cfg.Cache.IdleTimeout = time.Millisecond
	require.NoError(t, cfg.Validate())
	assert.Equal(t, MaxCacheEntries, cfg.Cache.MaxEntries)
	assert.Equal(t, time.Second, cfg.Cache.IdleTimeout)

	cfg.Cache.IdleTimeout = 48 * time.Hour
	require.NoError(t, cfg.Validate())
	assert.Equal(t, MaxIdleTimeout, cfg.Cache.IdleTimeout)

	assert.Len(t, cfg.CacheOptions(), 2)
}

func TestOpenStoreMemory(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeFile(t, "rowmap.yaml", sampleYAML), noEnvFile(t))
	require.NoError(t, err)

	store, err := OpenStore(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer store.Close()

	mem, ok := store.(*mock.Store)
	require.True(t, ok)
	def, ok := mem.Table("music", "songs")
	require.True(t, ok)
	assert.Equal(t, "music.songs", def.QualifiedName())
}

func TestOpenStoreRedisRequiresAddr(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.Keyspace = "music"
	cfg.Backend = BackendRedis
	cfg.Redis.Addr = ""

	_, err := OpenStore(context.Background(), cfg, nil)
	assert.True(t, errors.IsValidationError(err))
}
