/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package rowmapper

import (
	"log/slog"

	"github.com/suparena/rowmapper/cache"
	"github.com/suparena/rowmapper/datastore"
	"github.com/suparena/rowmapper/errors"
	"github.com/suparena/rowmapper/mapping"
	"github.com/suparena/rowmapper/schema"
)

// Config collects the settings a Mapper is connected with.
type Config struct {
	keyspace  string
	store     datastore.Store
	logger    *slog.Logger
	describer schema.Describer
	cacheOpts []cache.Option
}

// Configure starts a Mapper configuration.
func Configure() *Config {
	return &Config{}
}

// WithKeyspace sets the keyspace every mapped table lives in.
func (c *Config) WithKeyspace(name string) *Config {
	c.keyspace = name
	return c
}

// WithStore sets the store collaborator statements are executed by.
func (c *Config) WithStore(s datastore.Store) *Config {
	c.store = s
	return c
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func (c *Config) WithLogger(l *slog.Logger) *Config {
	c.logger = l
	return c
}

// WithDescriber replaces struct tag discovery.
func (c *Config) WithDescriber(d schema.Describer) *Config {
	c.describer = d
	return c
}

// WithCacheOptions tunes the entity caches of cached types.
func (c *Config) WithCacheOptions(opts ...cache.Option) *Config {
	c.cacheOpts = append(c.cacheOpts, opts...)
	return c
}

// Connect validates the configuration and returns a Mapper.
func (c *Config) Connect() (*Mapper, error) {
	if c.keyspace == "" {
		return nil, errors.NewValidationError("keyspace", "keyspace is required")
	}
	if c.store == nil {
		return nil, errors.NewValidationError("store", "store is required")
	}
	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("keyspace", c.keyspace)

	m := &Mapper{
		keyspace: c.keyspace,
		store:    c.store,
		logger:   logger,
		registry: mapping.NewRegistry(c.keyspace,
			mapping.WithDescriber(c.describer),
			mapping.WithCacheOptions(c.cacheOpts...),
			mapping.WithLogger(logger)),
	}
	logger.Info("mapper connected")
	return m, nil
}
