/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redisstore

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/suparena/rowmapper/column"
	"github.com/suparena/rowmapper/datastore"
	"github.com/suparena/rowmapper/errors"
	"github.com/suparena/rowmapper/storagemodels"
)

// Client is the subset of the go-redis client the store uses.
type Client interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
	Close() error
}

// Options configure the connection made by Dial.
type Options struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Dial connects to a single Redis node and checks the connection.
func Dial(ctx context.Context, o Options) (*redis.Client, error) {
	if o.Addr == "" {
		return nil, errors.NewValidationError("addr", "redis address is required")
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:         o.Addr,
		Password:     o.Password,
		DB:           o.DB,
		PoolSize:     o.PoolSize,
		MinIdleConns: o.MinIdleConns,
		DialTimeout:  o.DialTimeout,
		ReadTimeout:  o.ReadTimeout,
		WriteTimeout: o.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, o.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Store implements datastore.Store with one Redis hash per row. Hash fields
// are column names holding the canonical text of each value; null columns
// are absent fields.
type Store struct {
	client  Client
	tables  datastore.TableLookup
	prefix  string
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix prepends prefix to every key.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithRateLimit caps requests per second issued by the store.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Store) {
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store over client.
func New(client Client, tables datastore.TableLookup, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, errors.NewValidationError("client", "redis client is required")
	}
	if tables == nil {
		return nil, errors.NewValidationError("tables", "table definitions are required")
	}
	s := &Store{client: client, tables: tables, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Info("Redis store initialized", "prefix", s.prefix)
	return s, nil
}

// FetchOne reads the hash of the row matching q.Where.
func (s *Store) FetchOne(ctx context.Context, q *storagemodels.Select) (*storagemodels.Row, error) {
	def, key, err := s.resolve(q.Keyspace, q.Table, q.Where)
	if err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get row %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	row := storagemodels.NewRow()
	for _, c := range def.Columns {
		text, ok := fields[c.Name]
		if !ok {
			row.Set(c.Name, c.Type, nil)
			continue
		}
		v, err := column.Parse(c.Type, text)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		row.Set(c.Name, c.Type, v)
	}
	return row, nil
}

// Upsert writes the named columns into the row's hash. Null values remove
// their field. Both happen in one MULTI/EXEC transaction.
func (s *Store) Upsert(ctx context.Context, u *storagemodels.Upsert) error {
	def, ok := s.tables.Table(u.Keyspace, u.Table)
	if !ok {
		return errors.NewNotFoundError("table", u.Keyspace+"."+u.Table)
	}
	where, err := u.Predicate(def.PrimaryKey)
	if err != nil {
		return errors.NewValidationError("key", err.Error())
	}
	key, err := s.rowKey(def, where)
	if err != nil {
		return err
	}

	values := make([]interface{}, 0, 2*len(u.Values))
	var nulls []string
	for _, a := range u.Values {
		typ, ok := def.ColumnType(a.Column)
		if !ok {
			return errors.NewValidationError(a.Column, fmt.Sprintf("unknown column in %s", def.QualifiedName()))
		}
		native, err := column.Encode(typ, a.Value)
		if err != nil {
			return fmt.Errorf("column %q: %w", a.Column, err)
		}
		if native == nil {
			nulls = append(nulls, a.Column)
			continue
		}
		text, err := column.Format(typ, native)
		if err != nil {
			return fmt.Errorf("column %q: %w", a.Column, err)
		}
		values = append(values, a.Column, text)
	}

	if err := s.wait(ctx); err != nil {
		return err
	}
	if len(values) == 0 && len(nulls) == 0 {
		return nil
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(values) > 0 {
			pipe.HSet(ctx, key, values...)
		}
		if len(nulls) > 0 {
			pipe.HDel(ctx, key, nulls...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write row %s: %w", key, err)
	}
	return nil
}

// Delete removes the row's hash.
func (s *Store) Delete(ctx context.Context, d *storagemodels.Delete) error {
	_, key, err := s.resolve(d.Keyspace, d.Table, d.Where)
	if err != nil {
		return err
	}
	if err := s.wait(ctx); err != nil {
		return err
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete row %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) wait(ctx context.Context) error {
	if s.limiter == nil {
		return ctx.Err()
	}
	return s.limiter.Wait(ctx)
}

func (s *Store) resolve(keyspace, table string, where storagemodels.Predicate) (*storagemodels.TableDef, string, error) {
	def, ok := s.tables.Table(keyspace, table)
	if !ok {
		return nil, "", errors.NewNotFoundError("table", keyspace+"."+table)
	}
	key, err := s.rowKey(def, where)
	if err != nil {
		return nil, "", err
	}
	return def, key, nil
}

// rowKey renders "<prefix><keyspace>:<table>:<key parts>"; parts are
// query-escaped so ':' inside values cannot collide.
func (s *Store) rowKey(def *storagemodels.TableDef, where storagemodels.Predicate) (string, error) {
	parts, err := def.KeyOf(where)
	if err != nil {
		return "", errors.NewValidationError("key", err.Error())
	}
	for i, p := range parts {
		parts[i] = url.QueryEscape(p)
	}
	return s.prefix + def.Keyspace + ":" + def.Name + ":" + strings.Join(parts, ":"), nil
}
