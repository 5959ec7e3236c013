/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package rowmapper

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/suparena/rowmapper/datastore"
	"github.com/suparena/rowmapper/errors"
	"github.com/suparena/rowmapper/mapping"
)

// Mapper moves mapped types in and out of a store. It is safe for concurrent
// use; mappings are built on first use of each type.
type Mapper struct {
	keyspace string
	store    datastore.Store
	registry *mapping.Registry
	logger   *slog.Logger
}

// Keyspace returns the keyspace the mapper reads and writes.
func (m *Mapper) Keyspace() string { return m.keyspace }

// Close closes the underlying store.
func (m *Mapper) Close() error {
	return m.store.Close()
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// MappingFor returns the mapping of T, building it if needed. T must be the
// struct type itself: Get[Song], not Get[*Song].
func MappingFor[T any](m *Mapper) (*mapping.EntityMapping, error) {
	t := typeOf[T]()
	if t.Kind() == reflect.Pointer {
		return nil, errors.NewValidationError("type",
			fmt.Sprintf("%s is a pointer type, use %s", t, t.Elem()))
	}
	return m.registry.MappingFor(t)
}

// keyOf packs positional key parts into a CompositeKey.
func keyOf(key any, more []any) any {
	if len(more) == 0 {
		return key
	}
	return mapping.NewCompositeKey(append([]any{key}, more...)...)
}

// Get loads the T stored under key. Extra arguments are further components
// of a composite key. A cached T is returned without contacting the store.
// Get returns nil and no error when no row matches.
func Get[T any](ctx context.Context, m *Mapper, key any, more ...any) (*T, error) {
	em, err := MappingFor[T](m)
	if err != nil {
		return nil, err
	}
	sel, cacheKey, err := em.Select(keyOf(key, more))
	if err != nil {
		return nil, err
	}

	if v, ok := em.Cache.GetIfPresent(cacheKey); ok {
		entity, ok := v.(*T)
		if !ok {
			return nil, errors.NewValidationError("type",
				fmt.Sprintf("cached %T is not a *%s", v, em.Type))
		}
		return entity, nil
	}

	m.logger.Debug("get", "table", sel.Table, "where", sel.Where.String())
	row, err := m.store.FetchOne(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", em.Type, err)
	}
	if row == nil {
		return nil, nil
	}

	inst, err := em.Load(row)
	if err != nil {
		m.logger.Warn("load failed", "type", em.Type.String(), "where", sel.Where.String(), "error", err)
		return nil, err
	}
	entity, ok := inst.(*T)
	if !ok {
		return nil, errors.NewConstructionError(em.Type.String(), 0,
			fmt.Errorf("constructor built %T, want *%s", inst, em.Type))
	}
	em.Cache.Put(cacheKey, entity)
	return entity, nil
}

// GetAsync runs Get in the background.
func GetAsync[T any](ctx context.Context, m *Mapper, key any, more ...any) *Future[T] {
	return goFuture(func() (*T, error) {
		return Get[T](ctx, m, key, more...)
	})
}

// Persist writes every mapped field of entity and returns entity. For cached
// types the cache entry of entity's key is replaced with entity.
func Persist[T any](ctx context.Context, m *Mapper, entity *T) (*T, error) {
	if entity == nil {
		return nil, errors.NewValidationError("entity", "cannot persist nil")
	}
	em, err := MappingFor[T](m)
	if err != nil {
		return nil, err
	}
	up, cacheKey, err := em.Upsert(entity)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("persist", "table", up.Table, "columns", len(up.Values))
	if err := m.store.Upsert(ctx, up); err != nil {
		return nil, fmt.Errorf("failed to persist %s: %w", em.Type, err)
	}
	em.Cache.Put(cacheKey, entity)
	return entity, nil
}

// PersistAsync runs Persist in the background.
func PersistAsync[T any](ctx context.Context, m *Mapper, entity *T) *Future[T] {
	return goFuture(func() (*T, error) {
		return Persist(ctx, m, entity)
	})
}

// Delete removes the T stored under key and drops it from the cache.
func Delete[T any](ctx context.Context, m *Mapper, key any, more ...any) error {
	em, err := MappingFor[T](m)
	if err != nil {
		return err
	}
	del, cacheKey, err := em.Delete(keyOf(key, more))
	if err != nil {
		return err
	}

	m.logger.Debug("delete", "table", del.Table, "where", del.Where.String())
	err = m.store.Delete(ctx, del)
	em.Cache.Invalidate(cacheKey)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", em.Type, err)
	}
	return nil
}

// Invalidate drops the cached T for key without touching the store.
func Invalidate[T any](m *Mapper, key any, more ...any) error {
	em, err := MappingFor[T](m)
	if err != nil {
		return err
	}
	_, cacheKey, err := em.Lookup(keyOf(key, more))
	if err != nil {
		return err
	}
	em.Cache.Invalidate(cacheKey)
	return nil
}
