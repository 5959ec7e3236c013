/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of the Store interface for testing
package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/suparena/rowmapper/column"
	"github.com/suparena/rowmapper/errors"
	"github.com/suparena/rowmapper/storagemodels"
)

// Store is an in-memory wide-column store implementing datastore.Store.
// Values are kept in their native wire form, so reads report the declared
// column types exactly as a real backend would.
type Store struct {
	mu          sync.RWMutex
	tables      map[string]*storagemodels.TableDef
	rows        map[string]map[string]map[string]any
	fetchError  error
	upsertError error
	deleteError error
	fetches     atomic.Int64
	upserts     atomic.Int64
	deletes     atomic.Int64
}

// New creates a new mock Store holding the given tables.
func New(tables ...storagemodels.TableDef) (*Store, error) {
	m := &Store{
		tables: make(map[string]*storagemodels.TableDef),
		rows:   make(map[string]map[string]map[string]any),
	}
	for _, def := range tables {
		if err := m.CreateTable(def); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// CreateTable adds a table, dropping any existing table of the same name.
func (m *Store) CreateTable(def storagemodels.TableDef) error {
	if err := def.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	name := def.QualifiedName()
	m.tables[name] = &def
	m.rows[name] = make(map[string]map[string]any)
	return nil
}

// Table implements datastore.TableLookup.
func (m *Store) Table(keyspace, name string) (*storagemodels.TableDef, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	def, ok := m.tables[keyspace+"."+name]
	return def, ok
}

// WithFetchError makes FetchOne operations return an error
func (m *Store) WithFetchError(err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchError = err
	return m
}

// WithUpsertError makes Upsert operations return an error
func (m *Store) WithUpsertError(err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *Store) WithDeleteError(err error) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteError = err
	return m
}

// FetchOne retrieves the row matching q.Where
func (m *Store) FetchOne(ctx context.Context, q *storagemodels.Select) (*storagemodels.Row, error) {
	m.fetches.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.fetchError != nil {
		return nil, m.fetchError
	}

	def, err := m.table(q.Keyspace, q.Table)
	if err != nil {
		return nil, err
	}
	key, err := rowKey(def, q.Where)
	if err != nil {
		return nil, err
	}

	stored, exists := m.rows[def.QualifiedName()][key]
	if !exists {
		return nil, nil
	}

	row := storagemodels.NewRow()
	for _, c := range def.Columns {
		row.Set(c.Name, c.Type, stored[c.Name])
	}
	return row, nil
}

// Upsert stores a row, replacing the columns it names
func (m *Store) Upsert(ctx context.Context, u *storagemodels.Upsert) error {
	m.upserts.Add(1)
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.upsertError != nil {
		return m.upsertError
	}

	def, err := m.table(u.Keyspace, u.Table)
	if err != nil {
		return err
	}

	values := make(map[string]any, len(u.Values))
	for _, a := range u.Values {
		typ, ok := def.ColumnType(a.Column)
		if !ok {
			return errors.NewValidationError(a.Column, fmt.Sprintf("unknown column in %s", def.QualifiedName()))
		}
		v, err := column.Encode(typ, a.Value)
		if err != nil {
			return fmt.Errorf("column %q: %w", a.Column, err)
		}
		values[a.Column] = v
	}

	where, err := u.Predicate(def.PrimaryKey)
	if err != nil {
		return errors.NewValidationError("key", err.Error())
	}
	key, err := rowKey(def, where)
	if err != nil {
		return err
	}

	rows := m.rows[def.QualifiedName()]
	existing, ok := rows[key]
	if !ok {
		existing = make(map[string]any, len(def.Columns))
		rows[key] = existing
	}
	for k, v := range values {
		existing[k] = v
	}
	return nil
}

// Delete removes the row matching d.Where
func (m *Store) Delete(ctx context.Context, d *storagemodels.Delete) error {
	m.deletes.Add(1)
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteError != nil {
		return m.deleteError
	}

	def, err := m.table(d.Keyspace, d.Table)
	if err != nil {
		return err
	}
	key, err := rowKey(def, d.Where)
	if err != nil {
		return err
	}
	delete(m.rows[def.QualifiedName()], key)
	return nil
}

// Close implements datastore.Store.
func (m *Store) Close() error {
	return nil
}

// Helper methods for testing

// Fetches returns how many FetchOne calls were made
func (m *Store) Fetches() int64 {
	return m.fetches.Load()
}

// Upserts returns how many Upsert calls were made
func (m *Store) Upserts() int64 {
	return m.upserts.Load()
}

// Deletes returns how many Delete calls were made
func (m *Store) Deletes() int64 {
	return m.deletes.Load()
}

// Count returns the number of rows stored in a table
func (m *Store) Count(keyspace, table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows[keyspace+"."+table])
}

// Clear removes all rows, keeping table definitions
func (m *Store) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name := range m.rows {
		m.rows[name] = make(map[string]map[string]any)
	}
}

func (m *Store) table(keyspace, name string) (*storagemodels.TableDef, error) {
	def, ok := m.tables[keyspace+"."+name]
	if !ok {
		return nil, errors.NewNotFoundError("table", keyspace+"."+name)
	}
	return def, nil
}

// rowKey joins the canonical key parts; each part is length-prefixed so
// separators inside values cannot collide.
func rowKey(def *storagemodels.TableDef, where storagemodels.Predicate) (string, error) {
	parts, err := def.KeyOf(where)
	if err != nil {
		return "", errors.NewValidationError("where", err.Error())
	}
	var b strings.Builder
	for _, p := range parts {
		fmt.Fprintf(&b, "%d:%s|", len(p), p)
	}
	return b.String(), nil
}
