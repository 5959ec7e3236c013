/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"reflect"

	"github.com/suparena/rowmapper/cache"
	"github.com/suparena/rowmapper/storagemodels"
)

// EntityMapping is everything needed to move one type in and out of its
// table. It is built once per type and never modified afterwards.
type EntityMapping struct {
	Type     reflect.Type
	Keyspace string
	Table    string
	Fields   []*FieldDescriptor
	Key      KeyDescriptor
	Loader   Loader
	// Cache is nil for types that did not opt in.
	Cache *cache.Cache[string, any]
}

// Field returns the descriptor bound to column, if any.
func (m *EntityMapping) Field(column string) (*FieldDescriptor, bool) {
	for _, f := range m.Fields {
		if f.Column() == column {
			return f, true
		}
	}
	return nil, false
}

// Columns lists the mapped columns in field order.
func (m *EntityMapping) Columns() []string {
	cols := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		cols[i] = f.Column()
	}
	return cols
}

// Lookup resolves a lookup key into its predicate and cache key.
func (m *EntityMapping) Lookup(key any) (storagemodels.Predicate, string, error) {
	parts, err := m.Key.Components(key)
	if err != nil {
		return nil, "", err
	}
	where, err := m.Key.Predicate(CompositeKey{parts: parts})
	if err != nil {
		return nil, "", err
	}
	return where, CacheKey(parts), nil
}

// Select builds the statement fetching the row for key.
func (m *EntityMapping) Select(key any) (*storagemodels.Select, string, error) {
	where, cacheKey, err := m.Lookup(key)
	if err != nil {
		return nil, "", err
	}
	return &storagemodels.Select{Keyspace: m.Keyspace, Table: m.Table, Where: where}, cacheKey, nil
}

// Delete builds the statement removing the row for key.
func (m *EntityMapping) Delete(key any) (*storagemodels.Delete, string, error) {
	where, cacheKey, err := m.Lookup(key)
	if err != nil {
		return nil, "", err
	}
	return &storagemodels.Delete{Keyspace: m.Keyspace, Table: m.Table, Where: where}, cacheKey, nil
}

// Upsert reads every field of inst into the statement writing it, and
// returns the cache key of inst.
func (m *EntityMapping) Upsert(inst any) (*storagemodels.Upsert, string, error) {
	values := make([]storagemodels.Assignment, len(m.Fields))
	for i, f := range m.Fields {
		v, err := f.Get(inst)
		if err != nil {
			return nil, "", err
		}
		values[i] = storagemodels.Assignment{Column: f.Column(), Value: v}
	}
	key, err := m.Key.KeyOf(inst)
	if err != nil {
		return nil, "", err
	}
	parts, err := m.Key.Components(key)
	if err != nil {
		return nil, "", err
	}
	return &storagemodels.Upsert{Keyspace: m.Keyspace, Table: m.Table, Values: values}, CacheKey(parts), nil
}

// Load rebuilds an instance from row.
func (m *EntityMapping) Load(row *storagemodels.Row) (any, error) {
	return m.Loader.Load(row)
}

// TableDef derives a table definition from the mapping, using wire types
// that hold each field's kind without loss.
func (m *EntityMapping) TableDef() *storagemodels.TableDef {
	def := &storagemodels.TableDef{
		Keyspace:   m.Keyspace,
		Name:       m.Table,
		PrimaryKey: m.Key.Columns(),
	}
	for _, f := range m.Fields {
		def.Columns = append(def.Columns, storagemodels.ColumnDef{Name: f.Column(), Type: f.Kind().WireType()})
	}
	return def
}
