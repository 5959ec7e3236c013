/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/rowmapper/storagemodels"
)

// Store executes single-row statements against a wide-column store.
type Store interface {
	// FetchOne returns the row matching q.Where, or nil if no row matches.
	FetchOne(ctx context.Context, q *storagemodels.Select) (*storagemodels.Row, error)

	// Upsert writes a row, creating or replacing it.
	Upsert(ctx context.Context, u *storagemodels.Upsert) error

	// Delete removes the row matching d.Where. Deleting a missing row is not an error.
	Delete(ctx context.Context, d *storagemodels.Delete) error

	Close() error
}

// TableLookup resolves table definitions for backends that need them.
type TableLookup interface {
	Table(keyspace, name string) (*storagemodels.TableDef, bool)
}

// Tables is a TableLookup over a fixed set of definitions.
type Tables map[string]*storagemodels.TableDef

// NewTables indexes defs by qualified name.
func NewTables(defs ...storagemodels.TableDef) (Tables, error) {
	tables := make(Tables, len(defs))
	for i := range defs {
		def := defs[i]
		if err := def.Validate(); err != nil {
			return nil, err
		}
		tables[def.QualifiedName()] = &def
	}
	return tables, nil
}

// Table implements TableLookup.
func (t Tables) Table(keyspace, name string) (*storagemodels.TableDef, bool) {
	def, ok := t[keyspace+"."+name]
	return def, ok
}
