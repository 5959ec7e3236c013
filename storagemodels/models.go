/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"strings"

	"github.com/suparena/rowmapper/column"
)

// Eq is a single column = value equality constraint.
type Eq struct {
	Column string
	Value  any
}

func (e Eq) String() string {
	return fmt.Sprintf("%s = %v", e.Column, e.Value)
}

// Predicate is an ordered conjunction of equality constraints.
type Predicate []Eq

func (p Predicate) String() string {
	parts := make([]string, len(p))
	for i, eq := range p {
		parts[i] = eq.String()
	}
	return strings.Join(parts, " AND ")
}

// Value returns the value constrained for column, if any.
func (p Predicate) Value(column string) (any, bool) {
	for _, eq := range p {
		if eq.Column == column {
			return eq.Value, true
		}
	}
	return nil, false
}

// Assignment binds a value to a column in an upsert.
type Assignment struct {
	Column string
	Value  any
}

// Select fetches at most one row matching Where.
type Select struct {
	// Keyspace is the namespace the table lives in.
	Keyspace string
	// Table is the table name within the keyspace.
	Table string
	// Where holds the primary key constraints.
	Where Predicate
}

func (s *Select) String() string {
	return fmt.Sprintf("SELECT * FROM %s.%s WHERE %s", s.Keyspace, s.Table, s.Where)
}

// Upsert writes a row, replacing the columns it names.
type Upsert struct {
	Keyspace string
	Table    string
	Values   []Assignment
}

func (u *Upsert) String() string {
	cols := make([]string, len(u.Values))
	vals := make([]string, len(u.Values))
	for i, a := range u.Values {
		cols[i] = a.Column
		vals[i] = fmt.Sprint(a.Value)
	}
	return fmt.Sprintf("INSERT INTO %s.%s (%s) VALUES (%s)",
		u.Keyspace, u.Table, strings.Join(cols, ", "), strings.Join(vals, ", "))
}

// Predicate returns the constraints selecting the row u writes, given the
// table's primary key columns.
func (u *Upsert) Predicate(primaryKey []string) (Predicate, error) {
	where := make(Predicate, 0, len(primaryKey))
	for _, col := range primaryKey {
		found := false
		for _, a := range u.Values {
			if a.Column == col {
				where = append(where, Eq{Column: col, Value: a.Value})
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("upsert into %s.%s is missing primary key column %q", u.Keyspace, u.Table, col)
		}
	}
	return where, nil
}

// Delete removes the row matching Where.
type Delete struct {
	Keyspace string
	Table    string
	Where    Predicate
}

func (d *Delete) String() string {
	return fmt.Sprintf("DELETE FROM %s.%s WHERE %s", d.Keyspace, d.Table, d.Where)
}

// ColumnDef declares a column and its wire type.
type ColumnDef struct {
	Name string      `yaml:"name"`
	Type column.Type `yaml:"type"`
}

// TableDef describes a table to a store backend. Backends need it to decode
// values to their wire types and to locate rows by primary key.
type TableDef struct {
	Keyspace string      `yaml:"keyspace"`
	Name     string      `yaml:"name"`
	Columns  []ColumnDef `yaml:"columns"`
	// PrimaryKey lists the key columns in order: partition column first,
	// clustering columns after.
	PrimaryKey []string `yaml:"primary_key"`
}

// QualifiedName returns "keyspace.table".
func (t *TableDef) QualifiedName() string {
	return t.Keyspace + "." + t.Name
}

// ColumnType returns the wire type declared for name.
func (t *TableDef) ColumnType(name string) (column.Type, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Type, true
		}
	}
	return column.Invalid, false
}

// Validate checks that the definition is usable by a backend.
func (t *TableDef) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("table definition has no name")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", t.QualifiedName())
	}
	if len(t.PrimaryKey) == 0 {
		return fmt.Errorf("table %s has no primary key", t.QualifiedName())
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if seen[c.Name] {
			return fmt.Errorf("table %s declares column %q twice", t.QualifiedName(), c.Name)
		}
		if !c.Type.Valid() {
			return fmt.Errorf("table %s column %q has no type", t.QualifiedName(), c.Name)
		}
		seen[c.Name] = true
	}
	for _, k := range t.PrimaryKey {
		typ, ok := t.ColumnType(k)
		if !ok {
			return fmt.Errorf("table %s primary key column %q is not declared", t.QualifiedName(), k)
		}
		if typ.IsCollection() {
			return fmt.Errorf("table %s primary key column %q cannot be a collection", t.QualifiedName(), k)
		}
	}
	return nil
}

// KeyOf renders the canonical text of the primary key values in where, in
// primary key order. Backends use it to address rows.
func (t *TableDef) KeyOf(where Predicate) ([]string, error) {
	if len(where) != len(t.PrimaryKey) {
		return nil, fmt.Errorf("predicate on %s must constrain exactly the primary key %v, got %s",
			t.QualifiedName(), t.PrimaryKey, where)
	}
	parts := make([]string, len(t.PrimaryKey))
	for i, col := range t.PrimaryKey {
		v, ok := where.Value(col)
		if !ok {
			return nil, fmt.Errorf("predicate on %s does not constrain primary key column %q", t.QualifiedName(), col)
		}
		typ, _ := t.ColumnType(col)
		s, err := column.Format(typ, v)
		if err != nil {
			return nil, fmt.Errorf("primary key column %q: %w", col, err)
		}
		parts[i] = s
	}
	return parts, nil
}
