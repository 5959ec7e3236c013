/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"math/big"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/suparena/rowmapper/column"
)

// Row is a single fetched row: for every column its wire type and decoded
// native wire value. A nil value is a null column.
type Row struct {
	columns []string
	types   map[string]column.Type
	values  map[string]any
}

// NewRow creates an empty Row.
func NewRow() *Row {
	return &Row{
		types:  make(map[string]column.Type),
		values: make(map[string]any),
	}
}

// Set records a column value. Setting a column twice replaces it.
func (r *Row) Set(name string, typ column.Type, value any) *Row {
	if _, exists := r.types[name]; !exists {
		r.columns = append(r.columns, name)
	}
	r.types[name] = typ
	r.values[name] = value
	return r
}

// Columns returns the column names in the order they were set.
func (r *Row) Columns() []string {
	return append([]string(nil), r.columns...)
}

// Has reports whether the row carries column name.
func (r *Row) Has(name string) bool {
	_, ok := r.types[name]
	return ok
}

// Type returns the wire type of column name.
func (r *Row) Type(name string) (column.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Value returns the raw decoded value of column name.
func (r *Row) Value(name string) (any, error) {
	if !r.Has(name) {
		return nil, fmt.Errorf("column %q not present in row", name)
	}
	return r.values[name], nil
}

// GetBool returns a boolean column.
func (r *Row) GetBool(name string) (bool, error) {
	return get[bool](r, name, column.Boolean)
}

// GetInt returns an int column.
func (r *Row) GetInt(name string) (int32, error) {
	return get[int32](r, name, column.Int)
}

// GetLong returns a bigint or counter column.
func (r *Row) GetLong(name string) (int64, error) {
	return get[int64](r, name, column.Bigint, column.Counter)
}

// GetVarint returns a varint column.
func (r *Row) GetVarint(name string) (*big.Int, error) {
	return get[*big.Int](r, name, column.Varint)
}

// GetFloat returns a float column.
func (r *Row) GetFloat(name string) (float32, error) {
	return get[float32](r, name, column.Float)
}

// GetDouble returns a double column.
func (r *Row) GetDouble(name string) (float64, error) {
	return get[float64](r, name, column.Double)
}

// GetDecimal returns a decimal column.
func (r *Row) GetDecimal(name string) (*big.Float, error) {
	return get[*big.Float](r, name, column.Decimal)
}

// GetString returns a text, ascii or varchar column.
func (r *Row) GetString(name string) (string, error) {
	return get[string](r, name, column.Text, column.Ascii, column.Varchar)
}

// GetUUID returns a uuid or timeuuid column.
func (r *Row) GetUUID(name string) (uuid.UUID, error) {
	return get[uuid.UUID](r, name, column.UUID, column.TimeUUID)
}

// GetTimestamp returns a timestamp column.
func (r *Row) GetTimestamp(name string) (time.Time, error) {
	return get[time.Time](r, name, column.Timestamp)
}

// GetBytes returns a blob column.
func (r *Row) GetBytes(name string) ([]byte, error) {
	return get[[]byte](r, name, column.Blob)
}

// GetInet returns an inet column.
func (r *Row) GetInet(name string) (net.IP, error) {
	return get[net.IP](r, name, column.Inet)
}

// get reads column name as V, provided its wire type is one of types.
// Null columns yield the zero V.
func get[V any](r *Row, name string, types ...column.Type) (V, error) {
	var zero V
	typ, ok := r.types[name]
	if !ok {
		return zero, fmt.Errorf("column %q not present in row", name)
	}
	match := false
	for _, t := range types {
		if t == typ {
			match = true
			break
		}
	}
	if !match {
		return zero, fmt.Errorf("column %q is %s, not %s", name, typ, types[0])
	}
	raw := r.values[name]
	if raw == nil {
		return zero, nil
	}
	v, ok := raw.(V)
	if !ok {
		return zero, fmt.Errorf("column %q holds %T, not %T", name, raw, zero)
	}
	return v, nil
}
