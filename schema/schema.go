/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"reflect"

	"github.com/suparena/rowmapper/column"
)

// FieldSpec describes one mapped field of a type.
type FieldSpec struct {
	// Name is the column name. Empty or "-" means the field's own name.
	Name string
	// FieldName is the Go field name.
	FieldName string
	// Primary marks a primary key field. Primary fields keep their
	// declaration order in the key.
	Primary bool
	// Kind is the declared kind of the field.
	Kind column.Kind
	// Get reads the field from an instance.
	Get func(inst any) (any, error)
	// Set writes the field on an instance. Nil for read-only fields.
	Set func(inst any, v any) error
}

// Constructor builds an instance from arguments of the given kinds.
// A constructor with no parameters builds a blank instance.
type Constructor struct {
	Params []column.Kind
	New    func(args []any) (any, error)
}

// Description is everything the mapping engine needs to know about a type.
type Description struct {
	Table        string
	Cached       bool
	Fields       []FieldSpec
	Constructors []Constructor
}

// Describer produces the Description of a type.
type Describer interface {
	Describe(t reflect.Type) (*Description, error)
}

// DescriberFunc adapts a function to the Describer interface.
type DescriberFunc func(t reflect.Type) (*Description, error)

// Describe implements Describer.
func (f DescriberFunc) Describe(t reflect.Type) (*Description, error) {
	return f(t)
}
