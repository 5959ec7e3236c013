/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/suparena/rowmapper/column"
	"github.com/suparena/rowmapper/errors"
	"github.com/suparena/rowmapper/schema"
	"github.com/suparena/rowmapper/storagemodels"
)

// FieldDescriptor binds one field of a mapped type to one column.
// It is immutable once built.
type FieldDescriptor struct {
	owner     string
	column    string
	fieldName string
	kind      column.Kind
	primary   bool
	get       func(inst any) (any, error)
	set       func(inst any, v any) error
}

// NewFieldDescriptor builds the descriptor for spec on the type named owner.
func NewFieldDescriptor(owner string, spec schema.FieldSpec) (*FieldDescriptor, error) {
	if !spec.Kind.Valid() {
		return nil, errors.NewSchemaError(owner, fmt.Sprintf("field %s has no kind", spec.FieldName))
	}
	name := spec.Name
	if name == "" || name == "-" {
		name = strings.ToLower(spec.FieldName)
	}
	if name == "" {
		return nil, errors.NewSchemaError(owner, "field without a name")
	}
	return &FieldDescriptor{
		owner:     owner,
		column:    name,
		fieldName: spec.FieldName,
		kind:      spec.Kind,
		primary:   spec.Primary,
		get:       spec.Get,
		set:       spec.Set,
	}, nil
}

// Column returns the column name.
func (f *FieldDescriptor) Column() string { return f.column }

// FieldName returns the name of the bound field.
func (f *FieldDescriptor) FieldName() string { return f.fieldName }

// Kind returns the declared kind of the field.
func (f *FieldDescriptor) Kind() column.Kind { return f.kind }

// Primary reports whether the field is part of the primary key.
func (f *FieldDescriptor) Primary() bool { return f.primary }

// Settable reports whether loads write the field.
func (f *FieldDescriptor) Settable() bool { return f.set != nil }

func (f *FieldDescriptor) String() string {
	return fmt.Sprintf("%s(%s %s)", f.fieldName, f.column, f.kind)
}

// Get reads the field from inst.
func (f *FieldDescriptor) Get(inst any) (v any, err error) {
	if f.get == nil {
		return nil, errors.NewAccessError(f.owner, f.fieldName, stderrors.New("no accessor"))
	}
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, errors.NewAccessError(f.owner, f.fieldName, fmt.Errorf("accessor panicked: %v", r))
		}
	}()
	v, err = f.get(inst)
	if err != nil {
		return nil, errors.NewAccessError(f.owner, f.fieldName, err)
	}
	return v, nil
}

// Set writes v to the field of inst.
func (f *FieldDescriptor) Set(inst any, v any) (err error) {
	if f.set == nil {
		return errors.NewAccessError(f.owner, f.fieldName, stderrors.New("no mutator"))
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewAccessError(f.owner, f.fieldName, fmt.Errorf("mutator panicked: %v", r))
		}
	}()
	if err = f.set(inst, v); err != nil {
		return errors.NewAccessError(f.owner, f.fieldName, err)
	}
	return nil
}

// Coerce reads the field's column from row and converts it to the field's
// kind using the column's wire type.
func (f *FieldDescriptor) Coerce(row *storagemodels.Row) (any, error) {
	wire, ok := row.Type(f.column)
	if !ok {
		return nil, errors.NewSchemaError(f.owner, fmt.Sprintf("column %q missing from row", f.column))
	}
	raw, err := row.Value(f.column)
	if err != nil {
		return nil, err
	}
	v, err := column.Coerce(wire, raw, f.kind)
	if err != nil {
		return nil, withColumn(err, f.column)
	}
	return v, nil
}

// withColumn names the offending column on coercion errors.
func withColumn(err error, col string) error {
	var (
		mismatch    *errors.TypeMismatchError
		outOfRange  *errors.RangeError
		unsupported *errors.UnsupportedTypeError
	)
	switch {
	case stderrors.As(err, &mismatch):
		c := *mismatch
		c.Column = col
		return &c
	case stderrors.As(err, &outOfRange):
		c := *outOfRange
		c.Column = col
		return &c
	case stderrors.As(err, &unsupported):
		c := *unsupported
		c.Column = col
		return &c
	}
	return fmt.Errorf("column %q: %w", col, err)
}
