/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/suparena/rowmapper/column"
	"github.com/suparena/rowmapper/errors"
	"github.com/suparena/rowmapper/registry"
)

// TagName is the struct tag read by Tags.
const TagName = "rowmap"

// Tabler is implemented by types that name their own table.
type Tabler interface {
	TableName() string
}

// Cacher is implemented by types that opt in or out of the entity cache.
type Cacher interface {
	Cached() bool
}

// Tags is the default Describer. It reads `rowmap:"name[,primary]"` tags in
// field declaration order; untagged fields are not mapped. The table comes
// from registry.RegisterTable or a TableName method, the cache flag from
// registry.RegisterCached or a Cached method. Constructors are the blank
// value constructor plus anything passed to registry.RegisterConstructor.
var Tags Describer = DescriberFunc(Describe)

// Describe discovers the Description of t from its struct tags and
// registrations. Pointer types are described by their element type.
func Describe(t reflect.Type) (*Description, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.NewSchemaError(t.String(), "only struct types can be mapped")
	}

	reg, _ := registry.Lookup(t)
	sample := reflect.New(t).Interface()

	desc := &Description{Table: reg.Table}
	if desc.Table == "" {
		if tb, ok := sample.(Tabler); ok {
			desc.Table = tb.TableName()
		}
	}
	if reg.Cached != nil {
		desc.Cached = *reg.Cached
	} else if c, ok := sample.(Cacher); ok {
		desc.Cached = c.Cached()
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup(TagName)
		if !ok {
			continue
		}
		if !f.IsExported() {
			return nil, errors.NewSchemaError(t.String(), fmt.Sprintf("field %s is tagged but unexported", f.Name))
		}
		kind, ok := column.KindOf(f.Type)
		if !ok {
			return nil, errors.NewSchemaError(t.String(), fmt.Sprintf("can't handle fields of type `%s` (%s)", f.Type, f.Name))
		}

		name, opts, _ := strings.Cut(tag, ",")
		spec := FieldSpec{
			Name:      strings.TrimSpace(name),
			FieldName: f.Name,
			Kind:      kind,
			Get:       getter(t, i, kind),
			Set:       setter(t, i, kind),
		}
		for _, opt := range strings.Split(opts, ",") {
			switch strings.TrimSpace(opt) {
			case "primary", "pk":
				spec.Primary = true
			case "readonly":
				spec.Set = nil
			}
		}
		desc.Fields = append(desc.Fields, spec)
	}

	desc.Constructors = append(desc.Constructors, Constructor{
		New: func([]any) (any, error) {
			return reflect.New(t).Interface(), nil
		},
	})
	for _, fn := range reg.Constructors {
		if ctor, ok := constructorOf(fn); ok {
			desc.Constructors = append(desc.Constructors, ctor)
		}
	}
	return desc, nil
}

// instance checks inst is a non-nil *t and returns the struct value.
func instance(t reflect.Type, inst any) (reflect.Value, error) {
	rv := reflect.ValueOf(inst)
	if !rv.IsValid() || rv.Type() != reflect.PointerTo(t) {
		return reflect.Value{}, fmt.Errorf("expected *%s, got %T", t, inst)
	}
	if rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("nil *%s", t)
	}
	return rv.Elem(), nil
}

func getter(t reflect.Type, index int, kind column.Kind) func(any) (any, error) {
	target := kind.GoType()
	return func(inst any) (any, error) {
		sv, err := instance(t, inst)
		if err != nil {
			return nil, err
		}
		fv := sv.Field(index)
		if fv.Type() != target {
			fv = fv.Convert(target)
		}
		return fv.Interface(), nil
	}
}

func setter(t reflect.Type, index int, kind column.Kind) func(any, any) error {
	return func(inst any, v any) error {
		sv, err := instance(t, inst)
		if err != nil {
			return err
		}
		fv := sv.Field(index)
		val, err := convertArg(v, fv.Type(), kind)
		if err != nil {
			return err
		}
		fv.Set(val)
		return nil
	}
}

// convertArg turns a coerced value into a reflect.Value assignable to to.
// Only conversions within the same kind are allowed.
func convertArg(v any, to reflect.Type, kind column.Kind) (reflect.Value, error) {
	val := reflect.ValueOf(v)
	if !val.IsValid() {
		return reflect.Zero(to), nil
	}
	if val.Type() == to {
		return val, nil
	}
	if k, ok := column.KindOf(val.Type()); ok && k == kind && val.Type().ConvertibleTo(to) {
		return val.Convert(to), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %T to %s", v, to)
}

// constructorOf wraps a registered constructor func. Funcs with parameters
// of unmappable types are skipped since no field list can match them.
func constructorOf(fn any) (Constructor, bool) {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()

	params := make([]column.Kind, ft.NumIn())
	for i := range params {
		k, ok := column.KindOf(ft.In(i))
		if !ok {
			return Constructor{}, false
		}
		params[i] = k
	}

	return Constructor{
		Params: params,
		New: func(args []any) (any, error) {
			if len(args) != len(params) {
				return nil, fmt.Errorf("constructor takes %d arguments, got %d", len(params), len(args))
			}
			in := make([]reflect.Value, len(args))
			for i, a := range args {
				v, err := convertArg(a, ft.In(i), params[i])
				if err != nil {
					return nil, fmt.Errorf("argument %d: %w", i, err)
				}
				in[i] = v
			}
			out := fv.Call(in)
			if len(out) == 2 && !out[1].IsNil() {
				return nil, out[1].Interface().(error)
			}
			if out[0].IsNil() {
				return nil, nil
			}
			return out[0].Interface(), nil
		},
	}, true
}
