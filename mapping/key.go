/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/suparena/rowmapper/column"
	"github.com/suparena/rowmapper/errors"
	"github.com/suparena/rowmapper/storagemodels"
)

// CompositeKey is an ordered, fixed-arity tuple of key components.
type CompositeKey struct {
	parts []any
}

// NewCompositeKey packs parts into a CompositeKey.
func NewCompositeKey(parts ...any) CompositeKey {
	return CompositeKey{parts: append([]any(nil), parts...)}
}

// Len returns the number of components.
func (k CompositeKey) Len() int { return len(k.parts) }

// Component returns the i'th component.
func (k CompositeKey) Component(i int) any { return k.parts[i] }

// Components returns a copy of the components.
func (k CompositeKey) Components() []any { return append([]any(nil), k.parts...) }

// Equal reports structural, order-sensitive equality.
func (k CompositeKey) Equal(other CompositeKey) bool {
	if len(k.parts) != len(other.parts) {
		return false
	}
	return canonical(k.parts) == canonical(other.parts)
}

// Hash derives a hash from the components in order.
func (k CompositeKey) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(canonical(k.parts)))
	return h.Sum64()
}

func (k CompositeKey) String() string {
	parts := make([]string, len(k.parts))
	for i, p := range k.parts {
		parts[i] = fmt.Sprint(p)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// canonical encodes components unambiguously: every component is written as
// its length-prefixed Go type and value.
func canonical(parts []any) string {
	var b strings.Builder
	for _, p := range parts {
		typ := fmt.Sprintf("%T", p)
		val := canonicalValue(p)
		b.WriteString(strconv.Itoa(len(typ)))
		b.WriteByte(':')
		b.WriteString(typ)
		b.WriteString(strconv.Itoa(len(val)))
		b.WriteByte(':')
		b.WriteString(val)
	}
	return b.String()
}

func canonicalValue(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case []byte:
		return hex.EncodeToString(x)
	case *big.Int:
		if x == nil {
			return "<nil>"
		}
		return x.String()
	}
	return fmt.Sprint(v)
}

// KeyDescriptor turns a lookup key into the equality constraints selecting
// one row.
type KeyDescriptor interface {
	// Arity is the number of key columns.
	Arity() int
	// Columns lists the key columns in declaration order.
	Columns() []string
	// Fields lists the primary field descriptors in declaration order.
	Fields() []*FieldDescriptor
	// Components checks the shape of key and returns its components
	// normalized to the key fields' kinds.
	Components(key any) ([]any, error)
	// Predicate builds the constraints for key.
	Predicate(key any) (storagemodels.Predicate, error)
	// KeyOf reads the lookup key of an instance: a bare value for single
	// keys, a CompositeKey otherwise.
	KeyOf(inst any) (any, error)
}

// KeyDescriptorFor builds the key descriptor from the primary fields among
// fields, keeping their order.
func KeyDescriptorFor(owner string, fields []*FieldDescriptor) (KeyDescriptor, error) {
	var primary []*FieldDescriptor
	for _, f := range fields {
		if f.Primary() {
			primary = append(primary, f)
		}
	}
	switch len(primary) {
	case 0:
		return nil, errors.NewNoPrimaryFieldError(owner)
	case 1:
		return &SingleKey{field: primary[0]}, nil
	default:
		return &CompositeKeyDescriptor{fields: primary}, nil
	}
}

// SingleKey is a key over one column. Lookup keys are bare values.
type SingleKey struct {
	field *FieldDescriptor
}

func (k *SingleKey) Arity() int                 { return 1 }
func (k *SingleKey) Columns() []string          { return []string{k.field.Column()} }
func (k *SingleKey) Fields() []*FieldDescriptor { return []*FieldDescriptor{k.field} }

func (k *SingleKey) Components(key any) ([]any, error) {
	if ck, ok := key.(CompositeKey); ok {
		if ck.Len() != 1 {
			return nil, errors.NewArityError(1, ck.Len())
		}
		key = ck.Component(0)
	}
	v, err := normalize(k.field, key)
	if err != nil {
		return nil, err
	}
	return []any{v}, nil
}

func (k *SingleKey) Predicate(key any) (storagemodels.Predicate, error) {
	parts, err := k.Components(key)
	if err != nil {
		return nil, err
	}
	return storagemodels.Predicate{{Column: k.field.Column(), Value: parts[0]}}, nil
}

func (k *SingleKey) KeyOf(inst any) (any, error) {
	return k.field.Get(inst)
}

// CompositeKeyDescriptor is a key over several columns. Lookup keys are
// CompositeKeys of matching arity.
type CompositeKeyDescriptor struct {
	fields []*FieldDescriptor
}

func (k *CompositeKeyDescriptor) Arity() int { return len(k.fields) }

func (k *CompositeKeyDescriptor) Columns() []string {
	cols := make([]string, len(k.fields))
	for i, f := range k.fields {
		cols[i] = f.Column()
	}
	return cols
}

func (k *CompositeKeyDescriptor) Fields() []*FieldDescriptor {
	return append([]*FieldDescriptor(nil), k.fields...)
}

func (k *CompositeKeyDescriptor) Components(key any) ([]any, error) {
	ck, ok := key.(CompositeKey)
	if !ok {
		return nil, errors.NewArityError(len(k.fields), 1)
	}
	if ck.Len() != len(k.fields) {
		return nil, errors.NewArityError(len(k.fields), ck.Len())
	}
	parts := make([]any, len(k.fields))
	for i, f := range k.fields {
		v, err := normalize(f, ck.Component(i))
		if err != nil {
			return nil, err
		}
		parts[i] = v
	}
	return parts, nil
}

func (k *CompositeKeyDescriptor) Predicate(key any) (storagemodels.Predicate, error) {
	parts, err := k.Components(key)
	if err != nil {
		return nil, err
	}
	where := make(storagemodels.Predicate, len(parts))
	for i, f := range k.fields {
		where[i] = storagemodels.Eq{Column: f.Column(), Value: parts[i]}
	}
	return where, nil
}

func (k *CompositeKeyDescriptor) KeyOf(inst any) (any, error) {
	parts := make([]any, len(k.fields))
	for i, f := range k.fields {
		v, err := f.Get(inst)
		if err != nil {
			return nil, err
		}
		parts[i] = v
	}
	return CompositeKey{parts: parts}, nil
}

// normalize converts a key component of a named or platform sized type to
// the Go type of the field's kind so equal keys encode equally.
func normalize(f *FieldDescriptor, v any) (any, error) {
	if v == nil {
		return nil, errors.NewValidationError(f.Column(), "key component is nil")
	}
	rv := reflect.ValueOf(v)
	target := f.Kind().GoType()
	if rv.Type() == target {
		return v, nil
	}
	if k, ok := column.KindOf(rv.Type()); ok && k == f.Kind() && rv.Type().ConvertibleTo(target) {
		return rv.Convert(target).Interface(), nil
	}
	return v, nil
}

// CacheKey encodes normalized key components as a comparable cache key.
func CacheKey(parts []any) string {
	return canonical(parts)
}
