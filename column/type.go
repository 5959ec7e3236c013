/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package column

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type is the storage type of a column as reported by the store.
type Type int

const (
	Invalid Type = iota
	Boolean
	Int
	Bigint
	Counter
	Varint
	Float
	Double
	Decimal
	Text
	Ascii
	Varchar
	UUID
	TimeUUID
	Timestamp
	Blob
	Inet
	List
	Set
	Map
)

var typeNames = [...]string{
	Invalid:   "invalid",
	Boolean:   "boolean",
	Int:       "int",
	Bigint:    "bigint",
	Counter:   "counter",
	Varint:    "varint",
	Float:     "float",
	Double:    "double",
	Decimal:   "decimal",
	Text:      "text",
	Ascii:     "ascii",
	Varchar:   "varchar",
	UUID:      "uuid",
	TimeUUID:  "timeuuid",
	Timestamp: "timestamp",
	Blob:      "blob",
	Inet:      "inet",
	List:      "list",
	Set:       "set",
	Map:       "map",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Valid reports whether t is a known wire type.
func (t Type) Valid() bool {
	return t > Invalid && int(t) < len(typeNames)
}

// IsCollection reports whether t is a set, list or map type.
func (t Type) IsCollection() bool {
	return t == List || t == Set || t == Map
}

// ParseType resolves a CQL style type name such as "varint" or "text".
// Parameterised collection names ("set<text>") resolve to their collection type.
func ParseType(name string) (Type, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if i := strings.IndexByte(n, '<'); i > 0 {
		n = n[:i]
	}
	for t, s := range typeNames {
		if Type(t) != Invalid && s == n {
			return Type(t), nil
		}
	}
	return Invalid, fmt.Errorf("unknown column type %q", name)
}

// UnmarshalText lets Type be decoded directly from configuration files.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText renders the CQL name of the type.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Kind is the declared type of a mapped field.
type Kind int

const (
	KindInvalid Kind = iota
	KindUUID
	KindText
	KindBoolean
	KindInt32
	KindInt64
	KindVarint
	KindDouble
	// KindTimestamp values are stored at millisecond precision in UTC, so a
	// loaded time.Time equals the persisted one only up to Truncate and
	// location.
	KindTimestamp
	KindBlob
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindUUID:      "uuid",
	KindText:      "text",
	KindBoolean:   "boolean",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindVarint:    "varint",
	KindDouble:    "double",
	KindTimestamp: "timestamp",
	KindBlob:      "blob",
}

var kindTypes = [...]reflect.Type{
	KindUUID:      reflect.TypeOf(uuid.UUID{}),
	KindText:      reflect.TypeOf(""),
	KindBoolean:   reflect.TypeOf(false),
	KindInt32:     reflect.TypeOf(int32(0)),
	KindInt64:     reflect.TypeOf(int64(0)),
	KindVarint:    reflect.TypeOf((*big.Int)(nil)),
	KindDouble:    reflect.TypeOf(float64(0)),
	KindTimestamp: reflect.TypeOf(time.Time{}),
	KindBlob:      reflect.TypeOf([]byte(nil)),
}

var kindWire = [...]Type{
	KindUUID:      UUID,
	KindText:      Text,
	KindBoolean:   Boolean,
	KindInt32:     Int,
	KindInt64:     Bigint,
	KindVarint:    Varint,
	KindDouble:    Double,
	KindTimestamp: Timestamp,
	KindBlob:      Blob,
}

// WireType returns the wire type that stores values of kind k without loss.
func (k Kind) WireType() Type {
	if !k.Valid() {
		return Invalid
	}
	return kindWire[k]
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is a known field kind.
func (k Kind) Valid() bool {
	return k > KindInvalid && int(k) < len(kindNames)
}

// Kinds lists every valid field kind.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames)-1)
	for k := KindUUID; int(k) < len(kindNames); k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Types lists every valid wire type.
func Types() []Type {
	types := make([]Type, 0, len(typeNames)-1)
	for t := Boolean; int(t) < len(typeNames); t++ {
		types = append(types, t)
	}
	return types
}

// GoType returns the Go type values of kind k are produced as.
func (k Kind) GoType() reflect.Type {
	if !k.Valid() {
		return nil
	}
	return kindTypes[k]
}

// Zero returns the value a null column coerces to.
func (k Kind) Zero() any {
	switch k {
	case KindUUID:
		return uuid.Nil
	case KindText:
		return ""
	case KindBoolean:
		return false
	case KindInt32:
		return int32(0)
	case KindInt64:
		return int64(0)
	case KindVarint:
		return (*big.Int)(nil)
	case KindDouble:
		return float64(0)
	case KindTimestamp:
		return time.Time{}
	case KindBlob:
		return []byte(nil)
	}
	return nil
}

// KindOf maps a Go type to the kind of fields declared with it. Platform
// sized ints map to KindInt64.
func KindOf(t reflect.Type) (Kind, bool) {
	for k := KindUUID; int(k) < len(kindTypes); k++ {
		if kindTypes[k] == t {
			return k, true
		}
	}
	switch t.Kind() {
	case reflect.String:
		return KindText, true
	case reflect.Bool:
		return KindBoolean, true
	case reflect.Int32:
		return KindInt32, true
	case reflect.Int, reflect.Int64:
		return KindInt64, true
	case reflect.Float64:
		return KindDouble, true
	}
	return KindInvalid, false
}
