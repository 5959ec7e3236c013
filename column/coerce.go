/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package column

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/suparena/rowmapper/errors"
)

var (
	minInt32 = big.NewInt(math.MinInt32)
	maxInt32 = big.NewInt(math.MaxInt32)
)

// Coerce converts a decoded wire value of type wire into a value of kind
// target. It never truncates: narrowing that loses information fails with a
// RangeError, collection types fail with an UnsupportedTypeError and every
// other pairing without a rule fails with a TypeMismatchError.
//
// A nil value (null column) coerces to the zero value of target.
func Coerce(wire Type, v any, target Kind) (any, error) {
	if wire.IsCollection() || !wire.Valid() {
		return nil, errors.NewUnsupportedTypeError("", wire.String())
	}
	if !target.Valid() {
		return nil, mismatch(v, target)
	}
	if isNull(v) {
		return target.Zero(), nil
	}

	switch target {
	case KindUUID:
		if wire == UUID || wire == TimeUUID {
			if u, ok := v.(uuid.UUID); ok {
				return u, nil
			}
		}

	case KindText:
		if wire == Text || wire == Ascii || wire == Varchar {
			if s, ok := v.(string); ok {
				return s, nil
			}
		}

	case KindBoolean:
		if wire == Boolean {
			if b, ok := v.(bool); ok {
				return b, nil
			}
		}

	case KindInt32:
		return toInt32(wire, v)

	case KindInt64:
		return toInt64(wire, v)

	case KindVarint:
		switch x := v.(type) {
		case *big.Int:
			if wire == Varint {
				return new(big.Int).Set(x), nil
			}
		case int32:
			if wire == Int {
				return big.NewInt(int64(x)), nil
			}
		case int64:
			if wire == Bigint || wire == Counter {
				return big.NewInt(x), nil
			}
		}

	case KindDouble:
		switch x := v.(type) {
		case float64:
			if wire == Double {
				return x, nil
			}
		case float32:
			if wire == Float {
				return float64(x), nil
			}
		}

	case KindTimestamp:
		if wire == Timestamp {
			if t, ok := v.(time.Time); ok {
				return t, nil
			}
		}

	case KindBlob:
		if wire == Blob {
			if b, ok := v.([]byte); ok {
				return append([]byte(nil), b...), nil
			}
		}
	}

	return nil, mismatch(v, target)
}

func toInt32(wire Type, v any) (any, error) {
	switch x := v.(type) {
	case int32:
		if wire == Int {
			return x, nil
		}
	case int64:
		if wire == Bigint || wire == Counter {
			if x < math.MinInt32 || x > math.MaxInt32 {
				return nil, errors.NewRangeError("", wire.String(), KindInt32.String(), fmt.Sprint(x))
			}
			return int32(x), nil
		}
	case *big.Int:
		if wire == Varint {
			if x.Cmp(minInt32) < 0 || x.Cmp(maxInt32) > 0 {
				return nil, errors.NewRangeError("", wire.String(), KindInt32.String(), x.String())
			}
			return int32(x.Int64()), nil
		}
	}
	return nil, mismatch(v, KindInt32)
}

func toInt64(wire Type, v any) (any, error) {
	switch x := v.(type) {
	case int32:
		if wire == Int {
			return int64(x), nil
		}
	case int64:
		if wire == Bigint || wire == Counter {
			return x, nil
		}
	case *big.Int:
		if wire == Varint {
			if !x.IsInt64() {
				return nil, errors.NewRangeError("", wire.String(), KindInt64.String(), x.String())
			}
			return x.Int64(), nil
		}
	}
	return nil, mismatch(v, KindInt64)
}

func mismatch(v any, target Kind) error {
	return errors.NewTypeMismatchError("", fmt.Sprintf("%T", v), target.String())
}

func isNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *big.Int:
		return x == nil
	case *big.Float:
		return x == nil
	}
	return false
}
